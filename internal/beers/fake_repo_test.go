package beers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/brewery-backend/pkg/db/models"
	"github.com/angelmondragon/brewery-backend/pkg/enums"
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
)

type fakeRepo struct {
	mu        sync.Mutex
	rows      map[int64]models.Beer
	nextID    int64
	calls     []string
	counted   []Filter
	findCalls int
	deleteErr error
	deleted   chan int64
	afterFind func(id int64)
}

func newFakeRepo(seed ...models.Beer) *fakeRepo {
	r := &fakeRepo{rows: map[int64]models.Beer{}, deleted: make(chan int64, 8)}
	for _, b := range seed {
		r.nextID++
		b.ID = r.nextID
		r.rows[b.ID] = b
	}
	return r
}

func (r *fakeRepo) record(call string) {
	r.calls = append(r.calls, call)
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*models.Beer, error) {
	r.mu.Lock()
	r.findCalls++
	b, ok := r.rows[id]
	hook := r.afterFind
	r.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeRepo) FindByUPC(_ context.Context, upc string) (*models.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	for _, b := range r.sorted(Filter{}) {
		if b.UPC == upc {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListBeers(_ context.Context, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list("ListBeers", Filter{}, page), nil
}

func (r *fakeRepo) ListBeersByName(_ context.Context, name string, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list("ListBeersByName", Filter{BeerName: name}, page), nil
}

func (r *fakeRepo) ListBeersByStyle(_ context.Context, style enums.BeerStyle, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list("ListBeersByStyle", Filter{BeerStyle: style}, page), nil
}

func (r *fakeRepo) ListBeersByNameAndStyle(_ context.Context, name string, style enums.BeerStyle, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list("ListBeersByNameAndStyle", Filter{BeerName: name, BeerStyle: style}, page), nil
}

func (r *fakeRepo) CountBeers(_ context.Context, filter Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counted = append(r.counted, filter)
	return int64(len(r.sorted(filter))), nil
}

func (r *fakeRepo) CreateBeer(_ context.Context, beer *models.Beer) (*models.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().UTC()
	beer.ID = r.nextID
	beer.CreatedDate = now
	beer.LastModifiedDate = now
	r.rows[beer.ID] = *beer
	return beer, nil
}

func (r *fakeRepo) UpdateBeer(_ context.Context, beer *models.Beer) (*models.Beer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[beer.ID]; !ok {
		return nil, nil
	}
	beer.LastModifiedDate = time.Now().UTC()
	r.rows[beer.ID] = *beer
	return beer, nil
}

func (r *fakeRepo) DeleteBeer(_ context.Context, id int64) error {
	r.mu.Lock()
	err := r.deleteErr
	if err == nil {
		delete(r.rows, id)
	}
	r.mu.Unlock()
	r.deleted <- id
	return err
}

func (r *fakeRepo) list(call string, filter Filter, page pagination.PageRequest) []models.Beer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(call)
	rows := r.sorted(filter)
	start := page.Offset()
	if start >= len(rows) {
		return []models.Beer{}
	}
	end := start + page.Size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func (r *fakeRepo) sorted(filter Filter) []models.Beer {
	out := make([]models.Beer, 0, len(r.rows))
	for _, b := range r.rows {
		if filter.BeerName != "" && b.BeerName != filter.BeerName {
			continue
		}
		if filter.BeerStyle != "" && b.BeerStyle != filter.BeerStyle {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// mutate changes a stored row behind the service's back.
func (r *fakeRepo) mutate(id int64, fn func(*models.Beer)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.rows[id]
	fn(&b)
	r.rows[id] = b
}
