package beers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/brewery-backend/pkg/cache"
	"github.com/angelmondragon/brewery-backend/pkg/db/models"
	"github.com/angelmondragon/brewery-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewery-backend/pkg/errors"
	"github.com/angelmondragon/brewery-backend/pkg/logger"
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
)

func seedBeers() []models.Beer {
	return []models.Beer{
		{BeerName: "Mango Bobs", BeerStyle: enums.BeerStyleAle, UPC: "0631234200036", Price: decimal.RequireFromString("12.95"), QuantityOnHand: 122},
		{BeerName: "Galaxy Cat", BeerStyle: enums.BeerStylePaleAle, UPC: "9122089364369", Price: decimal.RequireFromString("11.95"), QuantityOnHand: 40},
		{BeerName: "Pinball Porter", BeerStyle: enums.BeerStylePorter, UPC: "0083783375213", Price: decimal.RequireFromString("9.99"), QuantityOnHand: 7},
		{BeerName: "Mango Bobs", BeerStyle: enums.BeerStyleIPA, UPC: "4666337557578", Price: decimal.RequireFromString("13.50"), QuantityOnHand: 3},
	}
}

func newTestService(t *testing.T, repo *fakeRepo) *CatalogService {
	t.Helper()
	store, err := cache.NewMemoryStore(cache.MemoryConfig{Capacity: 100, NumShards: 2, TTL: time.Minute, EvictionPercentage: 10})
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	svc, err := NewService(repo, cache.NewReadThrough(store, time.Minute, nil, nil), logger.Nop(), ServiceOptions{
		Limits:        pagination.DefaultLimits(),
		DeleteTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, logger.Nop(), ServiceOptions{}); err == nil {
		t.Fatal("expected error for missing repository")
	}
	if _, err := NewService(newFakeRepo(), nil, nil, ServiceOptions{}); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

func TestListBeersSelectsQueryByFilters(t *testing.T) {
	cases := []struct {
		name      string
		beerName  string
		beerStyle string
		wantCall  string
		wantTotal int64
	}{
		{"no filters", "", "", "ListBeers", 4},
		{"name only", "Mango Bobs", "", "ListBeersByName", 2},
		{"style only", "", "PORTER", "ListBeersByStyle", 1},
		{"name and style", "Mango Bobs", "IPA", "ListBeersByNameAndStyle", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo(seedBeers()...)
			svc := newTestService(t, repo)

			page, err := svc.ListBeers(context.Background(), ListBeersInput{
				BeerName:  tc.beerName,
				BeerStyle: tc.beerStyle,
				Page:      pagination.PageRequest{Number: 0, Size: 25},
			})
			if err != nil {
				t.Fatalf("list beers: %v", err)
			}
			if len(repo.calls) != 1 || repo.calls[0] != tc.wantCall {
				t.Fatalf("expected single %s call, got %v", tc.wantCall, repo.calls)
			}
			if page.TotalElements != tc.wantTotal {
				t.Fatalf("expected total %d scoped to the filter, got %d", tc.wantTotal, page.TotalElements)
			}
			if int64(len(page.Content)) != tc.wantTotal {
				t.Fatalf("expected %d rows, got %d", tc.wantTotal, len(page.Content))
			}
		})
	}
}

func TestListBeersPaging(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)

	page, err := svc.ListBeers(context.Background(), ListBeersInput{Page: pagination.PageRequest{Number: 1, Size: 3}})
	if err != nil {
		t.Fatalf("list beers: %v", err)
	}
	if page.PageNumber != 1 || page.PageSize != 3 {
		t.Fatalf("unexpected paging %+v", page)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", page.TotalPages)
	}
	if len(page.Content) != 1 || page.Content[0].BeerName != "Mango Bobs" {
		t.Fatalf("unexpected content %+v", page.Content)
	}
}

func TestListBeersInventoryFlag(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	ctx := context.Background()

	plain, err := svc.ListBeers(ctx, ListBeersInput{})
	if err != nil {
		t.Fatalf("list beers: %v", err)
	}
	for _, b := range plain.Content {
		if b.QuantityOnHand != nil {
			t.Fatalf("expected no inventory on %d", b.ID)
		}
	}

	withInv, err := svc.ListBeers(ctx, ListBeersInput{ShowInventoryOnHand: true})
	if err != nil {
		t.Fatalf("list beers: %v", err)
	}
	for _, b := range withInv.Content {
		if b.QuantityOnHand == nil {
			t.Fatalf("expected inventory on %d", b.ID)
		}
	}
}

func TestListBeersCachesOnlyWithoutInventory(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.ListBeers(ctx, ListBeersInput{BeerStyle: "ALE"}); err != nil {
			t.Fatalf("list beers: %v", err)
		}
	}
	if len(repo.calls) != 1 {
		t.Fatalf("expected cached second list, got calls %v", repo.calls)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.ListBeers(ctx, ListBeersInput{BeerStyle: "ALE", ShowInventoryOnHand: true}); err != nil {
			t.Fatalf("list beers: %v", err)
		}
	}
	if len(repo.calls) != 3 {
		t.Fatalf("expected inventory lists to bypass the cache, got calls %v", repo.calls)
	}
}

func TestListBeersRejectsUnknownStyle(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)

	_, err := svc.ListBeers(context.Background(), ListBeersInput{BeerStyle: "LAGERISH"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("expected no store call, got %v", repo.calls)
	}
}

func TestGetBeerByIDInventory(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	ctx := context.Background()

	with, err := svc.GetBeerByID(ctx, 1, true)
	if err != nil {
		t.Fatalf("get beer: %v", err)
	}
	if with.QuantityOnHand == nil || *with.QuantityOnHand != 122 {
		t.Fatalf("expected quantity 122, got %v", with.QuantityOnHand)
	}

	without, err := svc.GetBeerByID(ctx, 1, false)
	if err != nil {
		t.Fatalf("get beer: %v", err)
	}
	if without.QuantityOnHand != nil {
		t.Fatalf("expected no quantity, got %d", *without.QuantityOnHand)
	}
}

func TestGetBeerMissReturnsNil(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	ctx := context.Background()

	byID, err := svc.GetBeerByID(ctx, 999, false)
	if err != nil || byID != nil {
		t.Fatalf("expected nil, got %+v err=%v", byID, err)
	}
	byUPC, err := svc.GetBeerByUPC(ctx, "0000000000000")
	if err != nil || byUPC != nil {
		t.Fatalf("expected nil, got %+v err=%v", byUPC, err)
	}

	// misses are not cached
	repo.findCalls = 0
	if _, err := svc.GetBeerByID(ctx, 999, false); err != nil {
		t.Fatalf("get beer: %v", err)
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected miss to reach the store again, got %d calls", repo.findCalls)
	}
}

func TestGetBeerByIDCacheShortCircuit(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.GetBeerByID(ctx, 2, false)
	if err != nil {
		t.Fatalf("get beer: %v", err)
	}
	repo.mutate(2, func(b *models.Beer) { b.BeerName = "Galaxy Cat Reserve" })

	second, err := svc.GetBeerByID(ctx, 2, false)
	if err != nil {
		t.Fatalf("get beer: %v", err)
	}
	if second.BeerName != first.BeerName {
		t.Fatalf("expected cached name %q, got %q", first.BeerName, second.BeerName)
	}

	fresh, err := svc.GetBeerByID(ctx, 2, true)
	if err != nil {
		t.Fatalf("get beer: %v", err)
	}
	if fresh.BeerName != "Galaxy Cat Reserve" {
		t.Fatalf("expected inventory read to reflect latest state, got %q", fresh.BeerName)
	}
}

func TestGetBeerByUPCIsCached(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.GetBeerByUPC(ctx, "0083783375213")
		if err != nil {
			t.Fatalf("get by upc: %v", err)
		}
		if got.BeerName != "Pinball Porter" || got.QuantityOnHand != nil {
			t.Fatalf("unexpected dto %+v", got)
		}
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected one store read, got %d", repo.findCalls)
	}
}

func TestCreateBeerRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	input := BeerInput{
		BeerName:       "Saison Sunrise",
		BeerStyle:      "SAISON",
		UPC:            "1234567890123",
		Price:          decimal.RequireFromString("8.25"),
		QuantityOnHand: 12,
	}

	created, err := svc.CreateBeer(ctx, input)
	if err != nil {
		t.Fatalf("create beer: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := svc.GetBeerByID(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("get beer: %v", err)
	}
	if got.BeerName != input.BeerName || got.BeerStyle != enums.BeerStyleSaison || got.UPC != input.UPC || !got.Price.Equal(input.Price) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if repo.rows[created.ID].QuantityOnHand != 12 {
		t.Fatalf("expected quantity persisted")
	}
}

func TestCreateBeerRejectsUnknownStyle(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	_, err := svc.CreateBeer(context.Background(), BeerInput{BeerName: "x", BeerStyle: "CIDER"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatal("expected nothing persisted")
	}
}

func TestUpdateBeerOverwritesEditableFields(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	before := repo.rows[1]

	updated, err := svc.UpdateBeer(context.Background(), 1, BeerInput{
		BeerName:       "Mango Bobs Imperial",
		BeerStyle:      "IPA",
		UPC:            "5555555555555",
		Price:          decimal.RequireFromString("15.00"),
		QuantityOnHand: 1,
	})
	if err != nil {
		t.Fatalf("update beer: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated dto")
	}

	after := repo.rows[1]
	if after.BeerName != "Mango Bobs Imperial" || after.BeerStyle != enums.BeerStyleIPA || after.UPC != "5555555555555" {
		t.Fatalf("editable fields not applied: %+v", after)
	}
	if !after.Price.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("price not applied: %s", after.Price)
	}
	if after.QuantityOnHand != before.QuantityOnHand {
		t.Fatalf("expected quantity %d kept, got %d", before.QuantityOnHand, after.QuantityOnHand)
	}
	if !after.CreatedDate.Equal(before.CreatedDate) {
		t.Fatalf("expected creation time kept")
	}
}

func TestUpdateBeerMissingID(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)

	got, err := svc.UpdateBeer(context.Background(), 404, BeerInput{BeerName: "x", BeerStyle: "ALE"})
	if err != nil || got != nil {
		t.Fatalf("expected nil result without error, got %+v err=%v", got, err)
	}
}

func TestUpdateBeerDeletedConcurrently(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	repo.afterFind = func(id int64) {
		repo.mu.Lock()
		delete(repo.rows, id)
		repo.mu.Unlock()
	}

	got, err := svc.UpdateBeer(context.Background(), 1, BeerInput{BeerName: "patched", BeerStyle: "ALE", UPC: "1", Price: decimal.RequireFromString("1.00")})
	if err != nil || got != nil {
		t.Fatalf("expected nil result without error, got %+v err=%v", got, err)
	}
	if _, ok := repo.rows[1]; ok {
		t.Fatal("deleted row was re-created")
	}
}

func TestUpdateBeerInvalidStyleBeforeMutation(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)
	before := repo.rows[1]

	_, err := svc.UpdateBeer(context.Background(), 1, BeerInput{BeerName: "changed", BeerStyle: "nope"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.rows[1].BeerName != before.BeerName {
		t.Fatal("expected record untouched")
	}
	if repo.findCalls != 0 {
		t.Fatalf("expected style check before any store read, got %d", repo.findCalls)
	}
}

func TestDeleteBeerByIDIsDetached(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	svc.DeleteBeerByID(ctx, 3)
	cancel()

	select {
	case id := <-repo.deleted:
		if id != 3 {
			t.Fatalf("expected delete of 3, got %d", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("delete did not run")
	}
	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if err := svc.Wait(waitCtx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if _, ok := repo.rows[3]; ok {
		t.Fatal("expected row removed after the caller context was cancelled")
	}
}

func TestDeleteBeerByIDAfterWaitRunsInline(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)

	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	svc.DeleteBeerByID(context.Background(), 2)

	select {
	case id := <-repo.deleted:
		if id != 2 {
			t.Fatalf("expected delete of 2, got %d", id)
		}
	default:
		t.Fatal("expected delete to have completed before returning")
	}
}

func TestDeleteBeerByIDConcurrentWithWait(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	repo.deleted = make(chan int64, 64)
	svc := newTestService(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			svc.DeleteBeerByID(context.Background(), id)
		}(int64(i%4 + 1))
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Wait(waitCtx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	wg.Wait()
	if err := svc.Wait(waitCtx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if len(repo.deleted) != 32 {
		t.Fatalf("expected 32 deletes, got %d", len(repo.deleted))
	}
}

func TestDeleteBeerByIDSwallowsFailure(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	repo.deleteErr = errors.New("db unavailable")
	svc := newTestService(t, repo)

	svc.DeleteBeerByID(context.Background(), 1)
	<-repo.deleted
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestDeleteBeerByIDAndWaitReportsError(t *testing.T) {
	repo := newFakeRepo(seedBeers()...)
	svc := newTestService(t, repo)

	if err := svc.DeleteBeerByIDAndWait(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	<-repo.deleted

	repo.deleteErr = errors.New("db unavailable")
	err := svc.DeleteBeerByIDAndWait(context.Background(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
