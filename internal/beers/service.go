package beers

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/angelmondragon/brewery-backend/pkg/cache"
	"github.com/angelmondragon/brewery-backend/pkg/db/models"
	"github.com/angelmondragon/brewery-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewery-backend/pkg/errors"
	"github.com/angelmondragon/brewery-backend/pkg/logger"
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
)

// Cache names used by the catalog read paths.
const (
	BeerListCache = "beerListCache"
	BeerCache     = "beerCache"
	BeerUpcCache  = "beerUpcCache"
)

const defaultDeleteTimeout = 10 * time.Second

// Service exposes catalog lookups and mutations.
type Service interface {
	ListBeers(ctx context.Context, input ListBeersInput) (*BeerPagedList, error)
	GetBeerByID(ctx context.Context, id int64, showInventory bool) (*BeerDTO, error)
	GetBeerByUPC(ctx context.Context, upc string) (*BeerDTO, error)
	CreateBeer(ctx context.Context, input BeerInput) (*BeerDTO, error)
	UpdateBeer(ctx context.Context, id int64, input BeerInput) (*BeerDTO, error)
	DeleteBeerByID(ctx context.Context, id int64)
	DeleteBeerByIDAndWait(ctx context.Context, id int64) error
}

var _ Service = (*CatalogService)(nil)

// ServiceOptions tunes paging limits and the detached delete.
type ServiceOptions struct {
	Limits        pagination.Limits
	DeleteTimeout time.Duration
}

// CatalogService is the Service implementation backed by a BeerRepository.
type CatalogService struct {
	repo          BeerRepository
	cache         *cache.ReadThrough
	logg          *logger.Logger
	limits        pagination.Limits
	deleteTimeout time.Duration

	mu       sync.Mutex
	stopping bool
	pending  sync.WaitGroup
}

// NewService constructs the catalog service. A nil read-through disables caching.
func NewService(repo BeerRepository, rt *cache.ReadThrough, logg *logger.Logger, opts ServiceOptions) (*CatalogService, error) {
	if repo == nil {
		return nil, fmt.Errorf("beer repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.DeleteTimeout <= 0 {
		opts.DeleteTimeout = defaultDeleteTimeout
	}
	return &CatalogService{
		repo:          repo,
		cache:         rt,
		logg:          logg,
		limits:        opts.Limits,
		deleteTimeout: opts.DeleteTimeout,
	}, nil
}

// ListBeers runs exactly one of the four list queries based on which filters are set.
// Results are cached only when inventory is not requested.
func (s *CatalogService) ListBeers(ctx context.Context, input ListBeersInput) (*BeerPagedList, error) {
	var style enums.BeerStyle
	if input.BeerStyle != "" {
		parsed, err := parseStyle(input.BeerStyle)
		if err != nil {
			return nil, err
		}
		style = parsed
	}
	page := s.limits.Normalize(input.Page)
	key := cache.Key(input.BeerName, style, page.Number, page.Size, input.ShowInventoryOnHand)

	return cache.Fetch(ctx, s.cache, BeerListCache, key, !input.ShowInventoryOnHand, func(ctx context.Context) (*BeerPagedList, error) {
		return s.listFromStore(ctx, Filter{BeerName: input.BeerName, BeerStyle: style}, page, input.ShowInventoryOnHand)
	})
}

func (s *CatalogService) listFromStore(ctx context.Context, filter Filter, page pagination.PageRequest, withInventory bool) (*BeerPagedList, error) {
	rows, err := s.selectList(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list beers")
	}
	total, err := s.repo.CountBeers(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count beers")
	}
	return newBeerPagedList(newBeerDTOs(rows, withInventory), page, total), nil
}

func (s *CatalogService) selectList(ctx context.Context, filter Filter, page pagination.PageRequest) ([]models.Beer, error) {
	switch {
	case filter.BeerName != "" && filter.BeerStyle != "":
		return s.repo.ListBeersByNameAndStyle(ctx, filter.BeerName, filter.BeerStyle, page)
	case filter.BeerName != "":
		return s.repo.ListBeersByName(ctx, filter.BeerName, page)
	case filter.BeerStyle != "":
		return s.repo.ListBeersByStyle(ctx, filter.BeerStyle, page)
	default:
		return s.repo.ListBeers(ctx, page)
	}
}

// GetBeerByID returns nil when the id does not exist.
func (s *CatalogService) GetBeerByID(ctx context.Context, id int64, showInventory bool) (*BeerDTO, error) {
	key := strconv.FormatInt(id, 10)
	return cache.Fetch(ctx, s.cache, BeerCache, key, !showInventory, func(ctx context.Context) (*BeerDTO, error) {
		beer, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find beer")
		}
		if showInventory {
			return NewBeerDTOWithInventory(beer), nil
		}
		return NewBeerDTO(beer), nil
	})
}

// GetBeerByUPC returns nil when no beer carries the code. Always cached.
func (s *CatalogService) GetBeerByUPC(ctx context.Context, upc string) (*BeerDTO, error) {
	return cache.Fetch(ctx, s.cache, BeerUpcCache, upc, true, func(ctx context.Context) (*BeerDTO, error) {
		beer, err := s.repo.FindByUPC(ctx, upc)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find beer by upc")
		}
		return NewBeerDTO(beer), nil
	})
}

func (s *CatalogService) CreateBeer(ctx context.Context, input BeerInput) (*BeerDTO, error) {
	style, err := parseStyle(input.BeerStyle)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateBeer(ctx, input.toModel(style))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert beer")
	}
	return NewBeerDTO(created), nil
}

// UpdateBeer overwrites name, style, price and UPC. Quantity and creation time are kept.
// Cached entries for the beer are left to expire.
func (s *CatalogService) UpdateBeer(ctx context.Context, id int64, input BeerInput) (*BeerDTO, error) {
	style, err := parseStyle(input.BeerStyle)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find beer")
	}
	if existing == nil {
		return nil, nil
	}

	existing.BeerName = input.BeerName
	existing.BeerStyle = style
	existing.Price = input.Price
	existing.UPC = input.UPC

	updated, err := s.repo.UpdateBeer(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update beer")
	}
	if updated == nil {
		return nil, nil
	}
	return NewBeerDTO(updated), nil
}

// DeleteBeerByID schedules the delete and returns immediately. The delete
// outlives the request; a failure is logged and never reported. Once Wait has
// been called the delete runs inline instead.
func (s *CatalogService) DeleteBeerByID(ctx context.Context, id int64) {
	detached := context.WithoutCancel(ctx)

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		s.runDelete(detached, id)
		return
	}
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		s.runDelete(detached, id)
	}()
}

func (s *CatalogService) runDelete(ctx context.Context, id int64) {
	ctx, cancel := context.WithTimeout(ctx, s.deleteTimeout)
	defer cancel()

	ctx = s.logg.WithBeerID(ctx, id)
	if err := s.repo.DeleteBeer(ctx, id); err != nil {
		s.logg.Error(ctx, "beer.delete_failed", err)
		return
	}
	s.logg.Info(ctx, "beer.deleted")
}

// DeleteBeerByIDAndWait deletes synchronously and reports the store error.
func (s *CatalogService) DeleteBeerByIDAndWait(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBeer(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete beer")
	}
	return nil
}

// Wait stops scheduling detached deletes and blocks until the scheduled ones
// finish or ctx is done.
func (s *CatalogService) Wait(ctx context.Context) error {
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func parseStyle(label string) (enums.BeerStyle, error) {
	style, err := enums.ParseBeerStyle(label)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid beerStyle").
			WithDetails(map[string]any{"beerStyle": label})
	}
	return style, nil
}
