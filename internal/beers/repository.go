package beers

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/brewery-backend/pkg/db"
	"github.com/angelmondragon/brewery-backend/pkg/db/models"
	"github.com/angelmondragon/brewery-backend/pkg/enums"
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
)

// Filter narrows list and count queries. Empty fields match everything.
type Filter struct {
	BeerName  string
	BeerStyle enums.BeerStyle
}

// BeerRepository defines catalog persistence.
type BeerRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Beer, error)
	FindByUPC(ctx context.Context, upc string) (*models.Beer, error)
	ListBeers(ctx context.Context, page pagination.PageRequest) ([]models.Beer, error)
	ListBeersByName(ctx context.Context, name string, page pagination.PageRequest) ([]models.Beer, error)
	ListBeersByStyle(ctx context.Context, style enums.BeerStyle, page pagination.PageRequest) ([]models.Beer, error)
	ListBeersByNameAndStyle(ctx context.Context, name string, style enums.BeerStyle, page pagination.PageRequest) ([]models.Beer, error)
	CountBeers(ctx context.Context, filter Filter) (int64, error)
	CreateBeer(ctx context.Context, beer *models.Beer) (*models.Beer, error)
	UpdateBeer(ctx context.Context, beer *models.Beer) (*models.Beer, error)
	DeleteBeer(ctx context.Context, id int64) error
}

// Repository is the gorm-backed BeerRepository.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// FindByID returns nil without error when no row matches.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Beer, error) {
	var beer models.Beer
	if err := r.db.WithContext(ctx).First(&beer, "id = ?", id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &beer, nil
}

// FindByUPC returns the lowest-id row carrying upc, or nil.
func (r *Repository) FindByUPC(ctx context.Context, upc string) (*models.Beer, error) {
	var beer models.Beer
	if err := r.db.WithContext(ctx).Where("upc = ?", upc).Order("id ASC").First(&beer).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &beer, nil
}

func (r *Repository) ListBeers(ctx context.Context, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list(ctx, Filter{}, page)
}

func (r *Repository) ListBeersByName(ctx context.Context, name string, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list(ctx, Filter{BeerName: name}, page)
}

func (r *Repository) ListBeersByStyle(ctx context.Context, style enums.BeerStyle, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list(ctx, Filter{BeerStyle: style}, page)
}

func (r *Repository) ListBeersByNameAndStyle(ctx context.Context, name string, style enums.BeerStyle, page pagination.PageRequest) ([]models.Beer, error) {
	return r.list(ctx, Filter{BeerName: name, BeerStyle: style}, page)
}

// CountBeers counts rows matching the same filter a list call would use.
func (r *Repository) CountBeers(ctx context.Context, filter Filter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Model(&models.Beer{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CreateBeer inserts a new row; id and timestamps are populated on the passed record.
func (r *Repository) CreateBeer(ctx context.Context, beer *models.Beer) (*models.Beer, error) {
	if err := r.db.WithContext(ctx).Create(beer).Error; err != nil {
		return nil, err
	}
	return beer, nil
}

// UpdateBeer writes the editable columns of an existing row and returns it as stored.
// A row that no longer exists is reported as nil; it is never re-inserted.
func (r *Repository) UpdateBeer(ctx context.Context, beer *models.Beer) (*models.Beer, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Beer{ID: beer.ID}).
		Select("beer_name", "beer_style", "upc", "price", "last_modified_date").
		Updates(beer)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, beer.ID)
}

// DeleteBeer removes the row; deleting a missing id is not an error.
func (r *Repository) DeleteBeer(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Beer{}, "id = ?", id).Error
}

func (r *Repository) list(ctx context.Context, filter Filter, page pagination.PageRequest) ([]models.Beer, error) {
	var rows []models.Beer
	err := r.filtered(ctx, filter).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) filtered(ctx context.Context, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx)
	if filter.BeerName != "" {
		query = query.Where("beer_name = ?", filter.BeerName)
	}
	if filter.BeerStyle != "" {
		query = query.Where("beer_style = ?", filter.BeerStyle)
	}
	return query
}
