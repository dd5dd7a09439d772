package beers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/brewery-backend/pkg/db/models"
	"github.com/angelmondragon/brewery-backend/pkg/enums"
)

// BeerDTO is the beer payload returned to clients.
type BeerDTO struct {
	ID               int64           `json:"id"`
	BeerName         string          `json:"beerName"`
	BeerStyle        enums.BeerStyle `json:"beerStyle"`
	UPC              string          `json:"upc"`
	Price            decimal.Decimal `json:"price"`
	QuantityOnHand   *int            `json:"quantityOnHand,omitempty"`
	CreatedDate      time.Time       `json:"createdDate"`
	LastModifiedDate time.Time       `json:"lastModifiedDate"`
}

// BeerInput is the client-supplied part of a beer used by create and update.
type BeerInput struct {
	BeerName       string
	BeerStyle      string
	UPC            string
	Price          decimal.Decimal
	QuantityOnHand int
}

// NewBeerDTO projects a record without quantity on hand.
func NewBeerDTO(beer *models.Beer) *BeerDTO {
	if beer == nil {
		return nil
	}
	return &BeerDTO{
		ID:               beer.ID,
		BeerName:         beer.BeerName,
		BeerStyle:        beer.BeerStyle,
		UPC:              beer.UPC,
		Price:            beer.Price,
		CreatedDate:      beer.CreatedDate,
		LastModifiedDate: beer.LastModifiedDate,
	}
}

// NewBeerDTOWithInventory projects a record including quantity on hand.
func NewBeerDTOWithInventory(beer *models.Beer) *BeerDTO {
	dto := NewBeerDTO(beer)
	if dto == nil {
		return nil
	}
	qty := beer.QuantityOnHand
	dto.QuantityOnHand = &qty
	return dto
}

func newBeerDTOs(rows []models.Beer, withInventory bool) []BeerDTO {
	out := make([]BeerDTO, 0, len(rows))
	for i := range rows {
		if withInventory {
			out = append(out, *NewBeerDTOWithInventory(&rows[i]))
			continue
		}
		out = append(out, *NewBeerDTO(&rows[i]))
	}
	return out
}

// toModel assumes the style was validated by the caller.
func (in BeerInput) toModel(style enums.BeerStyle) *models.Beer {
	return &models.Beer{
		BeerName:       in.BeerName,
		BeerStyle:      style,
		UPC:            in.UPC,
		Price:          in.Price,
		QuantityOnHand: in.QuantityOnHand,
	}
}
