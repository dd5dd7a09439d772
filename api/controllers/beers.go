package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/brewery-backend/api/responses"
	"github.com/angelmondragon/brewery-backend/api/validators"
	"github.com/angelmondragon/brewery-backend/internal/beers"
	pkgerrors "github.com/angelmondragon/brewery-backend/pkg/errors"
	"github.com/angelmondragon/brewery-backend/pkg/logger"
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
)

// BeerBasePath prefixes the Location header of created beers.
const BeerBasePath = "/api/v2/beer"

const maxNameLen = 100

// beerRequest accepts a full BeerDTO payload; id and timestamps are ignored.
type beerRequest struct {
	ID               *int64          `json:"id,omitempty"`
	BeerName         string          `json:"beerName" validate:"required,max=100"`
	BeerStyle        string          `json:"beerStyle" validate:"required"`
	UPC              string          `json:"upc" validate:"required,max=64"`
	Price            decimal.Decimal `json:"price"`
	QuantityOnHand   *int            `json:"quantityOnHand,omitempty" validate:"omitempty,min=0"`
	CreatedDate      *time.Time      `json:"createdDate,omitempty"`
	LastModifiedDate *time.Time      `json:"lastModifiedDate,omitempty"`
}

func (req beerRequest) toInput() (beers.BeerInput, error) {
	if !req.Price.IsPositive() {
		return beers.BeerInput{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must be greater than 0"})
	}
	input := beers.BeerInput{
		BeerName:  validators.SanitizeString(req.BeerName, maxNameLen),
		BeerStyle: strings.TrimSpace(req.BeerStyle),
		UPC:       strings.TrimSpace(req.UPC),
		Price:     req.Price,
	}
	if req.QuantityOnHand != nil {
		input.QuantityOnHand = *req.QuantityOnHand
	}
	return input, nil
}

// ListBeers handles GET /api/v2/beer.
func ListBeers(svc beers.Service, logg *logger.Logger, limits pagination.Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "beer service unavailable"))
			return
		}

		pageNumber, err := validators.ParseQueryInt(r, "pageNumber", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "pageSize", limits.DefaultSize, 1, limits.MaxSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		showInventory, err := validators.ParseQueryBool(r, "showInventoryOnHand", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		beerName, err := validators.ParseQueryString(r, "beerName", maxNameLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		page, err := svc.ListBeers(r.Context(), beers.ListBeersInput{
			BeerName:            beerName,
			BeerStyle:           strings.TrimSpace(query.Get("beerStyle")),
			Page:                pagination.PageRequest{Number: pageNumber, Size: pageSize},
			ShowInventoryOnHand: showInventory,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, page)
	}
}

// GetBeerByID handles GET /api/v2/beer/{beerId}.
func GetBeerByID(svc beers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "beer service unavailable"))
			return
		}

		id, err := validators.ParsePathInt64(chi.URLParam(r, "beerId"), "beerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		showInventory, err := validators.ParseQueryBool(r, "showInventory", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		beer, err := svc.GetBeerByID(r.Context(), id, showInventory)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if beer == nil {
			responses.WriteNotFound(w)
			return
		}
		responses.WriteJSON(w, http.StatusOK, beer)
	}
}

// GetBeerByUPC handles GET /api/v2/beerUpc/{upc}.
func GetBeerByUPC(svc beers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "beer service unavailable"))
			return
		}

		upc := strings.TrimSpace(chi.URLParam(r, "upc"))
		if upc == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "upc is required"))
			return
		}

		beer, err := svc.GetBeerByUPC(r.Context(), upc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if beer == nil {
			responses.WriteNotFound(w)
			return
		}
		responses.WriteJSON(w, http.StatusOK, beer)
	}
}

// CreateBeer handles POST /api/v2/beer.
func CreateBeer(svc beers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "beer service unavailable"))
			return
		}

		var payload beerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		beer, err := svc.CreateBeer(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Location", BeerBasePath+"/"+strconv.FormatInt(beer.ID, 10))
		responses.WriteJSON(w, http.StatusCreated, beer)
	}
}

// UpdateBeer handles PUT /api/v2/beer/{beerId}.
func UpdateBeer(svc beers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "beer service unavailable"))
			return
		}

		id, err := validators.ParsePathInt64(chi.URLParam(r, "beerId"), "beerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload beerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateBeer(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if updated == nil {
			responses.WriteNotFound(w)
			return
		}
		responses.WriteNoContent(w)
	}
}

// DeleteBeer handles DELETE /api/v2/beer/{beerId}. The delete is detached
// unless wait=true is passed.
func DeleteBeer(svc beers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "beer service unavailable"))
			return
		}

		id, err := validators.ParsePathInt64(chi.URLParam(r, "beerId"), "beerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wait, err := validators.ParseQueryBool(r, "wait", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !wait {
			svc.DeleteBeerByID(r.Context(), id)
			responses.WriteNoContent(w)
			return
		}
		if err := svc.DeleteBeerByIDAndWait(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
