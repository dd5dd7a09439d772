package beers

import (
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
)

// ListBeersInput captures the list filters and paging for the browse endpoint.
type ListBeersInput struct {
	BeerName            string
	BeerStyle           string
	Page                pagination.PageRequest
	ShowInventoryOnHand bool
}

// BeerPagedList is one page of beers plus the paging totals.
type BeerPagedList struct {
	Content       []BeerDTO `json:"content"`
	PageNumber    int       `json:"pageNumber"`
	PageSize      int       `json:"pageSize"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

func newBeerPagedList(content []BeerDTO, page pagination.PageRequest, total int64) *BeerPagedList {
	if content == nil {
		content = []BeerDTO{}
	}
	return &BeerPagedList{
		Content:       content,
		PageNumber:    page.Number,
		PageSize:      page.Size,
		TotalElements: total,
		TotalPages:    pagination.TotalPages(total, page.Size),
	}
}
