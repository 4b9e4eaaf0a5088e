package api

import (
	"github.com/rbetancur/amg-desk-ai/internal/domain/request"
)

// CreateRequest is the POST /api/requests payload. Field names follow
// the backend contract.
type CreateRequest struct {
	Category    int    `json:"codcategoria" validate:"required,oneof=300 400"`
	Description string `json:"description" validate:"required,max=4000"`
}

// Page is the pagination block returned alongside a request listing.
type Page struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ListResult is a fully-defaulted page of requests. Items is never nil
// and Pagination is always populated, even when the server omitted them.
type ListResult struct {
	Items      []request.Request `json:"items"`
	Pagination Page              `json:"pagination"`
}

// listWire is the raw response shape; optional blocks stay pointers so
// absence can be told apart from zero values.
type listWire struct {
	Items      []request.Request `json:"items"`
	Pagination *pageWire         `json:"pagination"`
}

type pageWire struct {
	Total   *int  `json:"total"`
	Limit   *int  `json:"limit"`
	Offset  *int  `json:"offset"`
	HasMore *bool `json:"has_more"`
}

// normalize fills any missing pagination fields with the values the
// caller asked for, so consumers always see a well-formed page shape.
func (w *listWire) normalize(limit, offset int) *ListResult {
	result := &ListResult{
		Items: w.Items,
		Pagination: Page{
			Total:   0,
			Limit:   limit,
			Offset:  offset,
			HasMore: false,
		},
	}
	if result.Items == nil {
		result.Items = []request.Request{}
	}
	if p := w.Pagination; p != nil {
		if p.Total != nil {
			result.Pagination.Total = *p.Total
		}
		if p.Limit != nil {
			result.Pagination.Limit = *p.Limit
		}
		if p.Offset != nil {
			result.Pagination.Offset = *p.Offset
		}
		if p.HasMore != nil {
			result.Pagination.HasMore = *p.HasMore
		}
	}
	return result
}
