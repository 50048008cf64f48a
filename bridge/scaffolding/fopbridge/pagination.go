// Package fopbridge provides support for query paging with unified response types.
package fopbridge

import (
	"encoding/json"

	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
)

// PageResponse is the envelope for one page of records. PageCount is the
// number of items on this page, TotalCount the number matching the query.
type PageResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	PageCount  int `json:"pageCount"`
	TotalCount int `json:"totalCount"`
}

// NewPageResponse converts a core result into the wire envelope.
func NewPageResponse[T, U any](res fop.Result[U], marshal func(U) T) PageResponse[T] {
	items := make([]T, len(res.Items))
	for i, item := range res.Items {
		items[i] = marshal(item)
	}

	return PageResponse[T]{
		Items:      items,
		Page:       res.Page,
		PageSize:   res.PageSize,
		PageCount:  len(items),
		TotalCount: res.TotalCount,
	}
}

// Encode implements the encoder interface.
func (p PageResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}
