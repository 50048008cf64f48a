// Package fop holds the filter, order and page primitives shared by repositories.
package fop

import (
	"math"
	"strconv"
)

// Page bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*MaxPageSize within an int.
	MaxPage = math.MaxInt / MaxPageSize
)

// PageOffset is a normalized page request.
type PageOffset struct {
	Page     int
	PageSize int
}

// NewPageOffset normalizes page and size: non-positive values fall back to
// the defaults, sizes above MaxPageSize and pages above MaxPage are capped.
// It never fails.
func NewPageOffset(page, size int) PageOffset {
	if page <= 0 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageOffset{Page: page, PageSize: size}
}

// ParsePageOffset normalizes raw query string values. Unparseable values are
// treated as absent.
func ParsePageOffset(page, size string) PageOffset {
	p, err := strconv.Atoi(page)
	if err != nil {
		p = 0
	}
	s, err := strconv.Atoi(size)
	if err != nil {
		s = 0
	}
	return NewPageOffset(p, s)
}

// Offset returns the number of rows to skip.
func (p PageOffset) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the number of rows to return.
func (p PageOffset) Limit() int {
	return p.PageSize
}

// Result is one page of records plus the total matching the filter.
type Result[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalCount int
}

// NewResult builds a Result for the given page.
func NewResult[T any](items []T, page PageOffset, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Page: page.Page, PageSize: page.PageSize, TotalCount: total}
}
