package fop_test

import (
	"math"
	"testing"

	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
)

func TestNewPageOffset(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
		wantOffset         int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"negative", -3, -1, 1, 20, 0},
		{"capped", 2, 500, 2, 100, 100},
		{"third page", 3, 10, 3, 10, 20},
		{"max exactly", 1, 100, 1, 100, 0},
		{"huge page capped", math.MaxInt, 64, fop.MaxPage, 64, (fop.MaxPage - 1) * 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fop.NewPageOffset(tt.page, tt.size)
			if p.Page != tt.wantPage || p.PageSize != tt.wantSize {
				t.Fatalf("got %+v, want page %d size %d", p, tt.wantPage, tt.wantSize)
			}
			if p.Offset() != tt.wantOffset {
				t.Fatalf("offset = %d, want %d", p.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestParsePageOffset(t *testing.T) {
	p := fop.ParsePageOffset("abc", "")
	if p.Page != 1 || p.PageSize != 20 {
		t.Fatalf("got %+v", p)
	}
	p = fop.ParsePageOffset("288230376151711745", "64")
	if p.Page != fop.MaxPage || p.Offset() < 0 {
		t.Fatalf("huge page not capped: %+v offset %d", p, p.Offset())
	}
	p = fop.ParsePageOffset("4", "25")
	if p.Page != 4 || p.PageSize != 25 || p.Offset() != 75 {
		t.Fatalf("got %+v", p)
	}
}

func TestNewResultNeverNilItems(t *testing.T) {
	r := fop.NewResult[string](nil, fop.NewPageOffset(1, 10), 0)
	if r.Items == nil {
		t.Fatal("items should be an empty slice")
	}
}
