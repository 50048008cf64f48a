package tasksrepo

import (
	"strings"
	"time"

	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
)

// QueryFilter holds the available fields a task query can be filtered on.
// All fields are optional and combined with AND.
type QueryFilter struct {
	IsCompleted *bool
	// DueBefore and DueAfter are strict and never match tasks without a due date.
	DueBefore     *time.Time
	DueAfter      *time.Time
	CreatedBefore *time.Time
	CreatedAfter  *time.Time
	// Search matches title or description, case-insensitively and literally.
	Search *string
	// IncludeDeleted disables the default is_deleted = false predicate.
	IncludeDeleted bool
}

// SearchTerm returns the trimmed search text and whether it is usable.
func (f QueryFilter) SearchTerm() (string, bool) {
	if f.Search == nil {
		return "", false
	}
	term := strings.TrimSpace(*f.Search)
	return term, term != ""
}

// SortKey names a field tasks can be ordered by.
type SortKey string

// Set of fields that can be used for ordering.
const (
	SortCreated   SortKey = "created"
	SortUpdated   SortKey = "updated"
	SortCompleted SortKey = "completed"
	SortDue       SortKey = "due"
	SortTitle     SortKey = "title"
)

// Column names shared by every store.
const (
	ColumnTaskID      = "task_id"
	ColumnCreatedAt   = "created_at"
	ColumnUpdatedAt   = "updated_at"
	ColumnCompletedAt = "completed_at"
	ColumnDueDate     = "due_date"
	ColumnTitle       = "title"
)

// SortColumn maps a SortKey to its column.
type SortColumn struct {
	Column   string
	Nullable bool
}

// SortColumns is the static key to column table. Stores validate it once at
// package initialization.
var SortColumns = map[SortKey]SortColumn{
	SortCreated:   {Column: ColumnCreatedAt},
	SortUpdated:   {Column: ColumnUpdatedAt},
	SortCompleted: {Column: ColumnCompletedAt, Nullable: true},
	SortDue:       {Column: ColumnDueDate, Nullable: true},
	SortTitle:     {Column: ColumnTitle},
}

// SortTerm is one key of a parsed sort expression.
type SortTerm struct {
	Key  SortKey
	Desc bool
}

// ParseSort parses a sort expression such as "-due;title". Tokens are separated by ';',
// trimmed, and may carry a leading '-' for descending order. Unknown and
// repeated keys are dropped.
func ParseSort(expr string) []SortTerm {
	var terms []SortTerm
	seen := make(map[SortKey]bool)

	for _, tok := range strings.Split(expr, ";") {
		tok = strings.TrimSpace(tok)
		desc := strings.HasPrefix(tok, "-")
		key := SortKey(strings.ToLower(strings.TrimPrefix(tok, "-")))

		if _, ok := SortColumns[key]; !ok || seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, SortTerm{Key: key, Desc: desc})
	}

	return terms
}

// OrderTerm is a column level ORDER BY term.
type OrderTerm struct {
	Column   string
	Desc     bool
	Nullable bool
}

// OrderTerms expands sort keys into the column terms a store applies.
// Sorting by created also orders by task id in the same direction. Any other
// non-empty sort ends with task id ascending so pages are deterministic, and
// an empty sort orders by task id alone.
func OrderTerms(terms []SortTerm) []OrderTerm {
	out := make([]OrderTerm, 0, len(terms)+1)
	tieBroken := false

	for _, t := range terms {
		col, ok := SortColumns[t.Key]
		if !ok {
			continue
		}
		out = append(out, OrderTerm{Column: col.Column, Desc: t.Desc, Nullable: col.Nullable})
		if t.Key == SortCreated && !tieBroken {
			out = append(out, OrderTerm{Column: ColumnTaskID, Desc: t.Desc})
			tieBroken = true
		}
	}

	if !tieBroken {
		out = append(out, OrderTerm{Column: ColumnTaskID})
	}

	return out
}

// ListQuery bundles everything a list call needs besides the owner.
type ListQuery struct {
	Filter QueryFilter
	Sort   []SortTerm
	Page   fop.PageOffset
}
