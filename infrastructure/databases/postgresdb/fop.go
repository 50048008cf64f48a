package postgresdb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// OrderField is a single ORDER BY term.
type OrderField struct {
	Column    string
	Direction string
	// Nullable columns get an explicit NULLS placement: last when ascending,
	// first when descending.
	Nullable bool
}

// AddOrderByClause writes ORDER BY for the given terms in order. Every column
// passes QuoteIdentifier and every direction must be ASC or DESC.
func AddOrderByClause(buf *bytes.Buffer, fields []OrderField) error {
	if len(fields) == 0 {
		return nil
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted, err := QuoteIdentifier(f.Column)
		if err != nil {
			return fmt.Errorf("invalid order field name: %w", err)
		}

		dir := strings.ToUpper(f.Direction)
		if dir != ASC && dir != DESC {
			return fmt.Errorf("invalid order direction %q", f.Direction)
		}

		term := quoted + " " + dir
		if f.Nullable {
			if dir == ASC {
				term += " NULLS LAST"
			} else {
				term += " NULLS FIRST"
			}
		}
		terms = append(terms, term)
	}

	buf.WriteString(" ORDER BY ")
	buf.WriteString(strings.Join(terms, ", "))
	return nil
}

// AddLimitOffsetClause adds LIMIT and OFFSET to the query buffer.
func AddLimitOffsetClause(limit, offset int, data pgx.NamedArgs, buf *bytes.Buffer) {
	buf.WriteString(" LIMIT @limit OFFSET @offset")
	data["limit"] = limit
	data["offset"] = offset
}

// WhereBuilder accumulates AND-ed predicates for a query.
type WhereBuilder struct {
	clauses []string
}

// And appends a predicate.
func (w *WhereBuilder) And(clause string) {
	w.clauses = append(w.clauses, clause)
}

// WriteTo writes the WHERE clause, if any predicates were added.
func (w *WhereBuilder) WriteTo(buf *bytes.Buffer) {
	if len(w.clauses) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	buf.WriteString(strings.Join(w.clauses, " AND "))
}
