package postgresdb_test

import (
	"bytes"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/tasktracker/infrastructure/databases/postgresdb"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "due_date", want: `"due_date"`},
		{in: "public.tasks", want: `"public"."tasks"`},
		{in: "tasks t", want: `"tasks" "t"`},
		{in: "due_date; DROP TABLE tasks", wantErr: true},
		{in: "1column", wantErr: true},
		{in: "a.b.c", wantErr: true},
		{in: `"quoted"`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := postgresdb.QuoteIdentifier(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("QuoteIdentifier(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("QuoteIdentifier(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := postgresdb.EscapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("EscapeLike = %s", got)
	}
}

func TestAddOrderByClause(t *testing.T) {
	var buf bytes.Buffer
	err := postgresdb.AddOrderByClause(&buf, []postgresdb.OrderField{
		{Column: "due_date", Direction: postgresdb.DESC, Nullable: true},
		{Column: "title", Direction: postgresdb.ASC},
		{Column: "completed_at", Direction: postgresdb.ASC, Nullable: true},
	})
	if err != nil {
		t.Fatalf("order by: %v", err)
	}
	want := ` ORDER BY "due_date" DESC NULLS FIRST, "title" ASC, "completed_at" ASC NULLS LAST`
	if buf.String() != want {
		t.Fatalf("got  %s\nwant %s", buf.String(), want)
	}

	buf.Reset()
	if err := postgresdb.AddOrderByClause(&buf, []postgresdb.OrderField{{Column: "title", Direction: "sideways"}}); err == nil {
		t.Fatal("expected error for bad direction")
	}
}

func TestLimitOffsetAndWhere(t *testing.T) {
	var buf bytes.Buffer
	args := pgx.NamedArgs{}

	var where postgresdb.WhereBuilder
	where.WriteTo(&buf)
	if buf.Len() != 0 {
		t.Fatalf("empty builder wrote %q", buf.String())
	}

	where.And("owner_id = @owner_id")
	where.And("is_deleted = false")
	where.WriteTo(&buf)
	postgresdb.AddLimitOffsetClause(10, 20, args, &buf)

	want := " WHERE owner_id = @owner_id AND is_deleted = false LIMIT @limit OFFSET @offset"
	if buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}
	if args["limit"] != 10 || args["offset"] != 20 {
		t.Fatalf("args = %v", args)
	}
}
