package tasksgormstore_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo/stores/tasksgormstore"
	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
	"github.com/jrazmi/tasktracker/infrastructure/databases/sqlitedb"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

var base = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *tasksgormstore.Store {
	t.Helper()

	db, err := sqlitedb.NewInMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { sqlitedb.Close(db) })

	store := tasksgormstore.NewStore(logger.NewDiscard(), db)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func mustCreate(t *testing.T, s *tasksgormstore.Store, in tasksrepo.CreateTask) tasksrepo.Task {
	t.Helper()
	task, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create %s: %v", in.TaskID, err)
	}
	return task
}

func ptr[T any](v T) *T { return &v }

func TestCreateAssignsDistinctVersions(t *testing.T) {
	s := setupStore(t)

	a := mustCreate(t, s, tasksrepo.CreateTask{TaskID: "a", OwnerID: "u1", Title: "one", CreatedAt: base})
	b := mustCreate(t, s, tasksrepo.CreateTask{TaskID: "b", OwnerID: "u2", Title: "two", CreatedAt: base})

	if a.Version == b.Version {
		t.Fatalf("versions collide: %d", a.Version)
	}
	if a.IsCompleted || a.IsDeleted || !a.UpdatedAt.Equal(base) {
		t.Fatalf("unexpected new task state: %+v", a)
	}

	_, err := s.Create(context.Background(), tasksrepo.CreateTask{TaskID: "a", OwnerID: "u1", Title: "again", CreatedAt: base})
	if !errors.Is(err, tasksrepo.ErrDuplicate) {
		t.Fatalf("duplicate create err = %v", err)
	}
}

func TestGetIsOwnerScoped(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "a", OwnerID: "u1", Title: "one", CreatedAt: base})

	if _, err := s.Get(ctx, "a", "u1", false); err != nil {
		t.Fatalf("get own task: %v", err)
	}
	if _, err := s.Get(ctx, "a", "u2", false); !errors.Is(err, tasksrepo.ErrNotFound) {
		t.Fatalf("cross owner get err = %v", err)
	}
	if _, err := s.Get(ctx, "missing", "u1", false); !errors.Is(err, tasksrepo.ErrNotFound) {
		t.Fatalf("missing get err = %v", err)
	}
}

func TestUpdateIfVersion(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	task := mustCreate(t, s, tasksrepo.CreateTask{TaskID: "a", OwnerID: "u1", Title: "one", CreatedAt: base})

	done := true
	updated, err := s.UpdateIfVersion(ctx, "a", "u1", task.Version, tasksrepo.Changes{
		Title:       ptr("renamed"),
		IsCompleted: &done,
		CompletedAt: ptr(base.Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version <= task.Version {
		t.Fatalf("version did not advance: %d -> %d", task.Version, updated.Version)
	}
	if updated.Title != "renamed" || !updated.IsCompleted || updated.CompletedAt == nil {
		t.Fatalf("changes not applied: %+v", updated)
	}

	_, err = s.UpdateIfVersion(ctx, "a", "u1", task.Version, tasksrepo.Changes{Title: ptr("stale")})
	if !errors.Is(err, tasksrepo.ErrVersionConflict) {
		t.Fatalf("stale write err = %v", err)
	}

	_, err = s.UpdateIfVersion(ctx, "a", "u2", updated.Version, tasksrepo.Changes{Title: ptr("theirs")})
	if !errors.Is(err, tasksrepo.ErrNotFound) {
		t.Fatalf("cross owner write err = %v", err)
	}

	notDone := false
	reopened, err := s.UpdateIfVersion(ctx, "a", "u1", updated.Version, tasksrepo.Changes{IsCompleted: &notDone})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.IsCompleted || reopened.CompletedAt != nil {
		t.Fatalf("completion not cleared: %+v", reopened)
	}
}

func TestUpdateIfVersionSingleWinner(t *testing.T) {
	s := setupStore(t)
	task := mustCreate(t, s, tasksrepo.CreateTask{TaskID: "a", OwnerID: "u1", Title: "one", CreatedAt: base})

	const writers = 8
	var (
		wg        sync.WaitGroup
		wins      atomic.Int32
		conflicts atomic.Int32
	)

	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateIfVersion(context.Background(), "a", "u1", task.Version, tasksrepo.Changes{
				Title: ptr(fmt.Sprintf("writer %d", i)),
			})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, tasksrepo.ErrVersionConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 || conflicts.Load() != writers-1 {
		t.Fatalf("wins = %d, conflicts = %d", wins.Load(), conflicts.Load())
	}
}

func seedList(t *testing.T, s *tasksgormstore.Store) {
	t.Helper()
	ctx := context.Background()

	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "t1", OwnerID: "u1", Title: "Buy milk", CreatedAt: base, DueDate: ptr(base.Add(24 * time.Hour))})
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "t2", OwnerID: "u1", Title: "Pay 100% of rent", CreatedAt: base, DueDate: ptr(base.Add(-24 * time.Hour))})
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "t3", OwnerID: "u1", Title: "Read", Description: ptr("a MILK carton novel"), CreatedAt: base.Add(time.Minute)})
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "t4", OwnerID: "u1", Title: "Gone", CreatedAt: base.Add(2 * time.Minute)})
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "x1", OwnerID: "u2", Title: "Buy milk too", CreatedAt: base})

	gone, err := s.Get(ctx, "t4", "u1", false)
	if err != nil {
		t.Fatalf("get t4: %v", err)
	}
	yes := true
	if _, err := s.UpdateIfVersion(ctx, "t4", "u1", gone.Version, tasksrepo.Changes{IsDeleted: &yes, DeletedAt: ptr(base)}); err != nil {
		t.Fatalf("delete t4: %v", err)
	}
}

func ids(tasks []tasksrepo.Task) string {
	var out string
	for i, t := range tasks {
		if i > 0 {
			out += ","
		}
		out += t.TaskID
	}
	return out
}

func TestListFiltersAndOrdering(t *testing.T) {
	s := setupStore(t)
	seedList(t, s)
	ctx := context.Background()
	page := fop.NewPageOffset(1, 20)

	tests := []struct {
		name   string
		filter tasksrepo.QueryFilter
		sort   string
		want   string
		total  int
	}{
		{name: "default hides deleted and other owners", want: "t1,t2,t3", total: 3},
		{name: "include deleted", filter: tasksrepo.QueryFilter{IncludeDeleted: true}, want: "t1,t2,t3,t4", total: 4},
		{name: "search title or description", filter: tasksrepo.QueryFilter{Search: ptr(" milk ")}, want: "t1,t3", total: 2},
		{name: "search wildcards are literal", filter: tasksrepo.QueryFilter{Search: ptr("100%")}, want: "t2", total: 1},
		{name: "underscore is literal", filter: tasksrepo.QueryFilter{Search: ptr("_")}, want: "", total: 0},
		{name: "due before excludes null due", filter: tasksrepo.QueryFilter{DueBefore: ptr(base)}, want: "t2", total: 1},
		{name: "due after", filter: tasksrepo.QueryFilter{DueAfter: ptr(base)}, want: "t1", total: 1},
		{name: "created after", filter: tasksrepo.QueryFilter{CreatedAfter: ptr(base)}, want: "t3", total: 1},
		{name: "due ascending nulls last", sort: "due", want: "t2,t1,t3", total: 3},
		{name: "due descending nulls first", sort: "-due", want: "t3,t1,t2", total: 3},
		{name: "created descending ties by id", sort: "-created", want: "t3,t2,t1", total: 3},
		{name: "title", sort: "title", want: "t1,t2,t3", total: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := s.List(ctx, "u1", tt.filter, tasksrepo.OrderTerms(tasksrepo.ParseSort(tt.sort)), page)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got := ids(items); got != tt.want {
				t.Errorf("ids = %s, want %s", got, tt.want)
			}
			if total != tt.total {
				t.Errorf("total = %d, want %d", total, tt.total)
			}
		})
	}
}

func TestListFoldsNonASCIICase(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "n1", OwnerID: "u1", Title: "Éclair recipe", CreatedAt: base})
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "n2", OwnerID: "u1", Title: "Купить молоко", CreatedAt: base})
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "n3", OwnerID: "u1", Title: "banana", Description: ptr("ÜBER fruit"), CreatedAt: base})
	mustCreate(t, s, tasksrepo.CreateTask{TaskID: "n4", OwnerID: "u1", Title: "Apple", CreatedAt: base})

	tests := []struct {
		search string
		want   string
	}{
		{search: "éclair", want: "n1"},
		{search: "ÉCLAIR", want: "n1"},
		{search: "купить", want: "n2"},
		{search: "МОЛОКО", want: "n2"},
		{search: "über", want: "n3"},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			items, total, err := s.List(ctx, "u1", tasksrepo.QueryFilter{Search: ptr(tt.search)}, tasksrepo.OrderTerms(nil), fop.NewPageOffset(1, 20))
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got := ids(items); got != tt.want || total != 1 {
				t.Fatalf("ids = %s (total %d), want %s", got, total, tt.want)
			}
		})
	}

	items, _, err := s.List(ctx, "u1", tasksrepo.QueryFilter{}, tasksrepo.OrderTerms(tasksrepo.ParseSort("title")), fop.NewPageOffset(1, 20))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := ids(items); got != "n4,n3,n1,n2" {
		t.Fatalf("title order = %s", got)
	}
}

func TestListPaging(t *testing.T) {
	s := setupStore(t)
	seedList(t, s)

	items, total, err := s.List(context.Background(), "u1", tasksrepo.QueryFilter{}, tasksrepo.OrderTerms(nil), fop.NewPageOffset(2, 2))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids(items) != "t3" || total != 3 {
		t.Fatalf("page 2 = %s (total %d)", ids(items), total)
	}
}

func TestStats(t *testing.T) {
	s := setupStore(t)
	seedList(t, s)
	ctx := context.Background()

	t1, err := s.Get(ctx, "t1", "u1", false)
	if err != nil {
		t.Fatalf("get t1: %v", err)
	}
	yes := true
	if _, err := s.UpdateIfVersion(ctx, "t1", "u1", t1.Version, tasksrepo.Changes{IsCompleted: &yes, CompletedAt: ptr(base)}); err != nil {
		t.Fatalf("complete t1: %v", err)
	}

	stats, err := s.Stats(ctx, "u1", base)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := tasksrepo.Stats{Total: 3, Open: 2, Done: 1, Overdue: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}
