package taskscasebridge

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
	"github.com/jrazmi/tasktracker/sdk/validation"
)

// parseListQuery reads the list filters, sort and page from the query
// string. Values that do not parse are dropped rather than rejected.
func parseListQuery(r *http.Request) tasksrepo.ListQuery {
	values := r.URL.Query()

	var filter tasksrepo.QueryFilter
	if v := values.Get("isCompleted"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsCompleted = &b
		}
	}
	filter.DueBefore = parseDate(values.Get("dueBefore"))
	filter.DueAfter = parseDate(values.Get("dueAfter"))
	filter.CreatedBefore = parseDate(values.Get("createdBefore"))
	filter.CreatedAfter = parseDate(values.Get("createdAfter"))
	if v := strings.TrimSpace(values.Get("search")); v != "" {
		filter.Search = &v
	}

	sort := values.Get("sort")
	if sort == "" {
		sort = values.Get("sortings")
	}

	return tasksrepo.ListQuery{
		Filter: filter,
		Sort:   tasksrepo.ParseSort(sort),
		Page:   fop.ParsePageOffset(values.Get("page"), values.Get("pageSize")),
	}
}

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := validation.ParseFlexibleDate(v)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
