// Package query turns a FilterState snapshot into the flat parameter set of
// GET /jobs.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

// Parameter names understood by the backend.
const (
	ParamText       = "q"
	ParamCountry    = "country"
	ParamState      = "state"
	ParamCity       = "city"
	ParamModality   = "work_location_type"
	ParamWorkType   = "work_type"
	ParamMinSalary  = "min_salary"
	ParamListedFrom = "listed_from"
	ParamSortBy     = "sortBy"
	ParamSortDir    = "sortDir"
	ParamPage       = "page"
	ParamLimit      = "limit"
)

// DefaultPageSize matches the backend default.
const DefaultPageSize = 20

const dateLayout = "2006-01-02"

// Build composes the query for page of f. It is pure: the same state, page,
// pageSize and now always produce an equal Query. f is assumed valid
// (see model.FilterState.Validate).
func Build(f model.FilterState, page, pageSize int, now time.Time) model.Query {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	q := model.Query{
		ParamPage:  strconv.Itoa(page),
		ParamLimit: strconv.Itoa(pageSize),
	}

	if text := strings.TrimSpace(f.Text); text != "" {
		q[ParamText] = text
	}

	switch {
	case !f.Resolved.IsZero():
		setIf(q, ParamCountry, f.Resolved.Country)
		setIf(q, ParamState, f.Resolved.State)
		setIf(q, ParamCity, f.Resolved.City)
	case strings.TrimSpace(f.LocationText) != "":
		// Unresolved free text is passed through as a city filter.
		q[ParamCity] = strings.TrimSpace(f.LocationText)
	}

	setIf(q, ParamModality, string(f.Modality))
	setIf(q, ParamWorkType, string(f.WorkType))

	if f.MinSalary != nil && *f.MinSalary > 0 {
		q[ParamMinSalary] = strconv.Itoa(*f.MinSalary)
	}

	if f.PostedWithinDays != nil && *f.PostedWithinDays > 0 {
		q[ParamListedFrom] = ListedFrom(*f.PostedWithinDays, now)
	}

	sortBy, sortDir := SortParams(f.SortOrDefault())
	q[ParamSortBy] = sortBy
	q[ParamSortDir] = sortDir

	return q
}

// ListedFrom returns the ISO date days before now, in UTC.
func ListedFrom(days int, now time.Time) string {
	return now.UTC().AddDate(0, 0, -days).Format(dateLayout)
}

// SortParams maps a sort key to the backend's sortBy/sortDir pair.
func SortParams(k model.SortKey) (sortBy, sortDir string) {
	switch k {
	case model.SortSalaryDesc:
		return "max_salary", "desc"
	case model.SortSalaryAsc:
		return "min_salary", "asc"
	default:
		return "listed_at", "desc"
	}
}

func setIf(q model.Query, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q[key] = v
	}
}

// Builder binds Build to a clock so callers that run at arbitrary times
// (the fetch orchestrator, the watcher) can be tested with a fixed one.
type Builder struct {
	PageSize int
	Now      func() time.Time
}

// NewBuilder returns a Builder using the wall clock.
func NewBuilder(pageSize int) *Builder {
	return &Builder{PageSize: pageSize, Now: time.Now}
}

// Build evaluates the clock at call time and builds the query.
func (b *Builder) Build(f model.FilterState, page int) model.Query {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return Build(f, page, b.PageSize, now())
}
