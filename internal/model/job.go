package model

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Job is a single listing as returned by the job-board backend. It is never
// mutated after decoding; identity is ID across page fetches, point-fetches
// and suggestions.
type Job struct {
	ID          string
	Title       string
	CompanyID   string
	CompanyName string
	City        string
	State       string
	Country     string
	SalaryMin   *float64
	SalaryMax   *float64
	Currency    string // ISO code, e.g. "MXN"
	PayPeriod   string // HOURLY, MONTHLY, YEARLY...
	Modality    Modality
	WorkType    WorkType
	ListedAt    time.Time
	Description string // plain text, HTML already stripped
	URL         string // public link, may be empty
}

// LocationLabel joins the non-empty geography parts, most specific first.
func (j Job) LocationLabel() string {
	var parts []string
	for _, p := range []string{j.City, j.State, j.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// SalaryLabel renders the salary range the way the listing cards do:
// "min - max / period", "min+" or "up to max". Empty when neither bound is set.
func (j Job) SalaryLabel() string {
	if j.SalaryMin == nil && j.SalaryMax == nil {
		return ""
	}
	cur := j.Currency
	if cur == "" {
		cur = "USD"
	}
	suffix := ""
	if p := payPeriodLabel(j.PayPeriod); p != "" {
		suffix = " / " + p
	}
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return fmt.Sprintf("%s - %s %s%s", formatMoney(*j.SalaryMin), formatMoney(*j.SalaryMax), cur, suffix)
	case j.SalaryMin != nil:
		return fmt.Sprintf("%s+ %s%s", formatMoney(*j.SalaryMin), cur, suffix)
	default:
		return fmt.Sprintf("up to %s %s%s", formatMoney(*j.SalaryMax), cur, suffix)
	}
}

func payPeriodLabel(p string) string {
	switch strings.ToUpper(p) {
	case "":
		return ""
	case "HOURLY":
		return "hour"
	case "DAILY":
		return "day"
	case "WEEKLY":
		return "week"
	case "BIWEEKLY":
		return "fortnight"
	case "MONTHLY":
		return "month"
	case "YEARLY":
		return "year"
	default:
		return strings.ToLower(p)
	}
}

// formatMoney renders a whole amount with thousands separators: 25000 -> "$25,000".
func formatMoney(v float64) string {
	n := int64(v + 0.5)
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// PageResult is one page of search results. It is replaced wholesale on each
// successful fetch, never merged.
type PageResult struct {
	Items      []Job
	Page       int
	TotalPages int
	Total      int
}

// TotalPages is max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// LocationGranularity is the level a location suggestion matched at.
type LocationGranularity string

const (
	GranularityCountry LocationGranularity = "country"
	GranularityState   LocationGranularity = "state"
	GranularityCity    LocationGranularity = "city"
)

// LocationMatch is one result of the location suggestion service.
type LocationMatch struct {
	Type    LocationGranularity
	Country string
	State   string
	City    string
}

// Label renders the match for an autocomplete list.
func (m LocationMatch) Label() string {
	var parts []string
	for _, p := range []string{m.City, m.State, m.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// FilterOptions lists the enum values the backend accepts for filters.
type FilterOptions struct {
	WorkTypes         []WorkType
	WorkLocationTypes []Modality
}

// JobSearcher runs a paginated listing query.
type JobSearcher interface {
	SearchJobs(ctx context.Context, q Query) (PageResult, error)
}

// JobLookup fetches a single job by id (deep-link point-fetch).
type JobLookup interface {
	GetJob(ctx context.Context, id string) (Job, error)
}

// TitleSuggester returns job-title autocomplete suggestions.
type TitleSuggester interface {
	SuggestTitles(ctx context.Context, q string) ([]string, error)
}

// LocationSuggester returns structured location matches, best first, at most k.
type LocationSuggester interface {
	SearchLocations(ctx context.Context, q string, k int) ([]LocationMatch, error)
}

// Backend is the full set of read endpoints the engine consumes.
type Backend interface {
	JobSearcher
	JobLookup
	TitleSuggester
	LocationSuggester
	FilterOptions(ctx context.Context) (FilterOptions, error)
}

// JobStore tracks which job IDs have been seen, per scope (a saved search
// name), for watch deduplication.
type JobStore interface {
	HasSeen(scope, jobID string) (bool, error)
	MarkSeen(scope, jobID string) error
	Cleanup(olderThan time.Duration) error
	IsEmpty(scope string) (bool, error)
}

// Bookmarks persists jobs the user saved from the list.
type Bookmarks interface {
	SaveJob(job Job) error
	RemoveJob(id string) error
	IsSaved(id string) (bool, error)
	SavedJobs() ([]Job, error)
}

// FilterMemory remembers the last filters used in the browse screen.
type FilterMemory interface {
	LastFilters() (FilterState, bool, error)
	SetLastFilters(f FilterState) error
}

// SavedSearch is a named filter set re-run by the watcher.
type SavedSearch struct {
	Name    string      `json:"name" yaml:"name"`
	Filters FilterState `json:"filters" yaml:"filters"`
}

// Notifier sends notifications for new job matches of a saved search.
type Notifier interface {
	Notify(search string, jobs []Job) error
}
