// Package filter evaluates listing query parameters against a job locally.
// The fixture server uses it to answer GET /jobs, and the watcher uses it
// to re-check backend results before notifying.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/query"
)

// Criteria is the decoded filter part of a listing query. Zero fields match
// everything.
type Criteria struct {
	Keywords   []string
	Country    string
	State      string
	City       string
	Modality   model.Modality
	WorkType   model.WorkType
	MinSalary  float64
	ListedFrom time.Time
}

// FromQuery decodes the filter parameters of q. Malformed numbers and dates
// yield a *model.ValidationError.
func FromQuery(q model.Query) (Criteria, error) {
	c := Criteria{
		Keywords: strings.Fields(strings.ToLower(q[query.ParamText])),
		Country:  q[query.ParamCountry],
		State:    q[query.ParamState],
		City:     q[query.ParamCity],
	}

	var err error
	if c.Modality, err = model.ParseModality(q[query.ParamModality]); err != nil {
		return Criteria{}, err
	}
	if c.WorkType, err = model.ParseWorkType(q[query.ParamWorkType]); err != nil {
		return Criteria{}, err
	}
	if s := q[query.ParamMinSalary]; s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return Criteria{}, &model.ValidationError{Field: query.ParamMinSalary, Value: s}
		}
		c.MinSalary = v
	}
	if s := q[query.ParamListedFrom]; s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Criteria{}, &model.ValidationError{Field: query.ParamListedFrom, Value: s}
		}
		c.ListedFrom = t
	}
	return c, nil
}

// Match reports whether job satisfies every set criterion. Keywords must all
// appear (case-insensitive substring) in the title, company or description.
// Geography compares case-insensitively; a job without a salary never
// passes a minimum salary, and a job without a listing date never passes a
// listed-from bound.
func (c Criteria) Match(job model.Job) bool {
	if len(c.Keywords) > 0 {
		haystack := strings.ToLower(job.Title + " " + job.CompanyName + " " + job.Description)
		for _, kw := range c.Keywords {
			if !strings.Contains(haystack, kw) {
				return false
			}
		}
	}

	if !sameFold(c.Country, job.Country) || !sameFold(c.State, job.State) || !sameFold(c.City, job.City) {
		return false
	}

	if c.Modality != model.ModalityAny && job.Modality != c.Modality {
		return false
	}
	if c.WorkType != model.WorkTypeAny && job.WorkType != c.WorkType {
		return false
	}

	if c.MinSalary > 0 {
		top := job.SalaryMax
		if top == nil {
			top = job.SalaryMin
		}
		if top == nil || *top < c.MinSalary {
			return false
		}
	}

	if !c.ListedFrom.IsZero() && (job.ListedAt.IsZero() || job.ListedAt.Before(c.ListedFrom)) {
		return false
	}

	return true
}

// sameFold matches when want is unset or equals got ignoring case.
func sameFold(want, got string) bool {
	return want == "" || strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(got))
}
