package devserver

import (
	"sort"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

type jobResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	CompanyID        string   `json:"company_id,omitempty"`
	CompanyName      string   `json:"company_name,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	Country          string   `json:"country,omitempty"`
	MinSalary        *float64 `json:"min_salary"`
	MaxSalary        *float64 `json:"max_salary"`
	Currency         string   `json:"currency,omitempty"`
	PayPeriod        string   `json:"pay_period,omitempty"`
	WorkLocationType string   `json:"work_location_type,omitempty"`
	WorkType         string   `json:"work_type,omitempty"`
	ListedAt         string   `json:"listed_at,omitempty"`
	Description      string   `json:"description,omitempty"`
	URL              string   `json:"url,omitempty"`
}

func toResponse(j model.Job) jobResponse {
	r := jobResponse{
		ID:               j.ID,
		Title:            j.Title,
		CompanyID:        j.CompanyID,
		CompanyName:      j.CompanyName,
		City:             j.City,
		State:            j.State,
		Country:          j.Country,
		MinSalary:        j.SalaryMin,
		MaxSalary:        j.SalaryMax,
		Currency:         j.Currency,
		PayPeriod:        j.PayPeriod,
		WorkLocationType: string(j.Modality),
		WorkType:         string(j.WorkType),
		Description:      j.Description,
		URL:              j.URL,
	}
	if !j.ListedAt.IsZero() {
		r.ListedAt = j.ListedAt.UTC().Format(time.RFC3339)
	}
	return r
}

// sortJobs orders jobs in place by sortBy (listed_at, min_salary or
// max_salary) and sortDir (asc or desc). Jobs missing the sort value go last
// in either direction; ties keep ID order.
func sortJobs(jobs []model.Job, sortBy, sortDir string) error {
	if sortBy == "" {
		sortBy = "listed_at"
	}
	if sortDir == "" {
		sortDir = "desc"
	}
	if sortDir != "asc" && sortDir != "desc" {
		return &model.ValidationError{Field: "sortDir", Value: sortDir}
	}

	var key func(model.Job) (float64, bool)
	switch sortBy {
	case "listed_at":
		key = func(j model.Job) (float64, bool) {
			return float64(j.ListedAt.Unix()), !j.ListedAt.IsZero()
		}
	case "min_salary":
		key = func(j model.Job) (float64, bool) { return deref(j.SalaryMin) }
	case "max_salary":
		key = func(j model.Job) (float64, bool) {
			if j.SalaryMax != nil {
				return *j.SalaryMax, true
			}
			return deref(j.SalaryMin)
		}
	default:
		return &model.ValidationError{Field: "sortBy", Value: sortBy}
	}

	desc := sortDir == "desc"
	sort.SliceStable(jobs, func(a, b int) bool {
		va, oka := key(jobs[a])
		vb, okb := key(jobs[b])
		switch {
		case oka != okb:
			return oka
		case !oka || va == vb:
			return jobs[a].ID < jobs[b].ID
		case desc:
			return va > vb
		default:
			return va < vb
		}
	})
	return nil
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
