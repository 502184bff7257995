package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/query"
)

// The backend has shipped several response shapes over time: a bare array,
// {data:[...], meta:{...}}, {docs:[...], totalDocs} and {items:[...], total}.
// Everything is normalized here so the engine only ever sees model.PageResult.

// flexString accepts either a JSON string or a JSON number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat accepts a number, a numeric string, or null.
type flexFloat struct {
	v  float64
	ok bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil // unparseable salary is treated as absent
	}
	f.v, f.ok = v, true
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.ok {
		return nil
	}
	v := f.v
	return &v
}

type wireCompany struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

type wireJob struct {
	ID               flexString   `json:"id"`
	JobID            flexString   `json:"job_id"`
	Title            string       `json:"title"`
	CompanyID        flexString   `json:"company_id"`
	CompanyName      string       `json:"company_name"`
	Company          *wireCompany `json:"company"`
	City             string       `json:"city"`
	State            string       `json:"state"`
	Country          string       `json:"country"`
	MinSalary        flexFloat    `json:"min_salary"`
	MaxSalary        flexFloat    `json:"max_salary"`
	Currency         string       `json:"currency"`
	PayPeriod        string       `json:"pay_period"`
	WorkLocationType string       `json:"work_location_type"`
	WorkType         string       `json:"work_type"`
	ListedAt         string       `json:"listed_at"`
	CreatedAt        string       `json:"created_at"`
	Description      string       `json:"description"`
	URL              string       `json:"url"`
}

func (w wireJob) toModel() model.Job {
	id := string(w.ID)
	if id == "" {
		id = string(w.JobID)
	}
	j := model.Job{
		ID:          id,
		Title:       strings.TrimSpace(w.Title),
		CompanyID:   string(w.CompanyID),
		CompanyName: w.CompanyName,
		City:        w.City,
		State:       w.State,
		Country:     w.Country,
		SalaryMin:   w.MinSalary.ptr(),
		SalaryMax:   w.MaxSalary.ptr(),
		Currency:    w.Currency,
		PayPeriod:   w.PayPeriod,
		Modality:    model.Modality(strings.ToUpper(w.WorkLocationType)),
		WorkType:    model.WorkType(strings.ToUpper(w.WorkType)),
		Description: extractText(w.Description),
		URL:         w.URL,
	}
	if w.Company != nil {
		if j.CompanyID == "" {
			j.CompanyID = string(w.Company.ID)
		}
		if j.CompanyName == "" {
			j.CompanyName = w.Company.Name
		}
	}
	for _, ts := range []string{w.ListedAt, w.CreatedAt} {
		if t, ok := parseTime(ts); ok {
			j.ListedAt = t
			break
		}
	}
	return j
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type wireMeta struct {
	Page       *int `json:"page"`
	TotalPages *int `json:"totalPages"`
	Total      *int `json:"total"`
}

type wirePage struct {
	Data      []wireJob `json:"data"`
	Docs      []wireJob `json:"docs"`
	Items     []wireJob `json:"items"`
	Meta      *wireMeta `json:"meta"`
	Total     *int      `json:"total"`
	TotalDocs *int      `json:"totalDocs"`
	Page      *int      `json:"page"`
}

// decodePage normalizes any known listing shape into a PageResult for the
// page and limit carried by q. TotalPages always satisfies
// max(1, ceil(total/limit)).
func decodePage(body []byte, q model.Query) (model.PageResult, error) {
	page := q.Int(query.ParamPage, 1)
	limit := q.Int(query.ParamLimit, query.DefaultPageSize)

	var wires []wireJob
	var total *int

	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return model.PageResult{}, fmt.Errorf("decode jobs page: empty body")
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &wires); err != nil {
			return model.PageResult{}, fmt.Errorf("decode jobs page: %w", err)
		}
	default:
		var wp wirePage
		if err := json.Unmarshal(trimmed, &wp); err != nil {
			return model.PageResult{}, fmt.Errorf("decode jobs page: %w", err)
		}
		switch {
		case wp.Data != nil:
			wires = wp.Data
		case wp.Docs != nil:
			wires = wp.Docs
		default:
			wires = wp.Items
		}
		switch {
		case wp.Meta != nil && wp.Meta.Total != nil:
			total = wp.Meta.Total
		case wp.Total != nil:
			total = wp.Total
		case wp.TotalDocs != nil:
			total = wp.TotalDocs
		}
		if wp.Meta != nil && wp.Meta.Page != nil {
			page = *wp.Meta.Page
		} else if wp.Page != nil {
			page = *wp.Page
		}
	}

	items := make([]model.Job, 0, len(wires))
	for _, w := range wires {
		j := w.toModel()
		if j.ID == "" {
			continue
		}
		items = append(items, j)
	}

	n := len(items) + (page-1)*limit
	if total != nil {
		n = *total
	}
	return model.PageResult{
		Items:      items,
		Page:       page,
		Total:      n,
		TotalPages: model.TotalPages(n, limit),
	}, nil
}

// decodeJob accepts a bare job object or one wrapped in {data:{...}}.
func decodeJob(body []byte) (model.Job, error) {
	var wrapped struct {
		Data *wireJob `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data.toModel(), nil
	}
	var w wireJob
	if err := json.Unmarshal(body, &w); err != nil {
		return model.Job{}, fmt.Errorf("decode job: %w", err)
	}
	return w.toModel(), nil
}

func decodeSuggestions(body []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(body)
	var out []string
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		return out, nil
	}
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return resp.Suggestions, nil
}

type wireLocation struct {
	Type    string `json:"type"`
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

func decodeLocations(body []byte) ([]model.LocationMatch, error) {
	trimmed := bytes.TrimSpace(body)
	var wires []wireLocation
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wires); err != nil {
			return nil, fmt.Errorf("decode locations: %w", err)
		}
	} else {
		var resp struct {
			Results []wireLocation `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("decode locations: %w", err)
		}
		wires = resp.Results
	}
	out := make([]model.LocationMatch, 0, len(wires))
	for _, w := range wires {
		out = append(out, model.LocationMatch{
			Type:    model.LocationGranularity(strings.ToLower(w.Type)),
			Country: w.Country,
			State:   w.State,
			City:    w.City,
		})
	}
	return out, nil
}

func decodeFilterOptions(body []byte) (model.FilterOptions, error) {
	var resp struct {
		WorkTypes         []string `json:"work_types"`
		WorkLocationTypes []string `json:"work_location_types"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.FilterOptions{}, fmt.Errorf("decode filter options: %w", err)
	}
	var opts model.FilterOptions
	for _, w := range resp.WorkTypes {
		opts.WorkTypes = append(opts.WorkTypes, model.WorkType(strings.ToUpper(w)))
	}
	for _, m := range resp.WorkLocationTypes {
		opts.WorkLocationTypes = append(opts.WorkLocationTypes, model.Modality(strings.ToUpper(m)))
	}
	return opts, nil
}
