package model

import (
	"strings"
)

// Modality is the work location type of a job.
type Modality string

const (
	ModalityAny    Modality = ""
	ModalityRemote Modality = "REMOTE"
	ModalityHybrid Modality = "HYBRID"
	ModalityOnsite Modality = "ONSITE"
)

// Modalities lists the known modalities in display order.
var Modalities = []Modality{ModalityRemote, ModalityHybrid, ModalityOnsite}

// Label returns a human readable name.
func (m Modality) Label() string {
	switch m {
	case ModalityAny:
		return "any"
	case ModalityRemote:
		return "Remote"
	case ModalityHybrid:
		return "Hybrid"
	case ModalityOnsite:
		return "On-site"
	default:
		return strings.ReplaceAll(string(m), "_", " ")
	}
}

// WorkType is the contract type of a job.
type WorkType string

const (
	WorkTypeAny        WorkType = ""
	WorkTypeFullTime   WorkType = "FULL_TIME"
	WorkTypePartTime   WorkType = "PART_TIME"
	WorkTypeContract   WorkType = "CONTRACT"
	WorkTypeInternship WorkType = "INTERNSHIP"
	WorkTypeTemporary  WorkType = "TEMPORARY"
)

// WorkTypes lists the known work types in display order.
var WorkTypes = []WorkType{WorkTypeFullTime, WorkTypePartTime, WorkTypeContract, WorkTypeInternship, WorkTypeTemporary}

// Label returns a human readable name.
func (w WorkType) Label() string {
	switch w {
	case WorkTypeAny:
		return "any"
	case WorkTypeFullTime:
		return "Full time"
	case WorkTypePartTime:
		return "Part time"
	case WorkTypeContract:
		return "Contract"
	case WorkTypeInternship:
		return "Internship"
	case WorkTypeTemporary:
		return "Temporary"
	default:
		return strings.ReplaceAll(string(w), "_", " ")
	}
}

// SortKey selects result ordering.
type SortKey string

const (
	SortRecent     SortKey = "recent"
	SortSalaryDesc SortKey = "salary_desc"
	SortSalaryAsc  SortKey = "salary_asc"
)

// SortKeys lists the sort keys in display order.
var SortKeys = []SortKey{SortRecent, SortSalaryDesc, SortSalaryAsc}

// ParseModality accepts REMOTE/HYBRID/ONSITE in any case; "" means any.
func ParseModality(s string) (Modality, error) {
	m := Modality(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case ModalityAny, ModalityRemote, ModalityHybrid, ModalityOnsite:
		return m, nil
	}
	return "", &ValidationError{Field: "modality", Value: s}
}

// ParseWorkType accepts the backend work type codes in any case; "" means any.
func ParseWorkType(s string) (WorkType, error) {
	w := WorkType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	switch w {
	case WorkTypeAny, WorkTypeFullTime, WorkTypePartTime, WorkTypeContract, WorkTypeInternship, WorkTypeTemporary:
		return w, nil
	}
	return "", &ValidationError{Field: "work_type", Value: s}
}

// ParseSortKey accepts recent, salary_desc and salary_asc; "" means recent.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return SortRecent, nil
	case SortRecent, SortSalaryDesc, SortSalaryAsc:
		return k, nil
	}
	return "", &ValidationError{Field: "sort", Value: s}
}

// Location is structured geography. Valid shapes: empty, country,
// country+state, country+state+city, or a bare city (free-text fallback).
type Location struct {
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
	State   string `json:"state,omitempty" yaml:"state,omitempty"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
}

// IsZero reports whether no field is bound.
func (l Location) IsZero() bool {
	return l.Country == "" && l.State == "" && l.City == ""
}

// Validate rejects partial or contradictory shapes.
func (l Location) Validate() error {
	switch {
	case l.IsZero():
		return nil
	case l.Country == "" && l.State == "":
		return nil // free-text city
	case l.Country == "":
		return &ValidationError{Field: "location.state", Value: l.State}
	case l.State == "" && l.City != "":
		return &ValidationError{Field: "location.city", Value: l.City}
	}
	return nil
}

// FilterState is the user-editable set of search filters. It is a value type;
// every query build works on a copy.
type FilterState struct {
	Text             string   `json:"text,omitempty" yaml:"text"`
	LocationText     string   `json:"location_text,omitempty" yaml:"location"`
	Resolved         Location `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	MinSalary        *int     `json:"min_salary,omitempty" yaml:"min_salary"`
	WorkType         WorkType `json:"work_type,omitempty" yaml:"work_type"`
	Modality         Modality `json:"modality,omitempty" yaml:"modality"`
	PostedWithinDays *int     `json:"posted_within_days,omitempty" yaml:"posted_within_days"`
	Sort             SortKey  `json:"sort,omitempty" yaml:"sort"`
}

// Validate checks enums and numeric ranges. It is the boundary where
// malformed filters are rejected; the query builder assumes a valid state.
func (f FilterState) Validate() error {
	_, err := f.Normalize()
	return err
}

// Normalize validates f and returns a copy with enums in canonical form
// (upper-case modality and work type, lower-case sort key).
func (f FilterState) Normalize() (FilterState, error) {
	var err error
	if f.Modality, err = ParseModality(string(f.Modality)); err != nil {
		return f, err
	}
	if f.WorkType, err = ParseWorkType(string(f.WorkType)); err != nil {
		return f, err
	}
	if f.Sort != "" {
		if f.Sort, err = ParseSortKey(string(f.Sort)); err != nil {
			return f, err
		}
	}
	if f.MinSalary != nil && *f.MinSalary < 0 {
		return f, &ValidationError{Field: "min_salary", Value: itoa(*f.MinSalary)}
	}
	if f.PostedWithinDays != nil && *f.PostedWithinDays <= 0 {
		return f, &ValidationError{Field: "posted_within_days", Value: itoa(*f.PostedWithinDays)}
	}
	return f, f.Resolved.Validate()
}

// SortOrDefault returns the sort key, defaulting to recent.
func (f FilterState) SortOrDefault() SortKey {
	if f.Sort == "" {
		return SortRecent
	}
	return f.Sort
}

// IntPtr is a small helper for optional numeric filters.
func IntPtr(v int) *int { return &v }
