package devserver

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobdash/internal/model"
)

// Dataset is the in-memory catalogue the fixture server answers from.
type Dataset struct {
	Jobs      []model.Job
	Locations []model.LocationMatch
}

type fixtureFile struct {
	Jobs      []fixtureJob      `yaml:"jobs"`
	Locations []fixtureLocation `yaml:"locations"`
}

type fixtureJob struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	CompanyID   string    `yaml:"company_id"`
	Company     string    `yaml:"company"`
	City        string    `yaml:"city"`
	State       string    `yaml:"state"`
	Country     string    `yaml:"country"`
	MinSalary   *float64  `yaml:"min_salary"`
	MaxSalary   *float64  `yaml:"max_salary"`
	Currency    string    `yaml:"currency"`
	PayPeriod   string    `yaml:"pay_period"`
	Modality    string    `yaml:"work_location_type"`
	WorkType    string    `yaml:"work_type"`
	ListedAt    time.Time `yaml:"listed_at"`
	Description string    `yaml:"description"`
	URL         string    `yaml:"url"`
}

type fixtureLocation struct {
	Type    string `yaml:"type"`
	Country string `yaml:"country"`
	State   string `yaml:"state"`
	City    string `yaml:"city"`
}

// LoadFixtures reads a YAML fixture file.
func LoadFixtures(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes fixture YAML. Job IDs must be unique and non-empty.
// When no locations are listed they are derived from the jobs' geography.
func ParseFixtures(data []byte) (*Dataset, error) {
	var raw fixtureFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	ds := &Dataset{}
	ids := make(map[string]bool, len(raw.Jobs))
	for i, fj := range raw.Jobs {
		if fj.ID == "" {
			return nil, fmt.Errorf("fixtures: jobs[%d] has no id", i)
		}
		if ids[fj.ID] {
			return nil, fmt.Errorf("fixtures: duplicate job id %q", fj.ID)
		}
		ids[fj.ID] = true

		modality, err := model.ParseModality(fj.Modality)
		if err != nil {
			return nil, fmt.Errorf("fixtures: job %s: %w", fj.ID, err)
		}
		workType, err := model.ParseWorkType(fj.WorkType)
		if err != nil {
			return nil, fmt.Errorf("fixtures: job %s: %w", fj.ID, err)
		}

		ds.Jobs = append(ds.Jobs, model.Job{
			ID:          fj.ID,
			Title:       fj.Title,
			CompanyID:   fj.CompanyID,
			CompanyName: fj.Company,
			City:        fj.City,
			State:       fj.State,
			Country:     fj.Country,
			SalaryMin:   fj.MinSalary,
			SalaryMax:   fj.MaxSalary,
			Currency:    fj.Currency,
			PayPeriod:   fj.PayPeriod,
			Modality:    modality,
			WorkType:    workType,
			ListedAt:    fj.ListedAt,
			Description: fj.Description,
			URL:         fj.URL,
		})
	}

	for _, fl := range raw.Locations {
		ds.Locations = append(ds.Locations, model.LocationMatch{
			Type:    model.LocationGranularity(strings.ToLower(fl.Type)),
			Country: fl.Country,
			State:   fl.State,
			City:    fl.City,
		})
	}
	if len(ds.Locations) == 0 {
		ds.Locations = deriveLocations(ds.Jobs)
	}
	return ds, nil
}

// deriveLocations lists every distinct country, state and city found in jobs,
// coarsest first.
func deriveLocations(jobs []model.Job) []model.LocationMatch {
	seen := make(map[model.LocationMatch]bool)
	var out []model.LocationMatch
	add := func(m model.LocationMatch) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, j := range jobs {
		if j.Country == "" {
			continue
		}
		add(model.LocationMatch{Type: model.GranularityCountry, Country: j.Country})
		if j.State == "" {
			continue
		}
		add(model.LocationMatch{Type: model.GranularityState, Country: j.Country, State: j.State})
		if j.City != "" {
			add(model.LocationMatch{Type: model.GranularityCity, Country: j.Country, State: j.State, City: j.City})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return granularityRank(out[a].Type) < granularityRank(out[b].Type)
	})
	return out
}

func granularityRank(g model.LocationGranularity) int {
	switch g {
	case model.GranularityCountry:
		return 0
	case model.GranularityState:
		return 1
	default:
		return 2
	}
}
