package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/config"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/store"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	registerFilterFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestFiltersFromFlags(t *testing.T) {
	cmd := newFlagCmd(t, "--text", "golang", "--modality", "remote", "--min-salary", "0", "--country", "Mexico", "--sort", "SALARY_DESC")

	f, set, err := filtersFromFlags(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set {
		t.Error("expected set = true")
	}
	if f.Text != "golang" || f.Modality != model.ModalityRemote || f.Sort != model.SortSalaryDesc {
		t.Errorf("filters = %+v", f)
	}
	if f.MinSalary == nil || *f.MinSalary != 0 {
		t.Errorf("MinSalary = %v, want explicit 0", f.MinSalary)
	}
	if f.PostedWithinDays != nil {
		t.Errorf("PostedWithinDays = %v, want unset", *f.PostedWithinDays)
	}
	if f.Resolved.Country != "Mexico" {
		t.Errorf("Resolved = %+v", f.Resolved)
	}
}

func TestFiltersFromFlags_NoneSet(t *testing.T) {
	_, set, err := filtersFromFlags(newFlagCmd(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set {
		t.Error("expected set = false")
	}
}

func TestFiltersFromFlags_Invalid(t *testing.T) {
	tests := [][]string{
		{"--modality", "moon"},
		{"--posted-within", "0"},
		{"--state", "Jalisco"},
	}
	for _, args := range tests {
		if _, _, err := filtersFromFlags(newFlagCmd(t, args...)); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestDescribeFilters(t *testing.T) {
	if got := describeFilters(model.FilterState{}); got != "(all jobs)" {
		t.Errorf("empty = %q", got)
	}
	f := model.FilterState{Text: "go", PostedWithinDays: model.IntPtr(7), Modality: model.ModalityHybrid}
	if got, want := describeFilters(f), "text=go modality=HYBRID posted_within=7d"; got != want {
		t.Errorf("describeFilters = %q, want %q", got, want)
	}
}

type searchStore struct {
	*store.NopStore
	searches []model.SavedSearch
}

func (s searchStore) SavedSearches() ([]model.SavedSearch, error) { return s.searches, nil }

func TestCollectSearches(t *testing.T) {
	cfg := config.Default()
	cfg.Watch.Searches = []model.SavedSearch{{Name: "go", Filters: model.FilterState{Text: "golang"}}}
	st := searchStore{
		NopStore: store.NewNopStore(),
		searches: []model.SavedSearch{
			{Name: "go", Filters: model.FilterState{Text: "shadowed"}},
			{Name: "bad", Filters: model.FilterState{Modality: "moon"}},
			{Name: "remote", Filters: model.FilterState{Modality: model.ModalityRemote}},
		},
	}

	got := collectSearches(cfg, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if len(got) != 2 {
		t.Fatalf("got %d searches, want 2: %+v", len(got), got)
	}
	if got[0].Name != "go" || got[0].Filters.Text != "golang" {
		t.Errorf("config search should win, got %+v", got[0])
	}
	if got[1].Name != "remote" {
		t.Errorf("second = %q, want remote", got[1].Name)
	}
}
