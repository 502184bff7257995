package store

import (
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

// NopStore is a no-op store used in dry-run mode and when no database path
// is configured. It never marks jobs as seen, so every job appears new on
// each poll, and it remembers nothing.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(scope, jobID string) (bool, error)     { return false, nil }
func (s *NopStore) MarkSeen(scope, jobID string) error            { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error         { return nil }
func (s *NopStore) IsEmpty(scope string) (bool, error)            { return false, nil }
func (s *NopStore) SaveJob(job model.Job) error                   { return nil }
func (s *NopStore) RemoveJob(id string) error                     { return nil }
func (s *NopStore) IsSaved(id string) (bool, error)               { return false, nil }
func (s *NopStore) SavedJobs() ([]model.Job, error)               { return nil, nil }
func (s *NopStore) LastFilters() (model.FilterState, bool, error) { return model.FilterState{}, false, nil }
func (s *NopStore) SetLastFilters(f model.FilterState) error      { return nil }
func (s *NopStore) SavedSearches() ([]model.SavedSearch, error)   { return nil, nil }
func (s *NopStore) SaveSearch(search model.SavedSearch) error     { return nil }
func (s *NopStore) DeleteSearch(name string) error                { return nil }
func (s *NopStore) Close() error                                  { return nil }
