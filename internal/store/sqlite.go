// Package store persists local state in SQLite: seen jobs for the watcher,
// bookmarks, saved searches and the last browse filters.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobdash/internal/model"
)

var (
	_ model.JobStore     = (*SQLiteStore)(nil)
	_ model.Bookmarks    = (*SQLiteStore)(nil)
	_ model.FilterMemory = (*SQLiteStore)(nil)
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS seen_jobs (
		scope      TEXT NOT NULL,
		job_id     TEXT NOT NULL,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (scope, job_id)
	)`,
	`CREATE TABLE IF NOT EXISTS saved_jobs (
		job_id   TEXT PRIMARY KEY,
		payload  TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS saved_searches (
		name       TEXT PRIMARY KEY,
		filters    TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

const lastFiltersKey = "last_filters"

// SQLiteStore is the local state database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// HasSeen returns true if jobID has already been recorded for scope.
func (s *SQLiteStore) HasSeen(scope, jobID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_jobs WHERE scope = ? AND job_id = ?", scope, jobID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s/%s: %w", scope, jobID, err)
	}
	return true, nil
}

// MarkSeen records jobID as seen for scope. Duplicates are ignored.
func (s *SQLiteStore) MarkSeen(scope, jobID string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_jobs (scope, job_id, first_seen) VALUES (?, ?, ?)", scope, jobID, s.now())
	if err != nil {
		return fmt.Errorf("marking job %s/%s as seen: %w", scope, jobID, err)
	}
	return nil
}

// Cleanup deletes seen-job entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := s.now().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM seen_jobs WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen jobs older than %v: %w", olderThan, err)
	}
	return nil
}

// IsEmpty returns true if nothing has been seen for scope yet.
func (s *SQLiteStore) IsEmpty(scope string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM seen_jobs WHERE scope = ?", scope).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if %s is empty: %w", scope, err)
	}
	return count == 0, nil
}

// SaveJob bookmarks a job, replacing any earlier snapshot of it.
func (s *SQLiteStore) SaveJob(job model.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding job %s: %w", job.ID, err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO saved_jobs (job_id, payload, saved_at) VALUES (?, ?, ?)",
		job.ID, string(payload), s.now(),
	)
	if err != nil {
		return fmt.Errorf("saving job %s: %w", job.ID, err)
	}
	return nil
}

// RemoveJob deletes a bookmark. Removing an unknown id is not an error.
func (s *SQLiteStore) RemoveJob(id string) error {
	if _, err := s.db.Exec("DELETE FROM saved_jobs WHERE job_id = ?", id); err != nil {
		return fmt.Errorf("removing job %s: %w", id, err)
	}
	return nil
}

// IsSaved reports whether id is bookmarked.
func (s *SQLiteStore) IsSaved(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM saved_jobs WHERE job_id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking bookmark %s: %w", id, err)
	}
	return true, nil
}

// SavedJobs returns bookmarks, most recent first.
func (s *SQLiteStore) SavedJobs() ([]model.Job, error) {
	rows, err := s.db.Query("SELECT payload FROM saved_jobs ORDER BY saved_at DESC, job_id")
	if err != nil {
		return nil, fmt.Errorf("listing saved jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning saved job: %w", err)
		}
		var j model.Job
		if err := json.Unmarshal([]byte(payload), &j); err != nil {
			return nil, fmt.Errorf("decoding saved job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SaveSearch stores or replaces a named search.
func (s *SQLiteStore) SaveSearch(search model.SavedSearch) error {
	filters, err := json.Marshal(search.Filters)
	if err != nil {
		return fmt.Errorf("encoding search %s: %w", search.Name, err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO saved_searches (name, filters, updated_at) VALUES (?, ?, ?)",
		search.Name, string(filters), s.now(),
	)
	if err != nil {
		return fmt.Errorf("saving search %s: %w", search.Name, err)
	}
	return nil
}

// DeleteSearch removes a named search and its seen history.
func (s *SQLiteStore) DeleteSearch(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("deleting search %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM saved_searches WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting search %s: %w", name, err)
	}
	if _, err := tx.Exec("DELETE FROM seen_jobs WHERE scope = ?", name); err != nil {
		return fmt.Errorf("deleting seen jobs of %s: %w", name, err)
	}
	return tx.Commit()
}

// SavedSearches returns all stored searches ordered by name.
func (s *SQLiteStore) SavedSearches() ([]model.SavedSearch, error) {
	rows, err := s.db.Query("SELECT name, filters FROM saved_searches ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing saved searches: %w", err)
	}
	defer rows.Close()

	var out []model.SavedSearch
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scanning saved search: %w", err)
		}
		ss := model.SavedSearch{Name: name}
		if err := json.Unmarshal([]byte(raw), &ss.Filters); err != nil {
			return nil, fmt.Errorf("decoding saved search %s: %w", name, err)
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

// LastFilters returns the filters stored by SetLastFilters. ok is false when
// nothing was stored yet.
func (s *SQLiteStore) LastFilters() (model.FilterState, bool, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", lastFiltersKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FilterState{}, false, nil
	}
	if err != nil {
		return model.FilterState{}, false, fmt.Errorf("reading last filters: %w", err)
	}
	var f model.FilterState
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return model.FilterState{}, false, fmt.Errorf("decoding last filters: %w", err)
	}
	return f, true, nil
}

// SetLastFilters replaces the remembered filters.
func (s *SQLiteStore) SetLastFilters(f model.FilterState) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding last filters: %w", err)
	}
	_, err = s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", lastFiltersKey, string(raw))
	if err != nil {
		return fmt.Errorf("saving last filters: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
