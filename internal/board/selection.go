package board

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobdash/internal/model"
)

// SelectionPhase is the state of the selection machine.
type SelectionPhase int

const (
	// PhaseNoList: no page has been applied yet.
	PhaseNoList SelectionPhase = iota
	// PhaseListNoSelection: a page is loaded but nothing is selected
	// (empty page, or a deep link failed and the page is empty).
	PhaseListNoSelection
	// PhaseSelecting: a deep-link point-fetch is in flight.
	PhaseSelecting
	// PhaseSelected: SelectedID names a job in the visible list.
	PhaseSelected
)

func (p SelectionPhase) String() string {
	switch p {
	case PhaseListNoSelection:
		return "list"
	case PhaseSelecting:
		return "selecting"
	case PhaseSelected:
		return "selected"
	default:
		return "no-list"
	}
}

// pointFetchDoneMsg carries the outcome of a deep-link lookup.
type pointFetchDoneMsg struct {
	token uint64
	id    string
	job   model.Job
	err   error
}

// Selection reconciles the selected job against the deep link, the loaded
// page and a point-fetch fallback. It owns the visible list, which is the
// fetched page plus at most one spliced deep-link job, never longer than
// capacity.
type Selection struct {
	lookup   model.JobLookup
	capacity int
	timeout  time.Duration
	logger   *slog.Logger

	page       []model.Job
	items      []model.Job
	hasList    bool
	selectedID string
	deepLinkID string
	phase      SelectionPhase
	token      uint64
	err        error

	// resolved caches the last point-fetched deep-link job so later pages
	// can splice it again without another lookup.
	resolved *model.Job
	// failedID is a deep link the backend reported as not found.
	failedID string
	// deferred is a lookup result that arrived while a page fetch was pending.
	deferred *pointFetchDoneMsg
}

// NewSelection creates a selection machine whose visible list never exceeds
// capacity items.
func NewSelection(lookup model.JobLookup, capacity int, timeout time.Duration, logger *slog.Logger) *Selection {
	return &Selection{
		lookup:   lookup,
		capacity: capacity,
		timeout:  timeout,
		logger:   logger,
	}
}

func (s *Selection) Phase() SelectionPhase { return s.phase }
func (s *Selection) SelectedID() string    { return s.selectedID }
func (s *Selection) DeepLinkID() string    { return s.deepLinkID }

// Err is the last point-fetch failure, cleared when the deep link changes
// or resolves.
func (s *Selection) Err() error { return s.err }

// Items returns the visible list.
func (s *Selection) Items() []model.Job { return s.items }

// Selected returns the selected job, if any.
func (s *Selection) Selected() (model.Job, bool) {
	if s.selectedID == "" {
		return model.Job{}, false
	}
	if i := indexOf(s.items, s.selectedID); i >= 0 {
		return s.items[i], true
	}
	return model.Job{}, false
}

// SelectedIndex returns the position of the selection in the visible list,
// or -1.
func (s *Selection) SelectedIndex() int {
	if s.selectedID == "" {
		return -1
	}
	return indexOf(s.items, s.selectedID)
}

// SetPage replaces the fetched page and resets the visible list to it.
func (s *Selection) SetPage(items []model.Job) {
	s.page = append([]model.Job(nil), items...)
	s.items = s.page
	s.hasList = true
}

// SetDeepLink records the externally supplied job id. An empty id clears it.
// Any in-flight point-fetch for a previous id is invalidated.
func (s *Selection) SetDeepLink(id string) {
	if id == s.deepLinkID {
		return
	}
	s.deepLinkID = id
	s.token++
	s.err = nil
	s.failedID = ""
	s.deferred = nil
	if s.resolved != nil && s.resolved.ID != id {
		s.resolved = nil
	}
	// Drop the job spliced for the previous link.
	s.items = s.page
}

// Select makes id the selection if it is in the visible list. A user
// selection supersedes the deep link.
func (s *Selection) Select(id string) bool {
	if indexOf(s.items, id) < 0 {
		return false
	}
	if s.deepLinkID != "" && s.deepLinkID != id {
		// The visible list stays as is until the next reconcile.
		s.deepLinkID = ""
		s.token++
		s.err = nil
		s.failedID = ""
		s.deferred = nil
		s.resolved = nil
	}
	s.selectedID = id
	s.phase = PhaseSelected
	return true
}

// Reconcile applies the selection rules to the current list and deep link.
// It returns a point-fetch command when the deep link is neither in the list
// nor already resolved.
func (s *Selection) Reconcile() tea.Cmd {
	held := s.deferred
	s.deferred = nil
	if !s.hasList {
		s.phase = PhaseNoList
		return nil
	}
	s.items = s.page

	if id := s.deepLinkID; id != "" {
		// Deep link present in the page: select directly.
		if indexOf(s.page, id) >= 0 {
			s.selectedID = id
			s.phase = PhaseSelected
			return nil
		}
		if held != nil && s.onPointFetch(*held) {
			return nil
		}
		// Resolved earlier: splice without a second lookup.
		if s.resolved != nil && s.resolved.ID == id {
			s.adopt(*s.resolved)
			return nil
		}
		if s.failedID != id {
			return s.pointFetch(id)
		}
	}

	s.selectDefault()
	return nil
}

// pointFetch issues GET /jobs/:id for the deep link.
func (s *Selection) pointFetch(id string) tea.Cmd {
	s.token++
	s.selectedID = ""
	s.phase = PhaseSelecting

	tok, lookup, timeout := s.token, s.lookup, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		job, err := lookup.GetJob(ctx, id)
		return pointFetchDoneMsg{token: tok, id: id, job: job, err: err}
	}
}

// hold keeps a current lookup result until the next Reconcile, so nothing
// is spliced into a page that is about to be replaced.
func (s *Selection) hold(msg pointFetchDoneMsg) {
	if msg.token != s.token || msg.id != s.deepLinkID {
		s.logger.Debug("dropping stale point-fetch", "id", msg.id, "token", msg.token, "current", s.token)
		return
	}
	s.deferred = &msg
}

// onPointFetch applies a lookup result if it answers the current deep link.
func (s *Selection) onPointFetch(msg pointFetchDoneMsg) bool {
	if msg.token != s.token || msg.id != s.deepLinkID {
		s.logger.Debug("dropping stale point-fetch", "id", msg.id, "token", msg.token, "current", s.token)
		return false
	}

	if msg.err != nil {
		s.err = msg.err
		if model.IsNotFound(msg.err) {
			s.failedID = msg.id
		}
		s.logger.Warn("deep link lookup failed", "id", msg.id, "error", msg.err)
		s.selectDefault()
		return true
	}

	job := msg.job
	if job.ID == "" {
		job.ID = msg.id
	}
	s.resolved = &job
	s.err = nil
	s.adopt(job)
	return true
}

// adopt rebuilds the visible list as the fetched page with job spliced to
// the front, and selects it.
func (s *Selection) adopt(job model.Job) {
	s.items = splice(s.page, job, s.capacity)
	s.selectedID = job.ID
	s.phase = PhaseSelected
}

// selectDefault keeps the current selection if it is still listed,
// otherwise selects the first item. An empty list selects nothing.
func (s *Selection) selectDefault() {
	if len(s.items) == 0 {
		s.selectedID = ""
		s.phase = PhaseListNoSelection
		return
	}
	if s.selectedID == "" || indexOf(s.items, s.selectedID) < 0 {
		s.selectedID = s.items[0].ID
	}
	s.phase = PhaseSelected
}

// splice returns items with job at index 0. A duplicate of job is removed
// from its old position; otherwise, if items is at capacity, the last
// element is evicted.
func splice(items []model.Job, job model.Job, capacity int) []model.Job {
	out := make([]model.Job, 0, len(items)+1)
	out = append(out, job)
	for _, it := range items {
		if it.ID != job.ID {
			out = append(out, it)
		}
	}
	if capacity > 0 && len(out) > capacity {
		out = out[:capacity]
	}
	return out
}

func indexOf(items []model.Job, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
