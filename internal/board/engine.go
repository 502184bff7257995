// Package board is the search, filter and selection engine behind the job
// list. It runs inside a bubbletea program: every state change happens on
// the Update goroutine, and all I/O and timers are tea.Cmds whose messages
// carry generation tokens so superseded results are dropped.
package board

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobdash/internal/location"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/query"
)

// Config tunes the engine. Zero durations are valid and fire immediately.
type Config struct {
	PageSize            int
	FetchSettle         time.Duration
	SuggestSettle       time.Duration
	RequestTimeout      time.Duration
	LocationSuggestions int
	Now                 func() time.Time
}

// DefaultConfig returns the settle windows used by the browse screen.
func DefaultConfig() Config {
	return Config{
		PageSize:            query.DefaultPageSize,
		FetchSettle:         550 * time.Millisecond,
		SuggestSettle:       300 * time.Millisecond,
		RequestTimeout:      15 * time.Second,
		LocationSuggestions: 5,
		Now:                 time.Now,
	}
}

// Engine composes the fetcher, pager, selection machine and both suggestion
// providers around one FilterState.
type Engine struct {
	filters   model.FilterState
	fetcher   *Fetcher
	pager     *Pager
	selection *Selection
	titles    *Suggester
	locations *Suggester
	logger    *slog.Logger

	err       error
	lastQuery model.Query
	resolved  model.Location
}

// New creates an engine over b. Nothing is fetched until Init or a filter
// change.
func New(b model.Backend, cfg Config, logger *slog.Logger) *Engine {
	if cfg.PageSize < 1 {
		cfg.PageSize = query.DefaultPageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.LocationSuggestions < 1 {
		cfg.LocationSuggestions = 5
	}
	builder := &query.Builder{PageSize: cfg.PageSize, Now: cfg.Now}
	resolver := location.NewResolver(b, logger)

	return &Engine{
		fetcher:   NewFetcher(b, resolver, builder, cfg.FetchSettle, cfg.RequestTimeout, logger),
		pager:     NewPager(cfg.PageSize),
		selection: NewSelection(b, cfg.PageSize, cfg.RequestTimeout, logger),
		titles:    NewTitleSuggester(b, cfg.SuggestSettle, cfg.RequestTimeout, logger),
		locations: NewLocationSuggester(b, cfg.LocationSuggestions, cfg.SuggestSettle, cfg.RequestTimeout, logger),
		logger:    logger,
	}
}

// Init schedules the first fetch for the current filters.
func (e *Engine) Init() tea.Cmd {
	return e.fetcher.Schedule(e.filters, e.pager.Page())
}

// Filters returns a copy of the current filter state.
func (e *Engine) Filters() model.FilterState { return e.filters }

// SetFilters validates f, resets to page 1 and schedules a fetch. An
// invalid f is rejected and leaves the engine unchanged.
func (e *Engine) SetFilters(f model.FilterState) (tea.Cmd, error) {
	nf, err := f.Normalize()
	if err != nil {
		return nil, err
	}
	e.filters = nf
	e.pager.Reset()
	return e.fetcher.Schedule(e.filters, e.pager.Page()), nil
}

// SetTitleInput updates the free-text query and the title suggestions.
func (e *Engine) SetTitleInput(text string) tea.Cmd {
	f := e.filters
	f.Text = text
	fetch, _ := e.SetFilters(f)
	return tea.Batch(fetch, e.titles.SetInput(text))
}

// SetLocationInput updates the free-text location, dropping any structured
// binding, and the location suggestions.
func (e *Engine) SetLocationInput(text string) tea.Cmd {
	f := e.filters
	f.LocationText = text
	f.Resolved = model.Location{}
	fetch, _ := e.SetFilters(f)
	return tea.Batch(fetch, e.locations.SetInput(text))
}

// ChooseTitle applies title suggestion i through the filter-change path.
func (e *Engine) ChooseTitle(i int) tea.Cmd {
	s, ok := e.titles.Choose(i)
	if !ok {
		return nil
	}
	f := e.filters
	f.Text = s.Label
	cmd, _ := e.SetFilters(f)
	return cmd
}

// ChooseLocation applies location suggestion i, binding its structured
// fields, through the filter-change path.
func (e *Engine) ChooseLocation(i int) tea.Cmd {
	s, ok := e.locations.Choose(i)
	if !ok {
		return nil
	}
	f := e.filters
	f.LocationText = s.Label
	if s.Match != nil {
		f.Resolved = location.FromMatch(*s.Match)
	}
	cmd, err := e.SetFilters(f)
	if err != nil {
		e.logger.Debug("ignoring unusable location suggestion", "label", s.Label, "error", err)
		f.Resolved = model.Location{}
		cmd, _ = e.SetFilters(f)
	}
	return cmd
}

// NextPage, PrevPage and GoTo change the page without touching the
// filters. They return nil when the page does not change.
func (e *Engine) NextPage() tea.Cmd {
	if !e.pager.Next() {
		return nil
	}
	return e.fetcher.Schedule(e.filters, e.pager.Page())
}

func (e *Engine) PrevPage() tea.Cmd {
	if !e.pager.Prev() {
		return nil
	}
	return e.fetcher.Schedule(e.filters, e.pager.Page())
}

func (e *Engine) GoTo(n int) tea.Cmd {
	if !e.pager.GoTo(n) {
		return nil
	}
	return e.fetcher.Schedule(e.filters, e.pager.Page())
}

// Refresh refetches the current page, e.g. after a network error.
func (e *Engine) Refresh() tea.Cmd {
	return e.fetcher.Schedule(e.filters, e.pager.Page())
}

// SetDeepLink sets (or, with "", clears) the externally requested job.
// Reconciliation waits for any pending fetch to settle.
func (e *Engine) SetDeepLink(id string) tea.Cmd {
	e.selection.SetDeepLink(id)
	if e.fetcher.Phase() != FetchIdle {
		return nil
	}
	return e.selection.Reconcile()
}

// Select selects a job in the visible list.
func (e *Engine) Select(id string) bool { return e.selection.Select(id) }

// MoveSelection moves the selection by delta within the visible list,
// clamped to its bounds.
func (e *Engine) MoveSelection(delta int) bool {
	items := e.selection.Items()
	if len(items) == 0 {
		return false
	}
	i := e.selection.SelectedIndex() + delta
	if e.selection.SelectedIndex() < 0 {
		i = 0
	}
	i = max(0, min(i, len(items)-1))
	return e.selection.Select(items[i].ID)
}

// Update routes engine messages. Messages it does not own are ignored.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case fetchTickMsg:
		return e.fetcher.onTick(msg)

	case fetchDoneMsg:
		if !e.fetcher.onDone(msg) {
			return nil
		}
		if msg.err != nil {
			// Keep the previous page, but settle a deep link that changed
			// while the request was pending.
			e.err = msg.err
			e.logger.Warn("job search failed", "error", msg.err)
			return e.selection.Reconcile()
		}
		e.err = nil
		e.lastQuery = msg.query
		e.resolved = msg.resolved
		if e.pager.Apply(msg.page) {
			e.logger.Debug("page out of range, refetching", "page", e.pager.Page(), "total_pages", e.pager.TotalPages())
			return e.fetcher.Schedule(e.filters, e.pager.Page())
		}
		e.selection.SetPage(msg.page.Items)
		return e.selection.Reconcile()

	case pointFetchDoneMsg:
		if e.fetcher.Phase() != FetchIdle {
			e.selection.hold(msg)
			return nil
		}
		e.selection.onPointFetch(msg)
		return nil

	case suggestTickMsg:
		return e.suggester(msg.kind).onTick(msg)

	case suggestDoneMsg:
		e.suggester(msg.kind).onDone(msg)
		return nil
	}
	return nil
}

func (e *Engine) suggester(k SuggestKind) *Suggester {
	if k == SuggestLocations {
		return e.locations
	}
	return e.titles
}

// Page, TotalPages and Total describe the last applied result.
func (e *Engine) Page() int       { return e.pager.Page() }
func (e *Engine) TotalPages() int { return e.pager.TotalPages() }
func (e *Engine) Total() int      { return e.pager.Total() }
func (e *Engine) PageSize() int   { return e.pager.PageSize() }

// Items returns the visible list, including a spliced deep-link job.
func (e *Engine) Items() []model.Job { return e.selection.Items() }

func (e *Engine) Selected() (model.Job, bool)    { return e.selection.Selected() }
func (e *Engine) SelectedID() string             { return e.selection.SelectedID() }
func (e *Engine) DeepLinkID() string             { return e.selection.DeepLinkID() }
func (e *Engine) SelectionPhase() SelectionPhase { return e.selection.Phase() }
func (e *Engine) FetchPhase() FetchPhase         { return e.fetcher.Phase() }
func (e *Engine) Titles() *Suggester             { return e.titles }
func (e *Engine) Locations() *Suggester          { return e.locations }

// Loading reports whether a fetch is debouncing or in flight.
func (e *Engine) Loading() bool { return e.fetcher.Phase() != FetchIdle }

// Err is the last listing failure; nil after a successful fetch.
func (e *Engine) Err() error { return e.err }

// SelectionErr is the last deep-link lookup failure.
func (e *Engine) SelectionErr() error { return e.selection.Err() }

// LastQuery is the query of the last applied page.
func (e *Engine) LastQuery() model.Query { return e.lastQuery }

// ResolvedLocation is the location binding used by the last applied page.
func (e *Engine) ResolvedLocation() model.Location { return e.resolved }
