package board

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobdash/internal/location"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/query"
)

// FetchPhase is the state of the Fetcher.
type FetchPhase int

const (
	FetchIdle FetchPhase = iota
	FetchDebouncing
	FetchFetching
)

func (p FetchPhase) String() string {
	switch p {
	case FetchDebouncing:
		return "debouncing"
	case FetchFetching:
		return "fetching"
	default:
		return "idle"
	}
}

// fetchTickMsg fires when a settle window elapses.
type fetchTickMsg struct {
	token uint64
}

// fetchDoneMsg carries the outcome of a listing request.
type fetchDoneMsg struct {
	token        uint64
	query        model.Query
	locationText string
	resolved     model.Location
	page         model.PageResult
	err          error
}

type fetchRequest struct {
	filters model.FilterState
	page    int
}

// Fetcher owns the debounce timer and the single in-flight request slot.
// Every Schedule mints a new token; ticks and responses carrying an older
// token are dropped, so the last scheduled request always wins regardless
// of arrival order.
type Fetcher struct {
	searcher model.JobSearcher
	resolver *location.Resolver
	builder  *query.Builder
	settle   time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	token   uint64
	phase   FetchPhase
	pending fetchRequest

	// lastText and lastResolved remember the binding of the last applied
	// page so paging does not resolve the same text again.
	lastText     string
	lastResolved model.Location
}

// NewFetcher creates a fetcher. settle is the debounce window; timeout bounds
// each request including location resolution.
func NewFetcher(searcher model.JobSearcher, resolver *location.Resolver, builder *query.Builder, settle, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		searcher: searcher,
		resolver: resolver,
		builder:  builder,
		settle:   settle,
		timeout:  timeout,
		logger:   logger,
	}
}

// Phase returns the current state.
func (f *Fetcher) Phase() FetchPhase { return f.phase }

// Token returns the current generation token.
func (f *Fetcher) Token() uint64 { return f.token }

// Schedule supersedes any pending or in-flight request and restarts the
// settle timer for (filters, page).
func (f *Fetcher) Schedule(filters model.FilterState, page int) tea.Cmd {
	f.token++
	f.phase = FetchDebouncing
	f.pending = fetchRequest{filters: filters, page: page}

	tok := f.token
	return tea.Tick(f.settle, func(time.Time) tea.Msg {
		return fetchTickMsg{token: tok}
	})
}

// onTick starts the request if the tick belongs to the latest Schedule.
func (f *Fetcher) onTick(msg fetchTickMsg) tea.Cmd {
	if msg.token != f.token || f.phase != FetchDebouncing {
		return nil
	}
	f.phase = FetchFetching

	if lf := &f.pending.filters; lf.Resolved.IsZero() && lf.LocationText != "" && lf.LocationText == f.lastText {
		lf.Resolved = f.lastResolved
	}

	var (
		tok      = f.token
		req      = f.pending
		searcher = f.searcher
		resolver = f.resolver
		builder  = f.builder
		timeout  = f.timeout
	)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		filters := req.filters
		if filters.Resolved.IsZero() && filters.LocationText != "" && resolver != nil {
			filters.Resolved = resolver.Resolve(ctx, filters.LocationText)
		}
		q := builder.Build(filters, req.page)
		page, err := searcher.SearchJobs(ctx, q)
		return fetchDoneMsg{
			token:        tok,
			query:        q,
			locationText: filters.LocationText,
			resolved:     filters.Resolved,
			page:         page,
			err:          err,
		}
	}
}

// onDone reports whether msg is the response to the latest request. Stale
// responses leave the fetcher untouched.
func (f *Fetcher) onDone(msg fetchDoneMsg) bool {
	if msg.token != f.token {
		f.logger.Debug("dropping stale fetch response", "token", msg.token, "current", f.token)
		return false
	}
	f.phase = FetchIdle
	if msg.err == nil && msg.locationText != "" && !msg.resolved.IsZero() {
		f.lastText, f.lastResolved = msg.locationText, msg.resolved
	}
	return true
}
