package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/query"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

// fakeBackend serves a fixed job list, paginated by the query's page/limit,
// and records every call.
type fakeBackend struct {
	mu         sync.Mutex
	jobs       []model.Job
	searchHook func(q model.Query) []model.Job
	byID       map[string]model.Job
	locations  []model.LocationMatch
	titles     []string
	searchErr  error
	lookupErr  error

	queries    []model.Query
	lookups    []string
	titleCalls []string
	locCalls   []string
}

func (f *fakeBackend) SearchJobs(_ context.Context, q model.Query) (model.PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.searchErr != nil {
		return model.PageResult{}, f.searchErr
	}
	jobs := f.jobs
	if f.searchHook != nil {
		jobs = f.searchHook(q)
	}
	page := q.Int(query.ParamPage, 1)
	limit := q.Int(query.ParamLimit, query.DefaultPageSize)
	start := min((page-1)*limit, len(jobs))
	end := min(start+limit, len(jobs))
	return model.PageResult{
		Items:      append([]model.Job(nil), jobs[start:end]...),
		Page:       page,
		Total:      len(jobs),
		TotalPages: model.TotalPages(len(jobs), limit),
	}, nil
}

func (f *fakeBackend) GetJob(_ context.Context, id string) (model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, id)
	if f.lookupErr != nil {
		return model.Job{}, f.lookupErr
	}
	j, ok := f.byID[id]
	if !ok {
		return model.Job{}, &model.NotFoundError{ID: id}
	}
	return j, nil
}

func (f *fakeBackend) SuggestTitles(_ context.Context, q string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls = append(f.titleCalls, q)
	return f.titles, nil
}

func (f *fakeBackend) SearchLocations(_ context.Context, q string, k int) ([]model.LocationMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locCalls = append(f.locCalls, q)
	if len(f.locations) > k {
		return f.locations[:k], nil
	}
	return f.locations, nil
}

func (f *fakeBackend) FilterOptions(_ context.Context) (model.FilterOptions, error) {
	return model.FilterOptions{}, nil
}

func (f *fakeBackend) lastQuery(t *testing.T) model.Query {
	t.Helper()
	if len(f.queries) == 0 {
		t.Fatal("no search was issued")
	}
	return f.queries[len(f.queries)-1]
}

func makeJobs(prefix string, n int) []model.Job {
	jobs := make([]model.Job, n)
	for i := range jobs {
		jobs[i] = model.Job{ID: prefix + strconv.Itoa(i), Title: fmt.Sprintf("Job %d", i)}
	}
	return jobs
}

func ids(jobs []model.Job) string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return strings.Join(out, ",")
}

func testConfig(pageSize int) Config {
	return Config{
		PageSize:       pageSize,
		RequestTimeout: time.Second,
		Now:            func() time.Time { return fixedNow },
	}
}

func newTestEngine(b *fakeBackend, pageSize int) *Engine {
	return New(b, testConfig(pageSize), discardLogger())
}

func drain(t *testing.T, e *Engine, cmd tea.Cmd) {
	t.Helper()
	if err := Drain(context.Background(), e, cmd); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}

func setFilters(t *testing.T, e *Engine, f model.FilterState) tea.Cmd {
	t.Helper()
	cmd, err := e.SetFilters(f)
	if err != nil {
		t.Fatalf("SetFilters: %v", err)
	}
	return cmd
}

func TestEngine_InitialFetch(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 3)}
	e := newTestEngine(b, 10)

	if e.SelectionPhase() != PhaseNoList {
		t.Fatalf("phase = %v, want no-list", e.SelectionPhase())
	}
	drain(t, e, e.Init())

	if got := ids(e.Items()); got != "item0,item1,item2" {
		t.Errorf("items = %s", got)
	}
	if e.SelectedID() != "item0" {
		t.Errorf("selected = %q, want item0", e.SelectedID())
	}
	if e.Loading() {
		t.Error("engine still loading after drain")
	}
}

func TestEngine_DebounceCoalescing(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 3)}
	e := newTestEngine(b, 10)

	var ticks []tea.Cmd
	for _, text := range []string{"g", "go", "gol", "golang"} {
		ticks = append(ticks, setFilters(t, e, model.FilterState{Text: text}))
	}
	if e.FetchPhase() != FetchDebouncing {
		t.Fatalf("phase = %v, want debouncing", e.FetchPhase())
	}

	// Every timer fires, but only the last one may start a request.
	var started []tea.Cmd
	for _, tick := range ticks {
		if cmd := e.Update(tick()); cmd != nil {
			started = append(started, cmd)
		}
	}
	if len(started) != 1 {
		t.Fatalf("expected exactly 1 request, got %d", len(started))
	}
	drain(t, e, started[0])

	if len(b.queries) != 1 {
		t.Fatalf("expected 1 network call, got %d", len(b.queries))
	}
	if b.queries[0][query.ParamText] != "golang" {
		t.Errorf("q = %q, want golang", b.queries[0][query.ParamText])
	}
}

func TestEngine_StaleResponseDiscarded(t *testing.T) {
	b := &fakeBackend{searchHook: func(q model.Query) []model.Job {
		return makeJobs(q[query.ParamText]+"-", 2)
	}}
	e := newTestEngine(b, 10)

	fetchA := e.Update(setFilters(t, e, model.FilterState{Text: "a"})())
	if fetchA == nil {
		t.Fatal("fetch A did not start")
	}
	if e.FetchPhase() != FetchFetching {
		t.Fatalf("phase = %v, want fetching", e.FetchPhase())
	}
	fetchB := e.Update(setFilters(t, e, model.FilterState{Text: "b"})())
	if fetchB == nil {
		t.Fatal("fetch B did not start")
	}

	// B resolves first, then the slow A.
	doneB := fetchB()
	doneA := fetchA()
	drain(t, e, e.Update(doneB))
	if cmd := e.Update(doneA); cmd != nil {
		t.Error("stale response produced a command")
	}

	if got := ids(e.Items()); got != "b-0,b-1" {
		t.Errorf("items = %s, want B's page", got)
	}
	if e.LastQuery()[query.ParamText] != "b" {
		t.Errorf("last query = %v", e.LastQuery())
	}
}

func TestEngine_ResponseDroppedWhileDebouncing(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 2)}
	e := newTestEngine(b, 10)

	fetchA := e.Update(setFilters(t, e, model.FilterState{Text: "a"})())
	setFilters(t, e, model.FilterState{Text: "b"})

	e.Update(fetchA())
	if len(e.Items()) != 0 {
		t.Errorf("superseded response applied: %s", ids(e.Items()))
	}
	if e.FetchPhase() != FetchDebouncing {
		t.Errorf("phase = %v, want debouncing", e.FetchPhase())
	}
}

func TestEngine_PageResetOnFilterChange(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 45)}
	e := newTestEngine(b, 10)
	f := model.FilterState{Text: "engineer", Modality: model.ModalityRemote}
	drain(t, e, setFilters(t, e, f))

	drain(t, e, e.GoTo(3))
	if e.Page() != 3 {
		t.Fatalf("page = %d, want 3", e.Page())
	}
	if q := b.lastQuery(t); q[query.ParamText] != "engineer" || q[query.ParamModality] != "REMOTE" || q[query.ParamPage] != "3" {
		t.Errorf("page change altered filters: %v", q)
	}

	f.Sort = model.SortSalaryDesc
	cmd := setFilters(t, e, f)
	if e.Page() != 1 {
		t.Errorf("page = %d immediately after filter change, want 1", e.Page())
	}
	drain(t, e, cmd)
	if q := b.lastQuery(t); q[query.ParamPage] != "1" {
		t.Errorf("query page = %q, want 1", q[query.ParamPage])
	}
}

func TestEngine_FortyFiveJobsScenario(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 45)}
	e := newTestEngine(b, 10)
	drain(t, e, setFilters(t, e, model.FilterState{Text: "engineer", Modality: model.ModalityRemote}))

	if e.TotalPages() != 5 || e.Total() != 45 {
		t.Fatalf("totalPages=%d total=%d, want 5/45", e.TotalPages(), e.Total())
	}

	drain(t, e, e.GoTo(6))
	if e.Page() != 5 {
		t.Errorf("goTo(6) from page 1 -> page %d, want 5", e.Page())
	}
	if got := ids(e.Items()); got != "item40,item41,item42,item43,item44" {
		t.Errorf("last page items = %s", got)
	}

	calls := len(b.queries)
	if cmd := e.GoTo(6); cmd != nil {
		t.Error("goTo(6) on the last page should be a no-op")
	}
	if cmd := e.NextPage(); cmd != nil {
		t.Error("next on the last page should be a no-op")
	}
	drain(t, e, e.GoTo(0))
	if e.Page() != 1 {
		t.Errorf("goTo(0) -> page %d, want 1", e.Page())
	}
	if cmd := e.PrevPage(); cmd != nil {
		t.Error("prev on page 1 should be a no-op")
	}
	if len(b.queries) != calls+1 {
		t.Errorf("expected exactly one extra fetch, got %d", len(b.queries)-calls)
	}
}

func TestEngine_EmptyResult(t *testing.T) {
	b := &fakeBackend{}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())

	if e.TotalPages() != 1 || e.Page() != 1 {
		t.Errorf("page %d/%d, want 1/1", e.Page(), e.TotalPages())
	}
	if _, ok := e.Selected(); ok {
		t.Error("empty page must have no selection")
	}
	if e.SelectionPhase() != PhaseListNoSelection {
		t.Errorf("phase = %v", e.SelectionPhase())
	}
}

func TestEngine_ShrinkingResultClampsPage(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 30)}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())
	drain(t, e, e.GoTo(3))

	b.jobs = makeJobs("item", 15)
	drain(t, e, e.Refresh())

	if e.Page() != 2 || e.TotalPages() != 2 {
		t.Errorf("page %d/%d, want 2/2", e.Page(), e.TotalPages())
	}
	if got := ids(e.Items()); got != "item10,item11,item12,item13,item14" {
		t.Errorf("items = %s", got)
	}
}

func TestEngine_SelectionStickiness(t *testing.T) {
	jobs := makeJobs("item", 3)
	b := &fakeBackend{searchHook: func(q model.Query) []model.Job {
		if q[query.ParamSortBy] == "max_salary" {
			return []model.Job{jobs[2], jobs[1], jobs[0]}
		}
		return jobs
	}}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())

	if !e.Select("item1") {
		t.Fatal("Select(item1) failed")
	}
	drain(t, e, setFilters(t, e, model.FilterState{Sort: model.SortSalaryDesc}))

	if e.SelectedID() != "item1" {
		t.Errorf("selected = %q, want item1 kept across re-sort", e.SelectedID())
	}

	// Once the job leaves the page the first item is selected.
	b.searchHook = func(model.Query) []model.Job { return makeJobs("other", 2) }
	drain(t, e, setFilters(t, e, model.FilterState{Text: "x"}))
	if e.SelectedID() != "other0" {
		t.Errorf("selected = %q, want other0", e.SelectedID())
	}
}

func TestEngine_DeepLinkInPage(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 10)}
	e := newTestEngine(b, 10)
	cmd := e.Init()
	if c := e.SetDeepLink("item4"); c != nil {
		t.Error("deep link must not reconcile while a fetch is pending")
	}
	drain(t, e, cmd)

	if e.SelectedID() != "item4" {
		t.Errorf("selected = %q, want item4", e.SelectedID())
	}
	if len(b.lookups) != 0 {
		t.Errorf("unexpected point-fetch: %v", b.lookups)
	}
	if ids(e.Items()) != ids(b.jobs) {
		t.Error("list must not be reordered when the deep link is on the page")
	}
}

func TestEngine_DeepLinkSpliceEvictsTail(t *testing.T) {
	j9 := model.Job{ID: "J9", Title: "Staff Engineer"}
	b := &fakeBackend{
		jobs: makeJobs("item", 25),
		byID: map[string]model.Job{"J9": j9},
	}
	e := newTestEngine(b, 10)
	cmd := e.Init()
	e.SetDeepLink("J9")
	drain(t, e, cmd)

	want := "J9,item0,item1,item2,item3,item4,item5,item6,item7,item8"
	if got := ids(e.Items()); got != want {
		t.Errorf("items = %s\nwant    %s", got, want)
	}
	if e.SelectedID() != "J9" || e.SelectionPhase() != PhaseSelected {
		t.Errorf("selected = %q phase = %v", e.SelectedID(), e.SelectionPhase())
	}
	if len(e.Items()) > e.PageSize() {
		t.Errorf("list length %d exceeds page size", len(e.Items()))
	}
	if len(b.lookups) != 1 {
		t.Errorf("lookups = %v", b.lookups)
	}

	// Paging keeps the resolved deep link on top without another lookup.
	drain(t, e, e.NextPage())
	if got := ids(e.Items()); !strings.HasPrefix(got, "J9,item10,") {
		t.Errorf("page 2 items = %s", got)
	}
	if len(b.lookups) != 1 {
		t.Errorf("resolved deep link fetched again: %v", b.lookups)
	}
}

func TestEngine_DeepLinkSpliceShortList(t *testing.T) {
	b := &fakeBackend{
		jobs: makeJobs("item", 3),
		byID: map[string]model.Job{"J9": {ID: "J9"}},
	}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())
	drain(t, e, e.SetDeepLink("J9"))

	if got := ids(e.Items()); got != "J9,item0,item1,item2" {
		t.Errorf("items = %s", got)
	}
}

func TestEngine_DeepLinkNotFoundDegrades(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 3)}
	e := newTestEngine(b, 10)
	cmd := e.Init()
	e.SetDeepLink("gone")
	drain(t, e, cmd)

	if !model.IsNotFound(e.SelectionErr()) {
		t.Errorf("SelectionErr = %v, want NotFoundError", e.SelectionErr())
	}
	if e.SelectedID() != "item0" {
		t.Errorf("selected = %q, want first item", e.SelectedID())
	}
	if got := ids(e.Items()); got != "item0,item1,item2" {
		t.Errorf("items = %s", got)
	}

	// A missing job is not looked up again on every refetch.
	drain(t, e, e.Refresh())
	if len(b.lookups) != 1 {
		t.Errorf("lookups = %v", b.lookups)
	}
}

func TestEngine_DeepLinkNetworkErrorRetriesOnNextPage(t *testing.T) {
	b := &fakeBackend{
		jobs:      makeJobs("item", 3),
		byID:      map[string]model.Job{"J9": {ID: "J9"}},
		lookupErr: &model.NetworkError{Op: "get job", Err: errors.New("timeout")},
	}
	e := newTestEngine(b, 10)
	cmd := e.Init()
	e.SetDeepLink("J9")
	drain(t, e, cmd)

	if !model.IsNetwork(e.SelectionErr()) {
		t.Fatalf("SelectionErr = %v", e.SelectionErr())
	}
	if e.SelectedID() != "item0" {
		t.Errorf("selected = %q, want item0", e.SelectedID())
	}

	b.lookupErr = nil
	drain(t, e, e.Refresh())
	if e.SelectedID() != "J9" || e.SelectionErr() != nil {
		t.Errorf("selected = %q err = %v after retry", e.SelectedID(), e.SelectionErr())
	}
}

func TestEngine_DeepLinkDuringFailedRefresh(t *testing.T) {
	b := &fakeBackend{
		jobs: makeJobs("item", 10),
		byID: map[string]model.Job{"J9": {ID: "J9"}},
	}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())

	b.searchErr = &model.NetworkError{Op: "search jobs", Err: errors.New("connection reset")}
	refresh := e.Refresh()
	deepLink := e.SetDeepLink("J9")
	drain(t, e, refresh)
	drain(t, e, deepLink)

	if !model.IsNetwork(e.Err()) {
		t.Errorf("Err = %v, want NetworkError", e.Err())
	}
	if e.SelectedID() != "J9" || e.SelectionPhase() != PhaseSelected {
		t.Errorf("selected = %q phase = %v, want J9 selected", e.SelectedID(), e.SelectionPhase())
	}
	if got := strings.Join(b.lookups, ","); got != "J9" {
		t.Errorf("lookups = %s, want J9", got)
	}
	want := "J9,item0,item1,item2,item3,item4,item5,item6,item7,item8"
	if got := ids(e.Items()); got != want {
		t.Errorf("items = %s\nwant    %s", got, want)
	}
}

func TestEngine_DeepLinkChangeReplacesSplicedJob(t *testing.T) {
	b := &fakeBackend{
		jobs: makeJobs("item", 10),
		byID: map[string]model.Job{"J9": {ID: "J9"}, "J8": {ID: "J8"}},
	}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())
	drain(t, e, e.SetDeepLink("J9"))
	drain(t, e, e.SetDeepLink("J8"))

	want := "J8,item0,item1,item2,item3,item4,item5,item6,item7,item8"
	if got := ids(e.Items()); got != want {
		t.Errorf("items = %s\nwant    %s", got, want)
	}
	if e.SelectedID() != "J8" {
		t.Errorf("selected = %q, want J8", e.SelectedID())
	}

	drain(t, e, e.SetDeepLink(""))
	if got := ids(e.Items()); got != ids(b.jobs) {
		t.Errorf("items after clear = %s, want the fetched page", got)
	}
	if e.SelectedID() != "item0" || e.SelectionPhase() != PhaseSelected {
		t.Errorf("selected = %q phase = %v, want item0", e.SelectedID(), e.SelectionPhase())
	}
}

func TestEngine_PointFetchHeldWhileFetching(t *testing.T) {
	b := &fakeBackend{
		jobs: makeJobs("item", 10),
		byID: map[string]model.Job{"J9": {ID: "J9"}},
	}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())

	lookup := e.SetDeepLink("J9")
	if lookup == nil {
		t.Fatal("expected a point-fetch")
	}
	refresh := e.Refresh()
	if c := e.Update(lookup()); c != nil {
		t.Error("held lookup returned a command")
	}
	if strings.Contains(ids(e.Items()), "J9") {
		t.Errorf("spliced while fetching: %s", ids(e.Items()))
	}
	if e.SelectionPhase() != PhaseSelecting {
		t.Errorf("phase = %v, want selecting", e.SelectionPhase())
	}

	drain(t, e, refresh)
	if e.SelectedID() != "J9" || !strings.HasPrefix(ids(e.Items()), "J9,item0,") {
		t.Errorf("selected = %q items = %s", e.SelectedID(), ids(e.Items()))
	}
	if len(b.lookups) != 1 {
		t.Errorf("lookups = %v, want one", b.lookups)
	}
}

func TestEngine_StalePointFetchDropped(t *testing.T) {
	b := &fakeBackend{
		jobs: makeJobs("item", 3),
		byID: map[string]model.Job{"J1": {ID: "J1"}, "J2": {ID: "J2"}},
	}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())

	lookup1 := e.SetDeepLink("J1")
	if e.SelectionPhase() != PhaseSelecting {
		t.Fatalf("phase = %v, want selecting", e.SelectionPhase())
	}
	lookup2 := e.SetDeepLink("J2")
	drain(t, e, lookup2)
	drain(t, e, lookup1)

	if e.SelectedID() != "J2" {
		t.Errorf("selected = %q, want J2", e.SelectedID())
	}
	if strings.Contains(ids(e.Items()), "J1") {
		t.Errorf("stale deep link spliced: %s", ids(e.Items()))
	}
}

func TestEngine_UserSelectionClearsDeepLink(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 3)}
	e := newTestEngine(b, 10)
	cmd := e.Init()
	e.SetDeepLink("item2")
	drain(t, e, cmd)

	if !e.MoveSelection(-1) {
		t.Fatal("MoveSelection failed")
	}
	if e.SelectedID() != "item1" || e.DeepLinkID() != "" {
		t.Errorf("selected = %q deepLink = %q", e.SelectedID(), e.DeepLinkID())
	}
}

func TestEngine_FetchErrorKeepsPreviousPage(t *testing.T) {
	b := &fakeBackend{jobs: makeJobs("item", 3)}
	e := newTestEngine(b, 10)
	drain(t, e, e.Init())
	e.Select("item2")

	b.searchErr = &model.NetworkError{Op: "search jobs", Err: errors.New("connection refused")}
	drain(t, e, setFilters(t, e, model.FilterState{Text: "x"}))

	if !model.IsNetwork(e.Err()) {
		t.Errorf("Err = %v, want NetworkError", e.Err())
	}
	if e.Loading() {
		t.Error("loading flag not cleared after failure")
	}
	if got := ids(e.Items()); got != "item0,item1,item2" || e.SelectedID() != "item2" {
		t.Errorf("items = %s selected = %q", got, e.SelectedID())
	}

	b.searchErr = nil
	drain(t, e, e.Refresh())
	if e.Err() != nil {
		t.Errorf("Err = %v after successful refresh", e.Err())
	}
}

func TestEngine_InvalidFiltersRejected(t *testing.T) {
	b := &fakeBackend{}
	e := newTestEngine(b, 10)
	_, err := e.SetFilters(model.FilterState{Modality: "MOON"})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if e.FetchPhase() != FetchIdle {
		t.Error("rejected filters scheduled a fetch")
	}
}

func TestEngine_AustinResolvesToCityOnly(t *testing.T) {
	b := &fakeBackend{locations: []model.LocationMatch{
		{Type: model.GranularityCity, Country: "United States", State: "Texas", City: "Austin"},
	}}
	e := newTestEngine(b, 10)
	drain(t, e, setFilters(t, e, model.FilterState{LocationText: "Austin"}))

	q := b.lastQuery(t)
	if q[query.ParamCity] != "Austin" {
		t.Errorf("city = %q", q[query.ParamCity])
	}
	for _, k := range []string{query.ParamState, query.ParamCountry} {
		if v, ok := q[k]; ok {
			t.Errorf("%s = %q was guessed", k, v)
		}
	}
	if e.ResolvedLocation() != (model.Location{City: "Austin"}) {
		t.Errorf("resolved = %+v", e.ResolvedLocation())
	}
}

func TestEngine_CountryResolution(t *testing.T) {
	b := &fakeBackend{locations: []model.LocationMatch{{Type: model.GranularityCountry, Country: "Mexico"}}}
	e := newTestEngine(b, 10)
	drain(t, e, setFilters(t, e, model.FilterState{LocationText: "mexico"}))

	q := b.lastQuery(t)
	if q[query.ParamCountry] != "Mexico" {
		t.Errorf("country = %q", q[query.ParamCountry])
	}
	if _, ok := q[query.ParamCity]; ok {
		t.Error("free text sent although resolution succeeded")
	}
}

func TestEngine_ResolutionOnlyAtFetchTime(t *testing.T) {
	b := &fakeBackend{}
	e := newTestEngine(b, 10)

	var ticks []tea.Cmd
	for _, text := range []string{"A", "Au", "Aus", "Austin"} {
		ticks = append(ticks, setFilters(t, e, model.FilterState{LocationText: text}))
	}
	if len(b.locCalls) != 0 {
		t.Fatalf("location resolved on keystroke: %v", b.locCalls)
	}
	for _, tick := range ticks {
		drain(t, e, e.Update(tick()))
	}
	if len(b.locCalls) != 1 || b.locCalls[0] != "Austin" {
		t.Errorf("location lookups = %v, want [Austin]", b.locCalls)
	}
}

func TestEngine_PagingReusesResolvedLocation(t *testing.T) {
	b := &fakeBackend{
		jobs:      makeJobs("item", 25),
		locations: []model.LocationMatch{{Type: model.GranularityCountry, Country: "Mexico"}},
	}
	e := newTestEngine(b, 10)
	drain(t, e, setFilters(t, e, model.FilterState{LocationText: "mexico"}))
	drain(t, e, e.NextPage())
	drain(t, e, e.NextPage())

	if len(b.locCalls) != 1 {
		t.Errorf("location lookups = %v, want one", b.locCalls)
	}
	q := b.lastQuery(t)
	if q[query.ParamCountry] != "Mexico" || q[query.ParamPage] != "3" {
		t.Errorf("query = %v", q)
	}

	drain(t, e, setFilters(t, e, model.FilterState{LocationText: "canada"}))
	if len(b.locCalls) != 2 || b.locCalls[1] != "canada" {
		t.Errorf("location lookups = %v, want a new lookup for canada", b.locCalls)
	}
}
