package board

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobdash/internal/model"
)

// SuggestKind identifies one of the two autocomplete providers.
type SuggestKind int

const (
	SuggestTitles SuggestKind = iota
	SuggestLocations
)

// Suggestion is one autocomplete entry. Match is set for location
// suggestions only.
type Suggestion struct {
	Label string
	Match *model.LocationMatch
}

type suggestTickMsg struct {
	kind  SuggestKind
	token uint64
}

type suggestDoneMsg struct {
	kind  SuggestKind
	input string
	items []Suggestion
	err   error
}

type lookupFunc func(ctx context.Context, input string) ([]Suggestion, error)

// Suggester is a debounced autocomplete provider. A lookup fires only after
// the input has been stable for the settle window and is longer than one
// rune. A response is applied only if the input still equals the text it
// was issued for.
type Suggester struct {
	kind    SuggestKind
	lookup  lookupFunc
	settle  time.Duration
	timeout time.Duration
	logger  *slog.Logger

	input  string
	token  uint64
	items  []Suggestion
	open   bool
	chosen bool // input came from Choose, not typing
	err    error
}

// NewTitleSuggester builds the job-title provider.
func NewTitleSuggester(s model.TitleSuggester, settle, timeout time.Duration, logger *slog.Logger) *Suggester {
	lookup := func(ctx context.Context, input string) ([]Suggestion, error) {
		titles, err := s.SuggestTitles(ctx, input)
		if err != nil {
			return nil, err
		}
		out := make([]Suggestion, 0, len(titles))
		for _, t := range titles {
			out = append(out, Suggestion{Label: t})
		}
		return out, nil
	}
	return &Suggester{kind: SuggestTitles, lookup: lookup, settle: settle, timeout: timeout, logger: logger}
}

// NewLocationSuggester builds the location provider returning at most k matches.
func NewLocationSuggester(s model.LocationSuggester, k int, settle, timeout time.Duration, logger *slog.Logger) *Suggester {
	lookup := func(ctx context.Context, input string) ([]Suggestion, error) {
		matches, err := s.SearchLocations(ctx, input, k)
		if err != nil {
			return nil, err
		}
		out := make([]Suggestion, 0, len(matches))
		for i := range matches {
			m := matches[i]
			out = append(out, Suggestion{Label: m.Label(), Match: &m})
		}
		return out, nil
	}
	return &Suggester{kind: SuggestLocations, lookup: lookup, settle: settle, timeout: timeout, logger: logger}
}

func (s *Suggester) Input() string       { return s.input }
func (s *Suggester) Items() []Suggestion { return s.items }
func (s *Suggester) Open() bool          { return s.open }
func (s *Suggester) Err() error          { return s.err }

// SetInput records new input and restarts the settle timer. Inputs of one
// rune or less close the panel without a lookup.
func (s *Suggester) SetInput(text string) tea.Cmd {
	s.input = text
	s.chosen = false
	s.token++
	if utf8.RuneCountInString(strings.TrimSpace(text)) <= 1 {
		s.Close()
		return nil
	}
	tok, kind := s.token, s.kind
	return tea.Tick(s.settle, func(time.Time) tea.Msg {
		return suggestTickMsg{kind: kind, token: tok}
	})
}

// Close hides the panel and drops the current items.
func (s *Suggester) Close() {
	s.items = nil
	s.open = false
}

// Choose closes the panel and returns item i. The input takes the chosen
// label without scheduling a new lookup.
func (s *Suggester) Choose(i int) (Suggestion, bool) {
	if i < 0 || i >= len(s.items) {
		return Suggestion{}, false
	}
	item := s.items[i]
	s.input = item.Label
	s.chosen = true
	s.token++
	s.Close()
	return item, true
}

func (s *Suggester) onTick(msg suggestTickMsg) tea.Cmd {
	if msg.token != s.token {
		return nil
	}
	input, kind, lookup, timeout := s.input, s.kind, s.lookup, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := lookup(ctx, strings.TrimSpace(input))
		return suggestDoneMsg{kind: kind, input: input, items: items, err: err}
	}
}

func (s *Suggester) onDone(msg suggestDoneMsg) {
	if s.chosen || msg.input != s.input {
		return
	}
	if msg.err != nil {
		s.logger.Debug("suggestion lookup failed", "input", msg.input, "error", msg.err)
		s.err = msg.err
		s.Close()
		return
	}
	s.err = nil
	s.items = msg.items
	s.open = len(msg.items) > 0
}
