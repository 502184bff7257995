// Package tui is the interactive browse screen: a filter bar with title and
// location autocomplete, the paged job list and a detail pane, all driven by
// a board.Engine inside one bubbletea program.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdash/internal/board"
	"github.com/amishk599/jobdash/internal/model"
)

const (
	jobItemHeight  = 3 // title + subtitle + blank line
	optionsTimeout = 10 * time.Second
)

// focus is the widget receiving key presses.
type focus int

const (
	focusList focus = iota
	focusTitle
	focusLocation
	focusPrompt
)

var (
	salaryPresets = []int{0, 20000, 50000, 100000, 150000}
	postedPresets = []int{0, 1, 7, 30}
)

// optionsMsg carries the backend's filter enums.
type optionsMsg struct {
	opts model.FilterOptions
	err  error
}

// Options configures Run.
type Options struct {
	Backend   model.Backend
	Engine    board.Config
	Bookmarks model.Bookmarks
	Memory    model.FilterMemory

	Filters  *model.FilterState // replaces the remembered filters when set
	DeepLink string             // job id selected once the first page lands
	Logger   *slog.Logger
}

type browseModel struct {
	engine    *board.Engine
	backend   model.Backend
	bookmarks model.Bookmarks
	logger    *slog.Logger
	initCmd   tea.Cmd

	options model.FilterOptions

	titleInput    textinput.Model
	locationInput textinput.Model
	promptInput   textinput.Model
	suggestCursor int

	listViewport   viewport.Model
	detailViewport viewport.Model
	spinner        spinner.Model

	focus  focus
	saved  map[string]bool
	status string
	width  int
	height int
	ready  bool
}

// Run starts the browse screen and blocks until the user quits. The filters
// in effect on exit are written back to opts.Memory.
func Run(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	filters := model.FilterState{}
	switch {
	case opts.Filters != nil:
		filters = *opts.Filters
	case opts.Memory != nil:
		last, ok, err := opts.Memory.LastFilters()
		if err != nil {
			logger.Warn("failed to load last filters", "error", err)
		} else if ok {
			filters = last
		}
	}

	m, err := newBrowseModel(opts.Backend, opts.Engine, opts.Bookmarks, filters, opts.DeepLink, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running browse screen: %w", err)
	}

	if opts.Memory != nil {
		if fm, ok := final.(browseModel); ok {
			if err := opts.Memory.SetLastFilters(fm.engine.Filters()); err != nil {
				logger.Warn("failed to save last filters", "error", err)
			}
		}
	}
	return nil
}

func newBrowseModel(b model.Backend, cfg board.Config, bookmarks model.Bookmarks, filters model.FilterState, deepLink string, logger *slog.Logger) (browseModel, error) {
	engine := board.New(b, cfg, logger)
	if _, err := engine.SetFilters(filters); err != nil {
		return browseModel{}, fmt.Errorf("restoring filters: %w", err)
	}
	initCmd := engine.Init()
	if deepLink != "" {
		// The first fetch is pending, so this only records the id.
		engine.SetDeepLink(deepLink)
	}

	title := newInput("title, skill or company", filters.Text)
	loc := newInput("city, state or country", filters.LocationText)
	prompt := newInput("job id", "")
	prompt.Prompt = "open job: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := browseModel{
		engine:        engine,
		backend:       b,
		bookmarks:     bookmarks,
		logger:        logger,
		initCmd:       initCmd,
		options:       model.FilterOptions{WorkTypes: model.WorkTypes, WorkLocationTypes: model.Modalities},
		titleInput:    title,
		locationInput: loc,
		promptInput:   prompt,
		spinner:       sp,
		focus:         focusList,
		saved:         make(map[string]bool),
	}
	return m, nil
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 120
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	return ti
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.spinner.Tick, m.loadOptions())
}

func (m browseModel) loadOptions() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), optionsTimeout)
		defer cancel()
		opts, err := b.FilterOptions(ctx)
		return optionsMsg{opts: opts, err: err}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		m.ready = true
		m.recalcContent()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case optionsMsg:
		if msg.err != nil {
			m.logger.Warn("filter options unavailable, using defaults", "error", msg.err)
			return m, nil
		}
		if len(msg.opts.WorkTypes) > 0 {
			m.options.WorkTypes = msg.opts.WorkTypes
		}
		if len(msg.opts.WorkLocationTypes) > 0 {
			m.options.WorkLocationTypes = msg.opts.WorkLocationTypes
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.focus {
		case focusTitle, focusLocation:
			m, cmd = m.handleInputKey(msg)
		case focusPrompt:
			m, cmd = m.handlePromptKey(msg)
		default:
			m, cmd = m.handleListKey(msg)
		}
		m.recalcContent()
		return m, cmd
	}

	cmd := m.engine.Update(msg)
	m.recalcContent()
	return m, cmd
}

func (m browseModel) handleListKey(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		return m.focusInput(focusTitle), nil
	case "l":
		return m.focusInput(focusLocation), nil
	case ":":
		m.focus = focusPrompt
		m.promptInput.SetValue("")
		return m, m.promptInput.Focus()

	case "up", "k":
		m.engine.MoveSelection(-1)
		m.ensureCursorVisible()
	case "down", "j":
		m.engine.MoveSelection(1)
		m.ensureCursorVisible()
	case "right", "n", "]":
		return m, m.engine.NextPage()
	case "left", "p", "[":
		return m, m.engine.PrevPage()
	case "g":
		return m, m.engine.GoTo(1)
	case "G":
		return m, m.engine.GoTo(m.engine.TotalPages())
	case "pgdown", "ctrl+d":
		m.detailViewport.SetYOffset(m.detailViewport.YOffset + m.detailViewport.Height/2)
	case "pgup", "ctrl+u":
		m.detailViewport.SetYOffset(m.detailViewport.YOffset - m.detailViewport.Height/2)

	case "m":
		f := m.engine.Filters()
		f.Modality = cycle(append([]model.Modality{model.ModalityAny}, m.options.WorkLocationTypes...), f.Modality)
		return m.applyFilters(f)
	case "w":
		f := m.engine.Filters()
		f.WorkType = cycle(append([]model.WorkType{model.WorkTypeAny}, m.options.WorkTypes...), f.WorkType)
		return m.applyFilters(f)
	case "s":
		f := m.engine.Filters()
		f.Sort = cycle(model.SortKeys, f.SortOrDefault())
		return m.applyFilters(f)
	case "$":
		f := m.engine.Filters()
		f.MinSalary = optionalInt(cycle(salaryPresets, derefInt(f.MinSalary)))
		return m.applyFilters(f)
	case "d":
		f := m.engine.Filters()
		f.PostedWithinDays = optionalInt(cycle(postedPresets, derefInt(f.PostedWithinDays)))
		return m.applyFilters(f)
	case "x":
		m.titleInput.SetValue("")
		m.locationInput.SetValue("")
		return m.applyFilters(model.FilterState{})

	case "r":
		return m, m.engine.Refresh()
	case "b":
		m.toggleBookmark()
	case "o":
		job, ok := m.engine.Selected()
		switch {
		case !ok:
		case job.URL == "":
			m.status = "no link for this job"
		default:
			if err := openURL(job.URL); err != nil {
				m.status = "could not open browser: " + err.Error()
			}
		}
	}
	return m, nil
}

func (m browseModel) handleInputKey(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	sugg := m.activeSuggester()
	input := m.activeInput()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if sugg.Open() {
			sugg.Close()
			return m, nil
		}
		return m.blurInputs(), nil
	case "tab":
		if sugg.Open() {
			return m.chooseSuggestion()
		}
		if m.focus == focusTitle {
			return m.focusInput(focusLocation), nil
		}
		return m.focusInput(focusTitle), nil
	case "enter":
		if sugg.Open() && len(sugg.Items()) > 0 {
			return m.chooseSuggestion()
		}
		return m.blurInputs(), nil
	case "up":
		if m.suggestCursor > 0 {
			m.suggestCursor--
		}
		return m, nil
	case "down":
		if m.suggestCursor < len(sugg.Items())-1 {
			m.suggestCursor++
		}
		return m, nil
	}

	before := input.Value()
	updated, cmd := input.Update(msg)
	*input = updated
	if input.Value() == before {
		return m, cmd
	}
	m.suggestCursor = 0
	if m.focus == focusTitle {
		return m, tea.Batch(cmd, m.engine.SetTitleInput(input.Value()))
	}
	return m, tea.Batch(cmd, m.engine.SetLocationInput(input.Value()))
}

func (m browseModel) handlePromptKey(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.promptInput.Blur()
		m.focus = focusList
		return m, nil
	case "enter":
		id := strings.TrimSpace(m.promptInput.Value())
		m.promptInput.Blur()
		m.focus = focusList
		return m, m.engine.SetDeepLink(id)
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m browseModel) chooseSuggestion() (browseModel, tea.Cmd) {
	i := m.suggestCursor
	m.suggestCursor = 0
	if m.focus == focusTitle {
		cmd := m.engine.ChooseTitle(i)
		m.titleInput.SetValue(m.engine.Titles().Input())
		m.titleInput.CursorEnd()
		return m, cmd
	}
	cmd := m.engine.ChooseLocation(i)
	m.locationInput.SetValue(m.engine.Locations().Input())
	m.locationInput.CursorEnd()
	return m, cmd
}

func (m browseModel) applyFilters(f model.FilterState) (browseModel, tea.Cmd) {
	cmd, err := m.engine.SetFilters(f)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.listViewport.SetYOffset(0)
	return m, cmd
}

func (m browseModel) focusInput(f focus) browseModel {
	m.titleInput.Blur()
	m.locationInput.Blur()
	m.suggestCursor = 0
	m.focus = f
	m.activeInput().Focus()
	return m
}

func (m browseModel) blurInputs() browseModel {
	m.titleInput.Blur()
	m.locationInput.Blur()
	m.engine.Titles().Close()
	m.engine.Locations().Close()
	m.focus = focusList
	return m
}

func (m *browseModel) activeInput() *textinput.Model {
	if m.focus == focusLocation {
		return &m.locationInput
	}
	return &m.titleInput
}

func (m browseModel) activeSuggester() *board.Suggester {
	if m.focus == focusLocation {
		return m.engine.Locations()
	}
	return m.engine.Titles()
}

func (m *browseModel) toggleBookmark() {
	job, ok := m.engine.Selected()
	if !ok || m.bookmarks == nil {
		return
	}
	if m.isSaved(job.ID) {
		if err := m.bookmarks.RemoveJob(job.ID); err != nil {
			m.status = "remove bookmark: " + err.Error()
			return
		}
		m.saved[job.ID] = false
		m.status = "removed bookmark"
		return
	}
	if err := m.bookmarks.SaveJob(job); err != nil {
		m.status = "save bookmark: " + err.Error()
		return
	}
	m.saved[job.ID] = true
	m.status = "saved " + job.Title
}

func (m *browseModel) isSaved(id string) bool {
	if m.bookmarks == nil {
		return false
	}
	if v, ok := m.saved[id]; ok {
		return v
	}
	v, err := m.bookmarks.IsSaved(id)
	if err != nil {
		m.logger.Warn("bookmark lookup failed", "id", id, "error", err)
		return false
	}
	m.saved[id] = v
	return v
}

// --- layout ---

// chromeHeight is everything outside the two panes: header, the bordered
// filter inputs, the chip row, pane borders and the status bar.
const chromeHeight = 1 + 3 + 1 + 2 + 1

func (m *browseModel) recalcLayout() {
	listWidth := m.width * 2 / 5
	detailWidth := m.width - listWidth
	paneHeight := max(m.height-chromeHeight, 1)

	m.listViewport = viewport.New(max(listWidth-2, 1), paneHeight)
	m.detailViewport = viewport.New(max(detailWidth-2, 1), paneHeight)

	inputWidth := max(m.width/2-4, 10)
	m.titleInput.Width = inputWidth
	m.locationInput.Width = inputWidth
}

func (m *browseModel) recalcContent() {
	if !m.ready {
		return
	}
	if sugg := m.activeSuggester(); m.focus != focusList && m.focus != focusPrompt && sugg.Open() {
		m.listViewport.SetContent(renderSuggestions(sugg.Items(), m.suggestCursor, m.listViewport.Width))
	} else {
		m.listViewport.SetContent(m.renderJobs())
	}
	m.detailViewport.SetContent(m.renderDetail())
}

func (m *browseModel) ensureCursorVisible() {
	idx := indexOf(m.engine.Items(), m.engine.SelectedID())
	if idx < 0 {
		return
	}
	top := idx * jobItemHeight
	bottom := top + jobItemHeight
	if top < m.listViewport.YOffset {
		m.listViewport.SetYOffset(top)
	} else if bottom > m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(bottom - m.listViewport.Height)
	}
	m.detailViewport.GotoTop()
}

func (m browseModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	inputs := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderInput(m.titleInput, m.focus == focusTitle),
		m.renderInput(m.locationInput, m.focus == focusLocation),
	)
	chips := m.renderChips()

	listBorder := inactiveBorderStyle
	if m.focus != focusPrompt {
		listBorder = activeBorderStyle
	}
	listPane := listBorder.Width(m.listViewport.Width).Height(m.listViewport.Height).Render(m.listViewport.View())
	detailPane := inactiveBorderStyle.Width(m.detailViewport.Width).Height(m.detailViewport.Height).Render(m.detailViewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	return lipgloss.JoinVertical(lipgloss.Left, header, inputs, chips, body, m.renderStatusBar())
}

func (m browseModel) renderInput(ti textinput.Model, active bool) string {
	style := inactiveBorderStyle
	if active {
		style = activeBorderStyle
	}
	return style.Width(ti.Width + 2).Render(ti.View())
}

func (m browseModel) renderHeader() string {
	text := fmt.Sprintf("jobdash  %d jobs  page %d/%d", m.engine.Total(), m.engine.Page(), m.engine.TotalPages())
	if m.engine.Loading() {
		text += "  " + m.spinner.View()
	}
	return headerStyle.Render(text)
}

func (m browseModel) renderChips() string {
	f := m.engine.Filters()
	chip := func(label string, set bool) string {
		if set {
			return activeChipStyle.Render(label)
		}
		return chipStyle.Render(label)
	}

	salary := "any"
	if f.MinSalary != nil {
		salary = fmt.Sprintf(">= %d", *f.MinSalary)
	}
	posted := "any time"
	if f.PostedWithinDays != nil {
		posted = fmt.Sprintf("%dd", *f.PostedWithinDays)
	}
	where := "anywhere"
	if loc := m.engine.ResolvedLocation(); !loc.IsZero() {
		where = locationLabel(loc)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		chip("[m] "+f.Modality.Label(), f.Modality != model.ModalityAny),
		chip("[w] "+f.WorkType.Label(), f.WorkType != model.WorkTypeAny),
		chip("[$] "+salary, f.MinSalary != nil),
		chip("[d] "+posted, f.PostedWithinDays != nil),
		chip("[s] "+string(f.SortOrDefault()), f.Sort != "" && f.Sort != model.SortRecent),
		chip("in "+where, where != "anywhere"),
	)
}

func (m browseModel) renderStatusBar() string {
	var text string
	switch {
	case m.focus == focusPrompt:
		text = m.promptInput.View()
	case m.status != "":
		text = m.status
	case m.engine.Err() != nil:
		text = errorStyle.Render("search failed: "+m.engine.Err().Error()) + "  r: retry"
	case m.engine.SelectionErr() != nil:
		text = errorStyle.Render(m.engine.SelectionErr().Error())
	case m.engine.SelectionPhase() == board.PhaseSelecting:
		text = "loading job " + m.engine.DeepLinkID() + "..."
	case m.focus != focusList:
		text = "type to search  up/down: suggestions  tab/enter: choose  esc: back"
	default:
		text = "/: title  l: location  j/k: move  [/]: page  :: open id  b: bookmark  o: open  r: refresh  x: clear  q: quit"
	}
	return statusBarStyle.Width(m.width).Render(text)
}

func (m *browseModel) renderJobs() string {
	items := m.engine.Items()
	if len(items) == 0 {
		switch {
		case m.engine.Loading():
			return "  Searching..."
		case m.engine.Err() != nil:
			return "  Could not load jobs."
		default:
			return "  No jobs match these filters."
		}
	}

	width := m.listViewport.Width
	selected := m.engine.SelectedID()
	var b strings.Builder
	for _, job := range items {
		title := truncate(job.Title, width-4)
		if m.isSaved(job.ID) {
			title = truncate("* "+job.Title, width-4)
		}
		subtitle := truncate(job.CompanyName+"  "+job.LocationLabel(), width-4)
		if job.ID == selected {
			b.WriteString(selectedJobTitleStyle.Width(width).Render("> " + title))
			b.WriteString("\n")
			b.WriteString(selectedJobSubtitleStyle.Width(width).Render("  " + subtitle))
		} else {
			b.WriteString(jobTitleStyle.Render("  " + title))
			b.WriteString("\n")
			b.WriteString(jobSubtitleStyle.Render("  " + subtitle))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m *browseModel) renderDetail() string {
	job, ok := m.engine.Selected()
	if !ok {
		return descHintStyle.Render("No job selected.")
	}
	return renderJobDetail(job, m.isSaved(job.ID), m.detailViewport.Width)
}

func indexOf(items []model.Job, id string) int {
	for i, j := range items {
		if j.ID == id {
			return i
		}
	}
	return -1
}
