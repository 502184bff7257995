package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdash/internal/model"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerDetailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

type pickerModel struct {
	searches []model.SavedSearch
	cursor   int
	chosen   int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.searches)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Saved searches"))
	b.WriteString("\n")

	for i, s := range m.searches {
		label := s.Name + "  " + pickerDetailStyle.Render(summarize(s.Filters))
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + label))
		} else {
			b.WriteString(pickerItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString(pickerHintStyle.Render("up/down/j/k navigate  enter browse  q quit"))
	return b.String()
}

// summarize renders the set filters on one line.
func summarize(f model.FilterState) string {
	var parts []string
	if f.Text != "" {
		parts = append(parts, `"`+f.Text+`"`)
	}
	if f.LocationText != "" {
		parts = append(parts, "in "+f.LocationText)
	} else if !f.Resolved.IsZero() {
		parts = append(parts, "in "+locationLabel(f.Resolved))
	}
	if f.Modality != model.ModalityAny {
		parts = append(parts, f.Modality.Label())
	}
	if f.WorkType != model.WorkTypeAny {
		parts = append(parts, f.WorkType.Label())
	}
	if len(parts) == 0 {
		return "all jobs"
	}
	return strings.Join(parts, ", ")
}

// RunSearchPicker shows an interactive saved-search selector.
// Returns the index of the chosen search, or -1 if the user quit.
func RunSearchPicker(searches []model.SavedSearch) (int, error) {
	m := pickerModel{
		searches: searches,
		chosen:   -1,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
