package tui

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/amishk599/jobdash/internal/board"
	"github.com/amishk599/jobdash/internal/model"
)

func renderJobDetail(job model.Job, saved bool, width int) string {
	var b strings.Builder

	title := job.Title
	if saved {
		title += " " + savedMarkStyle.Render("[saved]")
	}
	b.WriteString(detailTitleStyle.Render(wordWrap(title, width)))
	b.WriteString("\n")

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteString("\n")
	}

	addField("Company", job.CompanyName)
	addField("Location", job.LocationLabel())
	addField("Salary", job.SalaryLabel())
	if job.Modality != model.ModalityAny {
		addField("Modality", job.Modality.Label())
	}
	if job.WorkType != model.WorkTypeAny {
		addField("Type", job.WorkType.Label())
	}
	if !job.ListedAt.IsZero() {
		addField("Listed", job.ListedAt.Local().Format("2006-01-02 15:04"))
	}
	addField("ID", job.ID)
	addField("URL", job.URL)

	b.WriteString("\n")
	b.WriteString(descDividerStyle.Render(strings.Repeat("─", max(width, 1))))
	b.WriteString("\n")
	if job.Description == "" {
		b.WriteString(descHintStyle.Render("No description."))
		return b.String()
	}
	b.WriteString(descBodyStyle.Render(wordWrap(job.Description, width)))
	return b.String()
}

func renderSuggestions(items []board.Suggestion, cursor, width int) string {
	if len(items) == 0 {
		return descHintStyle.Render("  no suggestions")
	}
	var b strings.Builder
	for i, s := range items {
		label := truncate(s.Label, width-4)
		if s.Match != nil {
			label = truncate(s.Label+"  ("+string(s.Match.Type)+")", width-4)
		}
		if i == cursor {
			b.WriteString(selectedSuggestionStyle.Width(width).Render("> " + label))
		} else {
			b.WriteString(suggestionStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func locationLabel(l model.Location) string {
	var parts []string
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// cycle returns the element after cur, wrapping around. An unknown cur
// yields the first element.
func cycle[T comparable](xs []T, cur T) T {
	for i, x := range xs {
		if x == cur {
			return xs[(i+1)%len(xs)]
		}
	}
	return xs[0]
}

// optionalInt maps the zero preset back to "unset".
func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return model.IntPtr(v)
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// wordWrap breaks text at word boundaries so no line exceeds width runes.
// Existing line breaks are kept.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out strings.Builder
	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			out.WriteString("\n")
		}
		col := 0
		for wi, word := range strings.Fields(line) {
			n := len([]rune(word))
			if wi > 0 {
				if col+1+n > width {
					out.WriteString("\n")
					col = 0
				} else {
					out.WriteString(" ")
					col++
				}
			}
			out.WriteString(word)
			col += n
		}
	}
	return out.String()
}

func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
