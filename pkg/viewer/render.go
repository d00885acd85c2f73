package viewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	bodyStyle = lipgloss.NewStyle().Padding(1, 1, 0, 1)

	emptyStyle = lipgloss.NewStyle().Faint(true).Padding(1, 1, 0, 1)
)

// Render lays p out for a terminal width columns wide. Non positive width means no limit.
func Render(p Page, width int) string {
	parts := []string{}

	title := p.Title
	if title == "" {
		title = "curate"
	}
	ts := titleStyle
	if 0 < width {
		ts = ts.Width(width)
	}
	parts = append(parts, ts.Render(title))

	if p.Notice != "" {
		ns := noticeStyle
		if 0 < width {
			ns = ns.Width(width)
		}
		parts = append(parts, ns.Render(p.Notice))
	}

	if strings.TrimSpace(p.Body) == "" {
		parts = append(parts, emptyStyle.Render("(nothing to show)"))
	} else {
		bs := bodyStyle
		if 0 < width {
			bs = bs.Width(width)
		}
		parts = append(parts, bs.Render(p.Body))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
