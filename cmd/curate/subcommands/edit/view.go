package edit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/paging"
)

// lines of the report shown under the lists
const reportLines = 8

const help = "tab: focus  ↑↓/jk: move  enter: select  [ ]: page  n: next record  a: approve  " +
	"s/u/f: assign/unassign/finish  m: mode  r: role  esc: clear  q: quit"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m *Model) View() string {
	v := m.view
	sel := v.Selection()
	b := new(strings.Builder)

	project := "(no project)"
	if sel.Project != nil {
		project = sel.Project.Name
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"%s  %s as %s", project, v.User().UserName, sel.Role,
	)))
	b.WriteString("\n\n")

	worklists := make([]string, 0, len(v.Worklists().Items))
	for _, w := range v.Worklists().Items {
		worklists = append(worklists, describeWorklist(w))
	}
	m.list(b, paneWorklists,
		fmt.Sprintf("Worklists (%s) %s", sel.WorklistMode, pageOf(v.WorklistPaging(), v.Worklists().TotalCount)),
		worklists, selectedIndex(sel.Worklist != nil, func(i int) bool { return v.Worklists().Items[i].Id == sel.Worklist.Id }, len(worklists)),
	)

	records := make([]string, 0, len(v.Records().Items))
	for _, r := range v.Records().Items {
		records = append(records, fmt.Sprintf("%d  cluster %d  %s  (%d concepts)", r.Id, r.ClusterId, r.WorkflowStatus, len(r.Concepts)))
	}
	m.list(b, paneRecords,
		"Records "+pageOf(v.RecordPaging(), v.Records().TotalCount),
		records, selectedIndex(sel.Record != nil, func(i int) bool { return v.Records().Items[i].Id == sel.Record.Id }, len(records)),
	)

	concepts := make([]string, 0, len(v.Concepts()))
	for _, c := range v.Concepts() {
		concepts = append(concepts, fmt.Sprintf("%d  %s  %s", c.Id, c.Name, c.WorkflowStatus))
	}
	m.list(b, paneConcepts,
		"Concepts",
		concepts, selectedIndex(sel.Concept != nil, func(i int) bool { return v.Concepts()[i].Id == sel.Concept.Id }, len(concepts)),
	)

	if report := v.Report(); sel.Concept != nil && report != "" {
		b.WriteString(titleStyle.Render("Report"))
		b.WriteString("\n")
		lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
		if len(lines) > reportLines {
			lines = append(lines[:reportLines], faintStyle.Render("..."))
		}
		for _, l := range lines {
			b.WriteString("  " + l + "\n")
		}
		b.WriteString("\n")
	}

	for _, e := range v.Errors() {
		b.WriteString(errorStyle.Render(e))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	h := faintStyle
	if 0 < m.width {
		h = h.Width(m.width)
	}
	b.WriteString(h.Render(help))
	return b.String()
}

func (m *Model) list(b *strings.Builder, p pane, title string, items []string, selected int) {
	if m.focus == p {
		b.WriteString(focusedStyle.Render("▸ " + title))
	} else {
		b.WriteString(titleStyle.Render("  " + title))
	}
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(faintStyle.Render("    (none)"))
		b.WriteString("\n\n")
		return
	}
	for i, item := range items {
		mark := " "
		if i == selected {
			mark = "*"
		}
		line := fmt.Sprintf("  %s %s", mark, item)
		if m.focus == p && i == m.cursor[p] {
			line = cursorStyle.Render(">" + line[1:])
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func describeWorklist(w workflow.Worklist) string {
	editors := w.JoinedAuthors()
	if r := w.JoinedReviewers(); r != "" {
		editors = strings.TrimSpace(editors + " / " + r)
	}
	return fmt.Sprintf("%d  %s  %s  %s", w.Id, w.Name, w.WorkflowStatus, editors)
}

func pageOf(p paging.State, total int) string {
	return fmt.Sprintf("page %d/%d, %d in total", p.Page, p.Pages(total), total)
}

func selectedIndex(selected bool, match func(int) bool, n int) int {
	if !selected {
		return -1
	}
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}
