package edit

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/paging"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/termcurator/curate/pkg/utils"
)

type pane int

const (
	paneWorklists pane = iota
	paneRecords
	paneConcepts
	panes
)

// viewMsg carries a result of controller.Cmd back to the bubbletea loop.
type viewMsg struct {
	msg controller.Msg
}

// Model is the edit screen: worklists, records of the selected worklist and
// concepts of the selected record.
//
// Remote calls requested by the view run as tea.Cmd, and their results are
// applied to the view in Update.
type Model struct {
	ctx    context.Context
	view   *controller.EditView
	focus  pane
	cursor [panes]int
	width  int
	status string

	// selection when cursors have followed it last
	seen selection.State
}

func NewModel(ctx context.Context, view *controller.EditView) *Model {
	m := &Model{ctx: ctx, view: view}
	m.follow()
	return m
}

// EditView returns the underlying view.
func (m *Model) EditView() *controller.EditView {
	return m.view
}

// Status is the message shown at the bottom line.
func (m *Model) Status() string {
	return m.status
}

// Cursor is the position of the cursor in the focused list.
func (m *Model) Cursor() int {
	return m.cursor[m.focus]
}

func (m *Model) lift(c controller.Cmd) tea.Cmd {
	if c == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg { return viewMsg{msg: c(ctx)} }
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.key(msg.String())
	case viewMsg:
		msgs, cmds := controller.Split(msg.msg)
		next := make([]tea.Cmd, 0, len(msgs)+len(cmds))
		for _, c := range cmds {
			next = append(next, m.lift(c))
		}
		for _, vm := range msgs {
			next = append(next, m.lift(m.view.Update(vm)))
			if _, ok := vm.(controller.ReportLoaded); ok {
				if err := m.view.Windows().RefreshAll(); err != nil {
					m.status = fmt.Sprintf("refreshing viewer: %s", err)
				}
			}
		}
		m.follow()
		return m, tea.Batch(next...)
	}
	return m, nil
}

func (m *Model) key(k string) tea.Cmd {
	v := m.view
	sel := v.Selection()

	switch k {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		v.ClearErrors()
		m.status = ""
		return nil
	case "tab":
		m.focus = (m.focus + 1) % panes
		return nil
	case "shift+tab":
		m.focus = (m.focus + panes - 1) % panes
		return nil
	case "up", "k":
		m.move(-1)
		return nil
	case "down", "j":
		m.move(1)
		return nil
	case "enter":
		return m.lift(m.choose())
	case "]":
		return m.lift(m.turnPage(1))
	case "[":
		return m.lift(m.turnPage(-1))
	case "m":
		mode := (sel.WorklistMode + 1) % (selection.Checklists + 1)
		m.cursor = [panes]int{}
		m.status = "mode: " + mode.String()
		return m.lift(v.SetWorklistMode(mode))
	case "r":
		opts := sel.RoleOptions
		if len(opts) < 2 {
			return nil
		}
		idx := utils.IndexOf(opts, func(r projects.Role) bool { return r == sel.Role })
		role := opts[(idx+1)%len(opts)]
		m.status = "role: " + string(role)
		return m.lift(v.ChangeRole(role))
	case "n":
		if sel.Record == nil {
			return nil
		}
		outcome, cmd := v.SelectNextRecord(*sel.Record)
		if outcome == controller.NoMoreRecords {
			m.status = controller.NoMoreRecordsNotice
		} else {
			m.status = ""
		}
		return m.lift(cmd)
	case "a":
		if sel.Record == nil {
			return nil
		}
		m.status = fmt.Sprintf("approving record %d", sel.Record.Id)
		return m.lift(v.ApproveNext())
	case "f", "s", "u":
		w, ok := m.worklistAtCursor()
		if !ok || sel.WorklistMode == selection.Checklists {
			return nil
		}
		switch k {
		case "f":
			m.status = "finishing " + w.Name
			return m.lift(v.Finish(w))
		case "s":
			m.status = "assigning " + w.Name
			return m.lift(v.AssignToSelf(w))
		default:
			m.status = "unassigning " + w.Name
			return m.lift(v.Unassign(w))
		}
	}
	return nil
}

func (m *Model) length(p pane) int {
	switch p {
	case paneWorklists:
		return len(m.view.Worklists().Items)
	case paneRecords:
		return len(m.view.Records().Items)
	default:
		return len(m.view.Concepts())
	}
}

func (m *Model) move(delta int) {
	n := m.length(m.focus)
	if n == 0 {
		m.cursor[m.focus] = 0
		return
	}
	m.cursor[m.focus] = min(max(m.cursor[m.focus]+delta, 0), n-1)
}

func (m *Model) worklistAtCursor() (workflow.Worklist, bool) {
	items := m.view.Worklists().Items
	c := m.cursor[paneWorklists]
	if c < 0 || len(items) <= c {
		return workflow.Worklist{}, false
	}
	return items[c], true
}

// choose selects the item under the cursor in the focused list.
func (m *Model) choose() controller.Cmd {
	v := m.view
	c := m.cursor[m.focus]
	switch m.focus {
	case paneWorklists:
		w, ok := m.worklistAtCursor()
		if !ok {
			return nil
		}
		m.cursor[paneRecords] = 0
		m.cursor[paneConcepts] = 0
		return v.SelectWorklist(w, true)
	case paneRecords:
		items := v.Records().Items
		if len(items) <= c {
			return nil
		}
		m.cursor[paneConcepts] = 0
		return v.SelectRecord(items[c], true)
	default:
		items := v.Concepts()
		if len(items) <= c {
			return nil
		}
		return v.SelectConcept(items[c])
	}
}

func (m *Model) turnPage(delta int) controller.Cmd {
	v := m.view
	switch m.focus {
	case paneWorklists:
		p, ok := turn(v.WorklistPaging(), v.Worklists().TotalCount, delta)
		if !ok {
			return nil
		}
		m.cursor[paneWorklists] = 0
		return v.SetWorklistPaging(p)
	case paneRecords:
		if v.Selection().Worklist == nil {
			return nil
		}
		p, ok := turn(v.RecordPaging(), v.Records().TotalCount, delta)
		if !ok {
			return nil
		}
		m.cursor[paneRecords] = 0
		return v.SetRecordPaging(p)
	}
	return nil
}

func turn(p paging.State, total int, delta int) (paging.State, bool) {
	page := p.Page + delta
	if page < 1 || p.Pages(total) < page {
		return p, false
	}
	return p.WithPage(page), true
}

// follow moves cursors onto newly selected items, and keeps them in lists.
func (m *Model) follow() {
	v := m.view
	sel, prev := v.Selection(), m.seen
	m.seen = sel

	if sel.Worklist != nil && (prev.Worklist == nil || prev.Worklist.Id != sel.Worklist.Id) {
		id := sel.Worklist.Id
		if i := utils.IndexOf(v.Worklists().Items, func(w workflow.Worklist) bool { return w.Id == id }); 0 <= i {
			m.cursor[paneWorklists] = i
		}
	}
	if sel.Record != nil && (prev.Record == nil || prev.Record.Id != sel.Record.Id) {
		id := sel.Record.Id
		if i := utils.IndexOf(v.Records().Items, func(r workflow.TrackingRecord) bool { return r.Id == id }); 0 <= i {
			m.cursor[paneRecords] = i
		}
	}
	if sel.Concept != nil && (prev.Concept == nil || prev.Concept.Id != sel.Concept.Id) {
		id := sel.Concept.Id
		if i := utils.IndexOf(v.Concepts(), func(c content.Concept) bool { return c.Id == id }); 0 <= i {
			m.cursor[paneConcepts] = i
		}
	}
	for p := paneWorklists; p < panes; p++ {
		if n := m.length(p); n <= m.cursor[p] {
			m.cursor[p] = max(n-1, 0)
		}
	}
}
