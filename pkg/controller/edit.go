package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/paging"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/termcurator/curate/pkg/utils"
	"github.com/termcurator/curate/pkg/windows"
	"golang.org/x/sync/errgroup"
)

// EditTab is the tab name saved in user preferences by EditView.
const EditTab = "/edit"

// NoMoreRecordsNotice is posted to child windows when SelectNextRecord reaches the end.
const NoMoreRecordsNotice = "no more records"

// NextOutcome is the result of SelectNextRecord.
type NextOutcome int

const (
	// the next record in the loaded page is selected.
	NextSelected NextOutcome = iota + 1

	// the next page is requested. Its first record is selected when it arrives.
	NextPageRequested

	// nothing is changed since there are no more records.
	NoMoreRecords
)

func (o NextOutcome) String() string {
	switch o {
	case NextSelected:
		return "NextSelected"
	case NextPageRequested:
		return "NextPageRequested"
	case NoMoreRecords:
		return "NoMoreRecords"
	default:
		return fmt.Sprintf("NextOutcome(%d)", int(o))
	}
}

type ProjectsLoaded struct {
	Token    Token
	Projects projects.ProjectList
	Err      error
}

type RoleLoaded struct {
	Token Token
	Role  projects.RoleInfo
	Err   error
}

type WorklistsLoaded struct {
	Token  Token
	Result paging.ListResult[workflow.Worklist]
	Err    error
}

type RecordsLoaded struct {
	Token Token

	// Paging is the paging the records are fetched with.
	Paging      paging.State
	Result      paging.ListResult[workflow.TrackingRecord]
	SelectFirst bool
	Err         error
}

type ConceptsLoaded struct {
	Token       Token
	Concepts    []content.Concept
	SelectFirst bool
	Err         error
}

type ReportLoaded struct {
	Token  Token
	Report string
	Err    error
}

type UserLoaded struct {
	Token Token
	User  security.User
	Err   error
}

// ActionPerformed is the result of a workflow action on a worklist.
type ActionPerformed struct {
	ProjectId int64
	Action    workflow.Action
	Worklist  workflow.Worklist
	Err       error
}

type ConceptsApproved struct {
	// Token is the concepts token of the record when the approval starts.
	Token     Token
	ProjectId int64
	Record    workflow.TrackingRecord
	Approved  int
	Err       error
}

type PreferencesSaved struct {
	Preferences security.UserPreferences
	Err         error
}

// EditView is the state of the edit page: browsing worklists, their records
// and concepts of records.
type EditView struct {
	svc     EditService
	logger  *log.Logger
	windows *windows.Registry

	user     security.User
	sel      selection.State
	projects []projects.Project

	worklists paging.ListResult[workflow.Worklist]
	records   paging.ListResult[workflow.TrackingRecord]
	concepts  []content.Concept
	report    string

	worklistPaging paging.State
	recordPaging   paging.State

	errs        Errors
	tokens      *tokens
	lastOutcome NextOutcome
}

func NewEditView(svc EditService, user security.User, opts ...Option) *EditView {
	o := buildOptions(opts)
	v := &EditView{
		svc:            svc,
		logger:         o.logger,
		windows:        o.windowRegistry(),
		user:           user,
		worklists:      paging.Empty[workflow.Worklist](),
		records:        paging.Empty[workflow.TrackingRecord](),
		worklistPaging: paging.New(o.pageSize(ListWorklists, 5), "lastModified"),
		recordPaging:   paging.New(o.pageSize(ListRecords, 10), "clusterId"),
		errs:           Errors{logger: o.logger},
		tokens:         newTokens(),
	}
	v.sel = selection.Reduce(v.sel, selection.SetWorklistMode{Mode: o.worklistMode})
	return v
}

func (v *EditView) Selection() selection.State { return v.sel }
func (v *EditView) User() security.User { return v.user }
func (v *EditView) Projects() []projects.Project { return v.projects }
func (v *EditView) Worklists() paging.ListResult[workflow.Worklist] { return v.worklists }
func (v *EditView) Records() paging.ListResult[workflow.TrackingRecord] { return v.records }
func (v *EditView) Concepts() []content.Concept { return v.concepts }
func (v *EditView) Report() string { return v.report }
func (v *EditView) WorklistPaging() paging.State { return v.worklistPaging }
func (v *EditView) RecordPaging() paging.State { return v.recordPaging }
func (v *EditView) Errors() []string { return v.errs.List() }
func (v *EditView) ClearErrors() { v.errs.Clear() }
func (v *EditView) Stats() Stats { return v.tokens.stats }
func (v *EditView) Windows() *windows.Registry { return v.windows }
func (v *EditView) LastNextOutcome() NextOutcome { return v.lastOutcome }

// RegisterWindow tracks a child window opened from this view.
func (v *EditView) RegisterWindow(name string, handle windows.Handle) *windows.Registration {
	reg, err := v.windows.Register(name, handle)
	v.errs.Add(err)
	return reg
}

// Initialize saves this tab in the user's preferences, loads projects and
// selects the default one.
func (v *EditView) Initialize() Cmd {
	prefs := v.preferences()
	prefs.LastTab = EditTab
	v.user.Preferences = &prefs
	return Batch(v.savePreferences(prefs), v.loadProjects())
}

func (v *EditView) preferences() security.UserPreferences {
	if v.user.Preferences == nil {
		return security.UserPreferences{Properties: map[string]string{}}
	}
	return v.user.Preferences.Clone()
}

func (v *EditView) savePreferences(prefs security.UserPreferences) Cmd {
	svc := v.svc
	return func(ctx context.Context) Msg {
		saved, err := svc.UpdatePreferences(ctx, prefs)
		return PreferencesSaved{Preferences: saved, Err: err}
	}
}

func (v *EditView) loadProjects() Cmd {
	svc := v.svc
	userName := v.user.UserName
	tok := v.tokens.issue(ListProjects)
	return func(ctx context.Context) Msg {
		pl, err := svc.GetProjectsForUser(ctx, userName)
		return ProjectsLoaded{Token: tok, Projects: pl, Err: err}
	}
}

func (v *EditView) clearLists() {
	v.worklists = paging.Empty[workflow.Worklist]()
	v.records = paging.Empty[workflow.TrackingRecord]()
	v.concepts = nil
	v.report = ""
}

// SelectProject selects project and looks up the user's role in it.
// Worklists are loaded after the role is known.
//
// When the role lookup fails, the project stays selected with no worklists.
func (v *EditView) SelectProject(project projects.Project) Cmd {
	v.sel = selection.Reduce(v.sel, selection.SelectProject{Project: project})
	v.tokens.invalidate(ListRoles, ListWorklists, ListRecords, ListConcepts, ListReport, ListUser)
	v.clearLists()
	v.worklistPaging = v.worklistPaging.Reset()
	v.recordPaging = v.recordPaging.Reset()

	svc := v.svc
	userName := v.user.UserName
	tok := v.tokens.issue(ListRoles)
	return func(ctx context.Context) Msg {
		r, err := svc.GetRoleForProject(ctx, userName, project.Id)
		return RoleLoaded{Token: tok, Role: r, Err: err}
	}
}

// SetWorklistMode switches the kind of worklists, and reloads them from the first page.
func (v *EditView) SetWorklistMode(mode selection.WorklistMode) Cmd {
	v.sel = selection.Reduce(v.sel, selection.SetWorklistMode{Mode: mode})
	v.worklistPaging = v.worklistPaging.Reset()
	return v.loadWorklists()
}

// SetWorklistPaging replaces paging of worklists and reloads them.
func (v *EditView) SetWorklistPaging(p paging.State) Cmd {
	v.worklistPaging = p
	return v.loadWorklists()
}

// SetRecordPaging replaces paging of records of the selected worklist and reloads them.
func (v *EditView) SetRecordPaging(p paging.State) Cmd {
	v.recordPaging = p
	if v.sel.Worklist == nil {
		return nil
	}
	v.sel = selection.Reduce(v.sel, selection.SelectRecord{})
	v.concepts = nil
	v.report = ""
	return v.loadRecords(p, false)
}

// loadWorklists clears lists and selections under project, and fetches worklists.
func (v *EditView) loadWorklists() Cmd {
	v.clearLists()
	v.sel = selection.Reduce(v.sel, selection.SelectWorklist{})
	v.tokens.invalidate(ListRecords, ListConcepts, ListReport)
	if v.sel.Project == nil {
		return nil
	}

	svc := v.svc
	projectId := v.sel.Project.Id
	userName := v.user.UserName
	role := v.sel.Role
	mode := v.sel.WorklistMode
	params := v.worklistPaging.QueryParams()
	tok := v.tokens.issue(ListWorklists)

	return func(ctx context.Context) Msg {
		var result paging.ListResult[workflow.Worklist]
		var err error
		switch mode {
		case selection.Checklists:
			var cl workflow.ChecklistList
			cl, err = svc.FindChecklists(ctx, projectId, "", params)
			result = paging.ListResult[workflow.Worklist]{Items: cl.Checklists, TotalCount: cl.TotalCount}
		case selection.Assigned:
			var wl workflow.WorklistList
			wl, err = svc.FindAssignedWorklists(ctx, projectId, userName, role, params)
			result = paging.ListResult[workflow.Worklist]{Items: wl.Worklists, TotalCount: wl.TotalCount}
		default:
			var wl workflow.WorklistList
			wl, err = svc.FindAvailableWorklists(ctx, projectId, userName, role, params)
			result = paging.ListResult[workflow.Worklist]{Items: wl.Worklists, TotalCount: wl.TotalCount}
		}
		return WorklistsLoaded{Token: tok, Result: result, Err: err}
	}
}

// SelectWorklist selects worklist, and loads its records from the first page.
//
// Record and concept are deselected before this returns.
// When selectFirst is true, the first record is selected when records arrive.
func (v *EditView) SelectWorklist(worklist workflow.Worklist, selectFirst bool) Cmd {
	v.sel = selection.Reduce(v.sel, selection.SelectWorklist{Worklist: &worklist})
	v.records = paging.Empty[workflow.TrackingRecord]()
	v.concepts = nil
	v.report = ""
	v.tokens.invalidate(ListRecords, ListConcepts, ListReport)
	if v.sel.Worklist == nil {
		return nil
	}
	v.recordPaging = v.recordPaging.Reset()
	return v.loadRecords(v.recordPaging, selectFirst)
}

// loadRecords fetches records of the selected worklist with p.
// p becomes the record paging when the records arrive.
func (v *EditView) loadRecords(p paging.State, selectFirst bool) Cmd {
	v.tokens.invalidate(ListConcepts, ListReport)

	svc := v.svc
	projectId := v.sel.ProjectId()
	worklistId := v.sel.Worklist.Id
	checklist := v.sel.WorklistMode == selection.Checklists
	params := p.QueryParams()
	tok := v.tokens.issue(ListRecords)

	return func(ctx context.Context) Msg {
		var rl workflow.RecordList
		var err error
		if checklist {
			rl, err = svc.FindRecordsForChecklist(ctx, projectId, worklistId, params)
		} else {
			rl, err = svc.FindRecordsForWorklist(ctx, projectId, worklistId, params)
		}
		return RecordsLoaded{
			Token:       tok,
			Paging:      p,
			Result:      paging.ListResult[workflow.TrackingRecord]{Items: rl.Records, TotalCount: rl.TotalCount},
			SelectFirst: selectFirst,
			Err:         err,
		}
	}
}

// SelectRecord selects record and loads its concepts.
//
// Concepts are not loaded in Available mode.
// When selectFirst is true, the concept with the lowest id is selected when concepts arrive.
func (v *EditView) SelectRecord(record workflow.TrackingRecord, selectFirst bool) Cmd {
	v.sel = selection.Reduce(v.sel, selection.SelectRecord{Record: &record})
	v.concepts = nil
	v.report = ""
	v.tokens.invalidate(ListConcepts, ListReport)
	if v.sel.Record == nil || v.sel.WorklistMode == selection.Available {
		return nil
	}

	svc := v.svc
	projectId := v.sel.ProjectId()
	refs := append([]content.ConceptRef{}, record.Concepts...)
	tok := v.tokens.issue(ListConcepts)

	return func(ctx context.Context) Msg {
		concepts := make([]content.Concept, len(refs))
		eg, ectx := errgroup.WithContext(ctx)
		for i, ref := range refs {
			eg.Go(func() error {
				c, err := svc.GetConcept(ectx, projectId, ref.Id)
				if err != nil {
					return fmt.Errorf("concept %d: %w", ref.Id, err)
				}
				concepts[i] = c
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return ConceptsLoaded{Token: tok, Err: err}
		}
		sort.SliceStable(concepts, func(i, j int) bool { return concepts[i].Id < concepts[j].Id })
		return ConceptsLoaded{Token: tok, Concepts: concepts, SelectFirst: selectFirst}
	}
}

// SelectConcept selects concept, refreshes child windows and loads the concept report.
func (v *EditView) SelectConcept(concept content.Concept) Cmd {
	v.sel = selection.Reduce(v.sel, selection.SelectConcept{Concept: &concept})
	v.report = ""
	v.tokens.invalidate(ListReport)
	if v.sel.Concept == nil {
		return nil
	}
	v.errs.Add(v.windows.RefreshAll())

	svc := v.svc
	projectId := v.sel.ProjectId()
	tok := v.tokens.issue(ListReport)
	return func(ctx context.Context) Msg {
		report, err := svc.GetConceptReport(ctx, projectId, concept.Id)
		return ReportLoaded{Token: tok, Report: report, Err: err}
	}
}

// SelectNextRecord selects the record after current.
//
// When current is the last one of the loaded page (or not in the page) and
// more records exist, the next page is fetched and its first record is
// selected on arrival. The record paging moves to the next page only when
// the fetch succeeds. Otherwise child windows are notified that no more
// records exist, and nothing changes.
func (v *EditView) SelectNextRecord(current workflow.TrackingRecord) (NextOutcome, Cmd) {
	items := v.records.Items
	idx := utils.IndexOf(items, func(r workflow.TrackingRecord) bool { return r.Id == current.Id })
	if 0 <= idx && idx < len(items)-1 {
		v.lastOutcome = NextSelected
		return NextSelected, v.SelectRecord(items[idx+1], true)
	}

	if v.sel.Worklist != nil && v.records.HasMore(v.recordPaging) {
		v.lastOutcome = NextPageRequested
		return NextPageRequested, v.loadRecords(v.recordPaging.Next(), true)
	}

	v.errs.Add(v.windows.NotifyAll(NoMoreRecordsNotice))
	v.lastOutcome = NoMoreRecords
	return NoMoreRecords, nil
}

// Finish finishes worklist, and reloads worklists.
func (v *EditView) Finish(worklist workflow.Worklist) Cmd {
	return v.performAction(worklist, workflow.Finish, v.user.UserName)
}

// AssignToSelf assigns worklist to the user, and reloads worklists.
func (v *EditView) AssignToSelf(worklist workflow.Worklist) Cmd {
	return v.performAction(worklist, workflow.Assign, v.user.UserName)
}

// Unassign unassigns worklist from its editors.
//
// Editors are the authors of the worklist when the role is AUTHOR,
// and reviewers when REVIEWER.
func (v *EditView) Unassign(worklist workflow.Worklist) Cmd {
	editor := v.user.UserName
	switch v.sel.Role {
	case projects.Author:
		if a := worklist.JoinedAuthors(); a != "" {
			editor = a
		}
	case projects.Reviewer:
		if r := worklist.JoinedReviewers(); r != "" {
			editor = r
		}
	}
	return v.performAction(worklist, workflow.Unassign, editor)
}

func (v *EditView) performAction(worklist workflow.Worklist, action workflow.Action, editor string) Cmd {
	if v.sel.Project == nil {
		return nil
	}
	svc := v.svc
	projectId := v.sel.Project.Id
	role := v.sel.Role
	return func(ctx context.Context) Msg {
		w, err := svc.PerformAction(ctx, projectId, worklist.Id, editor, role, action)
		if err != nil {
			w = worklist
		}
		return ActionPerformed{ProjectId: projectId, Action: action, Worklist: w, Err: err}
	}
}

// ApproveNext approves every loaded concept of the selected record, then
// selects the next record.
//
// When the record is deselected or its worklist is changed before the
// approval completes, the next record is not selected.
func (v *EditView) ApproveNext() Cmd {
	if v.sel.Record == nil || v.sel.Worklist == nil {
		return nil
	}
	svc := v.svc
	projectId := v.sel.ProjectId()
	activityId := v.sel.Worklist.Name
	record := *v.sel.Record
	concepts := append([]content.Concept{}, v.concepts...)
	tok := v.tokens.current(ListConcepts)

	return func(ctx context.Context) Msg {
		approved := 0
		var errs []error
		for _, c := range concepts {
			fresh, err := svc.GetConcept(ctx, projectId, c.Id)
			if err == nil {
				err = svc.ApproveConcept(ctx, projectId, activityId, false, fresh)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("approving concept %d: %w", c.Id, err))
				continue
			}
			approved += 1
		}
		return ConceptsApproved{
			Token: tok, ProjectId: projectId, Record: record, Approved: approved, Err: errors.Join(errs...),
		}
	}
}

// ChangeRole switches the user's role in the project, saves it in preferences
// and reloads worklists.
func (v *EditView) ChangeRole(role projects.Role) Cmd {
	if v.sel.Project == nil {
		return nil
	}
	v.sel = selection.Reduce(v.sel, selection.SetRole{Role: role})
	prefs := v.preferences()
	prefs.LastProjectRole = string(role)
	v.user.Preferences = &prefs
	v.worklistPaging = v.worklistPaging.Reset()
	return Batch(v.savePreferences(prefs), v.loadWorklists())
}

// Close tears the view down. Every child window is closed.
func (v *EditView) Close() error {
	err := v.windows.CloseAll()
	v.sel = selection.Reduce(v.sel, selection.Teardown{})
	v.tokens.invalidate(
		ListProjects, ListRoles, ListWorklists, ListRecords, ListConcepts, ListReport, ListUser,
	)
	v.clearLists()
	v.projects = nil
	return err
}

func (v *EditView) Update(msg Msg) Cmd {
	switch m := msg.(type) {
	case ProjectsLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading projects: %s", m.Err)
			return nil
		}
		v.projects = m.Projects.Projects
		if p, ok := v.defaultProject(m.Projects); ok {
			return v.SelectProject(p)
		}
		return nil

	case RoleLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading role for project %d: %s", v.sel.ProjectId(), m.Err)
			return nil
		}
		options := m.Role.Options
		if options == nil {
			options = []projects.Role{}
		}
		v.sel = selection.Reduce(v.sel, selection.SetRole{Role: m.Role.Role, Options: options})
		v.worklistPaging = v.worklistPaging.Reset()
		v.recordPaging = v.recordPaging.Reset()
		return v.loadWorklists()

	case WorklistsLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading worklists: %s", m.Err)
			return nil
		}
		v.worklists = nonNilItems(m.Result)
		return nil

	case RecordsLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading records: %s", m.Err)
			return nil
		}
		v.recordPaging = m.Paging
		v.records = nonNilItems(m.Result)
		if m.SelectFirst && len(v.records.Items) != 0 {
			return v.SelectRecord(v.records.Items[0], true)
		}
		return nil

	case ConceptsLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading concepts: %s", m.Err)
			return nil
		}
		v.concepts = m.Concepts
		if m.SelectFirst && len(v.concepts) != 0 {
			return v.SelectConcept(v.concepts[0])
		}
		return nil

	case ReportLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading concept report: %s", m.Err)
			return nil
		}
		v.report = m.Report
		return nil

	case ActionPerformed:
		if m.ProjectId != v.sel.ProjectId() {
			v.logger.Printf("result of %s on worklist %d is ignored: project is changed", m.Action, m.Worklist.Id)
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("%s worklist %s: %s", m.Action, m.Worklist.Name, m.Err)
			return nil
		}
		v.logger.Printf("%s worklist %s", m.Action, m.Worklist.Name)
		if m.Action == workflow.Assign {
			return v.reloadUser()
		}
		v.worklistPaging = v.worklistPaging.Reset()
		v.recordPaging = v.recordPaging.Reset()
		return v.loadWorklists()

	case UserLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading user %s: %s", v.user.UserName, m.Err)
			return nil
		}
		v.mergeUser(m.User)
		v.worklistPaging = v.worklistPaging.Reset()
		v.recordPaging = v.recordPaging.Reset()
		return v.loadWorklists()

	case ConceptsApproved:
		if m.Err != nil {
			v.errs.Add(m.Err)
		}
		if !v.tokens.accept(m.Token) || m.ProjectId != v.sel.ProjectId() {
			v.logger.Printf("approved %d concepts of record %d, next record is not selected: selection is changed", m.Approved, m.Record.Id)
			return nil
		}
		_, cmd := v.SelectNextRecord(m.Record)
		return cmd

	case PreferencesSaved:
		if m.Err != nil {
			v.errs.Addf("saving preferences: %s", m.Err)
		}
		return nil
	}
	return nil
}

func (v *EditView) reloadUser() Cmd {
	svc := v.svc
	userName := v.user.UserName
	tok := v.tokens.issue(ListUser)
	return func(ctx context.Context) Msg {
		u, err := svc.GetUser(ctx, userName)
		return UserLoaded{Token: tok, User: u, Err: err}
	}
}

// mergeUser takes u as the user, but keeps credentials and preferences known locally.
func (v *EditView) mergeUser(u security.User) {
	if u.AuthToken == "" {
		u.AuthToken = v.user.AuthToken
	}
	if u.Preferences == nil {
		u.Preferences = v.user.Preferences
	}
	v.user = u
}

func (v *EditView) defaultProject(pl projects.ProjectList) (projects.Project, bool) {
	if pl.Project != nil {
		return *pl.Project, true
	}
	if v.user.Preferences != nil && v.user.Preferences.LastProjectId != 0 {
		last := v.user.Preferences.LastProjectId
		if p, ok := utils.First(pl.Projects, func(p projects.Project) bool { return p.Id == last }); ok {
			return p, true
		}
	}
	if len(pl.Projects) != 0 {
		return pl.Projects[0], true
	}
	return projects.Project{}, false
}

func nonNilItems[T any](l paging.ListResult[T]) paging.ListResult[T] {
	if l.Items == nil {
		l.Items = []T{}
	}
	return l
}
