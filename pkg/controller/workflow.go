package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/paging"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/termcurator/curate/pkg/utils"
	"github.com/termcurator/curate/pkg/windows"
)

// WorkflowTab is the tab name saved in user preferences by WorkflowView.
const WorkflowTab = "/workflow"

// GroupsProperty is the user preference property keeping accordion groups of WorkflowView.
const GroupsProperty = "workflowGroups"

const (
	// cluster type selecting records without cluster type.
	ClusterTypeDefault = "default"

	// cluster type selecting records of any cluster type.
	ClusterTypeAll = "all"
)

// Group is an accordion group of the workflow page.
type Group struct {
	Title string `json:"title,omitempty"`
	Open  bool   `json:"open"`
}

func DefaultGroups() []Group {
	return []Group{
		{Title: "Bins", Open: true},
		{Title: "Worklists", Open: false},
		{Title: "Checklists", Open: false},
	}
}

type UsersLoaded struct {
	Token Token
	Users projects.UserList
	Err   error
}

type ConfigsLoaded struct {
	Token   Token
	Configs []workflow.Config
	Err     error
}

type BinsLoaded struct {
	Token Token
	Bins  []workflow.Bin

	// bin to be selected again, if it is still there.
	Keep        *workflow.Bin
	ClusterType string

	Err error
}

type BinRecordsLoaded struct {
	Token  Token
	Result paging.ListResult[workflow.TrackingRecord]
	Err    error
}

// BinsMaintained is the result of an operation on bins or configs.
type BinsMaintained struct {
	ProjectId     int64
	Operation     string
	Keep          *workflow.Bin
	ReloadConfigs bool
	Err           error
}

// BinsChanged notifies that bins of a project are changed on the server.
type BinsChanged struct {
	ProjectId int64
}

// WorklistChanged notifies that a worklist of a project is changed on the server.
type WorklistChanged struct {
	ProjectId int64
}

// WorkflowView is the state of the workflow page: configs, their bins and records in a bin.
type WorkflowView struct {
	svc     WorkflowService
	logger  *log.Logger
	windows *windows.Registry

	user     security.User
	sel      selection.State
	projects []projects.Project
	users    []security.User

	configs    []workflow.Config
	bins       []workflow.Bin
	binRecords paging.ListResult[workflow.TrackingRecord]
	binPaging  paging.State
	groups     []Group

	errs   Errors
	tokens *tokens
}

func NewWorkflowView(svc WorkflowService, user security.User, opts ...Option) *WorkflowView {
	o := buildOptions(opts)
	return &WorkflowView{
		svc:        svc,
		logger:     o.logger,
		windows:    o.windowRegistry(),
		user:       user,
		binRecords: paging.Empty[workflow.TrackingRecord](),
		binPaging:  paging.New(o.pageSize(ListBinRecords, 10), "clusterId"),
		groups:     DefaultGroups(),
		errs:       Errors{logger: o.logger},
		tokens:     newTokens(),
	}
}

func (v *WorkflowView) Selection() selection.State { return v.sel }
func (v *WorkflowView) User() security.User { return v.user }
func (v *WorkflowView) Projects() []projects.Project { return v.projects }
func (v *WorkflowView) Users() []security.User { return v.users }
func (v *WorkflowView) Configs() []workflow.Config { return v.configs }
func (v *WorkflowView) AllBins() []workflow.Bin { return v.bins }
func (v *WorkflowView) BinRecords() paging.ListResult[workflow.TrackingRecord] { return v.binRecords }
func (v *WorkflowView) BinPaging() paging.State { return v.binPaging }
func (v *WorkflowView) Errors() []string { return v.errs.List() }
func (v *WorkflowView) ClearErrors() { v.errs.Clear() }
func (v *WorkflowView) Stats() Stats { return v.tokens.stats }

// Groups returns a copy of accordion groups.
func (v *WorkflowView) Groups() []Group {
	return append([]Group{}, v.groups...)
}

// Bins returns bins offered to the user.
//
// ADMIN can see all bins. Other roles can see only editable bins.
func (v *WorkflowView) Bins() []workflow.Bin {
	if v.sel.Role == projects.Admin {
		return v.bins
	}
	return utils.Filter(v.bins, func(b workflow.Bin) bool { return b.Editable })
}

// Initialize saves this tab in preferences, restores accordion groups,
// loads projects and selects the default one.
func (v *WorkflowView) Initialize() Cmd {
	prefs := v.preferences()
	prefs.LastTab = WorkflowTab
	v.user.Preferences = &prefs

	if saved, ok := prefs.Properties[GroupsProperty]; ok && saved != "" {
		groups := []Group{}
		if err := json.Unmarshal([]byte(saved), &groups); err != nil {
			v.logger.Printf("saved %s is broken. ignored: %s", GroupsProperty, err)
		} else {
			v.groups = groups
		}
	}

	svc := v.svc
	userName := v.user.UserName
	tok := v.tokens.issue(ListProjects)
	load := func(ctx context.Context) Msg {
		pl, err := svc.GetProjectsForUser(ctx, userName)
		return ProjectsLoaded{Token: tok, Projects: pl, Err: err}
	}
	return Batch(v.savePreferences(prefs), load)
}

func (v *WorkflowView) preferences() security.UserPreferences {
	if v.user.Preferences == nil {
		return security.UserPreferences{Properties: map[string]string{}}
	}
	return v.user.Preferences.Clone()
}

func (v *WorkflowView) savePreferences(prefs security.UserPreferences) Cmd {
	svc := v.svc
	return func(ctx context.Context) Msg {
		saved, err := svc.UpdatePreferences(ctx, prefs)
		return PreferencesSaved{Preferences: saved, Err: err}
	}
}

// SetGroupOpen opens or closes the accordion group titled title, and saves groups in preferences.
func (v *WorkflowView) SetGroupOpen(title string, open bool) Cmd {
	idx := utils.IndexOf(v.groups, func(g Group) bool { return g.Title == title })
	if idx < 0 {
		v.errs.Addf("unknown group: %s", title)
		return nil
	}
	v.groups[idx].Open = open

	encoded, err := json.Marshal(v.groups)
	if err != nil {
		v.errs.Add(err)
		return nil
	}
	prefs := v.preferences()
	prefs.Properties[GroupsProperty] = string(encoded)
	v.user.Preferences = &prefs
	return v.savePreferences(prefs)
}

// SelectProject selects project, and loads the user's role, users of the
// project and workflow configs.
func (v *WorkflowView) SelectProject(project projects.Project) Cmd {
	v.sel = selection.Reduce(v.sel, selection.SelectProject{Project: project})
	v.tokens.invalidate(ListRoles, ListUsers, ListConfigs, ListBins, ListBinRecords)
	v.configs = nil
	v.bins = nil
	v.users = nil
	v.binRecords = paging.Empty[workflow.TrackingRecord]()
	v.binPaging = v.binPaging.WithFilter("")

	svc := v.svc
	userName := v.user.UserName
	roleTok := v.tokens.issue(ListRoles)
	usersTok := v.tokens.issue(ListUsers)
	return Batch(
		func(ctx context.Context) Msg {
			r, err := svc.GetRoleForProject(ctx, userName, project.Id)
			return RoleLoaded{Token: roleTok, Role: r, Err: err}
		},
		func(ctx context.Context) Msg {
			u, err := svc.FindAssignedUsers(ctx, project.Id)
			return UsersLoaded{Token: usersTok, Users: u, Err: err}
		},
	)
}

// ChangeRole switches the user's role and saves it in preferences.
func (v *WorkflowView) ChangeRole(role projects.Role) Cmd {
	if v.sel.Project == nil {
		return nil
	}
	v.sel = selection.Reduce(v.sel, selection.SetRole{Role: role})
	prefs := v.preferences()
	prefs.LastProjectRole = string(role)
	v.user.Preferences = &prefs
	return v.savePreferences(prefs)
}

func (v *WorkflowView) loadConfigs() Cmd {
	v.tokens.invalidate(ListBins, ListBinRecords)
	if v.sel.Project == nil {
		return nil
	}
	svc := v.svc
	projectId := v.sel.Project.Id
	tok := v.tokens.issue(ListConfigs)
	return func(ctx context.Context) Msg {
		cl, err := svc.GetConfigs(ctx, projectId)
		return ConfigsLoaded{Token: tok, Configs: cl.Configs, Err: err}
	}
}

// SelectConfig selects config and loads its bins.
//
// If the selected bin is in the new bins, it is selected again.
func (v *WorkflowView) SelectConfig(config workflow.Config) Cmd {
	prevBin, prevType := v.sel.Bin, v.sel.ClusterType
	v.sel = selection.Reduce(v.sel, selection.SelectConfig{Config: &config})
	return v.loadBins(prevBin, prevType)
}

func (v *WorkflowView) loadBins(keep *workflow.Bin, clusterType string) Cmd {
	v.binRecords = paging.Empty[workflow.TrackingRecord]()
	v.tokens.invalidate(ListBinRecords)
	if v.sel.Project == nil || v.sel.Config == nil || v.sel.Config.Type == "" {
		return nil
	}

	svc := v.svc
	projectId := v.sel.Project.Id
	configType := v.sel.Config.Type
	tok := v.tokens.issue(ListBins)
	return func(ctx context.Context) Msg {
		bl, err := svc.GetBins(ctx, projectId, configType)
		return BinsLoaded{Token: tok, Bins: bl.Bins, Keep: keep, ClusterType: clusterType, Err: err}
	}
}

// SelectBin selects bin and loads its records from the first page.
//
// clusterType narrows records: ClusterTypeDefault is records without cluster type,
// ClusterTypeAll is all records, and other values are the cluster type itself.
// Empty clusterType keeps the current filter.
func (v *WorkflowView) SelectBin(bin workflow.Bin, clusterType string) Cmd {
	v.sel = selection.Reduce(v.sel, selection.SelectBin{Bin: &bin, ClusterType: clusterType})
	if v.sel.Bin == nil {
		return nil
	}
	v.binPaging = v.binPaging.WithFilter(clusterTypeFilter(v.binPaging.Filter, clusterType))
	return v.loadBinRecords()
}

func clusterTypeFilter(current string, clusterType string) string {
	switch clusterType {
	case "":
		return current
	case ClusterTypeDefault:
		return " NOT clusterType:[* TO *]"
	case ClusterTypeAll:
		return ""
	default:
		return clusterType
	}
}

// SetBinPaging replaces paging of bin records and reloads them.
func (v *WorkflowView) SetBinPaging(p paging.State) Cmd {
	v.binPaging = p
	return v.loadBinRecords()
}

func (v *WorkflowView) loadBinRecords() Cmd {
	if v.sel.Bin == nil {
		return nil
	}
	svc := v.svc
	projectId := v.sel.ProjectId()
	binId := v.sel.Bin.Id
	params := v.binPaging.QueryParams()
	tok := v.tokens.issue(ListBinRecords)
	return func(ctx context.Context) Msg {
		rl, err := svc.FindRecordsForBin(ctx, projectId, binId, params)
		return BinRecordsLoaded{
			Token:  tok,
			Result: paging.ListResult[workflow.TrackingRecord]{Items: rl.Records, TotalCount: rl.TotalCount},
			Err:    err,
		}
	}
}

// maintain runs op against the selected project and config.
func (v *WorkflowView) maintain(
	operation string,
	keep *workflow.Bin,
	reloadConfigs bool,
	op func(ctx context.Context, svc WorkflowService, projectId int64, configType string) error,
) Cmd {
	if v.sel.Project == nil {
		return nil
	}
	if !reloadConfigs && v.sel.Config == nil {
		v.errs.Addf("%s: no workflow config is selected", operation)
		return nil
	}
	svc := v.svc
	projectId := v.sel.Project.Id
	configType := ""
	if v.sel.Config != nil {
		configType = v.sel.Config.Type
	}
	return func(ctx context.Context) Msg {
		err := op(ctx, svc, projectId, configType)
		return BinsMaintained{
			ProjectId: projectId, Operation: operation, Keep: keep, ReloadConfigs: reloadConfigs, Err: err,
		}
	}
}

// RegenerateBin recomputes records of bin.
func (v *WorkflowView) RegenerateBin(bin workflow.Bin) Cmd {
	return v.maintain(
		fmt.Sprintf("regenerating bin %s", bin.Name), &bin, false,
		func(ctx context.Context, svc WorkflowService, projectId int64, configType string) error {
			return svc.RegenerateBin(ctx, projectId, bin.Id, configType)
		},
	)
}

// RegenerateBins clears all bins of the selected config, and regenerates them.
func (v *WorkflowView) RegenerateBins() Cmd {
	return v.maintain(
		"regenerating bins", v.sel.Bin, false,
		func(ctx context.Context, svc WorkflowService, projectId int64, configType string) error {
			if err := svc.ClearBins(ctx, projectId, configType); err != nil {
				return err
			}
			return svc.RegenerateBins(ctx, projectId, configType)
		},
	)
}

// RecomputeStatus recomputes workflow status of concepts.
func (v *WorkflowView) RecomputeStatus(update bool) Cmd {
	return v.maintain(
		"recomputing concept status", v.sel.Bin, false,
		func(ctx context.Context, svc WorkflowService, projectId int64, _ string) error {
			return svc.ComputeStatus(ctx, projectId, update)
		},
	)
}

// ToggleEnable flips "enabled" of the bin's definition.
func (v *WorkflowView) ToggleEnable(bin workflow.Bin) Cmd {
	return v.maintain(
		fmt.Sprintf("toggling bin %s", bin.Name), &bin, false,
		func(ctx context.Context, svc WorkflowService, projectId int64, configType string) error {
			def, err := svc.GetDefinition(ctx, projectId, bin.Name, configType)
			if err != nil {
				return err
			}
			def.Enabled = !def.Enabled
			return svc.UpdateDefinition(ctx, projectId, def)
		},
	)
}

// RemoveBin removes the definition of bin.
func (v *WorkflowView) RemoveBin(bin workflow.Bin) Cmd {
	return v.maintain(
		fmt.Sprintf("removing bin %s", bin.Name), nil, false,
		func(ctx context.Context, svc WorkflowService, projectId int64, configType string) error {
			def, err := svc.GetDefinition(ctx, projectId, bin.Name, configType)
			if err != nil {
				return err
			}
			return svc.RemoveDefinition(ctx, projectId, def.Id)
		},
	)
}

// RemoveConfig removes config, and reloads configs.
func (v *WorkflowView) RemoveConfig(config workflow.Config) Cmd {
	return v.maintain(
		fmt.Sprintf("removing config %s", config.Type), nil, true,
		func(ctx context.Context, svc WorkflowService, projectId int64, _ string) error {
			return svc.RemoveConfig(ctx, projectId, config.Id)
		},
	)
}

// Close tears the view down. Every child window is closed.
func (v *WorkflowView) Close() error {
	err := v.windows.CloseAll()
	v.sel = selection.Reduce(v.sel, selection.Teardown{})
	v.tokens.invalidate(ListProjects, ListRoles, ListUsers, ListConfigs, ListBins, ListBinRecords)
	v.projects = nil
	v.users = nil
	v.configs = nil
	v.bins = nil
	v.binRecords = paging.Empty[workflow.TrackingRecord]()
	return err
}

func (v *WorkflowView) Update(msg Msg) Cmd {
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
		switch {
		case m.Projects.Project != nil:
			return v.SelectProject(*m.Projects.Project)
		case len(v.projects) != 0:
			return v.SelectProject(v.projects[0])
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
		return v.loadConfigs()

	case UsersLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading users of project %d: %s", v.sel.ProjectId(), m.Err)
			return nil
		}
		v.users = m.Users.Users
		return nil

	case ConfigsLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading workflow configs: %s", m.Err)
			return nil
		}
		v.configs = utils.Sorted(m.Configs, func(a, b workflow.Config) bool { return a.Type < b.Type })
		if len(v.configs) == 0 {
			v.sel = selection.Reduce(v.sel, selection.SelectConfig{})
			v.bins = nil
			return nil
		}
		return v.SelectConfig(v.configs[0])

	case BinsLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading bins: %s", m.Err)
			return nil
		}
		v.bins = m.Bins
		if v.bins == nil {
			v.bins = []workflow.Bin{}
		}
		if m.Keep != nil {
			keepId := m.Keep.Id
			if b, ok := utils.First(v.bins, func(b workflow.Bin) bool { return b.Id == keepId }); ok {
				return v.SelectBin(b, m.ClusterType)
			}
		}
		v.sel = selection.Reduce(v.sel, selection.SelectBin{})
		return nil

	case BinRecordsLoaded:
		if !v.tokens.accept(m.Token) {
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("loading records of bin: %s", m.Err)
			return nil
		}
		v.binRecords = nonNilItems(m.Result)
		return nil

	case BinsMaintained:
		if m.ProjectId != v.sel.ProjectId() {
			v.logger.Printf("result of %s is ignored: project is changed", m.Operation)
			return nil
		}
		if m.Err != nil {
			v.errs.Addf("%s: %s", m.Operation, m.Err)
			return nil
		}
		v.logger.Printf("done: %s", m.Operation)
		if m.ReloadConfigs {
			return v.loadConfigs()
		}
		return v.loadBins(m.Keep, v.sel.ClusterType)

	case BinsChanged:
		return v.reloadBinsFor(m.ProjectId)

	case WorklistChanged:
		return v.reloadBinsFor(m.ProjectId)

	case PreferencesSaved:
		if m.Err != nil {
			v.errs.Addf("saving preferences: %s", m.Err)
		}
		return nil
	}
	return nil
}

func (v *WorkflowView) reloadBinsFor(projectId int64) Cmd {
	if v.sel.Project == nil || v.sel.Project.Id != projectId {
		return nil
	}
	return v.loadBins(v.sel.Bin, v.sel.ClusterType)
}

