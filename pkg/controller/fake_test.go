package controller_test

import (
	"context"
	"sync"
	"testing"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
)

// fakeService is a term server for tests.
//
// Calls to a method whose Impl is not set fail the test.
type fakeService struct {
	t  *testing.T
	mu sync.Mutex

	Impl struct {
		GetUser                 func(ctx context.Context, userName string) (security.User, error)
		UpdatePreferences       func(ctx context.Context, prefs security.UserPreferences) (security.UserPreferences, error)
		GetProjectsForUser      func(ctx context.Context, userName string) (projects.ProjectList, error)
		GetRoleForProject       func(ctx context.Context, userName string, projectId int64) (projects.RoleInfo, error)
		FindAssignedUsers       func(ctx context.Context, projectId int64) (projects.UserList, error)
		FindAvailableWorklists  func(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error)
		FindAssignedWorklists   func(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error)
		FindChecklists          func(ctx context.Context, projectId int64, query string, params pfs.Params) (workflow.ChecklistList, error)
		FindRecordsForWorklist  func(ctx context.Context, projectId int64, worklistId int64, params pfs.Params) (workflow.RecordList, error)
		FindRecordsForChecklist func(ctx context.Context, projectId int64, checklistId int64, params pfs.Params) (workflow.RecordList, error)
		FindRecordsForBin       func(ctx context.Context, projectId int64, binId int64, params pfs.Params) (workflow.RecordList, error)
		PerformAction           func(ctx context.Context, projectId int64, worklistId int64, userName string, role projects.Role, action workflow.Action) (workflow.Worklist, error)
		GetConcept              func(ctx context.Context, projectId int64, conceptId int64) (content.Concept, error)
		ApproveConcept          func(ctx context.Context, projectId int64, activityId string, overrideWarnings bool, concept content.Concept) error
		GetConceptReport        func(ctx context.Context, projectId int64, conceptId int64) (string, error)
		GetConfigs              func(ctx context.Context, projectId int64) (workflow.ConfigList, error)
		RemoveConfig            func(ctx context.Context, projectId int64, configId int64) error
		GetBins                 func(ctx context.Context, projectId int64, configType string) (workflow.BinList, error)
		GetDefinition           func(ctx context.Context, projectId int64, name string, configType string) (workflow.Definition, error)
		UpdateDefinition        func(ctx context.Context, projectId int64, def workflow.Definition) error
		RemoveDefinition        func(ctx context.Context, projectId int64, definitionId int64) error
		RegenerateBin           func(ctx context.Context, projectId int64, binId int64, configType string) error
		ClearBins               func(ctx context.Context, projectId int64, configType string) error
		RegenerateBins          func(ctx context.Context, projectId int64, configType string) error
		ComputeStatus           func(ctx context.Context, projectId int64, update bool) error
		GetWorklistLog          func(ctx context.Context, projectId int64, worklistId int64) (string, error)
		GetChecklistLog         func(ctx context.Context, projectId int64, checklistId int64) (string, error)
		GetProcessLog           func(ctx context.Context, projectId int64, processId int64) (string, error)
		GetStepLog              func(ctx context.Context, projectId int64, stepId int64) (string, error)
		GetProjectLog           func(ctx context.Context, projectId int64, objectId string) (string, error)
	}

	// Calls counts calls per method name.
	Calls map[string]int
}

func newFakeService(t *testing.T) *fakeService {
	f := &fakeService{t: t, Calls: map[string]int{}}
	f.Impl.UpdatePreferences = func(_ context.Context, prefs security.UserPreferences) (security.UserPreferences, error) {
		return prefs, nil
	}
	return f
}

func (f *fakeService) called(name string, implemented bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[name] += 1
	if !implemented {
		f.t.Fatalf("%s is called, but not implemented", name)
	}
}

func (f *fakeService) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeService) GetUser(ctx context.Context, userName string) (security.User, error) {
	f.called("GetUser", f.Impl.GetUser != nil)
	return f.Impl.GetUser(ctx, userName)
}

func (f *fakeService) UpdatePreferences(ctx context.Context, prefs security.UserPreferences) (security.UserPreferences, error) {
	f.called("UpdatePreferences", f.Impl.UpdatePreferences != nil)
	return f.Impl.UpdatePreferences(ctx, prefs)
}

func (f *fakeService) GetProjectsForUser(ctx context.Context, userName string) (projects.ProjectList, error) {
	f.called("GetProjectsForUser", f.Impl.GetProjectsForUser != nil)
	return f.Impl.GetProjectsForUser(ctx, userName)
}

func (f *fakeService) GetRoleForProject(ctx context.Context, userName string, projectId int64) (projects.RoleInfo, error) {
	f.called("GetRoleForProject", f.Impl.GetRoleForProject != nil)
	return f.Impl.GetRoleForProject(ctx, userName, projectId)
}

func (f *fakeService) FindAssignedUsers(ctx context.Context, projectId int64) (projects.UserList, error) {
	f.called("FindAssignedUsers", f.Impl.FindAssignedUsers != nil)
	return f.Impl.FindAssignedUsers(ctx, projectId)
}

func (f *fakeService) FindAvailableWorklists(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error) {
	f.called("FindAvailableWorklists", f.Impl.FindAvailableWorklists != nil)
	return f.Impl.FindAvailableWorklists(ctx, projectId, userName, role, params)
}

func (f *fakeService) FindAssignedWorklists(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error) {
	f.called("FindAssignedWorklists", f.Impl.FindAssignedWorklists != nil)
	return f.Impl.FindAssignedWorklists(ctx, projectId, userName, role, params)
}

func (f *fakeService) FindChecklists(ctx context.Context, projectId int64, query string, params pfs.Params) (workflow.ChecklistList, error) {
	f.called("FindChecklists", f.Impl.FindChecklists != nil)
	return f.Impl.FindChecklists(ctx, projectId, query, params)
}

func (f *fakeService) FindRecordsForWorklist(ctx context.Context, projectId int64, worklistId int64, params pfs.Params) (workflow.RecordList, error) {
	f.called("FindRecordsForWorklist", f.Impl.FindRecordsForWorklist != nil)
	return f.Impl.FindRecordsForWorklist(ctx, projectId, worklistId, params)
}

func (f *fakeService) FindRecordsForChecklist(ctx context.Context, projectId int64, checklistId int64, params pfs.Params) (workflow.RecordList, error) {
	f.called("FindRecordsForChecklist", f.Impl.FindRecordsForChecklist != nil)
	return f.Impl.FindRecordsForChecklist(ctx, projectId, checklistId, params)
}

func (f *fakeService) FindRecordsForBin(ctx context.Context, projectId int64, binId int64, params pfs.Params) (workflow.RecordList, error) {
	f.called("FindRecordsForBin", f.Impl.FindRecordsForBin != nil)
	return f.Impl.FindRecordsForBin(ctx, projectId, binId, params)
}

func (f *fakeService) PerformAction(ctx context.Context, projectId int64, worklistId int64, userName string, role projects.Role, action workflow.Action) (workflow.Worklist, error) {
	f.called("PerformAction", f.Impl.PerformAction != nil)
	return f.Impl.PerformAction(ctx, projectId, worklistId, userName, role, action)
}

func (f *fakeService) GetConcept(ctx context.Context, projectId int64, conceptId int64) (content.Concept, error) {
	f.called("GetConcept", f.Impl.GetConcept != nil)
	return f.Impl.GetConcept(ctx, projectId, conceptId)
}

func (f *fakeService) ApproveConcept(ctx context.Context, projectId int64, activityId string, overrideWarnings bool, concept content.Concept) error {
	f.called("ApproveConcept", f.Impl.ApproveConcept != nil)
	return f.Impl.ApproveConcept(ctx, projectId, activityId, overrideWarnings, concept)
}

func (f *fakeService) GetConceptReport(ctx context.Context, projectId int64, conceptId int64) (string, error) {
	f.called("GetConceptReport", f.Impl.GetConceptReport != nil)
	return f.Impl.GetConceptReport(ctx, projectId, conceptId)
}

func (f *fakeService) GetConfigs(ctx context.Context, projectId int64) (workflow.ConfigList, error) {
	f.called("GetConfigs", f.Impl.GetConfigs != nil)
	return f.Impl.GetConfigs(ctx, projectId)
}

func (f *fakeService) RemoveConfig(ctx context.Context, projectId int64, configId int64) error {
	f.called("RemoveConfig", f.Impl.RemoveConfig != nil)
	return f.Impl.RemoveConfig(ctx, projectId, configId)
}

func (f *fakeService) GetBins(ctx context.Context, projectId int64, configType string) (workflow.BinList, error) {
	f.called("GetBins", f.Impl.GetBins != nil)
	return f.Impl.GetBins(ctx, projectId, configType)
}

func (f *fakeService) GetDefinition(ctx context.Context, projectId int64, name string, configType string) (workflow.Definition, error) {
	f.called("GetDefinition", f.Impl.GetDefinition != nil)
	return f.Impl.GetDefinition(ctx, projectId, name, configType)
}

func (f *fakeService) UpdateDefinition(ctx context.Context, projectId int64, def workflow.Definition) error {
	f.called("UpdateDefinition", f.Impl.UpdateDefinition != nil)
	return f.Impl.UpdateDefinition(ctx, projectId, def)
}

func (f *fakeService) RemoveDefinition(ctx context.Context, projectId int64, definitionId int64) error {
	f.called("RemoveDefinition", f.Impl.RemoveDefinition != nil)
	return f.Impl.RemoveDefinition(ctx, projectId, definitionId)
}

func (f *fakeService) RegenerateBin(ctx context.Context, projectId int64, binId int64, configType string) error {
	f.called("RegenerateBin", f.Impl.RegenerateBin != nil)
	return f.Impl.RegenerateBin(ctx, projectId, binId, configType)
}

func (f *fakeService) ClearBins(ctx context.Context, projectId int64, configType string) error {
	f.called("ClearBins", f.Impl.ClearBins != nil)
	return f.Impl.ClearBins(ctx, projectId, configType)
}

func (f *fakeService) RegenerateBins(ctx context.Context, projectId int64, configType string) error {
	f.called("RegenerateBins", f.Impl.RegenerateBins != nil)
	return f.Impl.RegenerateBins(ctx, projectId, configType)
}

func (f *fakeService) ComputeStatus(ctx context.Context, projectId int64, update bool) error {
	f.called("ComputeStatus", f.Impl.ComputeStatus != nil)
	return f.Impl.ComputeStatus(ctx, projectId, update)
}

func (f *fakeService) GetWorklistLog(ctx context.Context, projectId int64, worklistId int64) (string, error) {
	f.called("GetWorklistLog", f.Impl.GetWorklistLog != nil)
	return f.Impl.GetWorklistLog(ctx, projectId, worklistId)
}

func (f *fakeService) GetChecklistLog(ctx context.Context, projectId int64, checklistId int64) (string, error) {
	f.called("GetChecklistLog", f.Impl.GetChecklistLog != nil)
	return f.Impl.GetChecklistLog(ctx, projectId, checklistId)
}

func (f *fakeService) GetProcessLog(ctx context.Context, projectId int64, processId int64) (string, error) {
	f.called("GetProcessLog", f.Impl.GetProcessLog != nil)
	return f.Impl.GetProcessLog(ctx, projectId, processId)
}

func (f *fakeService) GetStepLog(ctx context.Context, projectId int64, stepId int64) (string, error) {
	f.called("GetStepLog", f.Impl.GetStepLog != nil)
	return f.Impl.GetStepLog(ctx, projectId, stepId)
}

func (f *fakeService) GetProjectLog(ctx context.Context, projectId int64, objectId string) (string, error) {
	f.called("GetProjectLog", f.Impl.GetProjectLog != nil)
	return f.Impl.GetProjectLog(ctx, projectId, objectId)
}

// pageOf slices all as the term server does for params.
func pageOf(all []workflow.TrackingRecord, params pfs.Params) workflow.RecordList {
	start := params.StartIndex
	if len(all) < start {
		start = len(all)
	}
	end := start + params.MaxResults
	if params.MaxResults < 0 || len(all) < end {
		end = len(all)
	}
	return workflow.RecordList{
		Records:    append([]workflow.TrackingRecord{}, all[start:end]...),
		TotalCount: len(all),
	}
}

// recordsN makes n records, id 1..n. Each has 2 concepts.
func recordsN(n int) []workflow.TrackingRecord {
	rs := make([]workflow.TrackingRecord, 0, n)
	for i := 1; i <= n; i++ {
		id := int64(i)
		rs = append(rs, workflow.TrackingRecord{
			Id:        id,
			ClusterId: id,
			Concepts: []content.ConceptRef{
				{Id: id*100 + 2},
				{Id: id*100 + 1},
			},
		})
	}
	return rs
}

type fakeWindow struct {
	mu        sync.Mutex
	closed    int
	refreshed int
	notices   []string
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed += 1
	return nil
}

func (w *fakeWindow) Refresh() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.refreshed += 1
	return nil
}

func (w *fakeWindow) Notify(message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notices = append(w.notices, message)
	return nil
}
