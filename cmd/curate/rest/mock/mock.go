// Package mock provides a CurateClient for tests.
//
// Set functions to Impl for methods to be called. Arguments of each call are
// recorded in Calls. Calling a method without Impl fails the test.
package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
)

type AuthenticateArgs struct {
	UserName string
	Password string
}

type GetRoleForProjectArgs struct {
	UserName  string
	ProjectId int64
}

type FindAvailableWorklistsArgs struct {
	ProjectId int64
	UserName  string
	Role      projects.Role
	Params    pfs.Params
}

type FindAssignedWorklistsArgs struct {
	ProjectId int64
	UserName  string
	Role      projects.Role
	Params    pfs.Params
}

type FindChecklistsArgs struct {
	ProjectId int64
	Query     string
	Params    pfs.Params
}

type FindRecordsForWorklistArgs struct {
	ProjectId  int64
	WorklistId int64
	Params     pfs.Params
}

type FindRecordsForChecklistArgs struct {
	ProjectId   int64
	ChecklistId int64
	Params      pfs.Params
}

type FindRecordsForBinArgs struct {
	ProjectId int64
	BinId     int64
	Params    pfs.Params
}

type PerformActionArgs struct {
	ProjectId  int64
	WorklistId int64
	UserName   string
	Role       projects.Role
	Action     workflow.Action
}

type GetConceptArgs struct {
	ProjectId int64
	ConceptId int64
}

type ApproveConceptArgs struct {
	ProjectId        int64
	ActivityId       string
	OverrideWarnings bool
	Concept          content.Concept
}

type GetConceptReportArgs struct {
	ProjectId int64
	ConceptId int64
}

type RemoveConfigArgs struct {
	ProjectId int64
	ConfigId  int64
}

type GetBinsArgs struct {
	ProjectId  int64
	ConfigType string
}

type GetDefinitionArgs struct {
	ProjectId  int64
	Name       string
	ConfigType string
}

type UpdateDefinitionArgs struct {
	ProjectId int64
	Def       workflow.Definition
}

type RemoveDefinitionArgs struct {
	ProjectId    int64
	DefinitionId int64
}

type RegenerateBinArgs struct {
	ProjectId  int64
	BinId      int64
	ConfigType string
}

type ClearBinsArgs struct {
	ProjectId  int64
	ConfigType string
}

type RegenerateBinsArgs struct {
	ProjectId  int64
	ConfigType string
}

type ComputeStatusArgs struct {
	ProjectId int64
	Update    bool
}

type GetWorklistLogArgs struct {
	ProjectId  int64
	WorklistId int64
}

type GetChecklistLogArgs struct {
	ProjectId   int64
	ChecklistId int64
}

type GetProcessLogArgs struct {
	ProjectId int64
	ProcessId int64
}

type GetStepLogArgs struct {
	ProjectId int64
	StepId    int64
}

type GetProjectLogArgs struct {
	ProjectId int64
	ObjectId  string
}

type MockClient struct {
	t  *testing.T
	mu sync.Mutex

	Impl struct {
		Authenticate            func(ctx context.Context, userName string, password string) (security.User, error)
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

	Calls struct {
		Authenticate            []AuthenticateArgs
		GetUser                 []string
		UpdatePreferences       []security.UserPreferences
		GetProjectsForUser      []string
		GetRoleForProject       []GetRoleForProjectArgs
		FindAssignedUsers       []int64
		FindAvailableWorklists  []FindAvailableWorklistsArgs
		FindAssignedWorklists   []FindAssignedWorklistsArgs
		FindChecklists          []FindChecklistsArgs
		FindRecordsForWorklist  []FindRecordsForWorklistArgs
		FindRecordsForChecklist []FindRecordsForChecklistArgs
		FindRecordsForBin       []FindRecordsForBinArgs
		PerformAction           []PerformActionArgs
		GetConcept              []GetConceptArgs
		ApproveConcept          []ApproveConceptArgs
		GetConceptReport        []GetConceptReportArgs
		GetConfigs              []int64
		RemoveConfig            []RemoveConfigArgs
		GetBins                 []GetBinsArgs
		GetDefinition           []GetDefinitionArgs
		UpdateDefinition        []UpdateDefinitionArgs
		RemoveDefinition        []RemoveDefinitionArgs
		RegenerateBin           []RegenerateBinArgs
		ClearBins               []ClearBinsArgs
		RegenerateBins          []RegenerateBinsArgs
		ComputeStatus           []ComputeStatusArgs
		GetWorklistLog          []GetWorklistLogArgs
		GetChecklistLog         []GetChecklistLogArgs
		GetProcessLog           []GetProcessLogArgs
		GetStepLog              []GetStepLogArgs
		GetProjectLog           []GetProjectLogArgs
	}
}

func New(t *testing.T) *MockClient {
	return &MockClient{t: t}
}

var _ rest.CurateClient = &MockClient{}

func (m *MockClient) Authenticate(ctx context.Context, userName string, password string) (security.User, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.Authenticate = append(m.Calls.Authenticate, AuthenticateArgs{UserName: userName, Password: password})
	impl := m.Impl.Authenticate
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("Authenticate is not ready to be called")
	}
	return impl(ctx, userName, password)
}

func (m *MockClient) GetUser(ctx context.Context, userName string) (security.User, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetUser = append(m.Calls.GetUser, userName)
	impl := m.Impl.GetUser
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetUser is not ready to be called")
	}
	return impl(ctx, userName)
}

func (m *MockClient) UpdatePreferences(ctx context.Context, prefs security.UserPreferences) (security.UserPreferences, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.UpdatePreferences = append(m.Calls.UpdatePreferences, prefs)
	impl := m.Impl.UpdatePreferences
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("UpdatePreferences is not ready to be called")
	}
	return impl(ctx, prefs)
}

func (m *MockClient) GetProjectsForUser(ctx context.Context, userName string) (projects.ProjectList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetProjectsForUser = append(m.Calls.GetProjectsForUser, userName)
	impl := m.Impl.GetProjectsForUser
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetProjectsForUser is not ready to be called")
	}
	return impl(ctx, userName)
}

func (m *MockClient) GetRoleForProject(ctx context.Context, userName string, projectId int64) (projects.RoleInfo, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetRoleForProject = append(m.Calls.GetRoleForProject, GetRoleForProjectArgs{UserName: userName, ProjectId: projectId})
	impl := m.Impl.GetRoleForProject
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetRoleForProject is not ready to be called")
	}
	return impl(ctx, userName, projectId)
}

func (m *MockClient) FindAssignedUsers(ctx context.Context, projectId int64) (projects.UserList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.FindAssignedUsers = append(m.Calls.FindAssignedUsers, projectId)
	impl := m.Impl.FindAssignedUsers
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("FindAssignedUsers is not ready to be called")
	}
	return impl(ctx, projectId)
}

func (m *MockClient) FindAvailableWorklists(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.FindAvailableWorklists = append(m.Calls.FindAvailableWorklists, FindAvailableWorklistsArgs{ProjectId: projectId, UserName: userName, Role: role, Params: params})
	impl := m.Impl.FindAvailableWorklists
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("FindAvailableWorklists is not ready to be called")
	}
	return impl(ctx, projectId, userName, role, params)
}

func (m *MockClient) FindAssignedWorklists(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.FindAssignedWorklists = append(m.Calls.FindAssignedWorklists, FindAssignedWorklistsArgs{ProjectId: projectId, UserName: userName, Role: role, Params: params})
	impl := m.Impl.FindAssignedWorklists
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("FindAssignedWorklists is not ready to be called")
	}
	return impl(ctx, projectId, userName, role, params)
}

func (m *MockClient) FindChecklists(ctx context.Context, projectId int64, query string, params pfs.Params) (workflow.ChecklistList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.FindChecklists = append(m.Calls.FindChecklists, FindChecklistsArgs{ProjectId: projectId, Query: query, Params: params})
	impl := m.Impl.FindChecklists
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("FindChecklists is not ready to be called")
	}
	return impl(ctx, projectId, query, params)
}

func (m *MockClient) FindRecordsForWorklist(ctx context.Context, projectId int64, worklistId int64, params pfs.Params) (workflow.RecordList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.FindRecordsForWorklist = append(m.Calls.FindRecordsForWorklist, FindRecordsForWorklistArgs{ProjectId: projectId, WorklistId: worklistId, Params: params})
	impl := m.Impl.FindRecordsForWorklist
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("FindRecordsForWorklist is not ready to be called")
	}
	return impl(ctx, projectId, worklistId, params)
}

func (m *MockClient) FindRecordsForChecklist(ctx context.Context, projectId int64, checklistId int64, params pfs.Params) (workflow.RecordList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.FindRecordsForChecklist = append(m.Calls.FindRecordsForChecklist, FindRecordsForChecklistArgs{ProjectId: projectId, ChecklistId: checklistId, Params: params})
	impl := m.Impl.FindRecordsForChecklist
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("FindRecordsForChecklist is not ready to be called")
	}
	return impl(ctx, projectId, checklistId, params)
}

func (m *MockClient) FindRecordsForBin(ctx context.Context, projectId int64, binId int64, params pfs.Params) (workflow.RecordList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.FindRecordsForBin = append(m.Calls.FindRecordsForBin, FindRecordsForBinArgs{ProjectId: projectId, BinId: binId, Params: params})
	impl := m.Impl.FindRecordsForBin
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("FindRecordsForBin is not ready to be called")
	}
	return impl(ctx, projectId, binId, params)
}

func (m *MockClient) PerformAction(ctx context.Context, projectId int64, worklistId int64, userName string, role projects.Role, action workflow.Action) (workflow.Worklist, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.PerformAction = append(m.Calls.PerformAction, PerformActionArgs{ProjectId: projectId, WorklistId: worklistId, UserName: userName, Role: role, Action: action})
	impl := m.Impl.PerformAction
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("PerformAction is not ready to be called")
	}
	return impl(ctx, projectId, worklistId, userName, role, action)
}

func (m *MockClient) GetConcept(ctx context.Context, projectId int64, conceptId int64) (content.Concept, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetConcept = append(m.Calls.GetConcept, GetConceptArgs{ProjectId: projectId, ConceptId: conceptId})
	impl := m.Impl.GetConcept
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetConcept is not ready to be called")
	}
	return impl(ctx, projectId, conceptId)
}

func (m *MockClient) ApproveConcept(ctx context.Context, projectId int64, activityId string, overrideWarnings bool, concept content.Concept) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.ApproveConcept = append(m.Calls.ApproveConcept, ApproveConceptArgs{ProjectId: projectId, ActivityId: activityId, OverrideWarnings: overrideWarnings, Concept: concept})
	impl := m.Impl.ApproveConcept
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("ApproveConcept is not ready to be called")
	}
	return impl(ctx, projectId, activityId, overrideWarnings, concept)
}

func (m *MockClient) GetConceptReport(ctx context.Context, projectId int64, conceptId int64) (string, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetConceptReport = append(m.Calls.GetConceptReport, GetConceptReportArgs{ProjectId: projectId, ConceptId: conceptId})
	impl := m.Impl.GetConceptReport
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetConceptReport is not ready to be called")
	}
	return impl(ctx, projectId, conceptId)
}

func (m *MockClient) GetConfigs(ctx context.Context, projectId int64) (workflow.ConfigList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetConfigs = append(m.Calls.GetConfigs, projectId)
	impl := m.Impl.GetConfigs
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetConfigs is not ready to be called")
	}
	return impl(ctx, projectId)
}

func (m *MockClient) RemoveConfig(ctx context.Context, projectId int64, configId int64) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.RemoveConfig = append(m.Calls.RemoveConfig, RemoveConfigArgs{ProjectId: projectId, ConfigId: configId})
	impl := m.Impl.RemoveConfig
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("RemoveConfig is not ready to be called")
	}
	return impl(ctx, projectId, configId)
}

func (m *MockClient) GetBins(ctx context.Context, projectId int64, configType string) (workflow.BinList, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetBins = append(m.Calls.GetBins, GetBinsArgs{ProjectId: projectId, ConfigType: configType})
	impl := m.Impl.GetBins
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetBins is not ready to be called")
	}
	return impl(ctx, projectId, configType)
}

func (m *MockClient) GetDefinition(ctx context.Context, projectId int64, name string, configType string) (workflow.Definition, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetDefinition = append(m.Calls.GetDefinition, GetDefinitionArgs{ProjectId: projectId, Name: name, ConfigType: configType})
	impl := m.Impl.GetDefinition
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetDefinition is not ready to be called")
	}
	return impl(ctx, projectId, name, configType)
}

func (m *MockClient) UpdateDefinition(ctx context.Context, projectId int64, def workflow.Definition) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.UpdateDefinition = append(m.Calls.UpdateDefinition, UpdateDefinitionArgs{ProjectId: projectId, Def: def})
	impl := m.Impl.UpdateDefinition
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("UpdateDefinition is not ready to be called")
	}
	return impl(ctx, projectId, def)
}

func (m *MockClient) RemoveDefinition(ctx context.Context, projectId int64, definitionId int64) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.RemoveDefinition = append(m.Calls.RemoveDefinition, RemoveDefinitionArgs{ProjectId: projectId, DefinitionId: definitionId})
	impl := m.Impl.RemoveDefinition
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("RemoveDefinition is not ready to be called")
	}
	return impl(ctx, projectId, definitionId)
}

func (m *MockClient) RegenerateBin(ctx context.Context, projectId int64, binId int64, configType string) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.RegenerateBin = append(m.Calls.RegenerateBin, RegenerateBinArgs{ProjectId: projectId, BinId: binId, ConfigType: configType})
	impl := m.Impl.RegenerateBin
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("RegenerateBin is not ready to be called")
	}
	return impl(ctx, projectId, binId, configType)
}

func (m *MockClient) ClearBins(ctx context.Context, projectId int64, configType string) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.ClearBins = append(m.Calls.ClearBins, ClearBinsArgs{ProjectId: projectId, ConfigType: configType})
	impl := m.Impl.ClearBins
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("ClearBins is not ready to be called")
	}
	return impl(ctx, projectId, configType)
}

func (m *MockClient) RegenerateBins(ctx context.Context, projectId int64, configType string) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.RegenerateBins = append(m.Calls.RegenerateBins, RegenerateBinsArgs{ProjectId: projectId, ConfigType: configType})
	impl := m.Impl.RegenerateBins
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("RegenerateBins is not ready to be called")
	}
	return impl(ctx, projectId, configType)
}

func (m *MockClient) ComputeStatus(ctx context.Context, projectId int64, update bool) error {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.ComputeStatus = append(m.Calls.ComputeStatus, ComputeStatusArgs{ProjectId: projectId, Update: update})
	impl := m.Impl.ComputeStatus
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("ComputeStatus is not ready to be called")
	}
	return impl(ctx, projectId, update)
}

func (m *MockClient) GetWorklistLog(ctx context.Context, projectId int64, worklistId int64) (string, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetWorklistLog = append(m.Calls.GetWorklistLog, GetWorklistLogArgs{ProjectId: projectId, WorklistId: worklistId})
	impl := m.Impl.GetWorklistLog
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetWorklistLog is not ready to be called")
	}
	return impl(ctx, projectId, worklistId)
}

func (m *MockClient) GetChecklistLog(ctx context.Context, projectId int64, checklistId int64) (string, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetChecklistLog = append(m.Calls.GetChecklistLog, GetChecklistLogArgs{ProjectId: projectId, ChecklistId: checklistId})
	impl := m.Impl.GetChecklistLog
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetChecklistLog is not ready to be called")
	}
	return impl(ctx, projectId, checklistId)
}

func (m *MockClient) GetProcessLog(ctx context.Context, projectId int64, processId int64) (string, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetProcessLog = append(m.Calls.GetProcessLog, GetProcessLogArgs{ProjectId: projectId, ProcessId: processId})
	impl := m.Impl.GetProcessLog
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetProcessLog is not ready to be called")
	}
	return impl(ctx, projectId, processId)
}

func (m *MockClient) GetStepLog(ctx context.Context, projectId int64, stepId int64) (string, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetStepLog = append(m.Calls.GetStepLog, GetStepLogArgs{ProjectId: projectId, StepId: stepId})
	impl := m.Impl.GetStepLog
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetStepLog is not ready to be called")
	}
	return impl(ctx, projectId, stepId)
}

func (m *MockClient) GetProjectLog(ctx context.Context, projectId int64, objectId string) (string, error) {
	m.t.Helper()
	m.mu.Lock()
	m.Calls.GetProjectLog = append(m.Calls.GetProjectLog, GetProjectLogArgs{ProjectId: projectId, ObjectId: objectId})
	impl := m.Impl.GetProjectLog
	m.mu.Unlock()

	if impl == nil {
		m.t.Fatal("GetProjectLog is not ready to be called")
	}
	return impl(ctx, projectId, objectId)
}
