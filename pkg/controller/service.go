package controller

import (
	"context"

	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
)

// UserService is the part of the term server about users.
type UserService interface {
	GetUser(ctx context.Context, userName string) (security.User, error)
	UpdatePreferences(ctx context.Context, prefs security.UserPreferences) (security.UserPreferences, error)
}

// ProjectService is the part of the term server about projects.
type ProjectService interface {
	GetProjectsForUser(ctx context.Context, userName string) (projects.ProjectList, error)
	GetRoleForProject(ctx context.Context, userName string, projectId int64) (projects.RoleInfo, error)
}

// EditService is what EditView calls.
type EditService interface {
	UserService
	ProjectService

	FindAvailableWorklists(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error)
	FindAssignedWorklists(ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params) (workflow.WorklistList, error)
	FindChecklists(ctx context.Context, projectId int64, query string, params pfs.Params) (workflow.ChecklistList, error)

	FindRecordsForWorklist(ctx context.Context, projectId int64, worklistId int64, params pfs.Params) (workflow.RecordList, error)
	FindRecordsForChecklist(ctx context.Context, projectId int64, checklistId int64, params pfs.Params) (workflow.RecordList, error)

	PerformAction(ctx context.Context, projectId int64, worklistId int64, userName string, role projects.Role, action workflow.Action) (workflow.Worklist, error)

	GetConcept(ctx context.Context, projectId int64, conceptId int64) (content.Concept, error)
	ApproveConcept(ctx context.Context, projectId int64, activityId string, overrideWarnings bool, concept content.Concept) error
	GetConceptReport(ctx context.Context, projectId int64, conceptId int64) (string, error)
}

// WorkflowService is what WorkflowView calls.
type WorkflowService interface {
	UserService
	ProjectService

	FindAssignedUsers(ctx context.Context, projectId int64) (projects.UserList, error)

	GetConfigs(ctx context.Context, projectId int64) (workflow.ConfigList, error)
	RemoveConfig(ctx context.Context, projectId int64, configId int64) error

	GetBins(ctx context.Context, projectId int64, configType string) (workflow.BinList, error)
	GetDefinition(ctx context.Context, projectId int64, name string, configType string) (workflow.Definition, error)
	UpdateDefinition(ctx context.Context, projectId int64, def workflow.Definition) error
	RemoveDefinition(ctx context.Context, projectId int64, definitionId int64) error

	RegenerateBin(ctx context.Context, projectId int64, binId int64, configType string) error
	ClearBins(ctx context.Context, projectId int64, configType string) error
	RegenerateBins(ctx context.Context, projectId int64, configType string) error
	ComputeStatus(ctx context.Context, projectId int64, update bool) error

	FindRecordsForBin(ctx context.Context, projectId int64, binId int64, params pfs.Params) (workflow.RecordList, error)
}

// LogService is what LogDialog calls.
type LogService interface {
	GetWorklistLog(ctx context.Context, projectId int64, worklistId int64) (string, error)
	GetChecklistLog(ctx context.Context, projectId int64, checklistId int64) (string, error)
	GetProcessLog(ctx context.Context, projectId int64, processId int64) (string, error)
	GetStepLog(ctx context.Context, projectId int64, stepId int64) (string, error)
	GetProjectLog(ctx context.Context, projectId int64, objectId string) (string, error)
}
