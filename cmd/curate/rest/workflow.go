package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/workflow"
)

func inProject(projectId int64, kv ...string) url.Values {
	q := url.Values{"projectId": {id(projectId)}}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}

func (c *client) GetConfigs(ctx context.Context, projectId int64) (workflow.ConfigList, error) {
	return getJson[workflow.ConfigList](
		ctx, c, http.MethodGet,
		[]string{"workflow", "config", "all"}, inProject(projectId), nil,
		messages(fmt.Sprintf("workflow configs of project %d are not found", projectId)),
	)
}

func (c *client) RemoveConfig(ctx context.Context, projectId int64, configId int64) error {
	return post(
		ctx, c, []string{"workflow", "config", id(configId), "remove"}, inProject(projectId), nil,
		messages(fmt.Sprintf("workflow config %d cannot be removed", configId)),
	)
}

func (c *client) GetBins(ctx context.Context, projectId int64, configType string) (workflow.BinList, error) {
	return getJson[workflow.BinList](
		ctx, c, http.MethodGet,
		[]string{"workflow", "bins"}, inProject(projectId, "type", configType), nil,
		messages(fmt.Sprintf("%s bins are not found", configType)),
	)
}

func (c *client) GetDefinition(ctx context.Context, projectId int64, name string, configType string) (workflow.Definition, error) {
	return getJson[workflow.Definition](
		ctx, c, http.MethodGet,
		[]string{"workflow", "definition"}, inProject(projectId, "name", name, "type", configType), nil,
		messages(fmt.Sprintf("definition of bin %s is not found", name)),
	)
}

func (c *client) UpdateDefinition(ctx context.Context, projectId int64, def workflow.Definition) error {
	return post(
		ctx, c, []string{"workflow", "definition", "update"}, inProject(projectId), def,
		messages(fmt.Sprintf("definition of bin %s cannot be updated", def.Name)),
	)
}

func (c *client) RemoveDefinition(ctx context.Context, projectId int64, definitionId int64) error {
	return post(
		ctx, c, []string{"workflow", "definition", id(definitionId), "remove"}, inProject(projectId), nil,
		messages(fmt.Sprintf("definition %d cannot be removed", definitionId)),
	)
}

func (c *client) RegenerateBin(ctx context.Context, projectId int64, binId int64, configType string) error {
	return post(
		ctx, c, []string{"workflow", "bin", id(binId), "regenerate"}, inProject(projectId, "type", configType), nil,
		messages(fmt.Sprintf("bin %d cannot be regenerated", binId)),
	)
}

func (c *client) ClearBins(ctx context.Context, projectId int64, configType string) error {
	return post(
		ctx, c, []string{"workflow", "bins", "clear"}, inProject(projectId, "type", configType), nil,
		messages(fmt.Sprintf("%s bins cannot be cleared", configType)),
	)
}

func (c *client) RegenerateBins(ctx context.Context, projectId int64, configType string) error {
	return post(
		ctx, c, []string{"workflow", "bins", "regenerate"}, inProject(projectId, "type", configType), nil,
		messages(fmt.Sprintf("%s bins cannot be regenerated", configType)),
	)
}

func (c *client) ComputeStatus(ctx context.Context, projectId int64, update bool) error {
	return post(
		ctx, c, []string{"workflow", "status", "compute"},
		inProject(projectId, "update", strconv.FormatBool(update)), nil,
		messages("concept status cannot be computed"),
	)
}

func (c *client) FindAvailableWorklists(
	ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params,
) (workflow.WorklistList, error) {
	return c.findWorklists(ctx, "available", projectId, userName, role, params)
}

func (c *client) FindAssignedWorklists(
	ctx context.Context, projectId int64, userName string, role projects.Role, params pfs.Params,
) (workflow.WorklistList, error) {
	return c.findWorklists(ctx, "assigned", projectId, userName, role, params)
}

func (c *client) findWorklists(
	ctx context.Context, which string, projectId int64, userName string, role projects.Role, params pfs.Params,
) (workflow.WorklistList, error) {
	return getJson[workflow.WorklistList](
		ctx, c, http.MethodPost,
		[]string{"workflow", "worklists", which},
		inProject(projectId, "userName", userName, "userRole", string(role)), params,
		messages(fmt.Sprintf("%s worklists are not found", which)),
	)
}

func (c *client) FindChecklists(ctx context.Context, projectId int64, query string, params pfs.Params) (workflow.ChecklistList, error) {
	return getJson[workflow.ChecklistList](
		ctx, c, http.MethodPost,
		[]string{"workflow", "checklists"}, inProject(projectId, "query", query), params,
		messages("checklists are not found"),
	)
}

func (c *client) FindRecordsForWorklist(ctx context.Context, projectId int64, worklistId int64, params pfs.Params) (workflow.RecordList, error) {
	return c.findRecords(ctx, "worklist", projectId, worklistId, params)
}

func (c *client) FindRecordsForChecklist(ctx context.Context, projectId int64, checklistId int64, params pfs.Params) (workflow.RecordList, error) {
	return c.findRecords(ctx, "checklist", projectId, checklistId, params)
}

func (c *client) FindRecordsForBin(ctx context.Context, projectId int64, binId int64, params pfs.Params) (workflow.RecordList, error) {
	return c.findRecords(ctx, "bin", projectId, binId, params)
}

func (c *client) findRecords(
	ctx context.Context, of string, projectId int64, ownerId int64, params pfs.Params,
) (workflow.RecordList, error) {
	return getJson[workflow.RecordList](
		ctx, c, http.MethodPost,
		[]string{"workflow", "records", of}, inProject(projectId, "id", id(ownerId)), params,
		messages(fmt.Sprintf("records of %s %d are not found", of, ownerId)),
	)
}

func (c *client) PerformAction(
	ctx context.Context, projectId int64, worklistId int64, userName string, role projects.Role, action workflow.Action,
) (workflow.Worklist, error) {
	return getJson[workflow.Worklist](
		ctx, c, http.MethodPost,
		[]string{"workflow", "action"},
		inProject(
			projectId,
			"worklistId", id(worklistId),
			"userName", userName,
			"userRole", string(role),
			"action", string(action),
		), nil,
		messages(fmt.Sprintf("%s cannot be performed on worklist %d", action, worklistId)),
	)
}
