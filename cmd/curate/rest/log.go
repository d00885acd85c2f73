package rest

import (
	"context"
	"fmt"
	"net/url"
)

func (c *client) GetWorklistLog(ctx context.Context, projectId int64, worklistId int64) (string, error) {
	return getText(
		ctx, c, []string{"workflow", "log"}, inProject(projectId, "worklistId", id(worklistId)),
		messages(fmt.Sprintf("log of worklist %d is not found", worklistId)),
	)
}

func (c *client) GetChecklistLog(ctx context.Context, projectId int64, checklistId int64) (string, error) {
	return getText(
		ctx, c, []string{"workflow", "log"}, inProject(projectId, "checklistId", id(checklistId)),
		messages(fmt.Sprintf("log of checklist %d is not found", checklistId)),
	)
}

func (c *client) GetProcessLog(ctx context.Context, projectId int64, processId int64) (string, error) {
	return getText(
		ctx, c, []string{"process", id(projectId), id(processId), "log"}, nil,
		messages(fmt.Sprintf("log of process %d is not found", processId)),
	)
}

func (c *client) GetStepLog(ctx context.Context, projectId int64, stepId int64) (string, error) {
	return getText(
		ctx, c, []string{"process", id(projectId), "step", id(stepId), "log"}, nil,
		messages(fmt.Sprintf("log of step %d is not found", stepId)),
	)
}

func (c *client) GetProjectLog(ctx context.Context, projectId int64, objectId string) (string, error) {
	q := url.Values{}
	if objectId != "" {
		q.Set("objectId", objectId)
	}
	return getText(
		ctx, c, []string{"project", id(projectId), "log"}, q,
		messages(fmt.Sprintf("log of project %d is not found", projectId)),
	)
}
