package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/termcurator/curate/pkg/api/types/content"
)

func (c *client) GetConcept(ctx context.Context, projectId int64, conceptId int64) (content.Concept, error) {
	return getJson[content.Concept](
		ctx, c, http.MethodGet,
		[]string{"content", "concept", id(conceptId)}, inProject(projectId), nil,
		messages(fmt.Sprintf("concept %d is not found", conceptId)),
	)
}

func (c *client) ApproveConcept(
	ctx context.Context, projectId int64, activityId string, overrideWarnings bool, concept content.Concept,
) error {
	return post(
		ctx, c, []string{"meta", "concept", "approve"},
		inProject(
			projectId,
			"activityId", activityId,
			"overrideWarnings", strconv.FormatBool(overrideWarnings),
		), concept,
		messages(fmt.Sprintf("concept %d cannot be approved", concept.Id)),
	)
}

func (c *client) GetConceptReport(ctx context.Context, projectId int64, conceptId int64) (string, error) {
	return getText(
		ctx, c, []string{"report", "concept", id(conceptId)}, inProject(projectId),
		messages(fmt.Sprintf("report of concept %d is not found", conceptId)),
	)
}
