package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/termcurator/curate/pkg/api/types/projects"
)

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (c *client) GetProjectsForUser(ctx context.Context, userName string) (projects.ProjectList, error) {
	return getJson[projects.ProjectList](
		ctx, c, http.MethodGet,
		[]string{"project", "user", userName, "projects"}, nil, nil,
		messages(fmt.Sprintf("projects of %s are not found", userName)),
	)
}

func (c *client) GetRoleForProject(ctx context.Context, userName string, projectId int64) (projects.RoleInfo, error) {
	return getJson[projects.RoleInfo](
		ctx, c, http.MethodGet,
		[]string{"project", id(projectId), "role"}, url.Values{"userName": {userName}}, nil,
		messages(fmt.Sprintf("role of %s in project %d is not found", userName, projectId)),
	)
}

func (c *client) FindAssignedUsers(ctx context.Context, projectId int64) (projects.UserList, error) {
	return getJson[projects.UserList](
		ctx, c, http.MethodGet,
		[]string{"project", id(projectId), "users"}, nil, nil,
		messages(fmt.Sprintf("users of project %d are not found", projectId)),
	)
}
