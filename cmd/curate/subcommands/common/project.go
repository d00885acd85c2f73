package common

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/termcurator/curate/cmd/curate/env"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/utils"
)

var ErrProjectNotFound = errors.New("project not found")

// ResolveProject finds the project a command works in.
//
// want is an id or a name (case insensitive). When it is empty, the project
// of the env is used, then the default project of the server, then the first one.
// When nothing matches, the error suggests the names closest to want.
func ResolveProject(
	ctx context.Context, client controller.ProjectService, userName string, want string, e env.CurateEnv,
) (projects.Project, error) {
	list, err := client.GetProjectsForUser(ctx, userName)
	if err != nil {
		return projects.Project{}, err
	}
	if len(list.Projects) == 0 {
		return projects.Project{}, fmt.Errorf("%w: %s has no projects", ErrProjectNotFound, userName)
	}

	if want == "" {
		want = e.Project
	}
	if want == "" {
		if list.Project != nil {
			return *list.Project, nil
		}
		return list.Projects[0], nil
	}

	if id, err := strconv.ParseInt(want, 10, 64); err == nil {
		if p, ok := utils.First(list.Projects, func(p projects.Project) bool { return p.Id == id }); ok {
			return p, nil
		}
	}
	if p, ok := utils.First(list.Projects, func(p projects.Project) bool {
		return strings.EqualFold(p.Name, want)
	}); ok {
		return p, nil
	}

	suggestions := Suggest(want, utils.Map(list.Projects, func(p projects.Project) string { return p.Name }))
	if len(suggestions) == 0 {
		return projects.Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, want)
	}
	return projects.Project{}, fmt.Errorf(
		"%w: %q. Did you mean: %s?", ErrProjectNotFound, want, strings.Join(suggestions, ", "),
	)
}

// Suggest returns candidates close to word, closest first.
//
// A candidate is close when its edit distance (case insensitive) is at most
// a third of the longer one, or 2.
func Suggest(word string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	lw := strings.ToLower(word)
	near := []scored{}
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lw, strings.ToLower(c))
		limit := max(len(lw), len(c)) / 3
		if limit < 2 {
			limit = 2
		}
		if d <= limit {
			near = append(near, scored{name: c, dist: d})
		}
	}
	near = utils.Sorted(near, func(a, b scored) bool { return a.dist < b.dist })
	return utils.Map(near, func(s scored) string { return s.name })
}
