package action_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/termcurator/curate/cmd/curate/env"
	krst_mock "github.com/termcurator/curate/cmd/curate/rest/mock"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/commandline"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/cmd/curate/subcommands/logger"
	worklist_action "github.com/termcurator/curate/cmd/curate/subcommands/worklist/action"
	"github.com/termcurator/curate/pkg/api/types/pfs"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/security"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/youta-t/flarc"
)

var nci = projects.Project{Id: 1, Name: "NCI Thesaurus"}

// page returns worklists with id from..to, in pages of params.
func page(from, to int64, params pfs.Params) workflow.WorklistList {
	all := []workflow.Worklist{}
	for id := from; id <= to; id++ {
		all = append(all, workflow.Worklist{
			Id: id, Name: "wl" + string(rune('a'+id-from)), Authors: []string{"alice", "bob"},
		})
	}
	end := min(params.StartIndex+params.MaxResults, len(all))
	start := min(params.StartIndex, end)
	return workflow.WorklistList{Worklists: all[start:end], TotalCount: len(all)}
}

func newClient(t *testing.T, role projects.Role) *krst_mock.MockClient {
	client := krst_mock.New(t)
	client.Impl.GetUser = func(_ context.Context, userName string) (security.User, error) {
		return security.User{UserName: userName, Team: "team-a"}, nil
	}
	client.Impl.GetProjectsForUser = func(context.Context, string) (projects.ProjectList, error) {
		return projects.ProjectList{Projects: []projects.Project{nci}, Project: &nci}, nil
	}
	client.Impl.GetRoleForProject = func(context.Context, string, int64) (projects.RoleInfo, error) {
		return projects.RoleInfo{Role: role, Options: []projects.Role{role}}, nil
	}
	client.Impl.FindAssignedWorklists = func(_ context.Context, _ int64, _ string, _ projects.Role, params pfs.Params) (workflow.WorklistList, error) {
		return page(1, 12, params), nil
	}
	client.Impl.FindAvailableWorklists = func(_ context.Context, _ int64, _ string, _ projects.Role, params pfs.Params) (workflow.WorklistList, error) {
		return page(101, 103, params), nil
	}
	client.Impl.PerformAction = func(_ context.Context, _ int64, worklistId int64, _ string, _ projects.Role, _ workflow.Action) (workflow.Worklist, error) {
		return workflow.Worklist{Id: worklistId}, nil
	}
	return client
}

func run(t *testing.T, client *krst_mock.MockClient, action workflow.Action, worklistId string) error {
	return worklist_action.Task(action)(
		context.Background(),
		logger.Null(),
		*env.New(),
		client,
		common.Identity{Profile: "p", UserName: "alice"},
		commandline.MockCommandline[worklist_action.Flags]{
			Fullname_: "curate worklist " + strings.ToLower(string(action)),
			Stdout_:   new(strings.Builder),
			Stderr_:   new(strings.Builder),
			Args_:     map[string][]string{worklist_action.ARG_WORKLIST_ID: {worklistId}},
		},
		[]any{},
	)
}

func TestTask(t *testing.T) {
	type Then struct {
		editor   string
		lookedUp string
	}

	theory := func(role projects.Role, action workflow.Action, worklistId string, then Then) func(*testing.T) {
		return func(t *testing.T) {
			client := newClient(t, role)
			if err := run(t, client, action, worklistId); err != nil {
				t.Fatal(err)
			}

			if len(client.Calls.PerformAction) != 1 {
				t.Fatalf("actions: %+v", client.Calls.PerformAction)
			}
			call := client.Calls.PerformAction[0]
			if call.Action != action || call.UserName != then.editor || call.Role != role {
				t.Errorf("action: %+v", call)
			}
			switch then.lookedUp {
			case "assigned":
				if len(client.Calls.FindAssignedWorklists) == 0 {
					t.Error("assigned worklists are not looked up")
				}
			case "available":
				if len(client.Calls.FindAvailableWorklists) == 0 {
					t.Error("available worklists are not looked up")
				}
			}
		}
	}

	t.Run("finish a worklist on a later page", theory(
		projects.Author, workflow.Finish, "12", Then{editor: "alice", lookedUp: "assigned"},
	))
	t.Run("assign an available worklist", theory(
		projects.Author, workflow.Assign, "102", Then{editor: "alice", lookedUp: "available"},
	))
	t.Run("unassign as author unassigns all authors", theory(
		projects.Author, workflow.Unassign, "3", Then{editor: "alice bob", lookedUp: "assigned"},
	))
	t.Run("unassign as admin unassigns the user", theory(
		projects.Admin, workflow.Unassign, "3", Then{editor: "alice", lookedUp: "assigned"},
	))

	t.Run("unknown worklist is reported", func(t *testing.T) {
		client := newClient(t, projects.Author)
		err := run(t, client, workflow.Finish, "999")
		if !errors.Is(err, session.ErrWorklistNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(client.Calls.PerformAction) != 0 {
			t.Error("action is performed")
		}
	})

	t.Run("non numeric id is a usage error", func(t *testing.T) {
		client := newClient(t, projects.Author)
		if err := run(t, client, workflow.Finish, "wl"); !errors.Is(err, flarc.ErrUsage) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
