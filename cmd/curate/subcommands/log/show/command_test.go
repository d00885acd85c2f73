package show_test

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
	log_show "github.com/termcurator/curate/cmd/curate/subcommands/log/show"
	"github.com/termcurator/curate/cmd/curate/subcommands/logger"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/youta-t/flarc"
)

func setup(t *testing.T) *krst_mock.MockClient {
	client := krst_mock.New(t)
	client.Impl.GetProjectsForUser = func(context.Context, string) (projects.ProjectList, error) {
		return projects.ProjectList{Projects: []projects.Project{{Id: 1, Name: "NCI Thesaurus"}, {Id: 2, Name: "SNOMEDCT"}}}, nil
	}
	client.Impl.GetWorklistLog = func(context.Context, int64, int64) (string, error) { return "worklist log", nil }
	client.Impl.GetChecklistLog = func(context.Context, int64, int64) (string, error) { return "checklist log", nil }
	client.Impl.GetProcessLog = func(context.Context, int64, int64) (string, error) { return "process log", nil }
	client.Impl.GetStepLog = func(context.Context, int64, int64) (string, error) { return "step log", nil }
	client.Impl.GetProjectLog = func(_ context.Context, _ int64, objectId string) (string, error) {
		if objectId == "" {
			return "project log\n", nil
		}
		return "log of " + objectId, nil
	}
	return client
}

func run(t *testing.T, client *krst_mock.MockClient, flags log_show.Flags, args ...string) (string, error) {
	a := map[string][]string{log_show.ARG_TYPE: {args[0]}}
	if 1 < len(args) {
		a[log_show.ARG_ID] = args[1:]
	}
	stdout := new(strings.Builder)
	err := log_show.Task(
		context.Background(),
		logger.Null(),
		*env.New(),
		client,
		common.Identity{Profile: "p", UserName: "alice"},
		commandline.MockCommandline[log_show.Flags]{
			Fullname_: "curate log show",
			Stdout_:   stdout,
			Stderr_:   new(strings.Builder),
			Flags_:    flags,
			Args_:     a,
		},
		[]any{},
	)
	return stdout.String(), err
}

func TestTask(t *testing.T) {
	theory := func(flags log_show.Flags, args []string, expected string, check func(*testing.T, *krst_mock.MockClient)) func(*testing.T) {
		return func(t *testing.T) {
			client := setup(t)
			actual, err := run(t, client, flags, args...)
			if err != nil {
				t.Fatal(err)
			}
			if actual != expected {
				t.Errorf("output: %q, expected %q", actual, expected)
			}
			if check != nil {
				check(t, client)
			}
		}
	}

	t.Run("worklist", theory(
		log_show.Flags{}, []string{"worklist", "12"}, "worklist log\n",
		func(t *testing.T, client *krst_mock.MockClient) {
			if c := client.Calls.GetWorklistLog; len(c) != 1 || c[0].ProjectId != 1 || c[0].WorklistId != 12 {
				t.Errorf("calls: %+v", c)
			}
		},
	))
	t.Run("checklist in another project", theory(
		log_show.Flags{Project: "snomedct"}, []string{"Checklist", "3"}, "checklist log\n",
		func(t *testing.T, client *krst_mock.MockClient) {
			if c := client.Calls.GetChecklistLog; len(c) != 1 || c[0].ProjectId != 2 || c[0].ChecklistId != 3 {
				t.Errorf("calls: %+v", c)
			}
		},
	))
	t.Run("process", theory(log_show.Flags{}, []string{"process", "5"}, "process log\n", nil))
	t.Run("step", theory(log_show.Flags{}, []string{"STEP", "6"}, "step log\n", nil))
	t.Run("project", theory(log_show.Flags{}, []string{"project"}, "project log\n", nil))
	t.Run("concept", theory(
		log_show.Flags{}, []string{"concept", "C12345"}, "log of C12345\n",
		func(t *testing.T, client *krst_mock.MockClient) {
			if c := client.Calls.GetProjectLog; len(c) != 1 || c[0].ObjectId != "C12345" {
				t.Errorf("calls: %+v", c)
			}
		},
	))

	for name, args := range map[string][]string{
		"unknown type":   {"notebook", "1"},
		"missing id":     {"worklist"},
		"non numeric id": {"step", "first"},
	} {
		t.Run(name+" is a usage error", func(t *testing.T) {
			client := setup(t)
			if _, err := run(t, client, log_show.Flags{}, args...); !errors.Is(err, flarc.ErrUsage) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("server error", func(t *testing.T) {
		client := setup(t)
		client.Impl.GetStepLog = func(context.Context, int64, int64) (string, error) {
			return "", errors.New("fake error")
		}
		if _, err := run(t, client, log_show.Flags{}, "step", "1"); !errors.Is(err, session.ErrView) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestTarget(t *testing.T) {
	target, err := log_show.Target(controller.LogDescriptor, 4, "D1")
	if err != nil {
		t.Fatal(err)
	}
	if target != (controller.LogTarget{ProjectId: 4, ObjectId: "D1"}) {
		t.Errorf("target: %+v", target)
	}
}
