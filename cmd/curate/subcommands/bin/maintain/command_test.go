package maintain_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/termcurator/curate/cmd/curate/env"
	krst_mock "github.com/termcurator/curate/cmd/curate/rest/mock"
	bin_maintain "github.com/termcurator/curate/cmd/curate/subcommands/bin/maintain"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/commandline"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/fixture"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/cmd/curate/subcommands/logger"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/api/types/workflow"
)

var config = workflow.Config{Id: 1, Type: "MUTUALLY_EXCLUSIVE"}

func setup(t *testing.T) *krst_mock.MockClient {
	return fixture.Client(t, fixture.Data{
		Projects: []projects.Project{{Id: 1, Name: "NCI Thesaurus"}},
		Role:     projects.Admin,
		Configs:  []workflow.Config{config},
		Bins: map[string][]workflow.Bin{
			config.Type: {
				{Id: 11, Name: "demotions", Enabled: true, Editable: true},
				{Id: 12, Name: "retired", Enabled: false, Editable: true},
			},
		},
	})
}

func run(t *testing.T, client *krst_mock.MockClient, op bin_maintain.Operation, flags bin_maintain.Flags, bin string) error {
	args := map[string][]string{}
	if bin != "" {
		args[bin_maintain.ARG_BIN] = []string{bin}
	}
	return bin_maintain.Task(op)(
		context.Background(),
		logger.Null(),
		*env.New(),
		client,
		common.Identity{Profile: "p", UserName: "alice"},
		commandline.MockCommandline[bin_maintain.Flags]{
			Fullname_: "curate bin " + string(op),
			Stdout_:   new(strings.Builder),
			Stderr_:   new(strings.Builder),
			Flags_:    flags,
			Args_:     args,
		},
		[]any{},
	)
}

func TestTask(t *testing.T) {
	t.Run("enable toggles a disabled bin", func(t *testing.T) {
		client := setup(t)
		client.Impl.GetDefinition = func(_ context.Context, _ int64, name string, _ string) (workflow.Definition, error) {
			return workflow.Definition{Id: 120, Name: name, Enabled: false}, nil
		}
		client.Impl.UpdateDefinition = func(context.Context, int64, workflow.Definition) error { return nil }

		if err := run(t, client, bin_maintain.Enable, bin_maintain.Flags{}, "retired"); err != nil {
			t.Fatal(err)
		}
		if len(client.Calls.UpdateDefinition) != 1 || !client.Calls.UpdateDefinition[0].Def.Enabled {
			t.Errorf("update: %+v", client.Calls.UpdateDefinition)
		}
		if get := client.Calls.GetDefinition; len(get) != 1 || get[0].ConfigType != config.Type {
			t.Errorf("definition lookup: %+v", get)
		}
		if len(client.Calls.GetBins) != 2 {
			t.Errorf("bins should be reloaded: %+v", client.Calls.GetBins)
		}
	})

	t.Run("enable does nothing on an enabled bin", func(t *testing.T) {
		client := setup(t)
		if err := run(t, client, bin_maintain.Enable, bin_maintain.Flags{}, "demotions"); err != nil {
			t.Fatal(err)
		}
		if len(client.Calls.GetDefinition) != 0 {
			t.Error("definition is touched")
		}
	})

	t.Run("disable toggles an enabled bin", func(t *testing.T) {
		client := setup(t)
		client.Impl.GetDefinition = func(_ context.Context, _ int64, name string, _ string) (workflow.Definition, error) {
			return workflow.Definition{Id: 110, Name: name, Enabled: true}, nil
		}
		client.Impl.UpdateDefinition = func(context.Context, int64, workflow.Definition) error { return nil }

		if err := run(t, client, bin_maintain.Disable, bin_maintain.Flags{}, "demotions"); err != nil {
			t.Fatal(err)
		}
		if len(client.Calls.UpdateDefinition) != 1 || client.Calls.UpdateDefinition[0].Def.Enabled {
			t.Errorf("update: %+v", client.Calls.UpdateDefinition)
		}
	})

	t.Run("regenerate a bin", func(t *testing.T) {
		client := setup(t)
		client.Impl.RegenerateBin = func(context.Context, int64, int64, string) error { return nil }
		if err := run(t, client, bin_maintain.Regenerate, bin_maintain.Flags{}, "demotions"); err != nil {
			t.Fatal(err)
		}
		if c := client.Calls.RegenerateBin; len(c) != 1 || c[0].BinId != 11 || c[0].ConfigType != config.Type {
			t.Errorf("regenerate: %+v", c)
		}
	})

	t.Run("regenerate all bins clears them first", func(t *testing.T) {
		client := setup(t)
		client.Impl.ClearBins = func(context.Context, int64, string) error { return nil }
		client.Impl.RegenerateBins = func(context.Context, int64, string) error { return nil }
		if err := run(t, client, bin_maintain.RegenerateAll, bin_maintain.Flags{}, ""); err != nil {
			t.Fatal(err)
		}
		if len(client.Calls.ClearBins) != 1 || len(client.Calls.RegenerateBins) != 1 {
			t.Errorf("clear: %+v, regenerate: %+v", client.Calls.ClearBins, client.Calls.RegenerateBins)
		}
	})

	t.Run("recompute with update", func(t *testing.T) {
		client := setup(t)
		client.Impl.ComputeStatus = func(context.Context, int64, bool) error { return nil }
		if err := run(t, client, bin_maintain.Recompute, bin_maintain.Flags{Update: true}, ""); err != nil {
			t.Fatal(err)
		}
		if c := client.Calls.ComputeStatus; len(c) != 1 || !c[0].Update || c[0].ProjectId != 1 {
			t.Errorf("compute: %+v", c)
		}
	})

	t.Run("remove a bin", func(t *testing.T) {
		client := setup(t)
		client.Impl.GetDefinition = func(_ context.Context, _ int64, name string, _ string) (workflow.Definition, error) {
			return workflow.Definition{Id: 120, Name: name}, nil
		}
		client.Impl.RemoveDefinition = func(context.Context, int64, int64) error { return nil }
		if err := run(t, client, bin_maintain.Remove, bin_maintain.Flags{}, "retired"); err != nil {
			t.Fatal(err)
		}
		if c := client.Calls.RemoveDefinition; len(c) != 1 || c[0].DefinitionId != 120 {
			t.Errorf("remove: %+v", c)
		}
	})

	t.Run("failure is reported", func(t *testing.T) {
		client := setup(t)
		client.Impl.RegenerateBin = func(context.Context, int64, int64, string) error { return errors.New("fake error") }
		err := run(t, client, bin_maintain.Regenerate, bin_maintain.Flags{}, "demotions")
		if !errors.Is(err, session.ErrView) || !strings.Contains(err.Error(), "fake error") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unknown bin", func(t *testing.T) {
		client := setup(t)
		err := run(t, client, bin_maintain.Regenerate, bin_maintain.Flags{}, "no such bin")
		if !errors.Is(err, session.ErrBinNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
