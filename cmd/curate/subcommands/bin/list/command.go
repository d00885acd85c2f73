package list

import (
	"context"
	"encoding/json"
	"log"

	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project string `flag:"project" help:"project id or name"`
	Config  string `flag:"config" metavar:"TYPE" help:"workflow config type. Default is the first one."`
}

// Result is the output.
type Result struct {
	Config  workflow.Config   `json:"config"`
	Configs []workflow.Config `json:"configs"`
	Bins    []workflow.Bin    `json:"bins"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List bins of a workflow config.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
List bins of a workflow config as JSON, with all configs of the project.

ADMIN can see all bins. Other roles can see editable bins only.
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	curateEnv env.CurateEnv,
	client krst.CurateClient,
	who common.Identity,
	cl flarc.Commandline[Flags],
	params []any,
) error {
	flags := cl.Flags()
	v, err := session.Workflow(ctx, logger, curateEnv, client, who, flags.Project)
	if err != nil {
		return err
	}
	config, err := session.SelectConfig(ctx, v, flags.Config)
	if err != nil {
		return err
	}

	bins := v.Bins()
	if bins == nil {
		bins = []workflow.Bin{}
	}
	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	return enc.Encode(Result{Config: config, Configs: v.Configs(), Bins: bins})
}
