package maintain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/youta-t/flarc"
)

// Operation is a maintenance operation on bins. Its value is the subcommand name.
type Operation string

const (
	Enable        Operation = "enable"
	Disable       Operation = "disable"
	Regenerate    Operation = "regenerate"
	RegenerateAll Operation = "regenerate-all"
	Recompute     Operation = "recompute"
	Remove        Operation = "remove"
)

func Operations() []Operation {
	return []Operation{Enable, Disable, Regenerate, RegenerateAll, Recompute, Remove}
}

// takesBin tells whether the operation is on a bin given as an argument.
func (op Operation) takesBin() bool {
	switch op {
	case Enable, Disable, Regenerate, Remove:
		return true
	}
	return false
}

type Flags struct {
	Project string `flag:"project" help:"project id or name"`
	Config  string `flag:"config" metavar:"TYPE" help:"workflow config type. Default is the first one."`
	Update  bool   `flag:"update" help:"recompute: save recomputed status"`
}

const ARG_BIN = "BIN"

var descriptions = map[Operation]string{
	Enable:        "Enable a bin.",
	Disable:       "Disable a bin.",
	Regenerate:    "Regenerate records of a bin.",
	RegenerateAll: "Clear all bins of a workflow config, and regenerate them.",
	Recompute:     "Recompute workflow status of concepts in the project.",
	Remove:        "Remove the definition of a bin.",
}

func New(op Operation) (flarc.Command, error) {
	desc, ok := descriptions[op]
	if !ok {
		return nil, fmt.Errorf("unknown operation: %s", op)
	}
	args := flarc.Args{}
	if op.takesBin() {
		args = flarc.Args{
			{
				Name: ARG_BIN, Required: true,
				Help: "name of the bin",
			},
		}
	}
	return flarc.NewCommand(
		desc,
		Flags{},
		args,
		common.NewTask(Task(op)),
		flarc.WithDescription(desc+`

Bins of the workflow config are printed as JSON after the operation.
`),
	)
}

func Task(op Operation) common.Task[Flags] {
	return func(
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
		if _, err := session.SelectConfig(ctx, v, flags.Config); err != nil {
			return err
		}

		var bin workflow.Bin
		if op.takesBin() {
			if bin, err = session.FindBin(v, cl.Args()[ARG_BIN][0]); err != nil {
				return err
			}
		}

		var cmd controller.Cmd
		switch op {
		case Enable, Disable:
			if bin.Enabled == (op == Enable) {
				logger.Printf("bin %s is already %sd", bin.Name, op)
				break
			}
			cmd = v.ToggleEnable(bin)
		case Regenerate:
			cmd = v.RegenerateBin(bin)
		case RegenerateAll:
			cmd = v.RegenerateBins()
		case Recompute:
			cmd = v.RecomputeStatus(flags.Update)
		case Remove:
			cmd = v.RemoveBin(bin)
		}
		if err := session.DriveWorkflow(ctx, v, cmd); err != nil {
			return err
		}

		bins := v.Bins()
		if bins == nil {
			bins = []workflow.Bin{}
		}
		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(bins)
	}
}
