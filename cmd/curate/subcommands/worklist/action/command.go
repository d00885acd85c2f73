package action

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project string `flag:"project" help:"project id or name"`
}

const ARG_WORKLIST_ID = "WORKLIST_ID"

var descriptions = map[workflow.Action]string{
	workflow.Finish:   "Finish a worklist assigned to you.",
	workflow.Assign:   "Assign an available worklist to you.",
	workflow.Unassign: "Unassign a worklist from its editors.",
}

// modes tells where the worklist is looked up for each action.
var modes = map[workflow.Action]selection.WorklistMode{
	workflow.Finish:   selection.Assigned,
	workflow.Assign:   selection.Available,
	workflow.Unassign: selection.Assigned,
}

func New(action workflow.Action) (flarc.Command, error) {
	desc, ok := descriptions[action]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", action)
	}
	return flarc.NewCommand(
		desc,
		Flags{},
		flarc.Args{
			{
				Name: ARG_WORKLIST_ID, Required: true,
				Help: "id of the worklist",
			},
		},
		common.NewTask(Task(action)),
		flarc.WithDescription(desc+`

Worklists in the mode the worklist was found in are printed as JSON after the action.
`),
	)
}

func Task(action workflow.Action) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		curateEnv env.CurateEnv,
		client krst.CurateClient,
		who common.Identity,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		id, err := strconv.ParseInt(cl.Args()[ARG_WORKLIST_ID][0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s should be a number", flarc.ErrUsage, ARG_WORKLIST_ID)
		}

		v, err := session.Edit(
			ctx, logger, curateEnv, client, who, cl.Flags().Project,
			session.WithMode(modes[action]),
		)
		if err != nil {
			return err
		}
		w, err := session.FindWorklist(ctx, v, id)
		if err != nil {
			return err
		}

		var cmd controller.Cmd
		switch action {
		case workflow.Finish:
			cmd = v.Finish(w)
		case workflow.Assign:
			cmd = v.AssignToSelf(w)
		case workflow.Unassign:
			cmd = v.Unassign(w)
		}
		if err := session.Drive(ctx, v, cmd); err != nil {
			return err
		}
		logger.Printf("%s worklist %d (%s)", strings.ToLower(string(action)), w.Id, w.Name)

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(v.Worklists())
	}
}
