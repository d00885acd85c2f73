package next

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/pkg/api/types/content"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project  string `flag:"project" help:"project id or name"`
	Worklist string `flag:"worklist" alias:"w" metavar:"ID" help:"worklist the record belongs to (required)"`
	Mode     string `flag:"mode" metavar:"available|assigned" help:"kind of worklists the worklist is looked up in"`
}

const ARG_RECORD_ID = "RECORD_ID"

// Next is the output.
type Next struct {
	Outcome  string                   `json:"outcome"`
	Record   *workflow.TrackingRecord `json:"record,omitempty"`
	Concepts []content.Concept        `json:"concepts,omitempty"`
	Report   string                   `json:"report,omitempty"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show the record after a record in a worklist.",
		Flags{},
		flarc.Args{
			{
				Name: ARG_RECORD_ID, Required: true,
				Help: "id of the current record",
			},
		},
		common.NewTask(Task),
		flarc.WithDescription(`
Show the record after RECORD_ID in the worklist, with its concepts and the report
of the first concept, as JSON.

When RECORD_ID is the last record of the worklist, "outcome" is "NoMoreRecords"
and no record is shown.
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
	if flags.Worklist == "" {
		return fmt.Errorf("%w: --worklist is required", flarc.ErrUsage)
	}
	worklistId, err := session.ParseId("--worklist", flags.Worklist)
	if err != nil {
		return err
	}
	recordId, err := session.ParseId(ARG_RECORD_ID, cl.Args()[ARG_RECORD_ID][0])
	if err != nil {
		return err
	}

	opts := []session.Option{}
	if flags.Mode != "" {
		mode, err := selection.ParseWorklistMode(flags.Mode)
		if err != nil || mode == selection.Checklists {
			return fmt.Errorf("%w: --mode should be available or assigned: %s", flarc.ErrUsage, flags.Mode)
		}
		opts = append(opts, session.WithMode(mode))
	}

	v, err := session.OpenWorklist(ctx, logger, curateEnv, client, who, flags.Project, worklistId, opts...)
	if err != nil {
		return err
	}
	current, err := session.FindRecord(ctx, v, recordId)
	if err != nil {
		return err
	}

	outcome, cmd := v.SelectNextRecord(current)
	if err := session.Drive(ctx, v, cmd); err != nil {
		return err
	}

	next := Next{Outcome: outcome.String()}
	if outcome == controller.NoMoreRecords {
		logger.Println(controller.NoMoreRecordsNotice)
	} else if r := v.Selection().Record; r != nil {
		next.Record = r
		next.Concepts = v.Concepts()
		next.Report = v.Report()
	}

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	return enc.Encode(next)
}
