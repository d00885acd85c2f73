package approve

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cheggaaa/pb/v3"
	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/termcurator/curate/pkg/utils"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project  string `flag:"project" help:"project id or name"`
	Worklist string `flag:"worklist" alias:"w" metavar:"ID" help:"assigned worklist whose records are approved (required)"`
	From     string `flag:"from" metavar:"RECORD_ID" help:"record to start approving from. Default is the first one."`
	Limit    int    `flag:"limit" alias:"n" help:"approve at most this number of records. 0 means no limit."`
}

const bar pb.ProgressBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }}`

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Approve concepts of records in a worklist, one record after another.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
Approve every concept of a record, and move to the next record, until the last
record of the worklist (or --limit records) is approved.

The worklist should be assigned to you. Progress is shown on stderr.
`),
	)
}

// Option customizes Task.
type Option func(*option) *option

type option struct {
	progressOut io.Writer
}

// WithProgressOut sets where the progress bar is written. Default is stderr of the commandline.
func WithProgressOut(w io.Writer) Option {
	return func(o *option) *option {
		o.progressOut = w
		return o
	}
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
	return TaskWith()(ctx, logger, curateEnv, client, who, cl, params)
}

func TaskWith(opts ...Option) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		curateEnv env.CurateEnv,
		client krst.CurateClient,
		who common.Identity,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		o := &option{progressOut: cl.Stderr()}
		for _, opt := range opts {
			o = opt(o)
		}

		flags := cl.Flags()
		if flags.Worklist == "" {
			return fmt.Errorf("%w: --worklist is required", flarc.ErrUsage)
		}
		if flags.Limit < 0 {
			return fmt.Errorf("%w: --limit should not be negative", flarc.ErrUsage)
		}
		worklistId, err := session.ParseId("--worklist", flags.Worklist)
		if err != nil {
			return err
		}

		v, err := session.OpenWorklist(
			ctx, logger, curateEnv, client, who, flags.Project, worklistId,
			session.WithMode(selection.Assigned),
		)
		if err != nil {
			return err
		}
		if len(v.Records().Items) == 0 {
			logger.Printf("worklist %d has no records", worklistId)
			return nil
		}

		start := v.Records().Items[0]
		if flags.From != "" {
			id, err := session.ParseId("--from", flags.From)
			if err != nil {
				return err
			}
			if start, err = session.FindRecord(ctx, v, id); err != nil {
				return err
			}
		}
		if err := session.Drive(ctx, v, v.SelectRecord(start, true)); err != nil {
			return err
		}

		total := remaining(v, start)
		if 0 < flags.Limit && flags.Limit < total {
			total = flags.Limit
		}
		progress := bar.New(total)
		progress.SetWriter(o.progressOut)
		progress.Set("prefix", fmt.Sprintf("approving %s:", v.Selection().Worklist.Name))
		progress.Start()
		defer progress.Finish()

		approved := 0
		for {
			record := *v.Selection().Record
			if err := session.Drive(ctx, v, v.ApproveNext()); err != nil {
				return fmt.Errorf("record %d: %w", record.Id, err)
			}
			approved += 1
			progress.Increment()

			if v.LastNextOutcome() == controller.NoMoreRecords {
				break
			}
			if 0 < flags.Limit && flags.Limit <= approved {
				break
			}
			if next := v.Selection().Record; next == nil || next.Id == record.Id {
				break
			}
		}
		progress.Set("prefix", "done:")
		logger.Printf("approved %d records of worklist %d", approved, worklistId)
		return nil
	}
}

// remaining counts records from start to the end of the worklist.
// start should be in the loaded page of v.
func remaining(v *controller.EditView, start workflow.TrackingRecord) int {
	idx := utils.IndexOf(v.Records().Items, func(r workflow.TrackingRecord) bool { return r.Id == start.Id })
	if idx < 0 {
		idx = 0
	}
	return v.Records().TotalCount - v.RecordPaging().QueryParams().StartIndex - idx
}
