package find

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
	"github.com/termcurator/curate/pkg/selection"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project  string `flag:"project" help:"project id or name"`
	Mode     string `flag:"mode" metavar:"available|assigned|checklists" help:"kind of worklists. Default is given by curateenv, or assigned."`
	Page     int    `flag:"page" help:"page to be shown, from 1"`
	PageSize int    `flag:"page-size" help:"number of worklists in a page"`
	Sort     string `flag:"sort" help:"field to sort worklists by"`
	Desc     bool   `flag:"desc" help:"sort in descending order"`
	Filter   string `flag:"filter" help:"query restricting worklists"`
}

// Result is the output.
type Result struct {
	Mode       string              `json:"mode"`
	Page       int                 `json:"page"`
	Pages      int                 `json:"pages"`
	TotalCount int                 `json:"totalCount"`
	Worklists  []workflow.Worklist `json:"worklists"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Find worklists.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
Find worklists of the project, a page at a time, as JSON.

Worklists are available ones (not yet assigned), ones assigned to you, or checklists.
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

	opts := []session.Option{}
	if flags.Mode != "" {
		mode, err := selection.ParseWorklistMode(flags.Mode)
		if err != nil {
			return fmt.Errorf("%w: --mode: %s", flarc.ErrUsage, err)
		}
		opts = append(opts, session.WithMode(mode))
	}

	v, err := session.Edit(ctx, logger, curateEnv, client, who, flags.Project, opts...)
	if err != nil {
		return err
	}

	pf := session.PagingFlags{
		Page: flags.Page, PageSize: flags.PageSize, Sort: flags.Sort, Desc: flags.Desc, Filter: flags.Filter,
	}
	if p := pf.Apply(v.WorklistPaging()); !p.Equal(v.WorklistPaging()) {
		if err := session.Drive(ctx, v, v.SetWorklistPaging(p)); err != nil {
			return err
		}
	}

	result := v.Worklists()
	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	return enc.Encode(Result{
		Mode:       v.Selection().WorklistMode.String(),
		Page:       v.WorklistPaging().Page,
		Pages:      v.WorklistPaging().Pages(result.TotalCount),
		TotalCount: result.TotalCount,
		Worklists:  result.Items,
	})
}
