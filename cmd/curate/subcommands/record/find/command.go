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
	"github.com/termcurator/curate/pkg/paging"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project     string `flag:"project" help:"project id or name"`
	Worklist    string `flag:"worklist" alias:"w" metavar:"ID" help:"find records of the worklist"`
	Checklist   string `flag:"checklist" alias:"c" metavar:"ID" help:"find records of the checklist"`
	Bin         string `flag:"bin" alias:"b" metavar:"NAME" help:"find records of the bin"`
	Config      string `flag:"config" metavar:"TYPE" help:"workflow config type the bin belongs to. Default is the first one."`
	ClusterType string `flag:"cluster-type" metavar:"default|all|TYPE" help:"cluster type of bin records"`
	Mode        string `flag:"mode" metavar:"available|assigned" help:"kind of worklists the worklist is looked up in"`
	TypeFilter  string `flag:"type" metavar:"N|R" help:"N: new or needing review, R: ready for publication or reviewed"`
	Page        int    `flag:"page" help:"page to be shown, from 1"`
	PageSize    int    `flag:"page-size" help:"number of records in a page"`
	Sort        string `flag:"sort" help:"field to sort records by"`
	Desc        bool   `flag:"desc" help:"sort in descending order"`
	Filter      string `flag:"filter" help:"query restricting records"`
}

// Result is the output.
type Result struct {
	Source     Source                    `json:"source"`
	Page       int                       `json:"page"`
	Pages      int                       `json:"pages"`
	TotalCount int                       `json:"totalCount"`
	Records    []workflow.TrackingRecord `json:"records"`
}

// Source tells where records come from.
type Source struct {
	Kind string `json:"kind"`
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Find tracking records of a worklist, a checklist or a bin.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
Find tracking records, a page at a time, as JSON.

Exactly one of --worklist, --checklist or --bin should be given.
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

	given := 0
	for _, f := range []string{flags.Worklist, flags.Checklist, flags.Bin} {
		if f != "" {
			given += 1
		}
	}
	if given != 1 {
		return fmt.Errorf("%w: one of --worklist, --checklist or --bin is required", flarc.ErrUsage)
	}
	switch flags.TypeFilter {
	case "", "N", "n", "R", "r":
	default:
		return fmt.Errorf("%w: --type should be N or R: %s", flarc.ErrUsage, flags.TypeFilter)
	}

	pf := session.PagingFlags{
		Page: flags.Page, PageSize: flags.PageSize,
		Sort: flags.Sort, Desc: flags.Desc,
		Filter: flags.Filter, TypeFilter: flags.TypeFilter,
	}

	var result Result
	var err error
	if flags.Bin != "" {
		result, err = binRecords(ctx, logger, curateEnv, client, who, flags, pf)
	} else {
		result, err = worklistRecords(ctx, logger, curateEnv, client, who, flags, pf)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	return enc.Encode(result)
}

func worklistRecords(
	ctx context.Context,
	logger *log.Logger,
	curateEnv env.CurateEnv,
	client krst.CurateClient,
	who common.Identity,
	flags Flags,
	pf session.PagingFlags,
) (Result, error) {
	opts := []session.Option{}
	kind := "worklist"
	idText := flags.Worklist
	switch {
	case flags.Checklist != "":
		kind = "checklist"
		idText = flags.Checklist
		opts = append(opts, session.WithMode(selection.Checklists))
	case flags.Mode != "":
		mode, err := selection.ParseWorklistMode(flags.Mode)
		if err != nil || mode == selection.Checklists {
			return Result{}, fmt.Errorf("%w: --mode should be available or assigned: %s", flarc.ErrUsage, flags.Mode)
		}
		opts = append(opts, session.WithMode(mode))
	}
	id, err := session.ParseId("--"+kind, idText)
	if err != nil {
		return Result{}, err
	}

	v, err := session.OpenWorklist(ctx, logger, curateEnv, client, who, flags.Project, id, opts...)
	if err != nil {
		return Result{}, err
	}
	if p := pf.Apply(v.RecordPaging()); !p.Equal(v.RecordPaging()) {
		if err := session.Drive(ctx, v, v.SetRecordPaging(p)); err != nil {
			return Result{}, err
		}
	}

	w := v.Selection().Worklist
	return result(Source{Kind: kind, Id: w.Id, Name: w.Name}, v.RecordPaging(), v.Records()), nil
}

func binRecords(
	ctx context.Context,
	logger *log.Logger,
	curateEnv env.CurateEnv,
	client krst.CurateClient,
	who common.Identity,
	flags Flags,
	pf session.PagingFlags,
) (Result, error) {
	v, err := session.Workflow(ctx, logger, curateEnv, client, who, flags.Project)
	if err != nil {
		return Result{}, err
	}
	if _, err := session.SelectConfig(ctx, v, flags.Config); err != nil {
		return Result{}, err
	}
	bin, err := session.FindBin(v, flags.Bin)
	if err != nil {
		return Result{}, err
	}
	if err := session.DriveWorkflow(ctx, v, v.SelectBin(bin, flags.ClusterType)); err != nil {
		return Result{}, err
	}
	if p := pf.Apply(v.BinPaging()); !p.Equal(v.BinPaging()) {
		if err := session.DriveWorkflow(ctx, v, v.SetBinPaging(p)); err != nil {
			return Result{}, err
		}
	}

	return result(Source{Kind: "bin", Id: bin.Id, Name: bin.Name}, v.BinPaging(), v.BinRecords()), nil
}

func result(src Source, p paging.State, records paging.ListResult[workflow.TrackingRecord]) Result {
	return Result{
		Source:     src,
		Page:       p.Page,
		Pages:      p.Pages(records.TotalCount),
		TotalCount: records.TotalCount,
		Records:    records.Items,
	}
}
