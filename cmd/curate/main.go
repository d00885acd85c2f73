package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	subbin "github.com/termcurator/curate/cmd/curate/subcommands/bin"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	subedit "github.com/termcurator/curate/cmd/curate/subcommands/edit"
	subinit "github.com/termcurator/curate/cmd/curate/subcommands/init"
	sublog "github.com/termcurator/curate/cmd/curate/subcommands/log"
	"github.com/termcurator/curate/cmd/curate/subcommands/logger"
	subproject "github.com/termcurator/curate/cmd/curate/subcommands/project"
	subrecord "github.com/termcurator/curate/cmd/curate/subcommands/record"
	subreport "github.com/termcurator/curate/cmd/curate/subcommands/report"
	subver "github.com/termcurator/curate/cmd/curate/subcommands/version"
	subworklist "github.com/termcurator/curate/cmd/curate/subcommands/worklist"
	"github.com/termcurator/curate/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	project := try.To(subproject.New()).OrFatal(logger)
	worklist := try.To(subworklist.New()).OrFatal(logger)
	record := try.To(subrecord.New()).OrFatal(logger)
	bin := try.To(subbin.New()).OrFatal(logger)
	log := try.To(sublog.New()).OrFatal(logger)
	edit := try.To(subedit.New()).OrFatal(logger)
	report := try.To(subreport.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	curate := try.To(
		flarc.NewCommandGroup(
			"Terminology curation client",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("project", project),
			flarc.WithSubcommand("worklist", worklist),
			flarc.WithSubcommand("record", record),
			flarc.WithSubcommand("bin", bin),
			flarc.WithSubcommand("log", log),
			flarc.WithSubcommand("edit", edit),
			flarc.WithSubcommand("report", report),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, curate, flarc.WithHelp(true)))
}
