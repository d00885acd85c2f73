package report

import (
	report_watch "github.com/termcurator/curate/cmd/curate/subcommands/report/watch"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	watch, err := report_watch.New()
	if err != nil {
		return nil, err
	}
	return flarc.NewCommandGroup(
		"Show concept reports.",
		struct{}{},
		flarc.WithSubcommand("watch", watch),
	)
}
