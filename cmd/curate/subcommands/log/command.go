package log

import (
	log_show "github.com/termcurator/curate/cmd/curate/subcommands/log/show"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	show, err := log_show.New()
	if err != nil {
		return nil, err
	}
	return flarc.NewCommandGroup(
		"Show logs kept by the term server.",
		struct{}{},
		flarc.WithSubcommand("show", show),
	)
}
