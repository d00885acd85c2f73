package record

import (
	record_approve "github.com/termcurator/curate/cmd/curate/subcommands/record/approve"
	record_find "github.com/termcurator/curate/cmd/curate/subcommands/record/find"
	record_next "github.com/termcurator/curate/cmd/curate/subcommands/record/next"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	find, err := record_find.New()
	if err != nil {
		return nil, err
	}
	next, err := record_next.New()
	if err != nil {
		return nil, err
	}
	approve, err := record_approve.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Find and review tracking records.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("next", next),
		flarc.WithSubcommand("approve", approve),
	)
}
