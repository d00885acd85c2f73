package project

import (
	project_list "github.com/termcurator/curate/cmd/curate/subcommands/project/list"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	list, err := project_list.New()
	if err != nil {
		return nil, err
	}
	return flarc.NewCommandGroup(
		"Show projects.",
		struct{}{},
		flarc.WithSubcommand("list", list),
	)
}
