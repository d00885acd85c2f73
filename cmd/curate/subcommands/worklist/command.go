package worklist

import (
	worklist_action "github.com/termcurator/curate/cmd/curate/subcommands/worklist/action"
	worklist_find "github.com/termcurator/curate/cmd/curate/subcommands/worklist/find"
	"github.com/termcurator/curate/pkg/api/types/workflow"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	find, err := worklist_find.New()
	if err != nil {
		return nil, err
	}
	finish, err := worklist_action.New(workflow.Finish)
	if err != nil {
		return nil, err
	}
	assign, err := worklist_action.New(workflow.Assign)
	if err != nil {
		return nil, err
	}
	unassign, err := worklist_action.New(workflow.Unassign)
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Find and manipulate worklists.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("finish", finish),
		flarc.WithSubcommand("assign", assign),
		flarc.WithSubcommand("unassign", unassign),
	)
}
