package bin

import (
	bin_list "github.com/termcurator/curate/cmd/curate/subcommands/bin/list"
	bin_maintain "github.com/termcurator/curate/cmd/curate/subcommands/bin/maintain"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	list, err := bin_list.New()
	if err != nil {
		return nil, err
	}

	ops := map[bin_maintain.Operation]flarc.Command{}
	for _, op := range bin_maintain.Operations() {
		cmd, err := bin_maintain.New(op)
		if err != nil {
			return nil, err
		}
		ops[op] = cmd
	}

	return flarc.NewCommandGroup(
		"List and maintain bins of workflow configs.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand(string(bin_maintain.Enable), ops[bin_maintain.Enable]),
		flarc.WithSubcommand(string(bin_maintain.Disable), ops[bin_maintain.Disable]),
		flarc.WithSubcommand(string(bin_maintain.Regenerate), ops[bin_maintain.Regenerate]),
		flarc.WithSubcommand(string(bin_maintain.RegenerateAll), ops[bin_maintain.RegenerateAll]),
		flarc.WithSubcommand(string(bin_maintain.Recompute), ops[bin_maintain.Recompute]),
		flarc.WithSubcommand(string(bin_maintain.Remove), ops[bin_maintain.Remove]),
	)
}
