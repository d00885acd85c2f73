package list

import (
	"context"
	"encoding/json"
	"log"

	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/pkg/api/types/projects"
	"github.com/termcurator/curate/pkg/utils"
	"github.com/youta-t/flarc"
)

type Flags struct{}

// Entry is a line of the output.
type Entry struct {
	projects.Project
	Default bool `json:"default,omitempty"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List projects the user works in.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task),
		flarc.WithDescription(`
List projects the signed-in user works in, as JSON.

The project used when --project is not passed to other commands is marked "default": true.
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
	list, err := client.GetProjectsForUser(ctx, who.UserName)
	if err != nil {
		return err
	}

	def, err := common.ResolveProject(ctx, client, who.UserName, "", curateEnv)
	if err != nil {
		logger.Printf("no default project: %s", err)
	}

	entries := utils.Map(list.Projects, func(p projects.Project) Entry {
		return Entry{Project: p, Default: err == nil && p.Id == def.Id}
	})

	enc := json.NewEncoder(cl.Stdout())
	enc.SetIndent("", "    ")
	return enc.Encode(entries)
}
