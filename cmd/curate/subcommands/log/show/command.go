package show

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project string `flag:"project" help:"project id or name"`
}

const (
	ARG_TYPE = "TYPE"
	ARG_ID   = "ID"
)

func New() (flarc.Command, error) {
	types := []string{}
	for _, t := range controller.LogTypes() {
		types = append(types, strings.ToLower(string(t)))
	}
	return flarc.NewCommand(
		"Show a log of a worklist, checklist, process, step, project or component.",
		Flags{},
		flarc.Args{
			{
				Name: ARG_TYPE, Required: true,
				Help: "one of " + strings.Join(types, ", "),
			},
			{
				Name: ARG_ID, Required: false,
				Help: "id of the object. Not needed for project.",
			},
		},
		common.NewTask(Task),
		flarc.WithDescription(`
Show a log of an object in the project, as text.

For concept, descriptor and code, ID is the component id.
`),
	)
}

// ParseLogType finds LogType by name, case insensitively.
func ParseLogType(s string) (controller.LogType, error) {
	for _, t := range controller.LogTypes() {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown log type: %s", flarc.ErrUsage, s)
}

// Target builds LogTarget for typ and id in the project.
func Target(typ controller.LogType, projectId int64, id string) (controller.LogTarget, error) {
	target := controller.LogTarget{ProjectId: projectId}
	if typ == controller.LogProject {
		return target, nil
	}
	if id == "" {
		return target, fmt.Errorf("%w: %s is required for %s log", flarc.ErrUsage, ARG_ID, strings.ToLower(string(typ)))
	}

	switch typ {
	case controller.LogConcept, controller.LogDescriptor, controller.LogCode:
		target.ObjectId = id
		return target, nil
	}

	n, err := session.ParseId(ARG_ID, id)
	if err != nil {
		return target, err
	}
	switch typ {
	case controller.LogWorklist, controller.LogChecklist:
		target.WorklistId = n
	case controller.LogProcess:
		target.ProcessId = n
	case controller.LogStep:
		target.StepId = n
	}
	return target, nil
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
	typ, err := ParseLogType(cl.Args()[ARG_TYPE][0])
	if err != nil {
		return err
	}
	id := ""
	if v := cl.Args()[ARG_ID]; len(v) != 0 {
		id = v[0]
	}

	project, err := common.ResolveProject(ctx, client, who.UserName, cl.Flags().Project, curateEnv)
	if err != nil {
		return err
	}
	target, err := Target(typ, project.Id, id)
	if err != nil {
		return err
	}

	dialog := controller.NewLogDialog(client, typ, target, controller.WithLogger(logger))
	if err := controller.Drive(ctx, dialog, dialog.Load()); err != nil {
		return err
	}
	if err := session.Check(dialog.Errors()); err != nil {
		return err
	}

	text := dialog.Log()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(cl.Stdout(), text)
	return err
}
