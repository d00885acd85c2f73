package edit

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/termcurator/curate/cmd/curate/env"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/termcurator/curate/cmd/curate/subcommands/internal/session"
	"github.com/termcurator/curate/pkg/controller"
	"github.com/termcurator/curate/pkg/selection"
	"github.com/termcurator/curate/pkg/viewer"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Project  string `flag:"project" help:"project id or name"`
	Mode     string `flag:"mode" metavar:"available|assigned|checklists" help:"kind of worklists to start with"`
	Worklist string `flag:"worklist" alias:"w" metavar:"ID" help:"worklist to open at start"`
}

// ReportWindow is the name of the child window showing the concept report.
const ReportWindow = "report"

func New(opts ...Option) (flarc.Command, error) {
	return flarc.NewCommand(
		"Browse and curate worklists interactively.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task(opts...)),
		flarc.WithDescription(`
Open the edit screen: worklists, records of the selected worklist and concepts of
the selected record. Press "q" to quit.

The report of the selected concept is written to a page file. When "viewer" is set
in curateenv, it is started on the file (as a child viewer window) and closed when
you quit. Otherwise, run "curate report watch FILE" in another terminal to follow it.
`),
	)
}

type option struct {
	program []tea.ProgramOption
	dir     string
}

type Option func(*option) *option

// WithProgramOptions adds options for the bubbletea program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(o *option) *option {
		o.program = append(o.program, opts...)
		return o
	}
}

// WithPageDir sets the directory page files of child windows are created in.
func WithPageDir(dir string) Option {
	return func(o *option) *option {
		o.dir = dir
		return o
	}
}

func Task(opts ...Option) common.Task[Flags] {
	o := &option{}
	for _, opt := range opts {
		o = opt(o)
	}

	return func(
		ctx context.Context,
		logger *log.Logger,
		curateEnv env.CurateEnv,
		client krst.CurateClient,
		who common.Identity,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		flags := cl.Flags()
		sopts := []session.Option{}
		if flags.Mode != "" {
			mode, err := selection.ParseWorklistMode(flags.Mode)
			if err != nil {
				return fmt.Errorf("%w: %w", flarc.ErrUsage, err)
			}
			sopts = append(sopts, session.WithMode(mode))
		}

		var v *controller.EditView
		if flags.Worklist != "" {
			id, err := session.ParseId("--worklist", flags.Worklist)
			if err != nil {
				return err
			}
			if v, err = session.OpenWorklist(ctx, logger, curateEnv, client, who, flags.Project, id, sopts...); err != nil {
				return err
			}
		} else {
			var err error
			if v, err = session.Edit(ctx, logger, curateEnv, client, who, flags.Project, sopts...); err != nil {
				return err
			}
		}
		defer func() {
			if err := v.Close(); err != nil {
				logger.Printf("closing child windows: %s", err)
			}
		}()

		wopts := []viewer.Option{}
		if o.dir != "" {
			wopts = append(wopts, viewer.WithDir(o.dir))
		}
		if len(curateEnv.Viewer) != 0 {
			wopts = append(wopts, viewer.WithCommand(curateEnv.Viewer))
		}
		w, err := viewer.Open(ReportWindow, ReportPage(v), wopts...)
		if err != nil {
			return fmt.Errorf("opening report window: %w", err)
		}
		v.RegisterWindow(ReportWindow, w)
		if len(curateEnv.Viewer) == 0 {
			logger.Printf("concept reports are written to %s", w.File())
		}

		popts := append([]tea.ProgramOption{
			tea.WithContext(ctx),
			tea.WithInput(cl.Stdin()),
			tea.WithOutput(cl.Stdout()),
			tea.WithAltScreen(),
		}, o.program...)
		if _, err := tea.NewProgram(NewModel(ctx, v), popts...).Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		}
		return nil
	}
}

// ReportPage is the page of the report window: the report of the selected concept.
func ReportPage(v *controller.EditView) func() viewer.Page {
	return func() viewer.Page {
		c := v.Selection().Concept
		if c == nil {
			return viewer.Page{Title: "no concept is selected"}
		}
		return viewer.Page{
			Title: fmt.Sprintf("%s (%d)", c.Name, c.Id),
			Body:  v.Report(),
		}
	}
}
