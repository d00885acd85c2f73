package watch

import (
	"context"
	"io"
	"os"

	"github.com/termcurator/curate/pkg/viewer"
	"github.com/youta-t/flarc"
	"golang.org/x/term"
)

type Flags struct {
	Width int `flag:"width" help:"width of the view. Default is the width of the terminal."`
}

const ARG_FILE = "FILE"

// clear moves the cursor home and erases the screen.
const clear = "\x1b[H\x1b[2J"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Follow a page file of a child viewer window.",
		Flags{},
		flarc.Args{
			{
				Name: ARG_FILE, Required: true,
				Help: "page file written by `curate edit`",
			},
		},
		Task,
		flarc.WithDescription(`
Show the page file, and show it again each time it is updated, until interrupted.

"curate edit" writes the report of the selected concept to a page file,
and starts the viewer command of curateenv on it. This is the default viewer.
`),
	)
}

func Task(ctx context.Context, cl flarc.Commandline[Flags], _ []any) error {
	file := cl.Args()[ARG_FILE][0]
	width := cl.Flags().Width
	if width <= 0 {
		width = terminalWidth(cl.Stdout())
	}
	return viewer.Follow(ctx, file, func(p viewer.Page) error {
		_, err := io.WriteString(cl.Stdout(), clear+viewer.Render(p, width)+"\n")
		return err
	})
}

// terminalWidth is the width of w if it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
