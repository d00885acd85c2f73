package version

import (
	"context"
	"io"

	"github.com/termcurator/curate/pkg/buildtime"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show version of this command.",
		struct{}{},
		flarc.Args{},
		func(ctx context.Context, c flarc.Commandline[struct{}], a []any) error {
			_, err := io.WriteString(c.Stdout(), buildtime.VersionString()+"\n")
			return err
		},
	)
}
