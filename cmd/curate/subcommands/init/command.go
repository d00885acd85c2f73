package initialize

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	prof "github.com/termcurator/curate/cmd/curate/config/profiles"
	krst "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/common"
	"github.com/youta-t/flarc"
	"golang.org/x/term"
)

type Flags struct {
	ApiRoot string `flag:"api-root" metavar:"URL" help:"endpoint of the term server (required)"`
	User    string `flag:"user" alias:"u" help:"user name to sign in as (required)"`
	CA      string `flag:"ca" metavar:"FILE" help:"PEM file of the CA certificate to trust"`
}

func New(opts ...Option) (flarc.Command, error) {
	return flarc.NewCommand(
		"Sign in to a term server, and save it as a profile.",
		Flags{},
		flarc.Args{},
		common.NewTaskWithCommonFlag(Task(opts...)),
		flarc.WithDescription(`
Sign in to the term server at --api-root as --user, and save the token in your
profile store as the profile named by "--profile" (default: current filepath).

The password is read from stdin. When stdin is a terminal, it is prompted for.

This directory is marked to use the profile by writing ".curateprofile".
`),
	)
}

// ClientFactory makes a client for a profile which is not signed in yet.
type ClientFactory func(*prof.Profile) (krst.CurateClient, error)

type option struct {
	newClient ClientFactory
	workdir   string
}

type Option func(*option) *option

// WithClientFactory replaces how clients are made. Default is rest.NewClient.
func WithClientFactory(f ClientFactory) Option {
	return func(o *option) *option {
		o.newClient = f
		return o
	}
}

// WithWorkdir sets where ".curateprofile" is written. Default is the working directory.
func WithWorkdir(dir string) Option {
	return func(o *option) *option {
		o.workdir = dir
		return o
	}
}

func Task(opts ...Option) common.TaskWithCommonFlag[Flags] {
	o := &option{newClient: krst.NewClient, workdir: "."}
	for _, opt := range opts {
		o = opt(o)
	}

	return func(
		ctx context.Context,
		logger *log.Logger,
		cf common.CommonFlags,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		flags := cl.Flags()
		if flags.ApiRoot == "" || flags.User == "" {
			return fmt.Errorf("%w: --api-root and --user are required", flarc.ErrUsage)
		}

		newProf := &prof.Profile{ApiRoot: flags.ApiRoot, User: flags.User}
		if flags.CA != "" {
			pem, err := os.ReadFile(flags.CA)
			if err != nil {
				return fmt.Errorf("failed to read CA certificate (%s): %w", flags.CA, err)
			}
			newProf.Cert.CA = base64.StdEncoding.EncodeToString(pem)
		}
		if err := newProf.Verify(); err != nil {
			return err
		}

		store, err := prof.LoadProfileStore(cf.ProfileStore)
		if errors.Is(err, prof.ErrProfileStoreNotFound) {
			store = prof.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf("failed to load profile store (%s): %w", cf.ProfileStore, err)
		}

		password, err := readPassword(cl.Stdin(), cl.Stderr(), flags.User)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		client, err := o.newClient(newProf)
		if err != nil {
			return err
		}
		user, err := client.Authenticate(ctx, flags.User, password)
		if err != nil {
			return err
		}
		if user.AuthToken == "" {
			return fmt.Errorf("%w: the server issued no token for %s", prof.ErrNotSignedIn, flags.User)
		}
		newProf.Token = user.AuthToken

		store[cf.Profile] = newProf
		if err := store.Save(cf.ProfileStore); err != nil {
			return fmt.Errorf("failed to save profile store (%s): %w", cf.ProfileStore, err)
		}
		logger.Printf("profile %s is saved to %s", cf.Profile, cf.ProfileStore)
		if exp, ok := newProf.TokenExpiry(); ok {
			logger.Printf("the token expires at %s", exp.Local().Format("2006-01-02 15:04:05"))
		}

		marker := filepath.Join(o.workdir, common.ProfileFile)
		if err := os.WriteFile(marker, []byte(cf.Profile), os.FileMode(0600)); err != nil {
			return fmt.Errorf("failed to write %s: %w", marker, err)
		}
		return nil
	}
}

// readPassword prompts on a terminal, or reads the first line from in.
func readPassword(in io.Reader, prompt io.Writer, user string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(prompt, "password for %s: ", user)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
