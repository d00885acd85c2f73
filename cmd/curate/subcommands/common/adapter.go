package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/termcurator/curate/cmd/curate/config/profiles"
	"github.com/termcurator/curate/cmd/curate/env"
	krest "github.com/termcurator/curate/cmd/curate/rest"
	"github.com/termcurator/curate/cmd/curate/subcommands/logger"
	"github.com/youta-t/flarc"
)

type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		return task(ctx, logger.ForCommand(cl.Stderr(), cl.Fullname()), commonFlag, cl, newpos)
	}
}

// Identity is who the command runs as.
type Identity struct {
	// Profile is the name of the profile in use.
	Profile string

	// UserName is the user signed in with the profile.
	UserName string
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	curateEnv env.CurateEnv,
	client krest.CurateClient,
	who Identity,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask loads the profile and the env, then runs the task with a client signed in.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, profiles.ErrProfileStoreNotFound) {
				return fmt.Errorf(
					"%w: profile store (%s) is not found. Please try `curate init` first",
					err, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf("%w: failed to load profile store (%s)", err, commonFlag.ProfileStore)
		}
		prof, ok := store[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile '%s' not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		if err := prof.SignedIn(); err != nil {
			return fmt.Errorf("profile '%s': %w", commonFlag.Profile, err)
		}
		if prof.Expired(time.Now()) {
			exp, _ := prof.TokenExpiry()
			return fmt.Errorf(
				"%w: token of profile '%s' has expired at %s. Run `curate init` again",
				profiles.ErrNotSignedIn, commonFlag.Profile, exp.Format(time.RFC3339),
			)
		}

		e, err := env.LoadCurateEnv(commonFlag.Env)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: failed to load curateenv", err)
			}
			e = env.New()
		}

		client, err := krest.NewClient(prof)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create client. Your profile (%s in %s) can be broken.\n\nRemove it and try `curate init` again",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		who := Identity{Profile: commonFlag.Profile, UserName: prof.User}
		return task(ctx, logger, *e, client, who, cl, params)
	})
}
