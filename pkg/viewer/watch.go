package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext returns a context that is canceled
// when one of target paths is modified (= written, created, removed, or renamed).
//
// When targets are directories, modification of files in them counts.
//
// If error is not nil, both of the the context and the cancel function are nil.
func UntilModifyContext(ctx context.Context, targets ...string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op.String()))
			}
		}
	}()

	for _, f := range targets {
		if err = w.Add(f); err != nil {
			cancel(err)
			return nil, nil, err
		}
	}
	return cctx, func() { cancel(nil) }, nil
}

// Follow calls render with the page in file, and again each time it is modified,
// until ctx is done.
//
// The directory of file is watched, so a file replaced by rename is followed.
// A missing file is rendered as an empty page.
func Follow(ctx context.Context, file string, render func(Page) error) error {
	dir := filepath.Dir(file)
	for {
		wctx, cancel, err := UntilModifyContext(ctx, dir)
		if err != nil {
			return err
		}

		page, err := ReadPage(file)
		if errors.Is(err, os.ErrNotExist) {
			page, err = Page{}, nil
		}
		if err == nil {
			err = render(page)
		}
		if err != nil {
			cancel()
			return err
		}

		<-wctx.Done()
		cancel()
		if ctx.Err() != nil {
			return nil
		}
	}
}
