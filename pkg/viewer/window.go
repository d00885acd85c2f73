package viewer

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/termcurator/curate/pkg/windows"
)

// FilePlaceholder in a viewer command is replaced with the path of the page file.
const FilePlaceholder = "{{file}}"

// Expand replaces FilePlaceholder in command with file.
func Expand(command []string, file string) []string {
	ret := make([]string, 0, len(command))
	for _, c := range command {
		ret = append(ret, strings.ReplaceAll(c, FilePlaceholder, file))
	}
	return ret
}

// Window is a child window: a page file, and a viewer process following it.
type Window struct {
	mu     sync.Mutex
	file   string
	source func() Page
	proc   *exec.Cmd
	closed bool
}

var _ windows.Notifier = &Window{}

type options struct {
	dir     string
	command []string
}

type Option func(*options) *options

// WithDir sets the directory the page file is created in. Default is os.TempDir().
func WithDir(dir string) Option {
	return func(o *options) *options {
		o.dir = dir
		return o
	}
}

// WithCommand sets the command line of the viewer process.
//
// Without this, no process is started and the page file is just kept up to date.
func WithCommand(command []string) Option {
	return func(o *options) *options {
		o.command = command
		return o
	}
}

// Open writes the page from source to a new file and starts the viewer on it.
//
// source is called again on each Refresh and Notify.
func Open(name string, source func() Page, opts ...Option) (*Window, error) {
	o := &options{}
	for _, opt := range opts {
		o = opt(o)
	}

	f, err := os.CreateTemp(o.dir, "curate-"+name+"-*.yaml")
	if err != nil {
		return nil, err
	}
	file := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(file)
		return nil, err
	}

	w := &Window{file: file, source: source}
	if err := WritePage(file, source()); err != nil {
		os.Remove(file)
		return nil, err
	}

	if len(o.command) != 0 {
		args := Expand(o.command, file)
		proc := exec.Command(args[0], args[1:]...)
		if err := proc.Start(); err != nil {
			os.Remove(file)
			return nil, err
		}
		w.proc = proc
	}
	return w, nil
}

// File is the path of the page file.
func (w *Window) File() string {
	return w.file
}

// Refresh rewrites the page file with the current page.
func (w *Window) Refresh() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return WritePage(w.file, w.source())
}

// Notify rewrites the page file with the current page and message as a notice.
func (w *Window) Notify(message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	p := w.source()
	p.Notice = message
	return WritePage(w.file, p)
}

// Close stops the viewer process and removes the page file.
//
// Closing twice is no-op.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if w.proc != nil {
		if err := w.proc.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, err)
		}
		w.proc.Wait() // it has been killed. exit status tells nothing.
	}
	if err := os.Remove(w.file); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
