// Package controller holds client side state of curation views, and drives
// remote calls for them.
//
// Views are mutated only by their methods and by Update. Both are expected
// to be called from one goroutine. Remote calls are not made by views
// directly: they are returned as Cmd, and the result of a Cmd (a Msg) is
// given back to the view by a driver (Drive or Loop).
package controller

import (
	"context"
	"io"
	"log"

	"github.com/termcurator/curate/pkg/selection"
	"github.com/termcurator/curate/pkg/windows"
)

// Msg is a result of a Cmd, or an event from outside.
type Msg any

// Cmd is a remote call (or other blocking operation) requested by a view.
//
// Cmd may be called on a goroutine other than the one the view lives on,
// so it must not touch the view.
type Cmd func(ctx context.Context) Msg

// BatchMsg is a Msg requesting to run Cmds independently.
type BatchMsg []Cmd

// Batch combines cmds. nil cmds are ignored.
func Batch(cmds ...Cmd) Cmd {
	valid := make([]Cmd, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return func(context.Context) Msg { return BatchMsg(valid) }
	}
}

// Sequence runs cmds one by one, in the Cmd's goroutine.
//
// Each Msg but BatchMsg is dispatched to Update in order by the driver.
func Sequence(cmds ...Cmd) Cmd {
	valid := make([]Cmd, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return func(ctx context.Context) Msg {
		msgs := make(sequenceMsg, 0, len(valid))
		for _, c := range valid {
			msgs = append(msgs, c(ctx))
		}
		return msgs
	}
}

type sequenceMsg []Msg

// Model is a view which can be driven.
type Model interface {
	Update(Msg) Cmd
}

// Drive runs cmd and Cmds caused by it until no more Cmd remains.
//
// Cmds run one by one, in order they are requested, on the caller's goroutine.
// It returns ctx.Err() when ctx is done.
func Drive(ctx context.Context, model Model, cmd Cmd) error {
	queue := []Cmd{cmd}
	for len(queue) != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		queue = append(queue, dispatch(model, c(ctx))...)
	}
	return nil
}

// dispatch passes msg to model, and returns Cmds to be run next.
func dispatch(model Model, msg Msg) []Cmd {
	switch m := msg.(type) {
	case nil:
		return nil
	case BatchMsg:
		return m
	case sequenceMsg:
		next := []Cmd{}
		for _, sub := range m {
			next = append(next, dispatch(model, sub)...)
		}
		return next
	default:
		if c := model.Update(m); c != nil {
			return []Cmd{c}
		}
		return nil
	}
}

// Split flattens msg for drivers running Cmds on their own.
//
// msgs are to be given to Update in order, and cmds are to be run independently.
func Split(msg Msg) (msgs []Msg, cmds []Cmd) {
	switch m := msg.(type) {
	case nil:
		return nil, nil
	case BatchMsg:
		return nil, m
	case sequenceMsg:
		for _, sub := range m {
			ms, cs := Split(sub)
			msgs = append(msgs, ms...)
			cmds = append(cmds, cs...)
		}
		return msgs, cmds
	default:
		return []Msg{m}, nil
	}
}

type options struct {
	logger       *log.Logger
	windows      *windows.Registry
	pageSizes    map[List]int
	worklistMode selection.WorklistMode
}

// Option configures views.
type Option func(*options) *options

// WithLogger sets logger for views. Views log nothing by default.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) *options {
		o.logger = logger
		return o
	}
}

// WithWindows makes views track child windows in registry.
//
// By default, each view has its own registry.
func WithWindows(registry *windows.Registry) Option {
	return func(o *options) *options {
		o.windows = registry
		return o
	}
}

// WithPageSize sets page size of list. Sizes less than 1 are ignored.
func WithPageSize(list List, size int) Option {
	return func(o *options) *options {
		if 0 < size {
			o.pageSizes[list] = size
		}
		return o
	}
}

// WithWorklistMode sets the initial worklist mode of EditView.
func WithWorklistMode(mode selection.WorklistMode) Option {
	return func(o *options) *options {
		o.worklistMode = mode
		return o
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		logger:    log.New(io.Discard, "", 0),
		pageSizes: map[List]int{},
	}
	for _, opt := range opts {
		o = opt(o)
	}
	return o
}

func (o *options) windowRegistry() *windows.Registry {
	if o.windows == nil {
		return &windows.Registry{}
	}
	return o.windows
}

func (o *options) pageSize(list List, fallback int) int {
	if s, ok := o.pageSizes[list]; ok {
		return s
	}
	return fallback
}
