package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoopStopped is returned when a Loop is used after it has stopped.
var ErrLoopStopped = errors.New("loop is stopped")

// Loop drives a Model asynchronously.
//
// Cmds run on their own goroutines, and Msgs are applied to the model
// serially, on the goroutine calling Run.
//
// Loop is for programs embedding views and feeding them events from several
// goroutines. The curate commands drive views with Drive, or with bubbletea.
type Loop struct {
	model   Model
	inbox   chan func() Cmd
	done    chan struct{}
	once    sync.Once
	pending sync.WaitGroup
	dropped atomic.Int64
}

func NewLoop(model Model) *Loop {
	return &Loop{
		model: model,
		inbox: make(chan func() Cmd),
		done:  make(chan struct{}),
	}
}

// Run applies operations and messages until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.inbox:
			l.spawn(ctx, f())
			l.pending.Done()
		}
	}
}

// Do runs op on the loop goroutine, and runs the Cmd it returns.
//
// op can touch the model safely.
func (l *Loop) Do(op func() Cmd) error {
	l.pending.Add(1)
	select {
	case l.inbox <- op:
		return nil
	case <-l.done:
		l.pending.Done()
		return ErrLoopStopped
	}
}

// Send passes msg to the model's Update on the loop goroutine.
func (l *Loop) Send(msg Msg) error {
	return l.Do(func() Cmd { return l.model.Update(msg) })
}

// Dropped is the number of Msgs which Cmds returned after the loop stopped.
// They are not applied to the model.
func (l *Loop) Dropped() int {
	return int(l.dropped.Load())
}

// Wait blocks until all operations passed and Cmds caused by them are done.
func (l *Loop) Wait() {
	l.pending.Wait()
}

func (l *Loop) spawn(ctx context.Context, cmd Cmd) {
	if cmd == nil {
		return
	}
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		l.deliver(ctx, cmd(ctx))
	}()
}

func (l *Loop) deliver(ctx context.Context, msg Msg) {
	switch m := msg.(type) {
	case nil:
	case BatchMsg:
		for _, c := range m {
			l.spawn(ctx, c)
		}
	case sequenceMsg:
		for _, sub := range m {
			l.deliver(ctx, sub)
		}
	default:
		if err := l.Send(m); errors.Is(err, ErrLoopStopped) {
			l.dropped.Add(1)
		}
	}
}
