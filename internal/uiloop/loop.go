// Package uiloop provides the UI-affine execution context: one goroutine that
// owns resources which must not be built or released anywhere else.
package uiloop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

const defaultQueueSize = 16

var (
	ErrClosed  = errors.New("ui loop is not running")
	ErrRunning = errors.New("ui loop is already running")
)

type ctxKey struct{}

type task struct {
	ctx  context.Context
	fn   func(context.Context)
	done chan struct{}
}

type Loop struct {
	tasks   chan task
	started chan struct{}
	quit    chan struct{}
	running atomic.Bool
}

type Option func(*Loop)

// WithQueueSize bounds how many posted tasks may wait before Post blocks.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n >= 0 {
			l.tasks = make(chan task, n)
		}
	}
}

func New(opts ...Option) *Loop {
	l := &Loop{
		tasks:   make(chan task, defaultQueueSize),
		started: make(chan struct{}),
		quit:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run makes the calling goroutine the loop and executes tasks until ctx
// ends. A Loop runs at most once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	close(l.started)
	defer close(l.quit)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-l.tasks:
			t.fn(context.WithValue(t.ctx, ctxKey{}, l))
			if t.done != nil {
				close(t.done)
			}
		}
	}
}

// Started is closed once Run has taken over its goroutine.
func (l *Loop) Started() <-chan struct{} { return l.started }

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.quit }

// Do runs fn on the loop and waits for it to finish. Called from a context
// the loop issued, fn runs inline. If ctx ends first Do returns ctx.Err()
// and fn may still run later.
func (l *Loop) Do(ctx context.Context, fn func(context.Context)) error {
	if l.OnLoop(ctx) {
		fn(ctx)
		return nil
	}

	done := make(chan struct{})
	if err := l.enqueue(ctx, task{ctx: ctx, fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		// the loop may have finished fn just before quitting
		select {
		case <-done:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Post queues fn without waiting for it.
func (l *Loop) Post(ctx context.Context, fn func(context.Context)) error {
	return l.enqueue(ctx, task{ctx: context.WithoutCancel(ctx), fn: fn})
}

func (l *Loop) enqueue(ctx context.Context, t task) error {
	select {
	case <-l.quit:
		return ErrClosed
	default:
	}

	select {
	case l.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		return ErrClosed
	}
}

// OnLoop reports whether ctx was handed out by this loop to a running task.
func (l *Loop) OnLoop(ctx context.Context) bool {
	owner, ok := ctx.Value(ctxKey{}).(*Loop)
	return ok && owner == l
}

// MustOnLoop panics when ctx did not come from the loop. Calling a loop-only
// operation elsewhere is a programming error.
func (l *Loop) MustOnLoop(ctx context.Context, op string) {
	if !l.OnLoop(ctx) {
		panic(fmt.Sprintf("uiloop: %s must be called on the UI loop", op))
	}
}
