package uiloop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New()
	ctx, cancel := context.WithCancel(t.Context())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	<-l.Started()
	return l
}

func TestDoRunsOnLoop(t *testing.T) {
	t.Parallel()

	l := startLoop(t)

	if l.OnLoop(t.Context()) {
		t.Fatal("OnLoop() = true for the test context")
	}

	var onLoop bool
	if err := l.Do(t.Context(), func(ctx context.Context) {
		onLoop = l.OnLoop(ctx)
	}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !onLoop {
		t.Error("task context was not marked as on-loop")
	}
}

func TestDoInlineWhenAlreadyOnLoop(t *testing.T) {
	t.Parallel()

	l := startLoop(t)

	var inner bool
	err := l.Do(t.Context(), func(ctx context.Context) {
		// would deadlock if queued behind the running task
		if err := l.Do(ctx, func(context.Context) { inner = true }); err != nil {
			t.Errorf("nested Do() error = %v", err)
		}
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !inner {
		t.Error("nested task did not run")
	}
}

func TestOnLoopDistinguishesLoops(t *testing.T) {
	t.Parallel()

	a, b := startLoop(t), startLoop(t)

	var onB bool
	if err := a.Do(t.Context(), func(ctx context.Context) { onB = b.OnLoop(ctx) }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if onB {
		t.Error("context from loop a reported as on loop b")
	}
}

func TestMustOnLoop(t *testing.T) {
	t.Parallel()

	l := startLoop(t)

	defer func() {
		if recover() == nil {
			t.Error("MustOnLoop() did not panic off the loop")
		}
	}()

	if err := l.Do(t.Context(), func(ctx context.Context) { l.MustOnLoop(ctx, "test") }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	l.MustOnLoop(t.Context(), "test")
}

func TestPostRunsInOrder(t *testing.T) {
	t.Parallel()

	l := startLoop(t)

	var got []int
	for i := range 5 {
		if err := l.Post(t.Context(), func(context.Context) { got = append(got, i) }); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}
	// Do queues behind the posts
	var n int
	if err := l.Do(t.Context(), func(context.Context) { n = len(got) }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("ran %d posted tasks, want 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Errorf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestDoAfterStop(t *testing.T) {
	t.Parallel()

	l := New()
	ctx, cancel := context.WithCancel(t.Context())
	go func() { _ = l.Run(ctx) }()
	<-l.Started()
	cancel()
	<-l.Done()

	if err := l.Do(t.Context(), func(context.Context) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Do() after stop error = %v, want ErrClosed", err)
	}
	if err := l.Post(t.Context(), func(context.Context) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Post() after stop error = %v, want ErrClosed", err)
	}
}

func TestDoCallerCancel(t *testing.T) {
	t.Parallel()

	l := startLoop(t)

	release := make(chan struct{})
	if err := l.Post(t.Context(), func(context.Context) { <-release }); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	defer close(release)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	err := l.Do(ctx, func(context.Context) {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want deadline exceeded", err)
	}
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	l := startLoop(t)
	if err := l.Run(t.Context()); !errors.Is(err, ErrRunning) {
		t.Errorf("second Run() error = %v, want ErrRunning", err)
	}
}
