package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/garrettladley/hrcounter/internal/uiloop"
)

type chanSink chan string

func (s chanSink) SetText(text string) { s <- text }

func TestLoopSinkDeliversOnLoop(t *testing.T) {
	t.Parallel()

	loop := uiloop.New()
	ctx, cancel := context.WithCancel(t.Context())
	go func() { _ = loop.Run(ctx) }()
	<-loop.Started()

	var logs bytes.Buffer
	texts := make(chanSink, 1)
	sink := loopSink{ctx: t.Context(), loop: loop, sink: texts, logger: slog.New(slog.NewTextHandler(&logs, nil))}

	sink.SetText("HR 90")
	select {
	case got := <-texts:
		if got != "HR 90" {
			t.Errorf("SetText() delivered %q, want %q", got, "HR 90")
		}
	case <-time.After(time.Second):
		t.Fatal("text never reached the sink")
	}

	cancel()
	<-loop.Done()

	// dropped once the loop is gone
	sink.SetText("HR 91")
	select {
	case got := <-texts:
		t.Errorf("SetText() after stop delivered %q", got)
	case <-time.After(20 * time.Millisecond):
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected logs:\n%s", logs.String())
	}
}
