package tui

import (
	"github.com/garrettladley/hrcounter/internal/display"
	"github.com/garrettladley/hrcounter/internal/ingest"
)

// Feed is a one-slot mailbox. Put never blocks; an unread value is replaced
// by the newer one.
type Feed[T any] struct {
	ch chan T
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{ch: make(chan T, 1)}
}

func (f *Feed[T]) Put(v T) {
	for {
		select {
		case f.ch <- v:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *Feed[T]) C() <-chan T { return f.ch }

// TextFeed is the host text object handed to the display ticker.
type TextFeed struct{ *Feed[string] }

var _ display.TextSetter = TextFeed{}

func NewTextFeed() TextFeed { return TextFeed{NewFeed[string]()} }

func (f TextFeed) SetText(text string) { f.Put(text) }

type PauseFeed struct{ *Feed[int] }

var _ display.Pauser = PauseFeed{}

func NewPauseFeed() PauseFeed { return PauseFeed{NewFeed[int]()} }

func (f PauseFeed) Pause(bpm int) { f.Put(bpm) }

type Transition struct {
	From, To ingest.State
}

// StateFeed forwards coordinator transitions; only the newest is kept.
type StateFeed struct{ *Feed[Transition] }

func NewStateFeed() StateFeed { return StateFeed{NewFeed[Transition]()} }

// Listen has the ingest.StateListener signature.
func (f StateFeed) Listen(from, to ingest.State) {
	f.Put(Transition{From: from, To: to})
}
