package tui

import (
	"image"

	"github.com/garrettladley/hrcounter/internal/ingest"
)

type TextMsg struct {
	Text string
}

type PausedMsg struct {
	BPM int
}

type StateMsg struct {
	From, To ingest.State
}

// FeedClosedMsg ends a listener; it is not re-armed afterwards.
type FeedClosedMsg struct {
	Err error
}

type IconInfo struct {
	Name   string
	Bounds image.Rectangle
}

type IconsMsg struct {
	Icons []IconInfo
	Err   error
}
