package status

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/hrcounter/internal/ingest"
	"github.com/garrettladley/hrcounter/internal/tui/theme"
)

const statusDot = "●"

// Indicator shows the coordinator state and which source it is talking to.
type Indicator struct {
	Source string
	State  ingest.State
	Paused bool
}

func (i Indicator) Render() string {
	color, text := theme.ColorDim, i.State.String()
	switch i.State {
	case ingest.Live:
		color = theme.ColorLive
	case ingest.Connecting, ingest.Reconnecting:
		color = theme.ColorPending
	case ingest.Failed:
		color = theme.ColorFailed
		text = "failed, check configuration"
	}
	if i.Paused {
		text += " (paused)"
	}
	if i.Source != "" {
		text = i.Source + " " + text
	}

	return lipgloss.NewStyle().
		Foreground(color).
		Render(statusDot + " " + text)
}
