package theme

import "charm.land/lipgloss/v2"

var (
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
)

var (
	ColorHeart   = lipgloss.Color("#FF3B5C") // logo and gauge fill before the first sample
	ColorLive    = lipgloss.Color("#16EC06")
	ColorPending = lipgloss.Color("#FFDE00")
	ColorFailed  = lipgloss.Color("#FF0026")
)

var (
	ColorBgDark  = lipgloss.Color("#101518")
	ColorBgLight = lipgloss.Color("#283339")
)
