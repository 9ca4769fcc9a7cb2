//go:build release

package footer

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/hrcounter/internal/tui/theme"
	"github.com/garrettladley/hrcounter/internal/version"
)

var versionStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)

// leftContent shows tagged versions only.
func (f Footer) leftContent() string {
	v := version.Get()
	if version.IsDevelopment(v) {
		return ""
	}
	return versionStyle.Render(v)
}
