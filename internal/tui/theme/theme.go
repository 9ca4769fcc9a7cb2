package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	background color.Color
	foreground color.Color
	accent     color.Color
}

func New() Theme {
	return Theme{
		background: ColorBgDark,
		foreground: ColorWhite,
		accent:     ColorHeart,
	}
}

func (t Theme) TextAccent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.accent).Bold(true)
}

func (t Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorDim)
}

func (t Theme) Background() color.Color { return t.background }

func (t Theme) Foreground() color.Color { return t.foreground }

func (t Theme) Accent() color.Color { return t.accent }
