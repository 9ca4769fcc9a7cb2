// Package gauge draws the heart-rate ring: a braille track, a filled arc
// proportional to BPM over the upper threshold, and the value in the middle.
package gauge

import (
	"image/color"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/garrettladley/hrcounter/internal/tui/theme"
)

const noValue = "--"

type Gauge struct {
	BPM        *int // nil until the first sample
	Max        int
	Label      string
	Color      color.Color
	TrackColor color.Color
	TextColor  color.Color
}

type Option func(*Gauge)

func WithTrackColor(c color.Color) Option {
	return func(g *Gauge) { g.TrackColor = c }
}

func WithTextColor(c color.Color) Option {
	return func(g *Gauge) { g.TextColor = c }
}

func New(bpm *int, maxBPM int, label string, c color.Color, opts ...Option) Gauge {
	g := Gauge{
		BPM:        bpm,
		Max:        maxBPM,
		Label:      label,
		Color:      c,
		TrackColor: theme.ColorBgLight,
		TextColor:  theme.ColorWhite,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// Fraction is BPM/Max clamped to [0, 1].
func (g Gauge) Fraction() float64 {
	if g.BPM == nil || g.Max <= 0 {
		return 0
	}
	return min(max(float64(*g.BPM)/float64(g.Max), 0), 1)
}

func (g Gauge) Value() string {
	if g.BPM == nil {
		return noValue
	}
	return strconv.Itoa(*g.BPM)
}

func (g Gauge) Render() string {
	arc := paint(ring(fullTurn), ring(g.Fraction()*fullTurn), g.TrackColor, g.Color)

	value := lipgloss.NewStyle().
		Foreground(g.TextColor).
		Bold(true).
		Render(g.Value())
	body := centerOver(arc, value)

	label := lipgloss.NewStyle().
		Foreground(g.TextColor).
		Bold(true).
		Width(ringDotsWidth / 2).
		Align(lipgloss.Center).
		Render(g.Label)

	return lipgloss.JoinVertical(lipgloss.Center, body, label)
}

// paint colors each cell: fill dots win over the track, blanks stay blank.
func paint(track, fill string, trackColor, fillColor color.Color) string {
	var (
		trackStyle = lipgloss.NewStyle().Foreground(trackColor)
		fillStyle  = lipgloss.NewStyle().Foreground(fillColor)
		trackRows  = strings.Split(track, "\n")
		fillRows   = strings.Split(fill, "\n")
		out        = make([]string, len(trackRows))
	)

	for i, row := range trackRows {
		var fillRow []rune
		if i < len(fillRows) {
			fillRow = []rune(fillRows[i])
		}

		var b strings.Builder
		for j, t := range []rune(row) {
			f := ' '
			if j < len(fillRow) {
				f = fillRow[j]
			}
			switch {
			case hasDots(f) && isBraille(t):
				b.WriteString(fillStyle.Render(string(mergeBraille(t, f))))
			case hasDots(f):
				b.WriteString(fillStyle.Render(string(f)))
			case hasDots(t):
				b.WriteString(trackStyle.Render(string(t)))
			default:
				b.WriteRune(' ')
			}
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}

// centerOver writes text over the middle row of block, keeping the styled
// cells on either side.
func centerOver(block, text string) string {
	rows := strings.Split(block, "\n")
	if len(rows) == 0 {
		return block
	}

	mid := len(rows) / 2
	row := rows[mid]
	var (
		rowWidth  = ansi.StringWidth(row)
		textWidth = ansi.StringWidth(text)
	)
	if textWidth > rowWidth {
		rows[mid] = text
		return strings.Join(rows, "\n")
	}

	left := (rowWidth - textWidth) / 2
	rows[mid] = ansi.Cut(row, 0, left) + text + ansi.Cut(row, left+textWidth, rowWidth)
	return strings.Join(rows, "\n")
}
