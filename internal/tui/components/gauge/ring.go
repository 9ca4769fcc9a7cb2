package gauge

import (
	"math"
	"strings"

	drawille "github.com/exrook/drawille-go"
)

const (
	// ring size in braille dots; a cell is 2 dots wide and 4 dots tall
	ringDotsWidth  = 40
	ringDotsHeight = 40
	ringThickness  = 4.0

	// 0° is 3 o'clock and angles grow clockwise on screen, so 270° is noon
	ringStart = 270.0
	fullTurn  = 360.0
)

// ring plots every dot of the annulus whose angle lies within sweep degrees
// clockwise of noon.
func ring(sweep float64) string {
	canvas := drawille.NewCanvas()

	var (
		cx    = float64(ringDotsWidth-1) / 2
		cy    = float64(ringDotsHeight-1) / 2
		outer = float64(ringDotsWidth)/2 - 0.5
		inner = outer - ringThickness
	)

	if sweep > 0 {
		for y := range ringDotsHeight {
			for x := range ringDotsWidth {
				dx, dy := float64(x)-cx, float64(y)-cy
				d := math.Hypot(dx, dy)
				if d < inner || d > outer {
					continue
				}
				if clockwiseFromNoon(dx, dy) <= sweep {
					canvas.Set(x, y)
				}
			}
		}
	}

	return frame(&canvas)
}

// clockwiseFromNoon converts a screen offset into degrees past 12 o'clock.
func clockwiseFromNoon(dx, dy float64) float64 {
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	return math.Mod(angle-ringStart+2*fullTurn, fullTurn)
}

// frame renders the canvas at a fixed cell size so track and fill line up.
func frame(canvas *drawille.Canvas) string {
	var (
		cols = ringDotsWidth / 2
		rows = ringDotsHeight / 4
	)

	lines := canvas.Rows(0, 0, ringDotsWidth, ringDotsHeight)
	out := make([]string, rows)
	for i := range rows {
		var line []rune
		if i < len(lines) {
			line = []rune(lines[i])
		}
		if len(line) > cols {
			line = line[:cols]
		}
		out[i] = string(line) + strings.Repeat(" ", cols-len(line))
	}
	return strings.Join(out, "\n")
}

const blankBraille rune = '⠀'

func isBraille(r rune) bool {
	return r >= blankBraille && r <= '⣿'
}

// hasDots is true for a braille cell with at least one raised dot.
func hasDots(r rune) bool {
	return isBraille(r) && r != blankBraille
}

// mergeBraille raises every dot raised in either cell.
func mergeBraille(a, b rune) rune {
	return blankBraille + ((a - blankBraille) | (b - blankBraille))
}
