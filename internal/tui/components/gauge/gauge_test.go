package gauge

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func bpm(v int) *int { return &v }

func TestFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bpm  *int
		max  int
		want float64
	}{
		{name: "no sample", bpm: nil, max: 180, want: 0},
		{name: "half", bpm: bpm(90), max: 180, want: 0.5},
		{name: "over max", bpm: bpm(250), max: 180, want: 1},
		{name: "zero max", bpm: bpm(90), max: 0, want: 0},
		{name: "zero bpm", bpm: bpm(0), max: 180, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := New(tt.bpm, tt.max, "HR", nil).Fraction(); got != tt.want {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		bpm       *int
		wantValue string
	}{
		{name: "no sample", bpm: nil, wantValue: noValue},
		{name: "resting", bpm: bpm(62), wantValue: "62"},
		{name: "max", bpm: bpm(180), wantValue: "180"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := ansi.Strip(New(tt.bpm, 180, "BPM", color.RGBA{R: 255, A: 255}).Render())
			lines := strings.Split(out, "\n")

			// ring rows plus the label row
			if want := ringDotsHeight/4 + 1; len(lines) != want {
				t.Fatalf("Render() has %d lines, want %d", len(lines), want)
			}
			middle := lines[ringDotsHeight/4/2]
			if !strings.Contains(middle, tt.wantValue) {
				t.Errorf("middle row %q does not contain %q", middle, tt.wantValue)
			}
			if !strings.Contains(lines[len(lines)-1], "BPM") {
				t.Errorf("last row %q does not contain the label", lines[len(lines)-1])
			}
		})
	}
}

func TestRingSweep(t *testing.T) {
	t.Parallel()

	count := func(s string) int {
		n := 0
		for _, r := range s {
			if hasDots(r) {
				n++
			}
		}
		return n
	}

	var (
		empty   = count(ring(0))
		quarter = count(ring(90))
		half    = count(ring(180))
		full    = count(ring(fullTurn))
	)
	if empty != 0 {
		t.Errorf("ring(0) has %d cells with dots, want 0", empty)
	}
	if !(quarter < half && half < full) {
		t.Errorf("cells with dots not increasing: quarter=%d half=%d full=%d", quarter, half, full)
	}
}

func TestClockwiseFromNoon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dx, dy float64
		want   float64
	}{
		{name: "noon", dx: 0, dy: -1, want: 0},
		{name: "three", dx: 1, dy: 0, want: 90},
		{name: "six", dx: 0, dy: 1, want: 180},
		{name: "nine", dx: -1, dy: 0, want: 270},
	}
	for _, tt := range tests {
		got := clockwiseFromNoon(tt.dx, tt.dy)
		d := math.Mod(math.Abs(got-tt.want), fullTurn)
		if min(d, fullTurn-d) > 1e-9 {
			t.Errorf("%s: clockwiseFromNoon() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMergeBraille(t *testing.T) {
	t.Parallel()

	// dot 1 (U+2801) and dot 8 (U+2880) combine to U+2881
	if got := mergeBraille('⠁', '⢀'); got != '⢁' {
		t.Errorf("mergeBraille() = %U, want U+2881", got)
	}
	if hasDots(blankBraille) {
		t.Error("hasDots(blank) = true")
	}
}

func TestPaintKeepsShape(t *testing.T) {
	t.Parallel()

	out := paint("⣿⣿ ⣿", "⣿⠀  ", color.Gray{Y: 100}, color.RGBA{R: 255, A: 255})
	if got := ansi.Strip(out); got != "⣿⣿ ⣿" {
		t.Errorf("paint() stripped = %q, want %q", got, "⣿⣿ ⣿")
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("paint() emitted no color")
	}
}

func TestCenterOver(t *testing.T) {
	t.Parallel()

	got := centerOver("aaaaaa\nbbbbbb\ncccccc", "XY")
	want := "aaaaaa\nbbXYbb\ncccccc"
	if got != want {
		t.Errorf("centerOver() = %q, want %q", got, want)
	}
}

func TestOptionsOverrideThemeColors(t *testing.T) {
	t.Parallel()

	track, text := color.Gray{Y: 10}, color.Gray{Y: 200}
	g := New(nil, 180, "BPM", nil, WithTrackColor(track), WithTextColor(text))
	if g.TrackColor != track {
		t.Errorf("TrackColor = %v, want %v", g.TrackColor, track)
	}
	if g.TextColor != text {
		t.Errorf("TextColor = %v, want %v", g.TextColor, text)
	}
}
