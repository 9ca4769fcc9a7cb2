package display

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/garrettladley/hrcounter/internal/xerrors"
)

// RGB is an 8-bit display color.
type RGB struct {
	R, G, B uint8
}

var White = RGB{R: 0xFF, G: 0xFF, B: 0xFF}

// Hex returns the color as uppercase RRGGBB without a leading '#'.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string { return "#" + c.Hex() }

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}
}

// ParseColor accepts #RRGGBB, #RGB, or either form without the '#'.
func ParseColor(s string) (RGB, error) {
	c, err := parseColorful(s)
	if err != nil {
		return RGB{}, err
	}
	return fromColorful(c), nil
}

func parseColorful(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, xerrors.Configuration(
			xerrors.WithMessage(fmt.Sprintf("invalid color %q", s)),
			xerrors.WithCause(err),
		)
	}
	return c, nil
}

// Palette maps a heart rate onto the low..high gradient.
type Palette struct {
	low, high   int
	lowColor    colorful.Color
	midColor    colorful.Color
	highColor   colorful.Color
	useMidColor bool
}

// NewPalette validates thresholds and colors. A non-nil error means the
// caller should fall back to White.
func NewPalette(cfg Config) (Palette, error) {
	if cfg.HRLow <= 0 || cfg.HRHigh <= cfg.HRLow {
		return Palette{}, xerrors.Configuration(xerrors.WithMessage(
			fmt.Sprintf("heart rate thresholds low=%d high=%d need 0 < low < high", cfg.HRLow, cfg.HRHigh),
		))
	}

	p := Palette{
		low:         cfg.HRLow,
		high:        cfg.HRHigh,
		useMidColor: cfg.UseMidColor,
	}

	var err error
	if p.lowColor, err = parseColorful(cfg.LowColor); err != nil {
		return Palette{}, err
	}
	if p.highColor, err = parseColorful(cfg.HighColor); err != nil {
		return Palette{}, err
	}
	if cfg.UseMidColor {
		if p.midColor, err = parseColorful(cfg.MidColor); err != nil {
			return Palette{}, err
		}
	}
	return p, nil
}

// At returns the color for bpm. Values at or beyond a threshold take that
// threshold's color exactly; values between are blended channel by channel
// in RGB space and rounded to the nearest integer.
func (p Palette) At(bpm int) RGB {
	switch {
	case bpm <= p.low:
		return fromColorful(p.lowColor)
	case bpm >= p.high:
		return fromColorful(p.highColor)
	}

	if !p.useMidColor {
		t := float64(bpm-p.low) / float64(p.high-p.low)
		return fromColorful(p.lowColor.BlendRgb(p.highColor, t))
	}

	mid := float64(p.low+p.high) / 2
	v := float64(bpm)
	if v <= mid {
		t := (v - float64(p.low)) / (mid - float64(p.low))
		return fromColorful(p.lowColor.BlendRgb(p.midColor, t))
	}
	t := (v - mid) / (float64(p.high) - mid)
	return fromColorful(p.midColor.BlendRgb(p.highColor, t))
}
