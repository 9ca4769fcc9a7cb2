// Package display turns the latest heart-rate sample into the text shown by
// the host UI on a fixed cadence.
package display

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

const (
	DefaultInterval    = 1 * time.Second
	DefaultPlaceholder = "NotSet"
	DefaultPauseHR     = 200

	label = "HR "
)

// TextSetter is the host text object.
type TextSetter interface {
	SetText(text string)
}

// Pauser is told when the heart rate crosses the pause threshold.
type Pauser interface {
	Pause(bpm int)
}

type Config struct {
	Colorize    bool
	HRLow       int
	HRHigh      int
	LowColor    string
	MidColor    string
	HighColor   string
	UseMidColor bool
	Placeholder string
	PauseHR     int
	AutoPause   bool
	Interval    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Colorize:    true,
		HRLow:       120,
		HRHigh:      180,
		LowColor:    "#00FF00",
		MidColor:    "#FFFF00",
		HighColor:   "#FF0000",
		Placeholder: DefaultPlaceholder,
		PauseHR:     DefaultPauseHR,
		Interval:    DefaultInterval,
	}
}

type Ticker struct {
	cfg        Config
	slot       *hr.Slot
	sink       TextSetter
	pauser     Pauser
	logger     *slog.Logger
	palette    Palette
	paletteErr error
	warnOnce   sync.Once
	stopped    atomic.Bool

	mu    sync.Mutex
	armed bool
}

type Option func(*Ticker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Ticker) { t.logger = logger }
}

// WithPauser enables auto-pause notifications when Config.AutoPause is set.
func WithPauser(p Pauser) Option {
	return func(t *Ticker) { t.pauser = p }
}

func NewTicker(cfg Config, slot *hr.Slot, sink TextSetter, opts ...Option) *Ticker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	if cfg.PauseHR <= 0 {
		cfg.PauseHR = DefaultPauseHR
	}

	t := &Ticker{
		cfg:    cfg,
		slot:   slot,
		sink:   sink,
		logger: slog.Default(),
		armed:  true,
	}
	for _, opt := range opts {
		opt(t)
	}
	if cfg.Colorize {
		t.palette, t.paletteErr = NewPalette(cfg)
	}
	return t
}

// Run ticks once immediately and then every interval until Stop is called or
// ctx ends. The stop flag is checked between ticks, so a tick in progress
// always completes.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		if t.stopped.Load() {
			return
		}
		t.Tick()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop asks Run to return at the next tick boundary.
func (t *Ticker) Stop() {
	t.stopped.Store(true)
}

// Tick renders the current sample, hands it to the sink and returns it.
func (t *Ticker) Tick() string {
	sample, ok := t.slot.Load()
	text := t.Text(sample, ok)
	if t.sink != nil {
		t.sink.SetText(text)
	}
	if ok {
		t.maybePause(sample.BPM)
	}
	return text
}

// Text formats a sample without side effects other than the one-time
// misconfiguration warning.
func (t *Ticker) Text(sample hr.Sample, ok bool) string {
	if !ok {
		if t.cfg.Colorize {
			return Colorized(t.cfg.Placeholder, White)
		}
		return Plain(t.cfg.Placeholder)
	}

	value := strconv.Itoa(sample.BPM)
	if !t.cfg.Colorize {
		return Plain(value)
	}
	return Colorized(value, t.colorAt(sample.BPM))
}

func (t *Ticker) colorAt(bpm int) RGB {
	if t.paletteErr != nil {
		t.warnOnce.Do(func() {
			t.logger.Warn("cannot determine color, check heart rate thresholds and color codes",
				xslog.Error(t.paletteErr),
			)
		})
		return White
	}
	return t.palette.At(bpm)
}

func (t *Ticker) maybePause(bpm int) {
	if !t.cfg.AutoPause || t.pauser == nil {
		return
	}

	t.mu.Lock()
	fire := false
	switch {
	case bpm >= t.cfg.PauseHR && t.armed:
		t.armed = false
		fire = true
	case bpm < t.cfg.PauseHR:
		t.armed = true
	}
	t.mu.Unlock()

	if fire {
		t.logger.Info("heart rate over pause threshold", xslog.BPM(bpm))
		t.pauser.Pause(bpm)
	}
}

// Colorized renders the two-tone markup: a white label and a colored value.
func Colorized(value string, c RGB) string {
	return "<color=#" + White.Hex() + ">" + label + "</color><color=#" + c.Hex() + ">" + value + "</color>"
}

func Plain(value string) string {
	return label + value
}
