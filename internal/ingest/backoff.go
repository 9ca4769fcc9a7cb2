package ingest

import "time"

// DefaultBackoff is the fixed delay between a lost connection and the next
// attempt. Provider rate limits are unknown, so it stays conservative.
const DefaultBackoff = 1 * time.Second

const backoffFactor = 2

// backoff doubles from initial up to max. initial == max gives a fixed delay.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	if initial <= 0 {
		initial = DefaultBackoff
	}
	if max < initial {
		max = initial
	}
	return &backoff{initial: initial, max: max, current: initial}
}

func (b *backoff) next() time.Duration {
	d := b.current
	b.current *= backoffFactor
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

func (b *backoff) reset() {
	b.current = b.initial
}
