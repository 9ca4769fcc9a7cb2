// Package hr holds the heart-rate value shared between ingestion and display.
package hr

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Sample is one heart-rate reading in beats per minute.
type Sample struct {
	BPM        int
	ReceivedAt time.Time
}

func NewSample(bpm int) Sample {
	return Sample{BPM: bpm, ReceivedAt: time.Now()}
}

func (s Sample) String() string {
	return strconv.Itoa(s.BPM)
}

// Age uses the monotonic clock reading in ReceivedAt when it has one.
func (s Sample) Age() time.Duration {
	return time.Since(s.ReceivedAt)
}

// Slot is a last-write-wins register holding the most recent Sample.
// One goroutine writes, any number read; a Load that follows a Store
// always observes that Store or a later one.
type Slot struct {
	p atomic.Pointer[Sample]
}

func (s *Slot) Store(sample Sample) {
	s.p.Store(&sample)
}

// Load returns false until the first Store.
func (s *Slot) Load() (Sample, bool) {
	p := s.p.Load()
	if p == nil {
		return Sample{}, false
	}
	return *p, true
}
