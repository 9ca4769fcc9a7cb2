package hr

import (
	"sync"
	"testing"
	"time"
)

func TestSlotAbsentUntilStored(t *testing.T) {
	t.Parallel()

	var slot Slot
	if _, ok := slot.Load(); ok {
		t.Fatal("Load() ok = true on empty slot")
	}

	slot.Store(NewSample(72))
	got, ok := slot.Load()
	if !ok {
		t.Fatal("Load() ok = false after Store")
	}
	if got.BPM != 72 {
		t.Errorf("Load().BPM = %d, want 72", got.BPM)
	}
}

func TestSlotLastWriteWins(t *testing.T) {
	t.Parallel()

	var slot Slot
	for bpm := range 10 {
		slot.Store(NewSample(bpm))
		got, _ := slot.Load()
		if got.BPM != bpm {
			t.Fatalf("Load().BPM = %d right after Store(%d)", got.BPM, bpm)
		}
	}
}

func TestSlotConcurrentReadsSeeWholeSamples(t *testing.T) {
	t.Parallel()

	var (
		slot Slot
		wg   sync.WaitGroup
		base = time.Now()
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			slot.Store(Sample{BPM: i, ReceivedAt: base.Add(time.Duration(i) * time.Second)})
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				s, ok := slot.Load()
				if !ok {
					continue
				}
				if want := base.Add(time.Duration(s.BPM) * time.Second); !s.ReceivedAt.Equal(want) {
					t.Errorf("torn sample: bpm=%d received_at=%v", s.BPM, s.ReceivedAt)
					return
				}
			}
		}()
	}

	wg.Wait()
}

func TestSampleString(t *testing.T) {
	t.Parallel()

	if got := NewSample(150).String(); got != "150" {
		t.Errorf("String() = %q, want %q", got, "150")
	}
}

func TestSampleAge(t *testing.T) {
	t.Parallel()

	s := Sample{BPM: 80, ReceivedAt: time.Now().Add(-3 * time.Second)}
	if got := s.Age(); got < 3*time.Second || got > 4*time.Second {
		t.Errorf("Age() = %v, want about 3s", got)
	}
}
