package sensors

import (
	"math"
	"testing"
)

func TestTimedBuffer_SortedInsert(t *testing.T) {
	b := NewTimedBuffer[int](8)
	b.Push(3.0, 30)
	b.Push(1.0, 10)
	b.Push(2.0, 20)

	s, ok := b.NearestAtOrBefore(2.5)
	if !ok {
		t.Fatal("Expected a sample at or before 2.5")
	}
	if s.T != 2.0 || s.Value != 20 {
		t.Errorf("Got sample (%v, %v), want (2.0, 20)", s.T, s.Value)
	}
}

func TestTimedBuffer_EvictsOldestOnOverflow(t *testing.T) {
	b := NewTimedBuffer[int](3)
	for i := 0; i < 5; i++ {
		b.Push(float64(i), i)
	}

	if b.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", b.Len())
	}
	// Samples 0 and 1 should be gone.
	if _, ok := b.NearestAtOrBefore(1.5); ok {
		t.Error("Expected oldest samples to be evicted")
	}
	s, ok := b.NearestAtOrBefore(10)
	if !ok || s.Value != 4 {
		t.Errorf("Newest sample: got %+v ok=%v, want value 4", s, ok)
	}
}

func TestTimedBuffer_StrictlyCausal(t *testing.T) {
	b := NewTimedBuffer[string](4)
	b.Push(5.0, "five")

	// Nothing exists at or before 4.9: no extrapolation backward.
	if _, ok := b.NearestAtOrBefore(4.9); ok {
		t.Error("Expected no sample before the earliest timestamp")
	}

	// Exact timestamp matches.
	s, ok := b.NearestAtOrBefore(5.0)
	if !ok || s.Value != "five" {
		t.Errorf("Exact match: got %+v ok=%v", s, ok)
	}
}

func TestTimedBuffer_Clear(t *testing.T) {
	b := NewTimedBuffer[int](4)
	b.Push(1, 1)
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", b.Len())
	}
}

func TestSelectAlignedFrame(t *testing.T) {
	t.Run("missing secondary", func(t *testing.T) {
		a := SelectAlignedFrame(10.0, math.NaN(), 0.3)
		if a.Accepted || a.Reason != AlignMissingSecondary {
			t.Errorf("Got %+v, want rejected missing_secondary", a)
		}
	})

	t.Run("stale frame", func(t *testing.T) {
		a := SelectAlignedFrame(10.0, 10.5, 0.3)
		if a.Accepted || a.Reason != AlignStaleFrame {
			t.Errorf("Got %+v, want rejected stale_frame", a)
		}
		if math.Abs(a.SkewSec-0.5) > 1e-9 {
			t.Errorf("Skew: got %v, want 0.5", a.SkewSec)
		}
	})

	t.Run("accepted", func(t *testing.T) {
		a := SelectAlignedFrame(10.0, 10.2, 0.3)
		if !a.Accepted || a.Reason != AlignAccepted {
			t.Errorf("Got %+v, want accepted", a)
		}
		if math.Abs(a.SkewSec-0.2) > 1e-9 {
			t.Errorf("Skew: got %v, want 0.2", a.SkewSec)
		}
	})

	t.Run("infinite secondary is missing", func(t *testing.T) {
		a := SelectAlignedFrame(10.0, math.Inf(1), 0.3)
		if a.Accepted || a.Reason != AlignMissingSecondary {
			t.Errorf("Got %+v, want rejected missing_secondary", a)
		}
	})
}
