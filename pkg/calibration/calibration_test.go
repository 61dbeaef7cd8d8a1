package calibration

import (
	"math"
	"testing"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/geom"
)

func sample(stability float64) Sample {
	return Sample{
		CameraUp:     geom.Vec{Y: 1},
		WatchForward: geom.Vec{X: 1},
		HeadForward:  geom.Vec{Z: 1},
		Stability:    stability,
	}
}

func TestCalibrator_HappyPath(t *testing.T) {
	c := New()
	if c.Phase() != PhaseIdle {
		t.Fatalf("Initial phase: got %v, want idle", c.Phase())
	}

	c.Begin(100.0)
	if c.Phase() != PhaseCollecting {
		t.Fatalf("Phase after Begin: got %v", c.Phase())
	}

	c.Collect(sample(0.9))
	c.Collect(sample(0.8))
	c.Collect(sample(1.0))

	res := c.Finalize(103.0)
	if res == nil {
		t.Fatal("Finalize returned nil for a valid collection")
	}
	if c.Phase() != PhaseCalibrated {
		t.Errorf("Phase after Finalize: got %v", c.Phase())
	}

	// Identical head-forward vectors mean zero drift penalty, so
	// confidence is exactly the mean stability.
	if math.Abs(res.Confidence-0.9) > 1e-9 {
		t.Errorf("Confidence: got %v, want 0.9", res.Confidence)
	}
	if math.Abs(res.HeadForward.Z-1) > 1e-9 {
		t.Errorf("HeadForward baseline: got %+v, want +Z", res.HeadForward)
	}
	if res.StartedAt != 100.0 || res.CompletedAt != 103.0 {
		t.Errorf("Timestamps: got %v/%v", res.StartedAt, res.CompletedAt)
	}
}

func TestCalibrator_FinalizeWhileIdle(t *testing.T) {
	c := New()
	if res := c.Finalize(5.0); res != nil {
		t.Errorf("Finalize while idle should return nil, got %+v", res)
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("Phase should stay idle, got %v", c.Phase())
	}
	if c.Result() != nil {
		t.Error("No result should be recorded")
	}
}

func TestCalibrator_FinalizeWithoutSamples(t *testing.T) {
	c := New()
	c.Begin(1.0)
	if res := c.Finalize(2.0); res != nil {
		t.Errorf("Finalize without samples should return nil, got %+v", res)
	}
	if c.Phase() != PhaseCollecting {
		t.Errorf("Phase should stay collecting, got %v", c.Phase())
	}
}

func TestCalibrator_CollectIgnoredOutsideCollecting(t *testing.T) {
	c := New()
	c.Collect(sample(1.0))
	if c.SampleCount() != 0 {
		t.Error("Collect while idle should be ignored")
	}

	c.Begin(0)
	c.Collect(sample(1.0))
	c.Finalize(1)
	c.Collect(sample(1.0))
	if c.SampleCount() != 1 {
		t.Error("Collect after Finalize should be ignored")
	}
}

func TestCalibrator_BeginResetsSamples(t *testing.T) {
	c := New()
	c.Begin(0)
	c.Collect(sample(0.5))
	c.Collect(sample(0.5))

	// Re-beginning is always permitted, including from calibrated,
	// and clears accumulated samples.
	c.Finalize(1)
	c.Begin(2)
	if c.Phase() != PhaseCollecting {
		t.Errorf("Phase after re-Begin: got %v", c.Phase())
	}
	if c.SampleCount() != 0 {
		t.Errorf("Samples after re-Begin: got %d, want 0", c.SampleCount())
	}
}

func TestCalibrator_DriftPenaltyReducesConfidence(t *testing.T) {
	c := New()
	c.Begin(0)
	// Head-forward vectors 90° apart: mean deviation is large, so the
	// penalty saturates at its cap.
	c.Collect(Sample{HeadForward: geom.Vec{X: 1}, Stability: 1.0})
	c.Collect(Sample{HeadForward: geom.Vec{Z: 1}, Stability: 1.0})

	res := c.Finalize(1)
	if res == nil {
		t.Fatal("Finalize returned nil")
	}
	if math.Abs(res.Confidence-(1.0-driftPenaltyMax)) > 1e-9 {
		t.Errorf("Confidence: got %v, want %v", res.Confidence, 1.0-driftPenaltyMax)
	}
}

func TestCalibrator_DegenerateVectorsDoNotPanic(t *testing.T) {
	c := New()
	c.Begin(0)
	c.Collect(Sample{Stability: 0.7}) // all-zero vectors

	res := c.Finalize(1)
	if res == nil {
		t.Fatal("Finalize returned nil")
	}
	if res.HeadForward != (geom.Vec{}) {
		t.Errorf("Zero input should yield a zero baseline, got %+v", res.HeadForward)
	}
}

func TestMarkRecalibrationRequired(t *testing.T) {
	c := New()
	c.MarkRecalibrationRequired()
	if c.Phase() != PhaseIdle {
		t.Error("Only a calibrated session can drift")
	}

	c.Begin(0)
	c.Collect(sample(1))
	c.Finalize(1)
	c.MarkRecalibrationRequired()
	if c.Phase() != PhaseRecalibrationRequired {
		t.Errorf("Phase: got %v, want recalibration_required", c.Phase())
	}

	// A fresh Begin restarts the cycle.
	c.Begin(2)
	if c.Phase() != PhaseCollecting {
		t.Errorf("Phase after Begin: got %v", c.Phase())
	}
}

func TestEvaluateDrift(t *testing.T) {
	baseline := geom.Vec{Z: 1}

	d := EvaluateDrift(baseline, geom.Vec{Z: 1}, 15)
	if d.RequiresRecalibration || math.Abs(d.AngleDeg) > 1e-6 {
		t.Errorf("Identical vectors: got %+v", d)
	}

	d = EvaluateDrift(baseline, geom.Vec{X: 1}, 15)
	if !d.RequiresRecalibration || math.Abs(d.AngleDeg-90) > 1e-6 {
		t.Errorf("Orthogonal vectors: got %+v", d)
	}

	// Zero current vector degrades to 90° rather than panicking.
	d = EvaluateDrift(baseline, geom.Vec{}, 15)
	if math.Abs(d.AngleDeg-90) > 1e-6 {
		t.Errorf("Zero vector: got %+v", d)
	}
}
