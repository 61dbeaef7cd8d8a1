// Package calibration establishes per-session baseline orientation
// vectors for the camera, wrist device, and in-ear sensor, and detects
// when the user has drifted far enough from that baseline to need a
// fresh calibration.
package calibration

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/geom"
)

// Phase is the calibration lifecycle state.
type Phase string

const (
	PhaseIdle                  Phase = "idle"
	PhaseCollecting            Phase = "collecting"
	PhaseCalibrated            Phase = "calibrated"
	PhaseRecalibrationRequired Phase = "recalibration_required"
)

// Drift-penalty tuning. Angular deviation of the head-forward vectors
// from their own mean, in degrees, scaled into a confidence penalty.
const (
	driftPenaltyScaleDeg = 60.0
	driftPenaltyMax      = 0.35
)

// Sample is one calibration observation: the three sensor direction
// vectors plus a stability score in [0, 1] for the capture instant.
type Sample struct {
	CameraUp     geom.Vec
	WatchForward geom.Vec
	HeadForward  geom.Vec
	Stability    float64
}

// Result is a finalized calibration baseline. Directions are unit
// vectors (or zero for fully degenerate input).
type Result struct {
	CameraUp     geom.Vec
	WatchForward geom.Vec
	HeadForward  geom.Vec
	Confidence   float64
	StartedAt    float64
	CompletedAt  float64
}

// Drift is the outcome of comparing the current head-forward direction
// against the calibrated baseline.
type Drift struct {
	AngleDeg              float64
	RequiresRecalibration bool
}

// Calibrator is the session-scoped calibration state machine:
// idle → collecting → calibrated, with an external drift trigger
// moving it to recalibration_required. Begin is always permitted and
// restarts the cycle with cleared samples.
type Calibrator struct {
	phase     Phase
	samples   []Sample
	startedAt float64
	result    *Result
}

// New creates an idle calibrator for a fresh session.
func New() *Calibrator {
	return &Calibrator{phase: PhaseIdle}
}

// Phase returns the current lifecycle phase.
func (c *Calibrator) Phase() Phase {
	return c.phase
}

// Result returns the most recent finalized baseline, or nil.
func (c *Calibrator) Result() *Result {
	return c.result
}

// SampleCount returns the number of accumulated samples.
func (c *Calibrator) SampleCount() int {
	return len(c.samples)
}

// Begin starts (or restarts) collection at time t, clearing any
// accumulated samples.
func (c *Calibrator) Begin(t float64) {
	c.samples = c.samples[:0]
	c.phase = PhaseCollecting
	c.startedAt = t
}

// Collect appends a sample while collecting; in any other phase the
// sample is silently ignored.
func (c *Calibrator) Collect(s Sample) {
	if c.phase != PhaseCollecting {
		return
	}
	c.samples = append(c.samples, s)
}

// Finalize computes the baseline from the accumulated samples and
// moves to calibrated. It requires an active collection with at least
// one sample; otherwise it returns nil and mutates nothing.
//
// Each baseline direction is the normalized mean of the samples'
// corresponding vectors. Confidence is the mean stability minus a
// penalty proportional to how much the head-forward samples deviate
// from their own mean direction, clamped to [0, 1].
func (c *Calibrator) Finalize(t float64) *Result {
	if c.phase != PhaseCollecting || len(c.samples) == 0 {
		return nil
	}

	cameraUp := make([]geom.Vec, len(c.samples))
	watchForward := make([]geom.Vec, len(c.samples))
	headForward := make([]geom.Vec, len(c.samples))
	stability := make([]float64, len(c.samples))
	for i, s := range c.samples {
		cameraUp[i] = s.CameraUp
		watchForward[i] = s.WatchForward
		headForward[i] = s.HeadForward
		stability[i] = s.Stability
	}

	headBaseline := geom.SafeNormalize(geom.MeanVec(headForward))

	deviations := make([]float64, len(headForward))
	for i, v := range headForward {
		deviations[i] = geom.AngleBetweenDeg(headBaseline, v)
	}
	meanDeviation := stat.Mean(deviations, nil)
	driftPenalty := geom.Clamp(meanDeviation/driftPenaltyScaleDeg, 0, driftPenaltyMax)

	res := &Result{
		CameraUp:     geom.SafeNormalize(geom.MeanVec(cameraUp)),
		WatchForward: geom.SafeNormalize(geom.MeanVec(watchForward)),
		HeadForward:  headBaseline,
		Confidence:   geom.Clamp(stat.Mean(stability, nil)-driftPenalty, 0, 1),
		StartedAt:    c.startedAt,
		CompletedAt:  t,
	}

	c.phase = PhaseCalibrated
	c.result = res
	return res
}

// MarkRecalibrationRequired records an externally detected drift. Only
// a calibrated session can drift.
func (c *Calibrator) MarkRecalibrationRequired() {
	if c.phase == PhaseCalibrated {
		c.phase = PhaseRecalibrationRequired
	}
}

// EvaluateDrift measures the angle between the calibrated baseline
// forward direction and the current one, and reports whether it
// exceeds maxDriftDeg. Zero vectors degrade the angle (to 90°) rather
// than failing.
func EvaluateDrift(baselineForward, currentForward geom.Vec, maxDriftDeg float64) Drift {
	angle := geom.AngleBetweenDeg(baselineForward, currentForward)
	return Drift{
		AngleDeg:              angle,
		RequiresRecalibration: angle > maxDriftDeg,
	}
}
