package session

import (
	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/calibration"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/geom"
)

// Calibration passthrough. The calibrator is session state, so its
// lifecycle runs through the session rather than being reachable as a
// free-standing object.

// BeginCalibration starts (or restarts) baseline collection.
func (s *Session) BeginCalibration(t float64) {
	s.calibrator.Begin(t)
	s.refreshCalibrationSnapshot()
}

// CollectCalibrationSample adds one calibration observation.
func (s *Session) CollectCalibrationSample(sample calibration.Sample) {
	s.calibrator.Collect(sample)
}

// FinalizeCalibration computes the baseline. Returns nil when there is
// no active collection or no samples.
func (s *Session) FinalizeCalibration(t float64) *calibration.Result {
	res := s.calibrator.Finalize(t)
	if res != nil {
		log.Info("calibration complete",
			"session", s.id,
			"confidence", res.Confidence,
			"samples", s.calibrator.SampleCount())
	}
	s.refreshCalibrationSnapshot()
	return res
}

// CalibrationPhase returns the calibrator's lifecycle phase.
func (s *Session) CalibrationPhase() calibration.Phase {
	return s.calibrator.Phase()
}

// CheckDrift compares the current head-forward direction against the
// calibrated baseline and flags the session for recalibration when it
// drifts past the configured limit. Without a finalized baseline this
// is a no-op reporting zero drift.
func (s *Session) CheckDrift(currentForward geom.Vec) calibration.Drift {
	res := s.calibrator.Result()
	if res == nil || s.calibrator.Phase() != calibration.PhaseCalibrated {
		return calibration.Drift{}
	}
	drift := calibration.EvaluateDrift(res.HeadForward, currentForward, s.config.MaxDriftDeg)
	if drift.RequiresRecalibration {
		s.calibrator.MarkRecalibrationRequired()
		log.Warn("calibration drift detected",
			"session", s.id,
			"angle_deg", drift.AngleDeg,
			"limit_deg", s.config.MaxDriftDeg)
		s.refreshCalibrationSnapshot()
	}
	return drift
}

func (s *Session) refreshCalibrationSnapshot() {
	s.mu.Lock()
	s.snap.CalibrationPhase = string(s.calibrator.Phase())
	s.mu.Unlock()
}
