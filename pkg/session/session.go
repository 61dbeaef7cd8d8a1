// Package session owns all long-lived per-workout state: the
// calibrator, phase FSM, cue engine, and fusion orchestrator. Nothing
// here is global; every session is an explicit object the caller
// creates at workout start and discards at the end, so concurrent
// sessions (including tests) can never interfere.
package session

import (
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/calibration"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/cues"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/fusion"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/pose"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/profiles"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/protocol"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/reps"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/sensors"
)

// Sink receives the per-frame coaching projection. Implementations
// deliver it to dashboards, companion devices, or telemetry; none of
// them feed anything back into the engine.
type Sink interface {
	PublishCoaching(protocol.CoachingUpdate)
}

// Config holds per-session tuning.
type Config struct {
	// Pattern selects the movement profile driving the cue rules.
	Pattern profiles.Pattern

	// MaxSkewSec is the largest primary/secondary timestamp skew an
	// aligned frame may carry.
	MaxSkewSec float64

	// SecondaryBufferSize bounds the landmark sample buffer.
	SecondaryBufferSize int

	// MaxDriftDeg is the head-forward drift angle that forces
	// recalibration.
	MaxDriftDeg float64

	// Thresholds drives the phase-detection pass.
	Thresholds fusion.PhaseThresholds

	// Cues configures the rule engine's confidence floor.
	Cues cues.Config
}

// DefaultConfig returns production defaults for squat-type movements.
func DefaultConfig() Config {
	return Config{
		Pattern:             profiles.PatternSquat,
		MaxSkewSec:          0.3,
		SecondaryBufferSize: 32,
		MaxDriftDeg:         20,
		Thresholds:          fusion.DefaultPhaseThresholds(),
		Cues:                cues.DefaultConfig(),
	}
}

// Session is one workout's engine instance. Frame processing is
// frame-synchronous: one Process call completes before the next
// begins, enforced by procMu so hub callbacks from several device
// connections cannot interleave. The snapshot mutex only guards
// dashboard reads.
type Session struct {
	id         string
	config     Config
	calibrator *calibration.Calibrator
	fsm        *reps.FSM
	engine     *cues.Engine
	orch       *fusion.Orchestrator
	secondary  *sensors.TimedBuffer[[]pose.Landmark]
	sinks      []Sink

	// procMu serializes frames: processing is frame-synchronous even
	// when frames arrive on several device connections.
	procMu sync.Mutex

	mu   sync.RWMutex
	snap Snapshot
}

// Snapshot is the dashboard-facing view of a session.
type Snapshot struct {
	ID               string  `json:"id"`
	Pattern          string  `json:"pattern"`
	FrameCount       uint64  `json:"frame_count"`
	Mode             string  `json:"mode"`
	Phase            string  `json:"phase"`
	RepCount         int     `json:"rep_count"`
	Confidence       float64 `json:"confidence"`
	LastCue          string  `json:"last_cue,omitempty"`
	CalibrationPhase string  `json:"calibration_phase"`
}

// New creates a session for the given movement pattern.
func New(config Config) *Session {
	fsm := reps.NewFSM()
	engine := cues.NewEngine(profiles.RulesFor(config.Pattern), config.Cues)

	s := &Session{
		id:         uuid.NewString(),
		config:     config,
		calibrator: calibration.New(),
		fsm:        fsm,
		engine:     engine,
		secondary:  sensors.NewTimedBuffer[[]pose.Landmark](config.SecondaryBufferSize),
	}
	s.orch = fusion.NewOrchestrator(fsm,
		fusion.NewPhasePass(fsm, config.Thresholds),
		fusion.NewCuePass(engine),
	)
	s.snap = Snapshot{
		ID:               s.id,
		Pattern:          string(config.Pattern),
		Mode:             string(sensors.ModeFull),
		Phase:            string(fsm.Phase()),
		CalibrationPhase: string(s.calibrator.Phase()),
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// AddSink registers a coaching-update sink. Not safe to call after
// frame processing has started.
func (s *Session) AddSink(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// Process runs one raw frame through the pipeline and fans the
// resulting coaching update out to every sink. It returns the frame's
// BodyState and effective fusion mode.
func (s *Session) Process(frame protocol.PoseFrame) (fusion.BodyState, sensors.Mode) {
	s.procMu.Lock()
	defer s.procMu.Unlock()

	caps := sensors.EvaluateFusionCapabilities(frame.Presence)
	if caps.Mode == sensors.ModeUnsupported {
		// Nothing can compensate for the missing camera anchor. The
		// mode is surfaced so the UI can react; there is no error.
		s.updateSnapshot(fusion.BodyState{T: frame.T, Phase: s.fsm.Phase()}, sensors.ModeUnsupported)
		return fusion.BodyState{T: frame.T, Phase: s.fsm.Phase(), RepCount: s.fsm.RepCount()}, sensors.ModeUnsupported
	}

	// Buffer the secondary sample regardless of whether this frame
	// can use it; a later frame may.
	if frame.SecondaryT != nil && len(frame.Landmarks) > 0 {
		s.secondary.Push(*frame.SecondaryT, frame.Landmarks)
	}

	joints := pose.Canonicalize(pose.Frame{Source: pose.SourceWorldJoints, World: frame.World})

	secondaryTs := math.NaN()
	var landmarks []pose.Landmark
	if sample, ok := s.secondary.NearestAtOrBefore(frame.T); ok {
		secondaryTs = sample.T
		landmarks = sample.Value
	}
	align := sensors.SelectAlignedFrame(frame.T, secondaryTs, s.config.MaxSkewSec)
	if align.Accepted {
		pose.Merge(joints, pose.Canonicalize(pose.Frame{Source: pose.SourceLandmarks, Landmarks: landmarks}))
	} else {
		log.Debug("secondary sample rejected", "session", s.id, "reason", align.Reason, "skew", align.SkewSec)
	}

	bs, frameMode := s.orch.ProcessFrame(fusion.Input{
		T:                frame.T,
		Joints:           joints,
		CameraConfidence: frame.CameraConfidence,
	})

	mode := worseMode(frameMode, caps.Mode)
	update := protocol.BuildCoachingUpdate(s.id, bs, mode)
	for _, sink := range s.sinks {
		sink.PublishCoaching(update)
	}

	s.updateSnapshot(bs, mode)
	return bs, mode
}

// worseMode picks the lower-trust of the presence-derived and
// frame-derived fusion modes.
func worseMode(a, b sensors.Mode) sensors.Mode {
	rank := map[sensors.Mode]int{
		sensors.ModeFull:        0,
		sensors.ModeDegraded:    1,
		sensors.ModeUnsupported: 2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func (s *Session) updateSnapshot(bs fusion.BodyState, mode sensors.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.FrameCount = s.orch.FrameCount()
	s.snap.Mode = string(mode)
	s.snap.Phase = string(s.fsm.Phase())
	s.snap.RepCount = s.fsm.RepCount()
	s.snap.Confidence = bs.Confidence
	if bs.Cue != nil {
		s.snap.LastCue = bs.Cue.Message
	}
	s.snap.CalibrationPhase = string(s.calibrator.Phase())
}

// Snapshot returns the current dashboard view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// RepCount returns the authoritative repetition count.
func (s *Session) RepCount() int {
	return s.fsm.RepCount()
}

// Reset prepares the session for a new set: phase, cue timers, and
// buffered secondary samples are cleared. Calibration survives; the
// user has not moved relative to their sensors.
func (s *Session) Reset() {
	s.procMu.Lock()
	defer s.procMu.Unlock()

	s.fsm.Reset()
	s.engine.Reset()
	s.secondary.Clear()
}

// Close ends the session: sinks are dropped so no further updates can
// fan out, and all set state is cleared. The session must not process
// frames after Close.
func (s *Session) Close() {
	s.Reset()

	s.procMu.Lock()
	s.sinks = nil
	s.procMu.Unlock()

	log.Info("session closed", "session", s.id, "frames", s.orch.FrameCount())
}
