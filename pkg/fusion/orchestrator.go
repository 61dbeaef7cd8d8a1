package fusion

import (
	"github.com/ThyDrSlen/form-factor-sub005/pkg/cues"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/geom"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/pose"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/reps"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/sensors"
)

// A frame is degraded when the primary camera confidence drops below
// this threshold; degraded frames scale their fused confidence down.
const (
	degradedCameraConfidence = 0.5
	degradedConfidenceScale  = 0.75
)

// Input is one frame's immutable input to the orchestrator.
type Input struct {
	// T is the frame timestamp in seconds.
	T float64

	// Joints is the canonical joint map, already merged from however
	// many providers contributed this frame.
	Joints pose.JointMap

	// CameraConfidence is the primary provider's tracking confidence
	// in [0, 1].
	CameraConfidence float64
}

// BodyState is the structured result of one frame: ephemeral, created
// fresh every frame, never persisted by this engine.
type BodyState struct {
	T          float64            `json:"t"`
	Angles     map[string]float64 `json:"joint_angles"`
	Derived    map[string]float64 `json:"derived"`
	Phase      reps.Phase         `json:"phase"`
	RepCount   int                `json:"rep_count"`
	Confidence float64            `json:"confidence"`
	Cue        *cues.Cue          `json:"cue,omitempty"`
}

// Tracking reports whether any joint angle was computable this frame.
func (b BodyState) Tracking() bool {
	return len(b.Angles) > 0
}

// Orchestrator runs the per-frame pipeline: reset the feature
// registry, compute fused confidence and mode, run the ordered cue
// passes, and assemble the BodyState from immutable inputs after all
// passes complete.
type Orchestrator struct {
	state  *State
	fsm    *reps.FSM
	passes []Pass
}

// NewOrchestrator creates an orchestrator over the session's FSM and
// an ordered pass list.
func NewOrchestrator(fsm *reps.FSM, passes ...Pass) *Orchestrator {
	return &Orchestrator{
		state:  NewState(),
		fsm:    fsm,
		passes: passes,
	}
}

// FrameCount returns the number of frames processed this session.
func (o *Orchestrator) FrameCount() uint64 {
	return o.state.FrameCount()
}

// ProcessFrame runs one frame through the pipeline and returns its
// BodyState plus the frame's fusion mode.
func (o *Orchestrator) ProcessFrame(in Input) (BodyState, sensors.Mode) {
	o.state.BeginFrame()

	mode := sensors.ModeFull
	confidence := in.CameraConfidence
	if in.CameraConfidence < degradedCameraConfidence {
		mode = sensors.ModeDegraded
		confidence = degradedConfidenceScale * in.CameraConfidence
	}
	confidence = geom.Clamp(confidence, 0, 1)

	ctx := &Context{
		t:          in.T,
		joints:     in.Joints,
		confidence: confidence,
		registry:   o.state.registry,
		fsm:        o.fsm,
	}

	var cue *cues.Cue
	for _, pass := range o.passes {
		if c := pass.Run(ctx); c != nil && cue == nil {
			cue = c
		}
	}

	return BodyState{
		T:          in.T,
		Angles:     ctx.Angles(),
		Derived:    ctx.Derived(),
		Phase:      o.fsm.Phase(),
		RepCount:   o.fsm.RepCount(),
		Confidence: confidence,
		Cue:        cue,
	}, mode
}
