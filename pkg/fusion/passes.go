package fusion

import (
	"math"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/cues"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/reps"
)

// Pass is one step of the per-frame cue pipeline. Passes read the
// frame through the context and may update their own session state,
// but never mutate the BodyState directly; the orchestrator assembles
// it after all passes complete.
type Pass interface {
	// Name identifies the pass in logs.
	Name() string

	// Run evaluates the pass against the frame. A non-nil cue is the
	// pass's candidate for the frame's single corrective cue.
	Run(ctx *Context) *cues.Cue
}

// PhaseThresholds configures how a primary metric drives the movement
// phase machine.
type PhaseThresholds struct {
	// Metric is the driving joint angle, typically knee flexion for
	// squat-type movements.
	Metric string

	// TopAbove proposes the top phase when the metric reaches it.
	TopAbove float64

	// BottomBelow proposes the bottom phase when the metric drops
	// under it.
	BottomBelow float64

	// Hysteresis is the minimum per-frame change before a direction
	// (eccentric/concentric) is proposed, filtering jitter.
	Hysteresis float64
}

// DefaultPhaseThresholds returns thresholds tuned for squat-type
// movements driven by knee flexion.
func DefaultPhaseThresholds() PhaseThresholds {
	return PhaseThresholds{
		Metric:      MetricKneeFlexion,
		TopAbove:    160,
		BottomBelow: 100,
		Hysteresis:  2,
	}
}

// PhasePass proposes phase transitions to the session's FSM from the
// frame's driving metric. Rejected proposals are ignored by contract:
// the FSM remains the sole authority on which edges are legal.
type PhasePass struct {
	fsm       *reps.FSM
	config    PhaseThresholds
	lastValue float64
}

// NewPhasePass creates the phase-detection pass bound to the session's
// FSM.
func NewPhasePass(fsm *reps.FSM, config PhaseThresholds) *PhasePass {
	return &PhasePass{
		fsm:       fsm,
		config:    config,
		lastValue: math.NaN(),
	}
}

// Name implements Pass.
func (p *PhasePass) Name() string {
	return "phase_detection"
}

// Run implements Pass. It never produces a cue.
func (p *PhasePass) Run(ctx *Context) *cues.Cue {
	value, ok := ctx.Angles()[p.config.Metric]
	if !ok || math.IsNaN(value) {
		return nil
	}

	delta := 0.0
	if !math.IsNaN(p.lastValue) {
		delta = value - p.lastValue
	}
	p.lastValue = value

	switch {
	case value >= p.config.TopAbove:
		p.fsm.Transition(reps.PhaseTop)
	case value <= p.config.BottomBelow:
		// Reaching depth straight from setup or top needs the
		// eccentric edge first; the rejected proposal is retried as
		// a descent signal.
		if !p.fsm.Transition(reps.PhaseBottom) {
			p.fsm.Transition(reps.PhaseEccentric)
		}
	case delta <= -p.config.Hysteresis:
		p.fsm.Transition(reps.PhaseEccentric)
	case delta >= p.config.Hysteresis:
		p.fsm.Transition(reps.PhaseConcentric)
	}
	return nil
}

// CuePass evaluates the session's cue rules against the frame's
// metrics and phase.
type CuePass struct {
	engine *cues.Engine
}

// NewCuePass creates the cue-evaluation pass over the session's rule
// engine.
func NewCuePass(engine *cues.Engine) *CuePass {
	return &CuePass{engine: engine}
}

// Name implements Pass.
func (p *CuePass) Name() string {
	return "cue_rules"
}

// Run implements Pass.
func (p *CuePass) Run(ctx *Context) *cues.Cue {
	return p.engine.Evaluate(ctx.T(), ctx.Phase(), ctx.Metrics(), ctx.Confidence())
}
