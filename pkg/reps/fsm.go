// Package reps tracks the movement-phase cycle of an exercise and is
// the single authoritative source of the session's repetition count.
package reps

// Phase is one of the five movement-cycle stages.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseEccentric  Phase = "eccentric"
	PhaseBottom     Phase = "bottom"
	PhaseConcentric Phase = "concentric"
	PhaseTop        Phase = "top"
)

// allowedTransitions holds the legal phase edges. Self-transitions are
// always a no-op success and are not listed.
var allowedTransitions = map[Phase][]Phase{
	PhaseSetup:      {PhaseTop, PhaseEccentric},
	PhaseTop:        {PhaseEccentric},
	PhaseEccentric:  {PhaseBottom},
	PhaseBottom:     {PhaseConcentric},
	PhaseConcentric: {PhaseTop, PhaseEccentric},
}

// FSM is the session-scoped movement-phase state machine. The rep
// counter is monotonically non-decreasing and increments exactly once
// per bottom→concentric transition.
type FSM struct {
	phase Phase
	reps  int
}

// NewFSM creates a state machine in the setup phase with zero reps.
func NewFSM() *FSM {
	return &FSM{phase: PhaseSetup}
}

// Phase returns the current movement phase.
func (f *FSM) Phase() Phase {
	return f.phase
}

// RepCount returns the number of completed repetitions.
func (f *FSM) RepCount() int {
	return f.reps
}

// Transition attempts to move to next. A disallowed edge returns false
// and leaves the state unchanged; callers treat rejection as "ignore
// this signal", never as fatal. A self-transition is a no-op success.
func (f *FSM) Transition(next Phase) bool {
	if next == f.phase {
		return true
	}
	for _, allowed := range allowedTransitions[f.phase] {
		if next == allowed {
			if f.phase == PhaseBottom && next == PhaseConcentric {
				f.reps++
			}
			f.phase = next
			return true
		}
	}
	return false
}

// Reset returns the machine to setup with zero reps, for reuse across
// sets within a session.
func (f *FSM) Reset() {
	f.phase = PhaseSetup
	f.reps = 0
}
