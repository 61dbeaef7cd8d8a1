package reps

import "testing"

func TestFSM_TwoFullReps(t *testing.T) {
	f := NewFSM()
	sequence := []Phase{
		PhaseEccentric, PhaseBottom, PhaseConcentric,
		PhaseTop,
		PhaseEccentric, PhaseBottom, PhaseConcentric,
	}
	for i, next := range sequence {
		if !f.Transition(next) {
			t.Fatalf("Transition %d to %v rejected from %v", i, next, f.Phase())
		}
	}
	if f.RepCount() != 2 {
		t.Errorf("RepCount: got %d, want 2", f.RepCount())
	}
}

func TestFSM_DisallowedEdgeRejected(t *testing.T) {
	f := NewFSM()
	if f.Transition(PhaseBottom) {
		t.Error("setup→bottom should be rejected")
	}
	if f.Phase() != PhaseSetup {
		t.Errorf("Phase after rejection: got %v, want setup", f.Phase())
	}
	if f.RepCount() != 0 {
		t.Errorf("RepCount after rejection: got %d, want 0", f.RepCount())
	}
}

func TestFSM_SelfTransitionIsNoOpSuccess(t *testing.T) {
	f := NewFSM()
	if !f.Transition(PhaseSetup) {
		t.Error("Self-transition should succeed")
	}
	if f.Phase() != PhaseSetup || f.RepCount() != 0 {
		t.Error("Self-transition should not change state")
	}
}

func TestFSM_RepOnlyOnBottomToConcentric(t *testing.T) {
	f := NewFSM()
	// setup→top→eccentric→bottom touches every other edge first.
	for _, p := range []Phase{PhaseTop, PhaseEccentric, PhaseBottom} {
		if !f.Transition(p) {
			t.Fatalf("Transition to %v rejected", p)
		}
		if f.RepCount() != 0 {
			t.Fatalf("Rep counted prematurely at %v", p)
		}
	}
	f.Transition(PhaseConcentric)
	if f.RepCount() != 1 {
		t.Errorf("RepCount: got %d, want 1", f.RepCount())
	}

	// concentric→eccentric (partial rep, no lockout) counts nothing.
	f.Transition(PhaseEccentric)
	if f.RepCount() != 1 {
		t.Errorf("Partial rep must not count, got %d", f.RepCount())
	}
}

func TestFSM_SetupCanStartAtTopOrEccentric(t *testing.T) {
	f := NewFSM()
	if !f.Transition(PhaseTop) {
		t.Error("setup→top should be allowed")
	}

	f = NewFSM()
	if !f.Transition(PhaseEccentric) {
		t.Error("setup→eccentric should be allowed")
	}
}

func TestFSM_Reset(t *testing.T) {
	f := NewFSM()
	f.Transition(PhaseEccentric)
	f.Transition(PhaseBottom)
	f.Transition(PhaseConcentric)
	f.Reset()
	if f.Phase() != PhaseSetup || f.RepCount() != 0 {
		t.Errorf("After Reset: phase=%v reps=%d", f.Phase(), f.RepCount())
	}
}
