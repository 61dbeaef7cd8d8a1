package cues

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/reps"
)

func twoRules() []Rule {
	return []Rule{
		{
			ID:       "knee_cave",
			Metric:   "knee_flexion",
			Phases:   []reps.Phase{reps.PhaseBottom},
			Min:      80,
			Max:      180,
			Priority: 1,
			Message:  "Push your knees out",
			Channels: []Channel{ChannelAudio},
		},
		{
			ID:       "torso_lean",
			Metric:   "torso_angle",
			Phases:   []reps.Phase{reps.PhaseBottom},
			Min:      140,
			Max:      180,
			Priority: 2,
			Message:  "Keep your chest up",
			Channels: []Channel{ChannelAudio, ChannelHaptic},
		},
	}
}

func TestEngine_PriorityWinsArbitration(t *testing.T) {
	e := NewEngine(twoRules(), DefaultConfig())

	// Both rules violated simultaneously.
	metrics := map[string]float64{"knee_flexion": 60, "torso_angle": 120}
	cue := e.Evaluate(1.0, reps.PhaseBottom, metrics, 0.9)

	require.NotNil(t, cue)
	assert.Equal(t, "knee_cave", cue.RuleID)
	assert.Equal(t, "Push your knees out", cue.Message)
	assert.InDelta(t, 20.0, cue.Magnitude, 1e-9)
}

func TestEngine_SingleCuePerFrame(t *testing.T) {
	e := NewEngine(twoRules(), DefaultConfig())
	metrics := map[string]float64{"knee_flexion": 60, "torso_angle": 120}

	cue := e.Evaluate(1.0, reps.PhaseBottom, metrics, 0.9)
	require.NotNil(t, cue)
	// The losing rule did not emit: it has no cooldown recorded and
	// fires on the next frame once the winner is resolved.
	metrics["knee_flexion"] = 100
	cue = e.Evaluate(1.1, reps.PhaseBottom, metrics, 0.9)
	require.NotNil(t, cue)
	assert.Equal(t, "torso_lean", cue.RuleID)
}

func TestEngine_PersistGate(t *testing.T) {
	rules := twoRules()
	rules[0].Persist = 400 * time.Millisecond
	e := NewEngine(rules[:1], DefaultConfig())
	metrics := map[string]float64{"knee_flexion": 60}

	assert.Nil(t, e.Evaluate(1.0, reps.PhaseBottom, metrics, 0.9), "first violation frame")
	assert.Nil(t, e.Evaluate(1.2, reps.PhaseBottom, metrics, 0.9), "still inside persist window")
	assert.NotNil(t, e.Evaluate(1.5, reps.PhaseBottom, metrics, 0.9), "persisted long enough")
}

func TestEngine_ViolationTimerResetsWhenBackInBand(t *testing.T) {
	rules := twoRules()
	rules[0].Persist = 300 * time.Millisecond
	e := NewEngine(rules[:1], DefaultConfig())

	e.Evaluate(1.0, reps.PhaseBottom, map[string]float64{"knee_flexion": 60}, 0.9)
	// Back in band: the timer resets.
	e.Evaluate(1.2, reps.PhaseBottom, map[string]float64{"knee_flexion": 100}, 0.9)
	// A new violation shorter than persist never emits.
	cue := e.Evaluate(1.4, reps.PhaseBottom, map[string]float64{"knee_flexion": 60}, 0.9)
	assert.Nil(t, cue)
}

func TestEngine_CooldownBlocksRefire(t *testing.T) {
	rules := twoRules()
	rules[0].Cooldown = 2 * time.Second
	e := NewEngine(rules[:1], DefaultConfig())
	metrics := map[string]float64{"knee_flexion": 60}

	require.NotNil(t, e.Evaluate(1.0, reps.PhaseBottom, metrics, 0.9))
	assert.Nil(t, e.Evaluate(1.5, reps.PhaseBottom, metrics, 0.9), "within cooldown")
	assert.Nil(t, e.Evaluate(2.9, reps.PhaseBottom, metrics, 0.9), "still within cooldown")
	assert.NotNil(t, e.Evaluate(3.1, reps.PhaseBottom, metrics, 0.9), "cooldown elapsed")
}

func TestEngine_PhaseGateResetsTimer(t *testing.T) {
	rules := twoRules()
	rules[0].Persist = 200 * time.Millisecond
	e := NewEngine(rules[:1], DefaultConfig())
	metrics := map[string]float64{"knee_flexion": 60}

	e.Evaluate(1.0, reps.PhaseBottom, metrics, 0.9)
	// Out of the rule's phases: skipped and the timer resets.
	assert.Nil(t, e.Evaluate(1.3, reps.PhaseTop, metrics, 0.9))
	// Back in phase, timer starts over.
	assert.Nil(t, e.Evaluate(1.4, reps.PhaseBottom, metrics, 0.9))
}

func TestEngine_MissingOrNonFiniteMetricSkips(t *testing.T) {
	e := NewEngine(twoRules()[:1], DefaultConfig())

	assert.Nil(t, e.Evaluate(1.0, reps.PhaseBottom, map[string]float64{}, 0.9))
	assert.Nil(t, e.Evaluate(1.1, reps.PhaseBottom, map[string]float64{"knee_flexion": math.NaN()}, 0.9))
	assert.Nil(t, e.Evaluate(1.2, reps.PhaseBottom, map[string]float64{"knee_flexion": math.Inf(1)}, 0.9))
}

func TestEngine_ConfidenceFloorShortCircuits(t *testing.T) {
	e := NewEngine(twoRules(), Config{MinConfidence: 0.5})
	metrics := map[string]float64{"knee_flexion": 60, "torso_angle": 120}

	assert.Nil(t, e.Evaluate(1.0, reps.PhaseBottom, metrics, 0.4))
	// At or above the floor, cues flow again.
	assert.NotNil(t, e.Evaluate(1.1, reps.PhaseBottom, metrics, 0.5))
}

func TestEngine_EmptyPhaseListAppliesEverywhere(t *testing.T) {
	rules := []Rule{{
		ID:       "always",
		Metric:   "m",
		Min:      0,
		Max:      1,
		Priority: 1,
		Message:  "out of band",
	}}
	e := NewEngine(rules, DefaultConfig())
	assert.NotNil(t, e.Evaluate(1.0, reps.PhaseSetup, map[string]float64{"m": 2}, 0.9))
}

func TestEngine_TieBrokenByMagnitude(t *testing.T) {
	rules := []Rule{
		{ID: "small", Metric: "a", Min: 0, Max: 10, Priority: 1, Message: "a"},
		{ID: "large", Metric: "b", Min: 0, Max: 10, Priority: 1, Message: "b"},
	}
	e := NewEngine(rules, DefaultConfig())
	cue := e.Evaluate(1.0, reps.PhaseSetup, map[string]float64{"a": 12, "b": 30}, 0.9)
	require.NotNil(t, cue)
	assert.Equal(t, "large", cue.RuleID)
}
