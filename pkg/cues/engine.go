// Package cues evaluates configured form-violation rules against the
// frame's canonical metrics and phase, debounces them over time, and
// arbitrates all eligible violations down to at most one corrective
// cue per frame. Delivery (speech, haptics) happens outside this
// package; the single-cue contract is what keeps downstream delivery
// from flooding.
package cues

import (
	"math"
	"sort"
	"time"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/reps"
)

// Channel identifies a delivery channel for a cue.
type Channel string

const (
	ChannelAudio  Channel = "audio"
	ChannelHaptic Channel = "haptic"
	ChannelVisual Channel = "visual"
)

// Rule is a static form-violation rule: a metric must stay inside
// [Min, Max] during the listed phases. An empty phase list applies the
// rule in every phase.
type Rule struct {
	ID       string
	Metric   string
	Phases   []reps.Phase
	Min      float64
	Max      float64
	Persist  time.Duration // violation must last this long before firing
	Cooldown time.Duration // minimum gap between emissions of this rule
	Priority int           // lower fires first
	Message  string
	Channels []Channel
}

// Cue is the single prioritized corrective message selected for a
// frame.
type Cue struct {
	RuleID    string    `json:"rule_id"`
	Metric    string    `json:"metric"`
	Message   string    `json:"message"`
	Priority  int       `json:"priority"`
	Magnitude float64   `json:"magnitude"`
	Channels  []Channel `json:"channels"`
}

// ruleState is the per-rule mutable runtime record. Timestamps are
// frame seconds; NaN means unset.
type ruleState struct {
	violationStart float64
	lastEmitted    float64
}

// Config holds engine-level tuning.
type Config struct {
	// MinConfidence is the global confidence floor: frames fused below
	// it emit zero cues regardless of rule state.
	MinConfidence float64
}

// DefaultConfig returns the production confidence floor.
func DefaultConfig() Config {
	return Config{MinConfidence: 0.3}
}

// Engine is the session-scoped cue arbitrator. Rules are immutable
// after construction; only the per-rule runtime records mutate.
type Engine struct {
	rules  []Rule
	state  []ruleState
	config Config
}

// NewEngine creates an engine over the given rule set.
func NewEngine(rules []Rule, config Config) *Engine {
	e := &Engine{
		rules:  rules,
		state:  make([]ruleState, len(rules)),
		config: config,
	}
	e.Reset()
	return e
}

// Reset clears all violation and cooldown timers, for reuse across
// sets within a session.
func (e *Engine) Reset() {
	for i := range e.state {
		e.state[i] = ruleState{
			violationStart: math.NaN(),
			lastEmitted:    math.NaN(),
		}
	}
}

type candidate struct {
	index     int
	magnitude float64
}

// Evaluate runs every rule against the frame at time t and returns the
// single best eligible cue, or nil. A frame below the confidence floor
// short-circuits to no cue without touching rule state.
func (e *Engine) Evaluate(t float64, phase reps.Phase, metrics map[string]float64, confidence float64) *Cue {
	if confidence < e.config.MinConfidence {
		return nil
	}

	var eligible []candidate
	for i := range e.rules {
		rule := &e.rules[i]
		st := &e.state[i]

		value, ok := metrics[rule.Metric]
		if !ruleAppliesInPhase(rule, phase) || !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			st.violationStart = math.NaN()
			continue
		}

		magnitude := math.Max(math.Max(rule.Min-value, value-rule.Max), 0)
		if magnitude == 0 {
			st.violationStart = math.NaN()
			continue
		}

		if math.IsNaN(st.violationStart) {
			st.violationStart = t
		}
		if t-st.violationStart < rule.Persist.Seconds() {
			continue
		}
		if !math.IsNaN(st.lastEmitted) && t-st.lastEmitted < rule.Cooldown.Seconds() {
			continue
		}
		eligible = append(eligible, candidate{index: i, magnitude: magnitude})
	}

	if len(eligible) == 0 {
		return nil
	}

	sort.Slice(eligible, func(a, b int) bool {
		ra, rb := e.rules[eligible[a].index], e.rules[eligible[b].index]
		if ra.Priority != rb.Priority {
			return ra.Priority < rb.Priority
		}
		return eligible[a].magnitude > eligible[b].magnitude
	})

	best := eligible[0]
	rule := e.rules[best.index]
	e.state[best.index].lastEmitted = t

	return &Cue{
		RuleID:    rule.ID,
		Metric:    rule.Metric,
		Message:   rule.Message,
		Priority:  rule.Priority,
		Magnitude: best.magnitude,
		Channels:  rule.Channels,
	}
}

func ruleAppliesInPhase(r *Rule, phase reps.Phase) bool {
	if len(r.Phases) == 0 {
		return true
	}
	for _, p := range r.Phases {
		if p == phase {
			return true
		}
	}
	return false
}
