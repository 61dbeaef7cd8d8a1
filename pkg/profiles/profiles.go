// Package profiles is the static registry of movement patterns and
// their acceptable angle bands. Profiles are read-only configuration:
// there is no runtime mutation API, and lookups return copies so
// callers can never alias the registry's backing data.
package profiles

import (
	"fmt"
	"time"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/cues"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/fusion"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/reps"
)

// Pattern is a movement pattern in the closed supported set.
type Pattern string

const (
	PatternSquat           Pattern = "squat"
	PatternHinge           Pattern = "hinge"
	PatternLunge           Pattern = "lunge"
	PatternHorizontalPress Pattern = "horizontal_press"
	PatternVerticalPress   Pattern = "vertical_press"
)

// Band is an acceptable range for one metric during given phases, plus
// the coaching message when the metric leaves the band.
type Band struct {
	Metric   string
	Phases   []reps.Phase
	Min      float64
	Max      float64
	Priority int
	Message  string
}

// Profile is a movement pattern's full angle-band configuration.
type Profile struct {
	Pattern Pattern
	Bands   []Band
}

// Rule debounce defaults shared by all generated rule sets.
const (
	defaultPersist  = 300 * time.Millisecond
	defaultCooldown = 4 * time.Second
)

var registry = map[Pattern]Profile{
	PatternSquat: {
		Pattern: PatternSquat,
		Bands: []Band{
			{fusion.MetricKneeFlexion, []reps.Phase{reps.PhaseBottom}, 70, 110, 1, "Hit depth, then drive up"},
			{fusion.MetricTorsoLean, []reps.Phase{reps.PhaseEccentric, reps.PhaseBottom}, 0, 35, 2, "Keep your chest up"},
			{fusion.MetricFlexionSymmetry, nil, 0, 12, 3, "Load both legs evenly"},
			{fusion.MetricStanceWidthRatio, []reps.Phase{reps.PhaseSetup, reps.PhaseTop}, 0.9, 1.8, 4, "Set your stance about shoulder width"},
		},
	},
	PatternHinge: {
		Pattern: PatternHinge,
		Bands: []Band{
			{fusion.MetricKneeFlexion, []reps.Phase{reps.PhaseBottom}, 120, 165, 1, "Push your hips back, soft knees"},
			{fusion.MetricTorsoAngle, []reps.Phase{reps.PhaseBottom}, 60, 120, 2, "Hinge deeper at the hips"},
			{fusion.MetricTorsoLean, []reps.Phase{reps.PhaseTop}, 0, 10, 3, "Finish tall and squeeze"},
		},
	},
	PatternLunge: {
		Pattern: PatternLunge,
		Bands: []Band{
			{fusion.MetricKneeFlexion, []reps.Phase{reps.PhaseBottom}, 75, 105, 1, "Drop the back knee lower"},
			{fusion.MetricTorsoLean, nil, 0, 20, 2, "Stay tall through the lunge"},
			{fusion.MetricFlexionSymmetry, []reps.Phase{reps.PhaseBottom}, 0, 90, 3, "Keep the split stance stable"},
		},
	},
	PatternHorizontalPress: {
		Pattern: PatternHorizontalPress,
		Bands: []Band{
			{fusion.MetricElbowFlexion, []reps.Phase{reps.PhaseBottom}, 60, 100, 1, "Touch with control, elbows at 45"},
			{fusion.MetricElbowFlexion, []reps.Phase{reps.PhaseTop}, 150, 180, 2, "Lock out fully"},
		},
	},
	PatternVerticalPress: {
		Pattern: PatternVerticalPress,
		Bands: []Band{
			{fusion.MetricElbowFlexion, []reps.Phase{reps.PhaseTop}, 155, 180, 1, "Press to full lockout overhead"},
			{fusion.MetricTorsoLean, nil, 0, 15, 2, "Ribs down, don't arch"},
		},
	},
}

// Get returns the profile for a pattern. The returned profile is a
// copy; mutating it does not affect the registry.
func Get(p Pattern) (Profile, bool) {
	prof, ok := registry[p]
	if !ok {
		return Profile{}, false
	}
	out := Profile{Pattern: prof.Pattern, Bands: make([]Band, len(prof.Bands))}
	copy(out.Bands, prof.Bands)
	return out, true
}

// Patterns returns the closed set of supported movement patterns.
func Patterns() []Pattern {
	return []Pattern{
		PatternSquat,
		PatternHinge,
		PatternLunge,
		PatternHorizontalPress,
		PatternVerticalPress,
	}
}

// RulesFor builds the cue rule set for a movement pattern from its
// angle bands. Unknown patterns yield no rules.
func RulesFor(p Pattern) []cues.Rule {
	prof, ok := Get(p)
	if !ok {
		return nil
	}
	rules := make([]cues.Rule, 0, len(prof.Bands))
	for i, band := range prof.Bands {
		rules = append(rules, cues.Rule{
			ID:       fmt.Sprintf("%s/%s/%d", p, band.Metric, i),
			Metric:   band.Metric,
			Phases:   band.Phases,
			Min:      band.Min,
			Max:      band.Max,
			Persist:  defaultPersist,
			Cooldown: defaultCooldown,
			Priority: band.Priority,
			Message:  band.Message,
			Channels: []cues.Channel{cues.ChannelAudio, cues.ChannelVisual},
		})
	}
	return rules
}
