package fusion

import (
	"github.com/ThyDrSlen/form-factor-sub005/pkg/pose"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/reps"
)

// Registry keys for the standard frame features.
const (
	featureJointAngles    = "joint_angles"
	featureDerivedMetrics = "derived_metrics"
	featureAllMetrics     = "all_metrics"
)

// Context is the read-only view a cue-evaluation pass gets of the
// current frame. All feature accessors read through the frame
// registry, so however many passes ask for the angles, they are
// computed once.
type Context struct {
	t          float64
	joints     pose.JointMap
	confidence float64
	registry   *Registry
	fsm        *reps.FSM
}

// T returns the frame timestamp in seconds.
func (c *Context) T() float64 {
	return c.t
}

// Joints returns the frame's canonical joint map.
func (c *Context) Joints() pose.JointMap {
	return c.joints
}

// Confidence returns the frame's fused confidence.
func (c *Context) Confidence() float64 {
	return c.confidence
}

// Phase returns the current movement phase. Passes that run after the
// phase pass see the updated phase.
func (c *Context) Phase() reps.Phase {
	return c.fsm.Phase()
}

// RepCount returns the authoritative repetition count.
func (c *Context) RepCount() int {
	return c.fsm.RepCount()
}

// Feature returns the memoized frame feature for key, computing it on
// first request.
func (c *Context) Feature(key string, compute func() any) any {
	return c.registry.Get(key, compute)
}

// Angles returns the frame's canonical joint angles, computed at most
// once per frame.
func (c *Context) Angles() map[string]float64 {
	return c.Feature(featureJointAngles, func() any {
		return ComputeJointAngles(c.joints)
	}).(map[string]float64)
}

// Derived returns the frame's derived metrics, computed at most once
// per frame.
func (c *Context) Derived() map[string]float64 {
	return c.Feature(featureDerivedMetrics, func() any {
		return ComputeDerivedMetrics(c.joints, c.Angles())
	}).(map[string]float64)
}

// Metrics returns angles and derived metrics merged into one map for
// rule evaluation, memoized like its inputs.
func (c *Context) Metrics() map[string]float64 {
	return c.Feature(featureAllMetrics, func() any {
		angles := c.Angles()
		derived := c.Derived()
		merged := make(map[string]float64, len(angles)+len(derived))
		for k, v := range angles {
			merged[k] = v
		}
		for k, v := range derived {
			merged[k] = v
		}
		return merged
	}).(map[string]float64)
}
