package fusion

import (
	"math"

	"github.com/ThyDrSlen/form-factor-sub005/pkg/geom"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/pose"
)

// Canonical joint-angle metric keys. Aggregate keys average whichever
// sides are tracked this frame.
const (
	MetricLeftKneeFlexion   = "left_knee_flexion"
	MetricRightKneeFlexion  = "right_knee_flexion"
	MetricKneeFlexion       = "knee_flexion"
	MetricLeftHipFlexion    = "left_hip_flexion"
	MetricRightHipFlexion   = "right_hip_flexion"
	MetricHipFlexion        = "hip_flexion"
	MetricLeftElbowFlexion  = "left_elbow_flexion"
	MetricRightElbowFlexion = "right_elbow_flexion"
	MetricElbowFlexion      = "elbow_flexion"
	MetricTorsoAngle        = "torso_angle"
)

// Derived metric keys, computed from the joint angles and joint map.
const (
	MetricTorsoLean        = "torso_lean"
	MetricStanceWidthRatio = "stance_width_ratio"
	MetricFlexionSymmetry  = "flexion_symmetry"
)

// ComputeJointAngles derives the canonical angle map from tracked
// joints. A metric is present only when every joint it needs is
// tracked; absent metrics are skipped signals, never zeros.
func ComputeJointAngles(m pose.JointMap) map[string]float64 {
	angles := make(map[string]float64)

	angleAt := func(key string, a, b, c pose.Role) {
		ja, okA := m.Tracked(a)
		jb, okB := m.Tracked(b)
		jc, okC := m.Tracked(c)
		if !okA || !okB || !okC {
			return
		}
		angles[key] = geom.AngleAtDeg(ja.Point(), jb.Point(), jc.Point())
	}

	angleAt(MetricLeftKneeFlexion, pose.RoleLeftHip, pose.RoleLeftKnee, pose.RoleLeftAnkle)
	angleAt(MetricRightKneeFlexion, pose.RoleRightHip, pose.RoleRightKnee, pose.RoleRightAnkle)
	angleAt(MetricLeftHipFlexion, pose.RoleLeftShoulder, pose.RoleLeftHip, pose.RoleLeftKnee)
	angleAt(MetricRightHipFlexion, pose.RoleRightShoulder, pose.RoleRightHip, pose.RoleRightKnee)
	angleAt(MetricLeftElbowFlexion, pose.RoleLeftShoulder, pose.RoleLeftElbow, pose.RoleLeftWrist)
	angleAt(MetricRightElbowFlexion, pose.RoleRightShoulder, pose.RoleRightElbow, pose.RoleRightWrist)

	meanOf(angles, MetricKneeFlexion, MetricLeftKneeFlexion, MetricRightKneeFlexion)
	meanOf(angles, MetricHipFlexion, MetricLeftHipFlexion, MetricRightHipFlexion)
	meanOf(angles, MetricElbowFlexion, MetricLeftElbowFlexion, MetricRightElbowFlexion)

	// Hip hinge openness: angle at the pelvis between the neck and the
	// midpoint of the knees. 180 is fully upright.
	if neck, ok := m.Tracked(pose.RoleNeck); ok {
		if pelvis, ok := m.Tracked(pose.RolePelvis); ok {
			lk, okL := m.Tracked(pose.RoleLeftKnee)
			rk, okR := m.Tracked(pose.RoleRightKnee)
			switch {
			case okL && okR:
				mid := geom.Midpoint(lk.Point(), rk.Point())
				angles[MetricTorsoAngle] = geom.AngleAtDeg(neck.Point(), pelvis.Point(), mid)
			case okL:
				angles[MetricTorsoAngle] = geom.AngleAtDeg(neck.Point(), pelvis.Point(), lk.Point())
			case okR:
				angles[MetricTorsoAngle] = geom.AngleAtDeg(neck.Point(), pelvis.Point(), rk.Point())
			}
		}
	}

	return angles
}

func meanOf(angles map[string]float64, key, left, right string) {
	l, okL := angles[left]
	r, okR := angles[right]
	switch {
	case okL && okR:
		angles[key] = (l + r) / 2
	case okL:
		angles[key] = l
	case okR:
		angles[key] = r
	}
}

// ComputeDerivedMetrics computes secondary metrics from the angle map
// and joint map. Like angles, a metric is only present when its inputs
// are.
func ComputeDerivedMetrics(m pose.JointMap, angles map[string]float64) map[string]float64 {
	derived := make(map[string]float64)

	// Deviation of the pelvis→neck segment from image-vertical, in
	// degrees. 0 is perfectly upright.
	if neck, ok := m.Tracked(pose.RoleNeck); ok {
		if pelvis, ok := m.Tracked(pose.RolePelvis); ok {
			up := geom.Point{X: pelvis.X, Y: pelvis.Y - 1}
			derived[MetricTorsoLean] = geom.AngleAtDeg(neck.Point(), pelvis.Point(), up)
		}
	}

	// Ankle spread relative to shoulder width.
	la, okLA := m.Tracked(pose.RoleLeftAnkle)
	ra, okRA := m.Tracked(pose.RoleRightAnkle)
	ls, okLS := m.Tracked(pose.RoleLeftShoulder)
	rs, okRS := m.Tracked(pose.RoleRightShoulder)
	if okLA && okRA && okLS && okRS {
		shoulders := geom.Dist(ls.Point(), rs.Point())
		if shoulders > 0 {
			derived[MetricStanceWidthRatio] = geom.Dist(la.Point(), ra.Point()) / shoulders
		}
	}

	// Absolute left/right knee flexion difference, a proxy for
	// loading one leg harder than the other.
	if l, ok := angles[MetricLeftKneeFlexion]; ok {
		if r, ok := angles[MetricRightKneeFlexion]; ok {
			derived[MetricFlexionSymmetry] = math.Abs(l - r)
		}
	}

	return derived
}
