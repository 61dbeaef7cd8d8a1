// Package pose normalizes the two upstream pose providers into one
// canonical joint-role map. The providers disagree on joint naming,
// indexing, and confidence semantics; everything downstream of this
// package only ever sees canonical roles.
package pose

import "github.com/ThyDrSlen/form-factor-sub005/pkg/geom"

// Role is a canonical joint-role identifier.
type Role string

// The fixed canonical joint vocabulary.
const (
	RoleHead          Role = "head"
	RoleNeck          Role = "neck"
	RoleSpine         Role = "spine"
	RolePelvis        Role = "pelvis"
	RoleLeftShoulder  Role = "left_shoulder"
	RoleRightShoulder Role = "right_shoulder"
	RoleLeftElbow     Role = "left_elbow"
	RoleRightElbow    Role = "right_elbow"
	RoleLeftWrist     Role = "left_wrist"
	RoleRightWrist    Role = "right_wrist"
	RoleLeftHip       Role = "left_hip"
	RoleRightHip      Role = "right_hip"
	RoleLeftKnee      Role = "left_knee"
	RoleRightKnee     Role = "right_knee"
	RoleLeftAnkle     Role = "left_ankle"
	RoleRightAnkle    Role = "right_ankle"
)

// Joint is a canonical 2D joint in normalized image coordinates.
type Joint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Tracked    bool    `json:"is_tracked"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Point returns the joint position as a geometry point.
func (j Joint) Point() geom.Point {
	return geom.Point{X: j.X, Y: j.Y}
}

// JointMap is the canonical joint-role map produced by every adapter.
type JointMap map[Role]Joint

// assign writes a joint into a canonical slot under the merge rule:
// an empty slot always takes the value; an untracked value is upgraded
// by a tracked one; a tracked value is never replaced within a frame.
func (m JointMap) assign(role Role, j Joint) {
	existing, ok := m[role]
	if !ok {
		m[role] = j
		return
	}
	if !existing.Tracked && j.Tracked {
		m[role] = j
	}
}

// Tracked returns the joint for role only if it is currently tracked.
func (m JointMap) Tracked(role Role) (Joint, bool) {
	j, ok := m[role]
	if !ok || !j.Tracked {
		return Joint{}, false
	}
	return j, true
}

// synthesizeDerived fills canonical roles neither provider reports
// directly. Each derived role is the midpoint of two contributors when
// both exist, else whichever single contributor exists; it is tracked
// if either contributor is tracked. Pelvis is synthesized first so
// spine can build on it.
func (m JointMap) synthesizeDerived() {
	m.synthesizeMidpoint(RoleNeck, RoleLeftShoulder, RoleRightShoulder)
	m.synthesizeMidpoint(RolePelvis, RoleLeftHip, RoleRightHip)
	m.synthesizeMidpoint(RoleSpine, RoleNeck, RolePelvis)
}

func (m JointMap) synthesizeMidpoint(derived, a, b Role) {
	if _, ok := m[derived]; ok {
		return
	}
	ja, okA := m[a]
	jb, okB := m[b]
	switch {
	case okA && okB:
		mid := geom.Midpoint(ja.Point(), jb.Point())
		m.assign(derived, Joint{
			X:          mid.X,
			Y:          mid.Y,
			Tracked:    ja.Tracked || jb.Tracked,
			Confidence: (ja.Confidence + jb.Confidence) / 2,
		})
	case okA:
		m.assign(derived, ja)
	case okB:
		m.assign(derived, jb)
	}
}
