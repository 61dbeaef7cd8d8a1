package pose

// WorldJoint is a joint from the primary 3D body-anchor provider:
// world-space coordinates plus a per-joint tracked flag. The provider
// names joints after skeleton segments, several of which collapse onto
// one canonical role.
type WorldJoint struct {
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Tracked bool    `json:"is_tracked"`
}

// worldJointAliases maps provider-native joint names to canonical
// roles. Multiple spine and neck segments alias the same role; the
// merge rule in JointMap.assign keeps the best value per slot.
var worldJointAliases = map[string][]Role{
	"head_joint":   {RoleHead},
	"neck_1_joint": {RoleNeck},
	"neck_2_joint": {RoleNeck},
	"neck_3_joint": {RoleNeck},
	"neck_4_joint": {RoleNeck},

	"spine_1_joint": {RoleSpine},
	"spine_2_joint": {RoleSpine},
	"spine_3_joint": {RoleSpine},
	"spine_4_joint": {RoleSpine},
	"spine_5_joint": {RoleSpine},
	"spine_6_joint": {RoleSpine},
	"spine_7_joint": {RoleSpine},

	"hips_joint": {RolePelvis},

	"left_shoulder_1_joint":  {RoleLeftShoulder},
	"right_shoulder_1_joint": {RoleRightShoulder},
	"left_forearm_joint":     {RoleLeftElbow},
	"right_forearm_joint":    {RoleRightElbow},
	"left_hand_joint":        {RoleLeftWrist},
	"right_hand_joint":       {RoleRightWrist},

	"left_upLeg_joint":  {RoleLeftHip},
	"right_upLeg_joint": {RoleRightHip},
	"left_leg_joint":    {RoleLeftKnee},
	"right_leg_joint":   {RoleRightKnee},
	"left_foot_joint":   {RoleLeftAnkle},
	"right_foot_joint":  {RoleRightAnkle},
}

// WorldJointAdapter canonicalizes frames from the 3D body-anchor
// provider. The provider has no separate visibility signal: a joint is
// either tracked or it is not, and untracked joints still enter the
// map so a later provider can upgrade the slot.
type WorldJointAdapter struct{}

// NewWorldJointAdapter creates the adapter for the 3D provider.
func NewWorldJointAdapter() *WorldJointAdapter {
	return &WorldJointAdapter{}
}

// Source implements Adapter.
func (a *WorldJointAdapter) Source() Source {
	return SourceWorldJoints
}

// Canonicalize implements Adapter. The world X/Y coordinates carry
// straight through; depth is dropped because the canonical map is the
// shared 2D representation both providers can populate.
func (a *WorldJointAdapter) Canonicalize(f Frame) JointMap {
	m := make(JointMap, len(worldJointAliases))
	for _, wj := range f.World {
		roles, ok := worldJointAliases[wj.Name]
		if !ok {
			continue
		}
		conf := 0.0
		if wj.Tracked {
			conf = 1.0
		}
		for _, role := range roles {
			m.assign(role, Joint{
				X:          wj.X,
				Y:          wj.Y,
				Tracked:    wj.Tracked,
				Confidence: conf,
			})
		}
	}
	m.synthesizeDerived()
	return m
}
