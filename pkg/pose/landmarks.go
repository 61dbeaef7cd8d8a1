package pose

// DefaultVisibilityThreshold is the minimum landmark visibility for a
// point to be considered present at all.
const DefaultVisibilityThreshold = 0.5

// Landmark is a point from the secondary 2D landmark provider:
// normalized coordinates plus a continuous visibility score in [0, 1].
// Landmarks are indexed, not named.
type Landmark struct {
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Landmark indices used by the provider's skeleton topology.
const (
	landmarkNose          = 0
	landmarkLeftShoulder  = 11
	landmarkRightShoulder = 12
	landmarkLeftElbow     = 13
	landmarkRightElbow    = 14
	landmarkLeftWrist     = 15
	landmarkRightWrist    = 16
	landmarkLeftHip       = 23
	landmarkRightHip      = 24
	landmarkLeftKnee      = 25
	landmarkRightKnee     = 26
	landmarkLeftAnkle     = 27
	landmarkRightAnkle    = 28
)

var landmarkAliases = map[int][]Role{
	landmarkNose:          {RoleHead},
	landmarkLeftShoulder:  {RoleLeftShoulder},
	landmarkRightShoulder: {RoleRightShoulder},
	landmarkLeftElbow:     {RoleLeftElbow},
	landmarkRightElbow:    {RoleRightElbow},
	landmarkLeftWrist:     {RoleLeftWrist},
	landmarkRightWrist:    {RoleRightWrist},
	landmarkLeftHip:       {RoleLeftHip},
	landmarkRightHip:      {RoleRightHip},
	landmarkLeftKnee:      {RoleLeftKnee},
	landmarkRightKnee:     {RoleRightKnee},
	landmarkLeftAnkle:     {RoleLeftAnkle},
	landmarkRightAnkle:    {RoleRightAnkle},
}

// LandmarkAdapter canonicalizes frames from the 2D landmark provider.
// Points below the visibility threshold are dropped before alias
// assignment — they never contend for a canonical slot, not even as
// untracked values.
type LandmarkAdapter struct {
	VisibilityThreshold float64
}

// NewLandmarkAdapter creates the adapter with the given visibility
// threshold. Thresholds outside (0, 1] fall back to the default.
func NewLandmarkAdapter(threshold float64) *LandmarkAdapter {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultVisibilityThreshold
	}
	return &LandmarkAdapter{VisibilityThreshold: threshold}
}

// Source implements Adapter.
func (a *LandmarkAdapter) Source() Source {
	return SourceLandmarks
}

// Canonicalize implements Adapter.
func (a *LandmarkAdapter) Canonicalize(f Frame) JointMap {
	m := make(JointMap, len(landmarkAliases))
	for _, lm := range f.Landmarks {
		if lm.Visibility < a.VisibilityThreshold {
			continue
		}
		roles, ok := landmarkAliases[lm.Index]
		if !ok {
			continue
		}
		for _, role := range roles {
			m.assign(role, Joint{
				X:          lm.X,
				Y:          lm.Y,
				Tracked:    true,
				Confidence: lm.Visibility,
			})
		}
	}
	m.synthesizeDerived()
	return m
}

// Merge folds src into dst under the canonical merge rule, then
// re-synthesizes derived roles so they reflect the merged
// contributors. Used when an aligned secondary frame supplements the
// primary provider within the same fused frame.
func Merge(dst, src JointMap) {
	for role, j := range src {
		dst.assign(role, j)
	}
	dst.synthesizeDerived()
}
