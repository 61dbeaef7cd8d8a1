package pose

// Source tags which upstream provider produced a frame's joints.
type Source string

const (
	// SourceWorldJoints is the primary 3D body-anchor provider.
	SourceWorldJoints Source = "world_joints"
	// SourceLandmarks is the secondary 2D landmark provider.
	SourceLandmarks Source = "landmarks"
)

// Frame is the raw per-frame pose payload from an upstream provider.
// Exactly one of World or Landmarks is populated, selected by Source.
type Frame struct {
	Source    Source       `json:"source"`
	World     []WorldJoint `json:"world,omitempty"`
	Landmarks []Landmark   `json:"landmarks,omitempty"`
}

// Adapter converts one provider's native joints into the canonical
// joint map. Each provider gets its own adapter; dispatch is by the
// frame's source tag, never by inspecting the payload.
type Adapter interface {
	// Source identifies which provider this adapter handles.
	Source() Source

	// Canonicalize maps the frame's native joints into canonical
	// roles and synthesizes derived roles.
	Canonicalize(f Frame) JointMap
}

// AdapterFor returns the adapter for a source tag, or nil for an
// unknown source.
func AdapterFor(s Source) Adapter {
	switch s {
	case SourceWorldJoints:
		return NewWorldJointAdapter()
	case SourceLandmarks:
		return NewLandmarkAdapter(DefaultVisibilityThreshold)
	default:
		return nil
	}
}

// Canonicalize converts a frame via its source's adapter. Frames from
// an unknown source yield an empty map: absent input is skipped, never
// an error.
func Canonicalize(f Frame) JointMap {
	a := AdapterFor(f.Source)
	if a == nil {
		return JointMap{}
	}
	return a.Canonicalize(f)
}
