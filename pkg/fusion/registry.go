// Package fusion ties the per-frame pipeline together: it memoizes
// expensive frame features, computes canonical joint angles and
// derived metrics exactly once per frame, drives the cue-evaluation
// passes, and assembles the frame's BodyState.
package fusion

// Registry is the per-frame memoization cache. It is strictly
// frame-scoped: Reset runs at the start of every frame, and reading a
// value across a frame boundary is a correctness bug. This is what
// lets several cue passes share one angle computation safely.
type Registry struct {
	values map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{values: make(map[string]any)}
}

// Reset invalidates every memoized value. Called once per frame by the
// orchestrator before any pass runs.
func (r *Registry) Reset() {
	clear(r.values)
}

// Get returns the memoized value for key, computing and caching it on
// first request. Repeated requests within one frame return the same
// value and never re-invoke compute.
func (r *Registry) Get(key string, compute func() any) any {
	if v, ok := r.values[key]; ok {
		return v
	}
	v := compute()
	r.values[key] = v
	return v
}

// Len returns the number of memoized entries, for tests and debug.
func (r *Registry) Len() int {
	return len(r.values)
}

// State is the long-lived per-session fusion state: the frame feature
// registry plus a frame counter. Registry contents never survive a
// frame boundary.
type State struct {
	registry   *Registry
	frameCount uint64
}

// NewState creates fresh session state.
func NewState() *State {
	return &State{registry: NewRegistry()}
}

// BeginFrame invalidates the registry and advances the frame counter.
func (s *State) BeginFrame() {
	s.registry.Reset()
	s.frameCount++
}

// FrameCount returns the number of frames processed this session.
func (s *State) FrameCount() uint64 {
	return s.frameCount
}
