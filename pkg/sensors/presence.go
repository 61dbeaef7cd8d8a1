// Package sensors classifies which motion sensors are available for a
// session and aligns samples arriving from them at different rates.
// Availability is a first-class mode, never an error: the engine keeps
// running with whatever the platform reports and surfaces the mode to
// the UI for reaction.
package sensors

// Mode is the session's overall sensor-trust level.
type Mode string

const (
	// ModeFull means every supported sensor is present and ready.
	ModeFull Mode = "full"
	// ModeDegraded means the camera is present but at least one
	// secondary sensor is missing or not ready.
	ModeDegraded Mode = "degraded"
	// ModeUnsupported means the mandatory camera anchor is missing.
	// Nothing can compensate for the primary sensor.
	ModeUnsupported Mode = "unsupported"
)

// WatchStatus describes how usable the wrist-worn device is.
type WatchStatus string

const (
	WatchUnavailable           WatchStatus = "unavailable"
	WatchPairedOnly            WatchStatus = "paired_only"
	WatchInstalledNotReachable WatchStatus = "installed_not_reachable"
	WatchReady                 WatchStatus = "ready"
)

// Machine-readable reasons accumulated while classifying availability.
const (
	ReasonWatchNotPaired    = "watch_not_paired"
	ReasonWatchAppMissing   = "watch_app_not_installed"
	ReasonWatchNotReachable = "watch_not_reachable"
	ReasonInEarUnavailable  = "in_ear_motion_unavailable"
	ReasonCameraUnavailable = "camera_anchor_unavailable"
)

// WatchPresence holds the raw wrist-device availability booleans as
// reported by the platform.
type WatchPresence struct {
	Paired    bool `json:"paired"`
	Installed bool `json:"installed"`
	Reachable bool `json:"reachable"`
}

// WatchAvailability is the derived wrist-device classification.
type WatchAvailability struct {
	Status  WatchStatus
	Reasons []string
}

// Ready reports whether the watch can contribute samples this session.
func (w WatchAvailability) Ready() bool {
	return w.Status == WatchReady
}

// DeriveWatchAvailability maps the raw pairing booleans onto a single
// status. The checks are ordered: pairing gates installation, which
// gates reachability. Each non-ready outcome carries a reason string.
func DeriveWatchAvailability(p WatchPresence) WatchAvailability {
	switch {
	case !p.Paired:
		return WatchAvailability{Status: WatchUnavailable, Reasons: []string{ReasonWatchNotPaired}}
	case !p.Installed:
		return WatchAvailability{Status: WatchPairedOnly, Reasons: []string{ReasonWatchAppMissing}}
	case !p.Reachable:
		return WatchAvailability{Status: WatchInstalledNotReachable, Reasons: []string{ReasonWatchNotReachable}}
	default:
		return WatchAvailability{Status: WatchReady}
	}
}

// Presence holds the raw availability of every sensor the engine can
// fuse. The camera anchor is the mandatory primary sensor.
type Presence struct {
	Camera bool          `json:"camera"`
	InEar  bool          `json:"in_ear"`
	Watch  WatchPresence `json:"watch"`
}

// Capabilities is the derived fusion capability for a session.
type Capabilities struct {
	Mode            Mode
	FallbackEnabled bool
	Reasons         []string
}

// EvaluateFusionCapabilities derives the fusion mode from raw sensor
// presence. The camera can never be compensated for; missing secondary
// sensors degrade rather than disable the session.
func EvaluateFusionCapabilities(p Presence) Capabilities {
	var reasons []string

	watch := DeriveWatchAvailability(p.Watch)
	reasons = append(reasons, watch.Reasons...)

	if !p.InEar {
		reasons = append(reasons, ReasonInEarUnavailable)
	}

	if !p.Camera {
		reasons = append(reasons, ReasonCameraUnavailable)
		return Capabilities{Mode: ModeUnsupported, FallbackEnabled: true, Reasons: reasons}
	}

	mode := ModeFull
	if len(reasons) > 0 {
		mode = ModeDegraded
	}
	return Capabilities{
		Mode:            mode,
		FallbackEnabled: mode != ModeFull,
		Reasons:         reasons,
	}
}

// ClassifyAvailability is the boolean-triplet classifier used by the
// verification harness: unsupported without a camera, full with all
// three sensors, degraded otherwise.
func ClassifyAvailability(camera, watch, inEar bool) Mode {
	if !camera {
		return ModeUnsupported
	}
	if watch && inEar {
		return ModeFull
	}
	return ModeDegraded
}
