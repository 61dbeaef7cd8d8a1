package protocol

import (
	"github.com/ThyDrSlen/form-factor-sub005/pkg/fusion"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/pose"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/sensors"
)

// PoseFrame is the raw per-frame payload a capture device sends to the
// engine: the primary provider's joints, optionally a secondary
// landmark sample with its own timestamp, plus sensor presence.
type PoseFrame struct {
	T                float64            `json:"t"`
	World            []pose.WorldJoint  `json:"world,omitempty"`
	CameraConfidence float64            `json:"camera_confidence"`
	SecondaryT       *float64           `json:"secondary_t,omitempty"`
	Landmarks        []pose.Landmark    `json:"landmarks,omitempty"`
	Presence         sensors.Presence   `json:"presence"`
}

// CoachingUpdate is the flat outbound projection of a frame's
// BodyState for a paired companion device. It is a pure projection:
// nothing in it feeds back into the engine.
type CoachingUpdate struct {
	SessionID  string             `json:"session_id"`
	T          float64            `json:"t"`
	Tracking   bool               `json:"tracking"`
	Mode       string             `json:"mode"`
	Phase      string             `json:"phase"`
	RepCount   int                `json:"rep_count"`
	Cue        string             `json:"cue,omitempty"`
	CueChannel string             `json:"cue_channel,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Confidence float64            `json:"confidence"`
	Degraded   bool               `json:"degraded"`
}

// BuildCoachingUpdate projects a frame's BodyState and fusion mode
// into the companion wire format.
func BuildCoachingUpdate(sessionID string, bs fusion.BodyState, mode sensors.Mode) CoachingUpdate {
	update := CoachingUpdate{
		SessionID:  sessionID,
		T:          bs.T,
		Tracking:   bs.Tracking(),
		Mode:       string(mode),
		Phase:      string(bs.Phase),
		RepCount:   bs.RepCount,
		Confidence: bs.Confidence,
		Degraded:   mode != sensors.ModeFull,
	}

	if len(bs.Angles) > 0 || len(bs.Derived) > 0 {
		update.Metrics = make(map[string]float64, len(bs.Angles)+len(bs.Derived))
		for k, v := range bs.Angles {
			update.Metrics[k] = v
		}
		for k, v := range bs.Derived {
			update.Metrics[k] = v
		}
	}

	if bs.Cue != nil {
		update.Cue = bs.Cue.Message
		if len(bs.Cue.Channels) > 0 {
			update.CueChannel = string(bs.Cue.Channels[0])
		}
	}

	return update
}

// SessionInfo describes a session lifecycle event for companions.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	Pattern   string `json:"pattern"`
	Started   bool   `json:"started"`
}

// CalibrationInfo reports a calibration phase change to companions.
type CalibrationInfo struct {
	SessionID  string  `json:"session_id"`
	Phase      string  `json:"phase"`
	Confidence float64 `json:"confidence,omitempty"`
}
