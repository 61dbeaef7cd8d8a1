package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAvailability_AllCombinations(t *testing.T) {
	cases := []struct {
		camera, watch, inEar bool
		want                 Mode
	}{
		{true, true, true, ModeFull},
		{true, true, false, ModeDegraded},
		{true, false, true, ModeDegraded},
		{true, false, false, ModeDegraded},
		{false, true, true, ModeUnsupported},
		{false, true, false, ModeUnsupported},
		{false, false, true, ModeUnsupported},
	}
	for _, tc := range cases {
		got := ClassifyAvailability(tc.camera, tc.watch, tc.inEar)
		assert.Equalf(t, tc.want, got,
			"camera=%v watch=%v inEar=%v", tc.camera, tc.watch, tc.inEar)
	}
}

func TestDeriveWatchAvailability(t *testing.T) {
	cases := []struct {
		name       string
		presence   WatchPresence
		wantStatus WatchStatus
		wantReason string
	}{
		{"not paired", WatchPresence{}, WatchUnavailable, ReasonWatchNotPaired},
		{"paired without app", WatchPresence{Paired: true}, WatchPairedOnly, ReasonWatchAppMissing},
		{"installed not reachable", WatchPresence{Paired: true, Installed: true}, WatchInstalledNotReachable, ReasonWatchNotReachable},
		{"ready", WatchPresence{Paired: true, Installed: true, Reachable: true}, WatchReady, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveWatchAvailability(tc.presence)
			assert.Equal(t, tc.wantStatus, got.Status)
			if tc.wantReason == "" {
				assert.Empty(t, got.Reasons)
			} else {
				assert.Contains(t, got.Reasons, tc.wantReason)
			}
		})
	}
}

func TestEvaluateFusionCapabilities(t *testing.T) {
	ready := WatchPresence{Paired: true, Installed: true, Reachable: true}

	t.Run("full when everything present", func(t *testing.T) {
		caps := EvaluateFusionCapabilities(Presence{Camera: true, InEar: true, Watch: ready})
		assert.Equal(t, ModeFull, caps.Mode)
		assert.False(t, caps.FallbackEnabled)
		assert.Empty(t, caps.Reasons)
	})

	t.Run("degraded without in-ear sensor", func(t *testing.T) {
		caps := EvaluateFusionCapabilities(Presence{Camera: true, Watch: ready})
		assert.Equal(t, ModeDegraded, caps.Mode)
		assert.True(t, caps.FallbackEnabled)
		assert.Contains(t, caps.Reasons, ReasonInEarUnavailable)
	})

	t.Run("degraded with unready watch", func(t *testing.T) {
		caps := EvaluateFusionCapabilities(Presence{Camera: true, InEar: true})
		assert.Equal(t, ModeDegraded, caps.Mode)
		assert.Contains(t, caps.Reasons, ReasonWatchNotPaired)
	})

	t.Run("unsupported without camera regardless of others", func(t *testing.T) {
		caps := EvaluateFusionCapabilities(Presence{InEar: true, Watch: ready})
		assert.Equal(t, ModeUnsupported, caps.Mode)
		assert.True(t, caps.FallbackEnabled)
		assert.Contains(t, caps.Reasons, ReasonCameraUnavailable)
	})
}
