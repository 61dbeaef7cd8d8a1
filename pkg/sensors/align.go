package sensors

import "math"

// AlignReason explains an alignment decision.
type AlignReason string

const (
	AlignAccepted         AlignReason = "aligned"
	AlignMissingSecondary AlignReason = "missing_secondary"
	AlignStaleFrame       AlignReason = "stale_frame"
)

// Alignment is the outcome of attempting to pair a secondary sensor
// sample with a primary frame.
type Alignment struct {
	Accepted bool
	Reason   AlignReason
	SkewSec  float64
}

// SelectAlignedFrame decides whether a secondary sample at secondaryTs
// may be fused with the primary frame at primaryTs. A missing or
// non-finite secondary timestamp is rejected outright; a skew beyond
// maxSkewSec rejects the sample as stale. This gate is the only thing
// preventing a stale secondary stream from silently contaminating a
// fused frame.
func SelectAlignedFrame(primaryTs, secondaryTs, maxSkewSec float64) Alignment {
	if math.IsNaN(secondaryTs) || math.IsInf(secondaryTs, 0) {
		return Alignment{Reason: AlignMissingSecondary}
	}
	skew := math.Abs(primaryTs - secondaryTs)
	if skew > maxSkewSec {
		return Alignment{Reason: AlignStaleFrame, SkewSec: skew}
	}
	return Alignment{Accepted: true, Reason: AlignAccepted, SkewSec: skew}
}
