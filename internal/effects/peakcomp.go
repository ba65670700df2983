package effects

import (
	"math"
	"sync/atomic"
)

// peakCoeff is the single-pole follower coefficient.
const peakCoeff = 0.05

// PeakCompressor ducks the signal by however loud it has recently been:
// a single-pole low-pass follows each channel and the sample is scaled by
// (1 - |follower|).
//
// One accumulator pair is shared across every voice in the pool, not one per
// voice, so the follower reacts to the running mix of all voices. That makes
// the output depend on the voice iteration order; the engine feeds voices in
// fixed slot order every callback to keep it deterministic.
type PeakCompressor struct {
	enabled atomic.Bool
	accL    float32
	accR    float32
}

func NewPeakCompressor() *PeakCompressor {
	return &PeakCompressor{}
}

func (c *PeakCompressor) SetEnabled(on bool) { c.enabled.Store(on) }
func (c *PeakCompressor) Enabled() bool      { return c.enabled.Load() }

func (c *PeakCompressor) Process(l, r float32) (float32, float32) {
	if !c.enabled.Load() {
		return l, r
	}
	c.accL += peakCoeff * (l - c.accL)
	c.accR += peakCoeff * (r - c.accR)
	l *= 1 - float32(math.Abs(float64(c.accL)))
	r *= 1 - float32(math.Abs(float64(c.accR)))
	return l, r
}

func (c *PeakCompressor) Reset() {
	c.accL = 0
	c.accR = 0
}
