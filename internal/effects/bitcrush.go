package effects

import (
	"math"
	"sync/atomic"
)

const (
	// MinCrushBits and MaxCrushBits bound the adjustable bit depth.
	MinCrushBits = 1
	MaxCrushBits = 31
)

// Bitcrush quantizes each channel to 2^bits evenly spaced levels across
// [-1, 1]. The depth is fractional so it can be nudged smoothly from a
// controller. Enable state and depth are atomics: the input thread flips
// them while the audio thread reads them mid-callback.
type Bitcrush struct {
	enabled atomic.Bool
	bits    atomic.Uint64 // float64 bits
}

func NewBitcrush(bits float64) *Bitcrush {
	b := &Bitcrush{}
	b.SetBits(bits)
	return b
}

func (b *Bitcrush) SetEnabled(on bool) { b.enabled.Store(on) }
func (b *Bitcrush) Enabled() bool      { return b.enabled.Load() }

// SetBits sets the crush depth, clamped to [MinCrushBits, MaxCrushBits].
func (b *Bitcrush) SetBits(bits float64) {
	if bits < MinCrushBits {
		bits = MinCrushBits
	}
	if bits > MaxCrushBits {
		bits = MaxCrushBits
	}
	b.bits.Store(math.Float64bits(bits))
}

func (b *Bitcrush) Bits() float64 {
	return math.Float64frombits(b.bits.Load())
}

func (b *Bitcrush) Process(l, r float32) (float32, float32) {
	if !b.enabled.Load() {
		return l, r
	}
	bits := math.Float64frombits(b.bits.Load())
	levels := math.Pow(2, bits)
	return crush(l, levels), crush(r, levels)
}

func (b *Bitcrush) Reset() {}

// crush snaps v to the nearest of `levels` reconstruction points spread
// evenly across [-1, 1], so the worst-case error is 1/levels.
func crush(v float32, levels float64) float32 {
	norm := (float64(v) + 1) * 0.5
	step := math.Floor(norm * levels)
	if step >= levels {
		step = levels - 1
	}
	if step < 0 {
		step = 0
	}
	return float32((step+0.5)/levels*2 - 1)
}
