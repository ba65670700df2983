// Package unison thickens a single note by stacking detuned, stereo-spread
// copies of one oscillator and averaging them into a stereo pair.
package unison

import (
	"math"

	"github.com/someonesomewheredev/polysynth/internal/wave"
)

// Detune returns the relative frequency offset for tap i of order taps.
// The normal curve i*sin(i/order)*amount is off-center rather than a
// symmetric spread; it started out as a mistake but sounds good, so it is
// kept. Goofy mode is the symmetric spread scaled down by the order.
func Detune(i, order int, amount float64, goofy bool) float64 {
	if goofy {
		return (float64(i) - float64(order)/2) * (amount / float64(order))
	}
	return float64(i) * math.Sin(float64(i)/float64(order)) * amount
}

// Pan spreads taps linearly across the stereo field from -1 to +1.
// A single tap sits in the center.
func Pan(i, order int) float64 {
	if order <= 1 {
		return 0
	}
	return float64(i)/float64(order)*2 - 1
}

// PanGains maps a pan position to left/right gains: the near channel stays at
// unity while the far channel fades linearly.
func PanGains(pan float64) (l, r float64) {
	l, r = 1, 1
	if pan > 0 {
		l = 1 - pan
	}
	if pan < 0 {
		r = 1 + pan
	}
	return l, r
}

// Render sums order detuned, panned taps of gen around baseFreq and returns
// their arithmetic mean per channel, so loudness does not grow with order.
func Render(gen wave.Generator, t, baseFreq float64, order int, amount float64, goofy bool) (l, r float64) {
	if order < 1 {
		order = 1
	}
	for i := 0; i < order; i++ {
		f := baseFreq * (1 + Detune(i, order, amount, goofy))
		s := gen(t, f)
		gl, gr := PanGains(Pan(i, order))
		l += s * gl
		r += s * gr
	}
	n := float64(order)
	return l / n, r / n
}
