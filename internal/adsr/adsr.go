// Package adsr evaluates the attack/decay/sustain/release amplitude envelope.
//
// The envelope is a pure function of elapsed time: nothing is persisted
// between calls, so there is no state machine to advance and the curve can be
// re-evaluated for every sample at audio rates.
package adsr

// Curve holds the envelope parameters shared by every voice. It is configured
// once at startup and read-only during synthesis.
type Curve struct {
	Attack  float64 // seconds to ramp 0 -> 1 after press
	Decay   float64 // seconds to slide 1 -> Sustain after attack
	Sustain float64 // level held while the gate stays down, 0..1
	Release float64 // seconds to slide Sustain -> 0 after release
}

func Default() Curve {
	return Curve{
		Attack:  0.01,
		Decay:   0.65,
		Sustain: 0.8,
		Release: 0.1,
	}
}

// ADS returns the attenuation for a held voice, t seconds after note press.
// Attack and decay are computed independently: the attack ramp saturates at 1
// once its time domain ends, so the decay slope takes over naturally.
func ADS(c Curve, t float64) float64 {
	decayProgress := clamp((t-c.Attack)/c.Decay, 0, 1)
	decayed := lerp(1, c.Sustain, decayProgress)
	return clamp(t/c.Attack, 0, 1) * decayed
}

// ReleaseAtten returns the attenuation for a released voice, t seconds after
// the gate dropped: a linear ramp from Sustain down to 0 over Release.
func ReleaseAtten(c Curve, t float64) float64 {
	return clamp(1-t/c.Release, 0, 1) * c.Sustain
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(from, to, amt float64) float64 {
	return from + (to-from)*amt
}
