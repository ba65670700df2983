package engine

import (
	"math"

	"github.com/someonesomewheredev/polysynth/internal/wave"
)

// Parameter accessors. All of these are safe to call from the input thread
// while Process runs; each one is a single atomic scalar, read afresh at the
// top of every callback.

func (e *Engine) SetWaveform(w wave.Waveform) {
	if !w.Valid() {
		w = wave.Sine
	}
	e.waveform.Store(int32(w))
}

func (e *Engine) Waveform() wave.Waveform {
	return wave.Waveform(e.waveform.Load())
}

func (e *Engine) SetUnisonEnabled(on bool) { e.unisonOn.Store(on) }
func (e *Engine) UnisonEnabled() bool      { return e.unisonOn.Load() }

func (e *Engine) SetUnisonOrder(order int) {
	if order < 1 {
		order = 1
	}
	e.unisonOrder.Store(int32(order))
}

func (e *Engine) UnisonOrder() int { return int(e.unisonOrder.Load()) }

func (e *Engine) SetUnisonDetune(amount float64) {
	e.unisonAmount.Store(math.Float64bits(amount))
}

func (e *Engine) UnisonDetune() float64 {
	return math.Float64frombits(e.unisonAmount.Load())
}

func (e *Engine) SetGoofyUnison(on bool) { e.goofyUnison.Store(on) }
func (e *Engine) GoofyUnison() bool      { return e.goofyUnison.Load() }

// SetMasterGain sets the output volume scalar, clamped to >= 0.
func (e *Engine) SetMasterGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	e.masterGain.Store(math.Float64bits(gain))
}

func (e *Engine) MasterGain() float64 {
	return math.Float64frombits(e.masterGain.Load())
}

func (e *Engine) SetBitcrushEnabled(on bool) { e.crush.SetEnabled(on) }
func (e *Engine) BitcrushEnabled() bool      { return e.crush.Enabled() }
func (e *Engine) SetBitcrushBits(bits float64) {
	e.crush.SetBits(bits)
}
func (e *Engine) BitcrushBits() float64 { return e.crush.Bits() }

func (e *Engine) SetCompressorEnabled(on bool) { e.comp.SetEnabled(on) }
func (e *Engine) CompressorEnabled() bool      { return e.comp.Enabled() }
