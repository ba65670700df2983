package engine

import (
	"math"

	"github.com/someonesomewheredev/polysynth/internal/adsr"
)

// Presentation snapshots. These read voice fields and the scope ring without
// locking while the audio thread may be writing them; a torn value only ever
// reaches the display and is replaced on the next poll, which keeps the
// render path free of synchronization. Note events, the state that actually
// matters, go through the event queue instead.

// VoiceStates fills dst with the current state of the first len(dst) voice
// slots and returns how many were written. Attenuation is evaluated against
// the synthesis clock, the same way the render loop does it.
func (e *Engine) VoiceStates(dst []VoiceState) int {
	now := e.Now()
	n := len(dst)
	if n > NumVoices {
		n = NumVoices
	}
	for i := 0; i < n; i++ {
		v := &e.voices[i]
		var att float64
		if v.held {
			att = adsr.ADS(e.curve, now-v.pressTime)
		} else {
			att = adsr.ReleaseAtten(e.curve, now-v.releaseTime)
		}
		dst[i] = VoiceState{
			Note:        v.note,
			Held:        v.held,
			Finished:    v.finished,
			Attenuation: att,
		}
	}
	return n
}

// ActiveVoiceCount returns the number of voices still sounding, release
// tails included.
func (e *Engine) ActiveVoiceCount() int {
	count := 0
	for i := range e.voices {
		if !e.voices[i].finished {
			count++
		}
	}
	return count
}

// Scope copies the most recently rendered buffer into dstL/dstR and returns
// the number of frames copied.
func (e *Engine) Scope(dstL, dstR []float32) int {
	n := int(e.scopeFrames.Load())
	if n > len(dstL) {
		n = len(dstL)
	}
	if n > len(dstR) {
		n = len(dstR)
	}
	copy(dstL[:n], e.scopeL[:n])
	copy(dstR[:n], e.scopeR[:n])
	return n
}

// Clipped reports whether any sample in the last callback left [-1, 1].
func (e *Engine) Clipped() bool { return e.clipped.Load() }

// Peak returns the largest absolute sample value of the last callback.
func (e *Engine) Peak() float32 {
	return math.Float32frombits(e.peak.Load())
}
