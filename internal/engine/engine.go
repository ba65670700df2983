// Package engine implements the polyphonic voice pool and the real-time
// render loop that turns note events into interleaved stereo float32 frames.
//
// Two threads touch an Engine: the input thread enqueues note events and
// flips parameter atomics, and the audio thread runs Process. Note events go
// through a bounded queue drained at the top of every callback, so voice
// state itself is only ever written by the audio thread and nothing on the
// render path blocks or allocates.
package engine

import (
	"math"
	"sync/atomic"

	"github.com/someonesomewheredev/polysynth/internal/adsr"
	"github.com/someonesomewheredev/polysynth/internal/effects"
	"github.com/someonesomewheredev/polysynth/internal/unison"
	"github.com/someonesomewheredev/polysynth/internal/wave"
)

// NumVoices is the fixed polyphony of the voice pool.
const NumVoices = 16

// headroom pre-scales every voice so a fully stacked pool stays roughly
// within full scale without dynamic normalization.
const headroom = 0.25

// ScopeLen is the number of frames of the last rendered buffer kept for the
// oscilloscope view.
const ScopeLen = 1024

// eventQueueCap bounds the note-event queue. Sends past this are dropped;
// a dropped event is an audible hiccup, never a stall of the audio thread.
const eventQueueCap = 256

// MaxNote is the highest accepted note number. Presses outside [0, MaxNote]
// are ignored, not errors.
const MaxNote = 127

type voice struct {
	note        int
	freq        float64
	held        bool
	pressTime   float64
	releaseTime float64
	finished    bool
}

type noteEvent struct {
	note int
	time float64
	on   bool
}

// VoiceState is a read-only snapshot of one voice slot for presentation.
type VoiceState struct {
	Note        int
	Held        bool
	Finished    bool
	Attenuation float64
}

type Engine struct {
	sampleRate float64
	curve      adsr.Curve

	// Owned by the audio thread after New.
	voices    [NumVoices]voice
	timeAccum float64
	scopeL    [ScopeLen]float32
	scopeR    [ScopeLen]float32

	events chan noteEvent

	// Shared scalars: written by the input thread, loaded once per callback.
	waveform     atomic.Int32
	unisonOn     atomic.Bool
	unisonOrder  atomic.Int32
	unisonAmount atomic.Uint64 // float64 bits
	goofyUnison  atomic.Bool
	masterGain   atomic.Uint64 // float64 bits

	// Diagnostics published by the audio thread.
	clock       atomic.Uint64 // float64 bits of timeAccum
	scopeFrames atomic.Int32
	clipped     atomic.Bool
	peak        atomic.Uint32 // float32 bits

	crush *effects.Bitcrush
	comp  *effects.PeakCompressor
	post  *effects.Chain
}

// New creates an engine with every voice idle and the original startup
// parameters: sine, unison off (order 16, detune 0.0025), effects off,
// master volume 1.
func New(sampleRate int, curve adsr.Curve) *Engine {
	e := &Engine{
		sampleRate: float64(sampleRate),
		curve:      curve,
		events:     make(chan noteEvent, eventQueueCap),
		crush:      effects.NewBitcrush(16),
		comp:       effects.NewPeakCompressor(),
	}
	e.post = effects.NewChain(e.crush, e.comp)
	for i := range e.voices {
		e.voices[i].finished = true
	}
	e.unisonOrder.Store(16)
	e.unisonAmount.Store(math.Float64bits(0.0025))
	e.masterGain.Store(math.Float64bits(1))
	return e
}

func (e *Engine) SampleRate() int { return int(e.sampleRate) }

func (e *Engine) Curve() adsr.Curve { return e.curve }

// Now returns the synthesis clock: seconds of audio rendered so far. It is
// the time base used to timestamp note events that have no clock of their
// own.
func (e *Engine) Now() float64 {
	return math.Float64frombits(e.clock.Load())
}

// NoteOn queues a note press at time t on the synthesis clock. A press for a
// note that is already held is ignored when the queue is drained. If the
// queue is full the event is dropped.
func (e *Engine) NoteOn(note int, t float64) {
	select {
	case e.events <- noteEvent{note: note, time: t, on: true}:
	default:
	}
}

// NoteOff queues a note release at time t. Every held voice matching the
// note is released. If the queue is full the event is dropped.
func (e *Engine) NoteOff(note int, t float64) {
	select {
	case e.events <- noteEvent{note: note, time: t, on: false}:
	default:
	}
}

func (e *Engine) drainEvents() {
	for {
		select {
		case ev := <-e.events:
			if ev.on {
				e.applyNoteOn(ev.note, ev.time)
			} else {
				e.applyNoteOff(ev.note, ev.time)
			}
		default:
			return
		}
	}
}

// allocVoice returns the first finished slot, or slot 0 when the pool is
// exhausted. Stealing slot 0 unconditionally is the policy: deterministic,
// and the cut note is an audible artifact rather than an error.
func (e *Engine) allocVoice() int {
	for i := range e.voices {
		if e.voices[i].finished {
			return i
		}
	}
	return 0
}

func (e *Engine) heldVoice(note int) int {
	for i := range e.voices {
		if e.voices[i].note == note && e.voices[i].held {
			return i
		}
	}
	return -1
}

func (e *Engine) applyNoteOn(note int, t float64) {
	if note < 0 || note > MaxNote {
		return
	}
	if e.heldVoice(note) >= 0 {
		return // no retrigger while held
	}
	v := &e.voices[e.allocVoice()]
	v.note = note
	v.freq = wave.Pitch(note)
	v.held = true
	v.pressTime = t
	v.finished = false
}

func (e *Engine) applyNoteOff(note int, t float64) {
	// Release every matching held voice. Duplicates cannot happen through
	// applyNoteOn, but releasing all of them keeps note-off total anyway.
	for {
		i := e.heldVoice(note)
		if i < 0 {
			return
		}
		e.voices[i].held = false
		e.voices[i].releaseTime = t
	}
}

// Process fills dst with interleaved stereo frames. It is the audio device's
// sole synthesis entry point and must finish well inside the buffer's
// playback duration: no locks, no allocation, O(1) work per voice-sample.
func (e *Engine) Process(dst []float32) {
	e.drainEvents()

	wf := wave.Waveform(e.waveform.Load())
	gen := wave.ForWaveform(wf)
	uniOn := e.unisonOn.Load()
	order := int(e.unisonOrder.Load())
	if order < 1 {
		order = 1
	}
	amount := math.Float64frombits(e.unisonAmount.Load())
	goofy := e.goofyUnison.Load()
	gain := math.Float64frombits(e.masterGain.Load())

	clipped := false
	var peak float32

	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		t := e.timeAccum + float64(f)/e.sampleRate
		var sumL, sumR float32
		for i := range e.voices {
			l, r := e.voiceSample(&e.voices[i], t, gen, uniOn, order, amount, goofy, gain)
			sumL += l * headroom
			sumR += r * headroom
		}
		dst[2*f] = sumL
		dst[2*f+1] = sumR
		if f < ScopeLen {
			e.scopeL[f] = sumL
			e.scopeR[f] = sumR
		}
		if sumL > 1 || sumL < -1 || sumR > 1 || sumR < -1 {
			clipped = true
		}
		if a := abs32(sumL); a > peak {
			peak = a
		}
		if a := abs32(sumR); a > peak {
			peak = a
		}
	}

	n := int32(frames)
	if n > ScopeLen {
		n = ScopeLen
	}
	e.scopeFrames.Store(n)
	e.clipped.Store(clipped)
	e.peak.Store(math.Float32bits(peak))
	e.timeAccum += float64(frames) / e.sampleRate
	e.clock.Store(math.Float64bits(e.timeAccum))
}

// voiceSample renders one stereo sample for a voice at synthesis time t:
// oscillator (unison or direct), envelope, master volume, then the shared
// post chain.
func (e *Engine) voiceSample(v *voice, t float64, gen wave.Generator, uniOn bool, order int, amount float64, goofy bool, gain float64) (float32, float32) {
	if v.finished {
		return 0, 0
	}

	var l, r float64
	if uniOn {
		l, r = unison.Render(gen, t, v.freq, order, amount, goofy)
	} else {
		s := gen(t, v.freq)
		l, r = s, s
	}

	var att float64
	if v.held {
		att = adsr.ADS(e.curve, t-v.pressTime)
	} else {
		att = adsr.ReleaseAtten(e.curve, t-v.releaseTime)
		if att == 0 || t > v.releaseTime+e.curve.Release {
			v.finished = true
		}
	}

	l *= att * gain
	r *= att * gain
	return e.post.Process(float32(l), float32(r))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
