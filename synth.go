// Package polysynth is a real-time polyphonic software synthesizer: it turns
// note-on/note-off events from a keyboard or MIDI source into a continuous
// stereo signal, one fixed pool of ADSR-shaped voices at a time.
package polysynth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/someonesomewheredev/polysynth/internal/adsr"
	"github.com/someonesomewheredev/polysynth/internal/audio"
	"github.com/someonesomewheredev/polysynth/internal/engine"
	"github.com/someonesomewheredev/polysynth/internal/wave"
	"github.com/someonesomewheredev/polysynth/preset"
)

// NumVoices is the fixed polyphony of the voice pool.
const NumVoices = engine.NumVoices

// ScopeLen is the maximum number of frames returned by Scope.
const ScopeLen = engine.ScopeLen

// Waveform selects the oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSaw
	WaveSquare
	WaveTriangle
)

func (w Waveform) String() string { return wave.Waveform(w).String() }

// Next cycles to the following waveform, wrapping back to sine.
func (w Waveform) Next() Waveform {
	return Waveform(wave.Waveform(w).Next())
}

func ParseWaveform(s string) (Waveform, error) {
	switch strings.ToLower(s) {
	case "sine":
		return WaveSine, nil
	case "saw", "sawtooth":
		return WaveSaw, nil
	case "square":
		return WaveSquare, nil
	case "triangle":
		return WaveTriangle, nil
	}
	return WaveSine, fmt.Errorf("unknown waveform %q", s)
}

// OctaveMode layers extra notes an octave apart on top of every trigger.
type OctaveMode int

const (
	OctaveSingle OctaveMode = iota
	OctaveDouble
	OctaveTriple
	OctaveQuadruple
)

func (m OctaveMode) String() string {
	switch m {
	case OctaveSingle:
		return "single"
	case OctaveDouble:
		return "double"
	case OctaveTriple:
		return "triple"
	case OctaveQuadruple:
		return "quadruple"
	}
	return "unknown"
}

// Next cycles to the following octave mode, wrapping back to single.
func (m OctaveMode) Next() OctaveMode {
	return (m + 1) % 4
}

func ParseOctaveMode(s string) (OctaveMode, error) {
	switch strings.ToLower(s) {
	case "single", "":
		return OctaveSingle, nil
	case "double":
		return OctaveDouble, nil
	case "triple":
		return OctaveTriple, nil
	case "quadruple":
		return OctaveQuadruple, nil
	}
	return OctaveSingle, fmt.Errorf("unknown octave mode %q", s)
}

// VoiceState is a presentation snapshot of one voice slot.
type VoiceState struct {
	Note        int
	Held        bool
	Finished    bool
	Attenuation float64
}

type Option func(*config)

type config struct {
	curve     adsr.Curve
	waveform  Waveform
	output    bool
	preset    preset.Preset
	hasPreset bool
}

func defaultConfig() config {
	return config{
		curve:    adsr.Default(),
		waveform: WaveSine,
		output:   true,
	}
}

// WithEnvelope sets the ADSR curve: attack, decay and release in seconds,
// sustain as a level in [0, 1]. The curve is fixed for the synth's lifetime.
func WithEnvelope(attack, decay, sustain, release float64) Option {
	return func(cfg *config) {
		cfg.curve = adsr.Curve{Attack: attack, Decay: decay, Sustain: sustain, Release: release}
	}
}

func WithWaveform(w Waveform) Option {
	return func(cfg *config) {
		cfg.waveform = w
	}
}

// WithPreset applies a full parameter set, envelope included.
func WithPreset(p preset.Preset) Option {
	return func(cfg *config) {
		cfg.preset = p
		cfg.hasPreset = true
	}
}

// WithoutOutput builds the synth without opening an audio device. Used for
// offline rendering and tests.
func WithoutOutput() Option {
	return func(cfg *config) {
		cfg.output = false
	}
}

// Synth owns the voice engine and, unless built WithoutOutput, the audio
// output stream pulling from it. All methods are safe to call while audio
// runs; none of them ever block the audio thread.
type Synth struct {
	mu         sync.Mutex
	engine     *engine.Engine
	audio      *audio.Player
	sampleRate int
	octave     atomic.Int32
}

func New(sampleRate int, opts ...Option) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasPreset {
		env := cfg.preset.Envelope
		cfg.curve = adsr.Curve{Attack: env.Attack, Decay: env.Decay, Sustain: env.Sustain, Release: env.Release}
	}

	eng := engine.New(sampleRate, cfg.curve)
	eng.SetWaveform(wave.Waveform(cfg.waveform))
	s := &Synth{engine: eng, sampleRate: sampleRate}
	if cfg.hasPreset {
		if err := s.ApplyPreset(cfg.preset); err != nil {
			return nil, err
		}
	}
	if cfg.output {
		pl, err := audio.NewPlayer(sampleRate, eng)
		if err != nil {
			return nil, err
		}
		s.audio = pl
	}
	return s, nil
}

func (s *Synth) SampleRate() int { return s.sampleRate }

// Now returns the synthesis clock in seconds: how much audio has been
// rendered so far.
func (s *Synth) Now() float64 { return s.engine.Now() }

// Start begins audio playback. No-op when built WithoutOutput.
func (s *Synth) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio != nil {
		s.audio.Play()
	}
}

func (s *Synth) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio != nil {
		s.audio.Pause()
	}
}

func (s *Synth) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio == nil {
		return nil
	}
	err := s.audio.Stop()
	s.audio = nil
	return err
}

// Playing reports whether the audio stream is currently running.
func (s *Synth) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio != nil && s.audio.IsPlaying()
}

// Position returns the playback position the listener actually hears. It is
// zero when built WithoutOutput.
func (s *Synth) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio == nil {
		return 0
	}
	return s.audio.Position()
}

// NoteOn triggers a note press timestamped with the synthesis clock, layering
// extra octaves per the current octave mode.
func (s *Synth) NoteOn(note int) { s.NoteOnAt(note, s.engine.Now()) }

// NoteOff releases a note (and its octave layers) timestamped with the
// synthesis clock.
func (s *Synth) NoteOff(note int) { s.NoteOffAt(note, s.engine.Now()) }

// NoteOnAt triggers a note press at an explicit time on the synthesis clock,
// for callers that keep their own event clock.
func (s *Synth) NoteOnAt(note int, t float64) {
	layers := int(s.octave.Load())
	for i := 0; i <= layers; i++ {
		s.engine.NoteOn(note+12*i, t)
	}
}

func (s *Synth) NoteOffAt(note int, t float64) {
	layers := int(s.octave.Load())
	for i := 0; i <= layers; i++ {
		s.engine.NoteOff(note+12*i, t)
	}
}

// Parameter surface. Each of these maps to a single atomic scalar read by
// the render loop every callback.

func (s *Synth) SetWaveform(w Waveform) { s.engine.SetWaveform(wave.Waveform(w)) }
func (s *Synth) Waveform() Waveform     { return Waveform(s.engine.Waveform()) }

// CycleWaveform advances to the next waveform and returns it.
func (s *Synth) CycleWaveform() Waveform {
	next := s.Waveform().Next()
	s.SetWaveform(next)
	return next
}

func (s *Synth) SetUnisonEnabled(on bool)       { s.engine.SetUnisonEnabled(on) }
func (s *Synth) UnisonEnabled() bool            { return s.engine.UnisonEnabled() }
func (s *Synth) SetUnisonOrder(order int)       { s.engine.SetUnisonOrder(order) }
func (s *Synth) UnisonOrder() int               { return s.engine.UnisonOrder() }
func (s *Synth) SetUnisonDetune(amount float64) { s.engine.SetUnisonDetune(amount) }
func (s *Synth) UnisonDetune() float64          { return s.engine.UnisonDetune() }
func (s *Synth) SetGoofyUnison(on bool)         { s.engine.SetGoofyUnison(on) }
func (s *Synth) GoofyUnison() bool              { return s.engine.GoofyUnison() }

func (s *Synth) SetBitcrushEnabled(on bool)   { s.engine.SetBitcrushEnabled(on) }
func (s *Synth) BitcrushEnabled() bool        { return s.engine.BitcrushEnabled() }
func (s *Synth) SetBitcrushBits(bits float64) { s.engine.SetBitcrushBits(bits) }
func (s *Synth) BitcrushBits() float64        { return s.engine.BitcrushBits() }
func (s *Synth) SetCompressorEnabled(on bool) { s.engine.SetCompressorEnabled(on) }
func (s *Synth) CompressorEnabled() bool      { return s.engine.CompressorEnabled() }

// SetMasterVolume sets the output volume scalar, clamped to >= 0.
func (s *Synth) SetMasterVolume(volume float64) { s.engine.SetMasterGain(volume) }
func (s *Synth) MasterVolume() float64          { return s.engine.MasterGain() }

func (s *Synth) SetOctaveMode(m OctaveMode) {
	if m < OctaveSingle || m > OctaveQuadruple {
		m = OctaveSingle
	}
	s.octave.Store(int32(m))
}

func (s *Synth) OctaveMode() OctaveMode { return OctaveMode(s.octave.Load()) }

// CycleOctaveMode advances to the next octave mode and returns it.
func (s *Synth) CycleOctaveMode() OctaveMode {
	next := s.OctaveMode().Next()
	s.SetOctaveMode(next)
	return next
}

// Presentation snapshots, polled once per frame by the display layer.

// Voices returns a snapshot of the voice pool.
func (s *Synth) Voices() []VoiceState {
	buf := make([]engine.VoiceState, engine.NumVoices)
	n := s.engine.VoiceStates(buf)
	out := make([]VoiceState, n)
	for i := 0; i < n; i++ {
		out[i] = VoiceState(buf[i])
	}
	return out
}

// Scope copies the most recently rendered stereo buffer into dstL/dstR and
// returns the number of frames copied.
func (s *Synth) Scope(dstL, dstR []float32) int { return s.engine.Scope(dstL, dstR) }

// Clipped reports whether the last rendered buffer left [-1, 1].
func (s *Synth) Clipped() bool { return s.engine.Clipped() }

// Peak returns the largest absolute sample of the last rendered buffer.
func (s *Synth) Peak() float32 { return s.engine.Peak() }

// ActiveVoiceCount returns the number of voices still sounding, release
// tails included.
func (s *Synth) ActiveVoiceCount() int { return s.engine.ActiveVoiceCount() }

// ApplyPreset applies everything in p except the envelope, which is fixed at
// construction (pass the preset to New via WithPreset to take the envelope).
func (s *Synth) ApplyPreset(p preset.Preset) error {
	w, err := ParseWaveform(p.Waveform)
	if err != nil {
		return err
	}
	m, err := ParseOctaveMode(p.OctaveMode)
	if err != nil {
		return err
	}
	s.SetWaveform(w)
	s.SetMasterVolume(p.Volume)
	s.SetOctaveMode(m)
	s.SetUnisonEnabled(p.Unison.Enabled)
	s.SetUnisonOrder(p.Unison.Order)
	s.SetUnisonDetune(p.Unison.Detune)
	s.SetGoofyUnison(p.Unison.Goofy)
	s.SetBitcrushEnabled(p.Bitcrush.Enabled)
	s.SetBitcrushBits(p.Bitcrush.Bits)
	s.SetCompressorEnabled(p.Compressor)
	return nil
}

// CurrentPreset captures the live parameter set, envelope included.
func (s *Synth) CurrentPreset() preset.Preset {
	curve := s.engine.Curve()
	return preset.Preset{
		Waveform:   s.Waveform().String(),
		Volume:     s.MasterVolume(),
		OctaveMode: s.OctaveMode().String(),
		Envelope: preset.Envelope{
			Attack:  curve.Attack,
			Decay:   curve.Decay,
			Sustain: curve.Sustain,
			Release: curve.Release,
		},
		Unison: preset.Unison{
			Enabled: s.UnisonEnabled(),
			Order:   s.UnisonOrder(),
			Detune:  s.UnisonDetune(),
			Goofy:   s.GoofyUnison(),
		},
		Bitcrush: preset.Bitcrush{
			Enabled: s.BitcrushEnabled(),
			Bits:    s.BitcrushBits(),
		},
		Compressor: s.CompressorEnabled(),
	}
}
