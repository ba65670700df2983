package polysynth

import (
	"testing"

	"github.com/someonesomewheredev/polysynth/preset"
)

func newHeadless(t *testing.T, opts ...Option) *Synth {
	t.Helper()
	s, err := New(44100, append(opts, WithoutOutput())...)
	if err != nil {
		t.Fatalf("new synth: %v", err)
	}
	return s
}

func TestDefaultsMatchStartupState(t *testing.T) {
	s := newHeadless(t)
	if got := s.Waveform(); got != WaveSine {
		t.Errorf("default waveform = %s, want sine", got)
	}
	if s.UnisonEnabled() {
		t.Error("unison should start disabled")
	}
	if got := s.UnisonOrder(); got != 16 {
		t.Errorf("default unison order = %d, want 16", got)
	}
	if got := s.UnisonDetune(); got != 0.0025 {
		t.Errorf("default detune = %f, want 0.0025", got)
	}
	if got := s.BitcrushBits(); got != 16 {
		t.Errorf("default crush bits = %f, want 16", got)
	}
	if s.BitcrushEnabled() || s.CompressorEnabled() {
		t.Error("effects should start disabled")
	}
	if got := s.MasterVolume(); got != 1 {
		t.Errorf("default master volume = %f, want 1", got)
	}
	if got := s.OctaveMode(); got != OctaveSingle {
		t.Errorf("default octave mode = %s, want single", got)
	}
}

func TestMasterVolumeClamps(t *testing.T) {
	s := newHeadless(t)
	s.SetMasterVolume(0.35)
	if got := s.MasterVolume(); got != 0.35 {
		t.Fatalf("master volume = %v, want 0.35", got)
	}
	s.SetMasterVolume(-2)
	if got := s.MasterVolume(); got != 0 {
		t.Fatalf("master volume should clamp to 0, got %v", got)
	}
}

func TestBitcrushBitsClampThroughFacade(t *testing.T) {
	s := newHeadless(t)
	s.SetBitcrushBits(0.2)
	if got := s.BitcrushBits(); got != 1 {
		t.Fatalf("bits = %f, want clamp to 1", got)
	}
	s.SetBitcrushBits(64)
	if got := s.BitcrushBits(); got != 31 {
		t.Fatalf("bits = %f, want clamp to 31", got)
	}
}

func TestOctaveModeExpandsNoteEvents(t *testing.T) {
	cases := []struct {
		mode      OctaveMode
		wantNotes []int
	}{
		{OctaveSingle, []int{60}},
		{OctaveDouble, []int{60, 72}},
		{OctaveTriple, []int{60, 72, 84}},
		{OctaveQuadruple, []int{60, 72, 84, 96}},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			s := newHeadless(t)
			s.SetOctaveMode(tc.mode)
			s.NoteOn(60)
			buf := make([]float32, 128)
			s.engine.Process(buf)

			held := map[int]bool{}
			for _, v := range s.Voices() {
				if v.Held {
					held[v.Note] = true
				}
			}
			if len(held) != len(tc.wantNotes) {
				t.Fatalf("held %d notes, want %d (%v)", len(held), len(tc.wantNotes), held)
			}
			for _, n := range tc.wantNotes {
				if !held[n] {
					t.Errorf("note %d not held", n)
				}
			}

			// Releasing the base note releases the whole layer stack.
			s.NoteOff(60)
			s.engine.Process(buf)
			for _, v := range s.Voices() {
				if v.Held {
					t.Errorf("note %d still held after note-off", v.Note)
				}
			}
		})
	}
}

func TestCycleWaveformWraps(t *testing.T) {
	s := newHeadless(t)
	want := []Waveform{WaveSaw, WaveSquare, WaveTriangle, WaveSine}
	for _, w := range want {
		if got := s.CycleWaveform(); got != w {
			t.Fatalf("cycle = %s, want %s", got, w)
		}
	}
}

func TestParseWaveform(t *testing.T) {
	for s, want := range map[string]Waveform{
		"sine": WaveSine, "saw": WaveSaw, "sawtooth": WaveSaw,
		"Square": WaveSquare, "TRIANGLE": WaveTriangle,
	} {
		got, err := ParseWaveform(s)
		if err != nil || got != want {
			t.Errorf("ParseWaveform(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	if _, err := ParseWaveform("noise"); err == nil {
		t.Error("expected error for unknown waveform")
	}
}

func TestPresetRoundTrip(t *testing.T) {
	p := preset.Preset{
		Waveform:   "triangle",
		Volume:     0.7,
		OctaveMode: "double",
		Envelope:   preset.Envelope{Attack: 0.02, Decay: 0.3, Sustain: 0.5, Release: 0.25},
		Unison:     preset.Unison{Enabled: true, Order: 8, Detune: 0.004, Goofy: true},
		Bitcrush:   preset.Bitcrush{Enabled: true, Bits: 8.5},
		Compressor: true,
	}
	s := newHeadless(t, WithPreset(p))
	got := s.CurrentPreset()
	if got != p {
		t.Fatalf("preset round trip mismatch:\ngot  %+v\nwant %+v", got, p)
	}
}

func TestInvalidPresetRejected(t *testing.T) {
	p := preset.Default()
	p.Waveform = "noise"
	if _, err := New(44100, WithPreset(p), WithoutOutput()); err == nil {
		t.Fatal("expected error for preset with unknown waveform")
	}
}

func TestHeadlessSynthHasNoPlayback(t *testing.T) {
	s := newHeadless(t)
	if s.Playing() {
		t.Error("headless synth should not report playback")
	}
	if got := s.Position(); got != 0 {
		t.Errorf("headless position = %v, want 0", got)
	}
	s.Start() // no-op without a device
	if s.Playing() {
		t.Error("Start without a device should stay stopped")
	}
}

func TestInvalidSampleRateRejected(t *testing.T) {
	if _, err := New(0, WithoutOutput()); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}
