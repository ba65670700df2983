package polysynth

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestRenderEventsProducesBoundedAudio(t *testing.T) {
	samples, err := RenderEvents(Note(69, 0, 0.5), 44100, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(samples) != 44100*2 {
		t.Fatalf("len = %d, want %d", len(samples), 44100*2)
	}
	var maxAbs float64
	for _, v := range samples {
		if a := math.Abs(float64(v)); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		t.Fatal("expected non-silent output")
	}
	if maxAbs > 1 {
		t.Fatalf("single default voice should stay in range, peak %f", maxAbs)
	}
}

func TestRenderEventsReleaseTailDecaysToSilence(t *testing.T) {
	// Note off at 0.2s, release 0.1s: the last half of a 1s render is silent.
	samples, err := RenderEvents(Note(60, 0, 0.2), 44100, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := len(samples) / 2; i < len(samples); i++ {
		if samples[i] != 0 {
			t.Fatalf("expected silence after release tail, got %f at sample %d", samples[i], i)
		}
	}
}

func TestRenderEventsChordUsesDistinctVoices(t *testing.T) {
	events := append(Note(60, 0, 0.8), Note(64, 0, 0.8)...)
	events = append(events, Note(67, 0, 0.8)...)
	chord, err := RenderEvents(events, 44100, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	single, err := RenderEvents(Note(60, 0, 0.8), 44100, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var chordE, singleE float64
	for i := range chord {
		chordE += float64(chord[i]) * float64(chord[i])
		singleE += float64(single[i]) * float64(single[i])
	}
	if chordE <= singleE {
		t.Fatalf("three voices should carry more energy than one: %f vs %f", chordE, singleE)
	}
}

func TestRenderEventsHonorsOptions(t *testing.T) {
	loud, err := RenderEvents(Note(69, 0, 0.5), 44100, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	quietOpt := WithEnvelope(0.01, 0.65, 0.1, 0.1) // low sustain
	quiet, err := RenderEvents(Note(69, 0, 0.5), 44100, 1, quietOpt)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var loudE, quietE float64
	for i := range loud {
		loudE += float64(loud[i]) * float64(loud[i])
		quietE += float64(quiet[i]) * float64(quiet[i])
	}
	if quietE >= loudE {
		t.Fatalf("low-sustain envelope should be quieter: %f vs %f", quietE, loudE)
	}
}

func TestRenderEventsRejectsBadLength(t *testing.T) {
	if _, err := RenderEvents(nil, 44100, 0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestEncodeWAVFloat32LEHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	wav := EncodeWAVFloat32LE(samples, 44100, 2)
	if len(wav) != 44+len(samples)*4 {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(samples)*4)
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if format := binary.LittleEndian.Uint16(wav[20:]); format != 3 {
		t.Fatalf("format tag = %d, want 3 (IEEE float)", format)
	}
	if ch := binary.LittleEndian.Uint16(wav[22:]); ch != 2 {
		t.Fatalf("channels = %d, want 2", ch)
	}
	if sr := binary.LittleEndian.Uint32(wav[24:]); sr != 44100 {
		t.Fatalf("sample rate = %d, want 44100", sr)
	}
	if ds := binary.LittleEndian.Uint32(wav[40:]); ds != uint32(len(samples)*4) {
		t.Fatalf("data size = %d, want %d", ds, len(samples)*4)
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(wav[48:])); v != 0.5 {
		t.Fatalf("second sample = %f, want 0.5", v)
	}
}
