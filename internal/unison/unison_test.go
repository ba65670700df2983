package unison

import (
	"math"
	"testing"

	"github.com/someonesomewheredev/polysynth/internal/wave"
)

func TestOrderOneDegeneratesToPlainWave(t *testing.T) {
	for i := 0; i < 1000; i++ {
		tm := float64(i) / 44100
		l, r := Render(wave.SineWave, tm, 440, 1, 0.01, false)
		want := wave.SineWave(tm, 440)
		if math.Abs(l-want) > 1e-12 || math.Abs(r-want) > 1e-12 {
			t.Fatalf("order=1 at t=%f: got (%f, %f), want %f on both channels", tm, l, r, want)
		}
	}
}

func TestPanGains(t *testing.T) {
	cases := []struct {
		pan   float64
		wantL float64
		wantR float64
	}{
		{-1, 1, 0},
		{-0.5, 1, 0.5},
		{0, 1, 1},
		{0.5, 0.5, 1},
		{1, 0, 1},
	}
	for _, tc := range cases {
		l, r := PanGains(tc.pan)
		if l != tc.wantL || r != tc.wantR {
			t.Errorf("PanGains(%f) = (%f, %f), want (%f, %f)", tc.pan, l, r, tc.wantL, tc.wantR)
		}
	}
}

func TestPanSpreadsAcrossField(t *testing.T) {
	const order = 8
	if got := Pan(0, order); got != -1 {
		t.Fatalf("first tap pan = %f, want -1", got)
	}
	prev := -2.0
	for i := 0; i < order; i++ {
		p := Pan(i, order)
		if p <= prev {
			t.Fatalf("pans should increase: Pan(%d)=%f, prev %f", i, p, prev)
		}
		if p < -1 || p > 1 {
			t.Fatalf("Pan(%d) = %f out of range", i, p)
		}
		prev = p
	}
	if got := Pan(0, 1); got != 0 {
		t.Fatalf("single tap should pan center, got %f", got)
	}
}

func TestDetuneCurves(t *testing.T) {
	const amount = 0.0025
	if got := Detune(0, 16, amount, false); got != 0 {
		t.Fatalf("tap 0 should not detune, got %f", got)
	}
	// Normal mode matches i*sin(i/order)*amount.
	for i := 0; i < 16; i++ {
		want := float64(i) * math.Sin(float64(i)/16) * amount
		if got := Detune(i, 16, amount, false); got != want {
			t.Fatalf("Detune(%d) = %g, want %g", i, got, want)
		}
	}
	// Goofy mode is symmetric around the middle tap.
	if got := Detune(8, 16, amount, true); got != 0 {
		t.Fatalf("goofy center tap should not detune, got %f", got)
	}
	lo := Detune(0, 16, amount, true)
	hi := Detune(16, 16, amount, true)
	if lo != -hi {
		t.Fatalf("goofy detune should be symmetric: %g vs %g", lo, hi)
	}
}

func TestRenderStaysBounded(t *testing.T) {
	for i := 0; i < 5000; i++ {
		tm := float64(i) / 44100
		l, r := Render(wave.SawWave, tm, 220, 16, 0.0025, false)
		if math.Abs(l) > 1 || math.Abs(r) > 1 {
			t.Fatalf("unison output out of range at t=%f: (%f, %f)", tm, l, r)
		}
	}
}
