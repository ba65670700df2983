package adsr

import (
	"math"
	"testing"
)

func TestAttackRampsMonotonically(t *testing.T) {
	c := Default()
	prev := -1.0
	for i := 0; i <= 100; i++ {
		tm := c.Attack * float64(i) / 100
		att := ADS(c, tm)
		if att < prev {
			t.Fatalf("attack not monotonic at t=%f: %f < %f", tm, att, prev)
		}
		prev = att
	}
	if math.Abs(prev-1) > 1e-9 {
		t.Fatalf("attack should end at 1, got %f", prev)
	}
}

func TestDecaySlidesToSustain(t *testing.T) {
	c := Default()
	prev := math.Inf(1)
	for i := 0; i <= 100; i++ {
		tm := c.Attack + c.Decay*float64(i)/100
		att := ADS(c, tm)
		if att > prev+1e-12 {
			t.Fatalf("decay not non-increasing at t=%f: %f > %f", tm, att, prev)
		}
		prev = att
	}
	if math.Abs(prev-c.Sustain) > 1e-9 {
		t.Fatalf("decay should end at sustain %f, got %f", c.Sustain, prev)
	}
	// Past the decay the level just holds.
	if got := ADS(c, c.Attack+c.Decay*10); math.Abs(got-c.Sustain) > 1e-9 {
		t.Fatalf("sustain hold = %f, want %f", got, c.Sustain)
	}
}

func TestReleaseRampsToZero(t *testing.T) {
	c := Default()
	if got := ReleaseAtten(c, 0); math.Abs(got-c.Sustain) > 1e-9 {
		t.Fatalf("release starts at %f, want sustain %f", got, c.Sustain)
	}
	if got := ReleaseAtten(c, c.Release); got != 0 {
		t.Fatalf("release at full duration = %f, want 0", got)
	}
	if got := ReleaseAtten(c, c.Release*2); got != 0 {
		t.Fatalf("release stays 0 past duration, got %f", got)
	}
	prev := math.Inf(1)
	for i := 0; i <= 50; i++ {
		att := ReleaseAtten(c, c.Release*float64(i)/50)
		if att > prev+1e-12 {
			t.Fatalf("release not non-increasing: %f > %f", att, prev)
		}
		prev = att
	}
}

func TestNegativeTimeClamps(t *testing.T) {
	c := Default()
	if got := ADS(c, -1); got != 0 {
		t.Fatalf("ADS before press = %f, want 0", got)
	}
	if got := ReleaseAtten(c, -1); math.Abs(got-c.Sustain) > 1e-9 {
		t.Fatalf("release before release time = %f, want sustain", got)
	}
}
