package wave

import "math"

// Waveform selects one of the oscillator shapes.
type Waveform int

const (
	Sine Waveform = iota
	Saw
	Square
	Triangle
	waveformCount
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Saw:
		return "saw"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	}
	return "unknown"
}

// Next cycles to the following waveform, wrapping back to Sine.
func (w Waveform) Next() Waveform {
	return (w + 1) % waveformCount
}

// Valid reports whether w names an actual waveform.
func (w Waveform) Valid() bool {
	return w >= Sine && w < waveformCount
}

// semitoneRatio is the equal-tempered ratio between adjacent semitones (2^(1/12)).
const semitoneRatio = 1.059460646483

// Pitch converts a MIDI note number to a frequency in Hz (note 69 = A4 = 440 Hz).
func Pitch(note int) float64 {
	return math.Pow(semitoneRatio, float64(note)-69) * 440
}

// Generator maps elapsed time in seconds and a frequency in Hz to a sample
// in [-1, 1]. Generators are stateless; phase is carried entirely by t*freq.
type Generator func(t, freq float64) float64

func SineWave(t, freq float64) float64 {
	return math.Sin(t * freq * 2 * math.Pi)
}

func SawWave(t, freq float64) float64 {
	return math.Mod(t*freq, 1)*2 - 1
}

// SquareWave is the sign of the sine generator, not an independent phase
// computation, so the two stay aligned for any (t, freq).
func SquareWave(t, freq float64) float64 {
	if SineWave(t, freq) > 0 {
		return 1
	}
	return -1
}

func TriangleWave(t, freq float64) float64 {
	return math.Abs(SawWave(t, freq))*2 - 1
}

// ForWaveform returns the generator function for w. Unknown values fall back
// to sine.
func ForWaveform(w Waveform) Generator {
	switch w {
	case Saw:
		return SawWave
	case Square:
		return SquareWave
	case Triangle:
		return TriangleWave
	}
	return SineWave
}

// Sample evaluates waveform w at (t, freq).
func Sample(w Waveform, t, freq float64) float64 {
	return ForWaveform(w)(t, freq)
}
