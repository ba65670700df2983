package polysynth

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
)

// Event is a timed note trigger for offline rendering. Time is seconds from
// the start of the render.
type Event struct {
	Time float64
	Note int
	On   bool
}

// Note builds the on/off event pair for one note held from on to off.
func Note(note int, on, off float64) []Event {
	return []Event{
		{Time: on, Note: note, On: true},
		{Time: off, Note: note, On: false},
	}
}

// renderBlock is the offline processing granularity in frames. Events are
// injected at block boundaries, but they carry their own timestamps, so
// envelope positions stay exact regardless of the block size.
const renderBlock = 128

// RenderEvents renders a timed note-event list to interleaved stereo float32
// samples without touching an audio device. The synth starts from its
// defaults plus opts, exactly as for live use.
func RenderEvents(events []Event, sampleRate int, seconds float64, opts ...Option) ([]float32, error) {
	if seconds <= 0 {
		return nil, errors.New("seconds must be positive")
	}
	s, err := New(sampleRate, append(opts, WithoutOutput())...)
	if err != nil {
		return nil, err
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*2)
	idx := 0
	for f := 0; f < frames; f += renderBlock {
		n := renderBlock
		if f+n > frames {
			n = frames - f
		}
		blockStart := float64(f) / float64(sampleRate)
		for idx < len(sorted) && sorted[idx].Time <= blockStart {
			ev := sorted[idx]
			idx++
			if ev.On {
				s.NoteOnAt(ev.Note, ev.Time)
			} else {
				s.NoteOffAt(ev.Note, ev.Time)
			}
		}
		s.engine.Process(out[f*2 : (f+n)*2])
	}
	return out, nil
}

// EncodeWAVFloat32LE wraps interleaved float32 samples in a WAV container
// (IEEE float, format tag 3).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
