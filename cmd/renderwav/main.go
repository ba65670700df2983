// Offline renderer: takes a timed note list and writes a float32 WAV file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/someonesomewheredev/polysynth"
	"github.com/someonesomewheredev/polysynth/preset"
)

const defaultNotes = "60:0:1,64:0.25:1.25,67:0.5:1.5" // C major arpeggio

func main() {
	var (
		out        = flag.String("out", "out.wav", "output WAV path")
		sampleRate = flag.Int("sample-rate", 44100, "render sample rate")
		seconds    = flag.Float64("seconds", 0, "render length (0 = last note-off + release tail)")
		notes      = flag.String("notes", defaultNotes, "comma-separated note:on:off triples (seconds)")
		presetPath = flag.String("preset", "", "path to a YAML preset file")
	)
	flag.Parse()

	events, lastOff, err := parseNotes(*notes)
	if err != nil {
		log.Fatal(err)
	}

	p := preset.Default()
	if *presetPath != "" {
		if p, err = preset.Load(*presetPath); err != nil {
			log.Fatal(err)
		}
	}

	length := *seconds
	if length <= 0 {
		length = lastOff + p.Envelope.Release + 0.05
	}

	samples, err := polysynth.RenderEvents(events, *sampleRate, length, polysynth.WithPreset(p))
	if err != nil {
		log.Fatal(err)
	}
	wav := polysynth.EncodeWAVFloat32LE(samples, *sampleRate, 2)
	if err := os.WriteFile(*out, wav, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s: %.2fs at %d Hz (%d events)\n", *out, length, *sampleRate, len(events))
}

// parseNotes decodes "note:on:off" triples into an event list and reports the
// latest note-off time.
func parseNotes(spec string) ([]polysynth.Event, float64, error) {
	var events []polysynth.Event
	var lastOff float64
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, 0, fmt.Errorf("bad note spec %q (want note:on:off)", part)
		}
		note, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, 0, fmt.Errorf("bad note in %q: %w", part, err)
		}
		on, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("bad on-time in %q: %w", part, err)
		}
		off, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("bad off-time in %q: %w", part, err)
		}
		if off < on {
			return nil, 0, fmt.Errorf("note %q releases before it starts", part)
		}
		events = append(events, polysynth.Note(note, on, off)...)
		if off > lastOff {
			lastOff = off
		}
	}
	if len(events) == 0 {
		return nil, 0, fmt.Errorf("no notes in %q", spec)
	}
	return events, lastOff, nil
}
