// Package preset loads and saves synth parameter sets as YAML files.
package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Envelope struct {
	Attack  float64 `yaml:"attack"`
	Decay   float64 `yaml:"decay"`
	Sustain float64 `yaml:"sustain"`
	Release float64 `yaml:"release"`
}

type Unison struct {
	Enabled bool    `yaml:"enabled"`
	Order   int     `yaml:"order"`
	Detune  float64 `yaml:"detune"`
	Goofy   bool    `yaml:"goofy"`
}

type Bitcrush struct {
	Enabled bool    `yaml:"enabled"`
	Bits    float64 `yaml:"bits"`
}

type Preset struct {
	Waveform   string   `yaml:"waveform"`
	Volume     float64  `yaml:"volume"`
	OctaveMode string   `yaml:"octave_mode"`
	Envelope   Envelope `yaml:"envelope"`
	Unison     Unison   `yaml:"unison"`
	Bitcrush   Bitcrush `yaml:"bitcrush"`
	Compressor bool     `yaml:"compressor"`
}

// Default mirrors the synth's startup state.
func Default() Preset {
	return Preset{
		Waveform:   "sine",
		Volume:     1,
		OctaveMode: "single",
		Envelope: Envelope{
			Attack:  0.01,
			Decay:   0.65,
			Sustain: 0.8,
			Release: 0.1,
		},
		Unison: Unison{
			Enabled: false,
			Order:   16,
			Detune:  0.0025,
		},
		Bitcrush: Bitcrush{
			Enabled: false,
			Bits:    16,
		},
		Compressor: false,
	}
}

// Load reads a preset file. Fields absent from the file keep their defaults.
func Load(path string) (Preset, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return p, nil
}

// Save writes the preset as YAML.
func Save(path string, p Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
