// Interactive keyboard synth: two QWERTY rows of notes, function keys for
// the effect toggles, an on-screen voice/scope display, optional MIDI input.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/someonesomewheredev/polysynth"
	"github.com/someonesomewheredev/polysynth/internal/midiin"
	"github.com/someonesomewheredev/polysynth/preset"
)

const (
	windowW = 800
	windowH = 600
)

// noteKeys maps the two playing rows to semitone numbers: the Z row starts
// at C3 (48), the Q row at C4 (60).
var noteKeys = map[ebiten.Key]int{
	ebiten.KeyZ:            48,
	ebiten.KeyS:            49,
	ebiten.KeyX:            50,
	ebiten.KeyD:            51,
	ebiten.KeyC:            52,
	ebiten.KeyV:            53,
	ebiten.KeyG:            54,
	ebiten.KeyB:            55,
	ebiten.KeyH:            56,
	ebiten.KeyN:            57,
	ebiten.KeyJ:            58,
	ebiten.KeyM:            59,
	ebiten.KeyComma:        60,
	ebiten.KeyL:            61,
	ebiten.KeyPeriod:       62,
	ebiten.KeySemicolon:    63,
	ebiten.KeySlash:        64,
	ebiten.KeyQ:            60,
	ebiten.KeyDigit2:       61,
	ebiten.KeyW:            62,
	ebiten.KeyDigit3:       63,
	ebiten.KeyE:            64,
	ebiten.KeyR:            65,
	ebiten.KeyDigit5:       66,
	ebiten.KeyT:            67,
	ebiten.KeyDigit6:       68,
	ebiten.KeyY:            69,
	ebiten.KeyDigit7:       70,
	ebiten.KeyU:            71,
	ebiten.KeyI:            72,
	ebiten.KeyDigit9:       73,
	ebiten.KeyO:            74,
	ebiten.KeyDigit0:       75,
	ebiten.KeyP:            76,
	ebiten.KeyBracketLeft:  77,
	ebiten.KeyEqual:        78,
	ebiten.KeyBracketRight: 79,
}

type game struct {
	synth  *polysynth.Synth
	offset int // keyboard transpose in semitones

	// held tracks which note each key actually triggered, so a transpose
	// mid-press still releases the right note.
	held map[ebiten.Key]int

	scopeL []float32
	scopeR []float32
}

func newGame(s *polysynth.Synth) *game {
	return &game{
		synth:  s,
		held:   make(map[ebiten.Key]int),
		scopeL: make([]float32, polysynth.ScopeLen),
		scopeR: make([]float32, polysynth.ScopeLen),
	}
}

func (g *game) Update() error {
	g.handleControls()

	for key, note := range noteKeys {
		if inpututil.IsKeyJustPressed(key) {
			n := note + g.offset
			g.held[key] = n
			g.synth.NoteOn(n)
		}
		if inpututil.IsKeyJustReleased(key) {
			if n, ok := g.held[key]; ok {
				g.synth.NoteOff(n)
				delete(g.held, key)
			}
		}
	}
	return nil
}

func (g *game) handleControls() {
	s := g.synth
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		s.CycleWaveform()
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		s.SetUnisonEnabled(!s.UnisonEnabled())
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		s.SetGoofyUnison(!s.GoofyUnison())
	case inpututil.IsKeyJustPressed(ebiten.KeyF4):
		s.SetBitcrushEnabled(!s.BitcrushEnabled())
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		s.SetCompressorEnabled(!s.CompressorEnabled())
	case inpututil.IsKeyJustPressed(ebiten.KeyF6):
		s.CycleOctaveMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyF7):
		s.SetBitcrushBits(s.BitcrushBits() - 0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyF8):
		s.SetBitcrushBits(s.BitcrushBits() + 0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.offset -= 12
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.offset += 12
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		s.SetMasterVolume(s.MasterVolume() + 0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		s.SetMasterVolume(s.MasterVolume() - 0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		s.SetUnisonDetune(s.UnisonDetune() + 0.0001)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		s.SetUnisonDetune(s.UnisonDetune() - 0.0001)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if s.Playing() {
			s.Pause()
		} else {
			s.Start()
		}
	}
}

var (
	tileOff   = color.RGBA{0, 50, 0, 255}
	noteColor = color.RGBA{255, 255, 255, 255}
	clipColor = color.RGBA{255, 0, 0, 255}
	vuColor   = color.RGBA{0, 255, 0, 255}
	uniColor  = color.RGBA{0, 255, 0, 255}
	waveColor = color.RGBA{255, 255, 255, 255}
)

func (g *game) Draw(screen *ebiten.Image) {
	s := g.synth

	// Voice tiles: blue intensity follows each voice's envelope.
	voices := s.Voices()
	for i, v := range voices {
		level := v.Attenuation
		if level < 0 {
			level = 0
		}
		if level > 1 {
			level = 1
		}
		col := color.RGBA{0, 50, uint8(level * 255), 255}
		if v.Finished {
			col = tileOff
		}
		x := float64((i % 11) * 72)
		y := 20 + float64((i/11)*72)
		ebitenutil.DrawRect(screen, x, y, 64, 64, col)
		if v.Held {
			ebitenutil.DrawRect(screen, float64(v.Note*6), 184, 5, 20, noteColor)
		}
	}

	// Last rendered buffer, both channels.
	n := s.Scope(g.scopeL, g.scopeR)
	drawScope(screen, g.scopeL[:n], 40, 300)
	drawScope(screen, g.scopeR[:n], 40, 400)

	// Diagnostics row.
	if s.Clipped() {
		ebitenutil.DrawRect(screen, 40, 470, 64, 64, clipColor)
		ebitenutil.DebugPrintAt(screen, "clipping!", 40, 540)
	}
	vuH := float64(s.Peak()) * 128
	ebitenutil.DrawRect(screen, 120, 534-vuH, 24, vuH, vuColor)
	ebitenutil.DebugPrintAt(screen, "vu", 120, 540)
	if s.UnisonEnabled() {
		uniH := s.UnisonDetune() * 4800 * 16
		ebitenutil.DrawRect(screen, 160, 534-uniH, 24, uniH, uniColor)
		ebitenutil.DebugPrintAt(screen, "unison", 160, 540)
	}

	status := fmt.Sprintf(
		"wave:%s [F1]  unison:%v [F2]  goofy:%v [F3]  crush:%v %.1f [F4/F7/F8]\ncomp:%v [F5]  octave mode:%s [F6]  transpose:%+d [PgUp/PgDn]  vol:%.1f [Up/Dn]  detune:%.4f [Lt/Rt]  pos:%.1fs [Space]",
		s.Waveform(), s.UnisonEnabled(), s.GoofyUnison(), s.BitcrushEnabled(), s.BitcrushBits(),
		s.CompressorEnabled(), s.OctaveMode(), g.offset/12, s.MasterVolume(), s.UnisonDetune(), s.Position().Seconds(),
	)
	ebitenutil.DebugPrintAt(screen, status, 8, windowH-36)
}

// drawScope plots one channel of the last buffer as a polyline around midY.
func drawScope(dst *ebiten.Image, samples []float32, x0, midY float64) {
	if len(samples) < 2 {
		return
	}
	step := float64(len(samples)) / 512
	prevX, prevY := x0, midY+float64(samples[0])*80
	for i := 1; i < 512; i++ {
		idx := int(float64(i) * step)
		if idx >= len(samples) {
			break
		}
		x := x0 + float64(i)
		y := midY + float64(samples[idx])*80
		ebitenutil.DrawLine(dst, prevX, prevY, x, y, waveColor)
		prevX, prevY = x, y
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowW, windowH
}

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		presetPath = flag.String("preset", "", "path to a YAML preset file")
		listMIDI   = flag.Bool("list-midi", false, "list MIDI input ports and exit")
		midiPort   = flag.Int("midi-port", -1, "MIDI input port index (-1 = disabled)")
		midiName   = flag.String("midi-name", "", "open the first MIDI port with this name prefix")
	)
	flag.Parse()

	opts := []polysynth.Option{}
	if *presetPath != "" {
		p, err := preset.Load(*presetPath)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, polysynth.WithPreset(p))
	}
	s, err := polysynth.New(*sampleRate, opts...)
	if err != nil {
		log.Fatal(err)
	}

	if *listMIDI || *midiPort >= 0 || *midiName != "" {
		mc := midiin.NewContext(func(note int, on bool) {
			if on {
				s.NoteOn(note)
			} else {
				s.NoteOff(note)
			}
		})
		defer mc.Close()
		if *listMIDI {
			for i, name := range mc.Ports() {
				fmt.Printf("port %d: %s\n", i, name)
			}
			return
		}
		if *midiName != "" {
			err = mc.OpenByName(*midiName)
		} else {
			err = mc.Open(*midiPort)
		}
		if err != nil {
			log.Printf("midi: %v (keyboard input still works)", err)
		}
	}

	s.Start()
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("polysynth")
	if err := ebiten.RunGame(newGame(s)); err != nil {
		log.Fatal(err)
	}
}
