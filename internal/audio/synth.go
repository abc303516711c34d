package audio

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var ErrUnknownPreset = errors.New("unknown synth preset")

// steps is a one-bar, sixteen-step trigger pattern written as "x..x....".
type steps [16]bool

func pattern(s string) steps {
	var p steps
	for i := 0; i < len(s) && i < len(p); i++ {
		p[i] = s[i] == 'x'
	}
	return p
}

// preset is a drum-machine program. Patterns repeat every bar; chords
// advance one per bar.
type preset struct {
	bpm    float64
	bars   int
	chords [][]float64

	kick, snare, hat, openHat, ride, tom string
	bass, lead                           string
	tomFreq                              float64

	pad, arp, riser float64

	drums              kit
	bassTone, leadTone patch // zero uses bassPatch and leadPatch
}

func (p patch) or(d patch) patch {
	if p.level == 0 {
		return d
	}
	return p
}

var leadEnvelope = envelope{attack: 0.05, decay: 0.4, sustain: 0.5, release: 0.3}

var (
	cmaj7 = []float64{261.6, 329.6, 392.0, 493.9}
	am7   = []float64{220.0, 261.6, 329.6, 392.0}
	fmaj7 = []float64{174.6, 220.0, 261.6, 349.2}
	gmaj  = []float64{196.0, 246.9, 293.7, 392.0}
	dm7   = []float64{146.8, 174.6, 220.0, 261.6}
	emin  = []float64{164.8, 196.0, 246.9}
	amin  = []float64{110.0, 130.8, 164.8}
	fmin  = []float64{87.3, 110.0, 130.8}
)

var presets = map[string]preset{
	// One-shot intros.
	"count-in": {bpm: 100, bars: 1, hat: "x...x...x...x...", kick: "............x..."},
	"roll":     {bpm: 100, bars: 1, snare: "x...x.x.xxxxxxxx", tom: "x.......x...x.x.", tomFreq: 110, drums: kit{snareDecay: 34}},
	"riser":    {bpm: 100, bars: 1, riser: 0.9, hat: "........x.x.xxxx", chords: [][]float64{cmaj7}, pad: 0.3},

	// Loops.
	"hihat-roll": {bpm: 100, bars: 1, hat: "xxxxxxxxxxxxxxxx", openHat: "......x.......x.", drums: kit{hatDecay: 55}},
	"ride":       {bpm: 100, bars: 1, ride: "x.x.x.x.x.x.x.x.", kick: "x.........x.....", drums: kit{rideBell: 5300}},
	"tom-floor":  {bpm: 100, bars: 2, tom: "x..x..x...x.x...", tomFreq: 95},
	"kick":       {bpm: 100, bars: 1, kick: "x...x...x...x...", drums: kit{kickHigh: 180, kickDecay: 11}},
	"taiko":      {bpm: 120, bars: 1, tom: "x.....x.x...x...", tomFreq: 58, kick: "x...............", drums: kit{kickLow: 40}},
	"bass-drum": {
		bpm: 120, bars: 2, kick: "x..x..x...x..x..", bass: "x..x..x...x..x..", chords: [][]float64{amin, fmin},
		bassTone: patch{ratio: 0.5, depth: 2, level: 0.55, sub: 0.3},
	},
	"funky": {
		bpm: 104, bars: 4, chords: [][]float64{cmaj7, am7, fmaj7, gmaj},
		kick: "x.....x...x.....", snare: "....x.......x...", hat: "x.xxx.x.x.xxx.x.", openHat: "..............x.",
		bass: "x..x..x.x.....x.", pad: 0.5, arp: 0.4,
	},
	"dark": {
		bpm: 126, bars: 2, chords: [][]float64{amin, emin},
		kick: "x...x...x...x...", snare: "....x.......x...", hat: "xxxxxxxxxxxxxxxx",
		bass: "x.x.x.x.x.x.x.x.", pad: 0.7, arp: 0.3,
		drums: kit{kickHigh: 130, kickLow: 45, kickDecay: 12},
	},
	"synthwave": {
		bpm: 96, bars: 4, chords: [][]float64{am7, fmaj7, cmaj7, gmaj},
		kick: "x...x...x...x...", snare: "....x.......x...", hat: "..x...x...x...x.",
		bass: "x.x.x.x.x.x.x.x.", lead: "x...x.x.....x...", pad: 0.8, arp: 0.25,
	},
	"ambient": {
		bpm: 72, bars: 4, chords: [][]float64{fmaj7, cmaj7, dm7, am7},
		ride: "x.......x.......", pad: 1.0, arp: 0.2,
	},
	"arcade": {
		bpm: 140, bars: 2, chords: [][]float64{cmaj7, gmaj},
		kick: "x.......x.......", snare: "....x.......x...", hat: "x.x.x.x.x.x.x.x.",
		bass: "x...x...x...x...", lead: "x.xxx.x.x.xxx.x.", arp: 0.6,
		leadTone: patch{ratio: 1, depth: 4, level: 0.24},
	},
	"noir": {
		bpm: 84, bars: 2, chords: [][]float64{dm7, am7},
		kick: "x.........x.....", snare: "....x.......x...", ride: "x..x..x.x..x..x.",
		bass: "x.....x...x.....", pad: 0.6, lead: "......x.......x.",
		drums: kit{rideBell: 4200}, leadTone: patch{ratio: 3, depth: 1.4, level: 0.3},
	},
	"neon": {
		bpm: 118, bars: 2, chords: [][]float64{am7, fmaj7},
		kick: "x...x...x...x...", snare: "....x.......x...", hat: "..x...x...x...x.", openHat: "..x...x...x...x.",
		bass: "xx.xxx.xxx.xxx.x", arp: 0.5,
	},
	"dnb": {
		bpm: 172, bars: 2, chords: [][]float64{amin, fmin},
		kick: "x.........x.....", snare: "....x..x.x..x...", hat: "x.xxx.xxx.xxx.xx",
		bass: "x.........x..x..", pad: 0.4,
		drums: kit{snareTone: 240, snareDecay: 30},
	},
}

// Presets lists the names Synthesize accepts.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Synthesize renders preset name at rate as interleaved stereo. The result
// is exactly bars·16 steps long so it loops without a seam.
func Synthesize(name string, rate int) ([]float32, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p.render(rate, noise(seedFor(name))), nil
}

func seedFor(name string) uint64 {
	h := uint64(1469598103934665603)
	for _, c := range []byte(strings.ToLower(name)) {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return h
}

func (p *preset) render(rate int, seed noise) []float32 {
	bars := max(p.bars, 1)
	stepDur := 60 / p.bpm / 4
	total := 16 * bars
	n := int(math.Round(stepDur * float64(total) * float64(rate)))
	out := make([]float32, 2*n)

	kickP, snareP := pattern(p.kick), pattern(p.snare)
	hatP, openP := pattern(p.hat), pattern(p.openHat)
	rideP, tomP := pattern(p.ride), pattern(p.tom)
	bassP, leadP := pattern(p.bass), pattern(p.lead)
	drums := p.drums.orDefault()
	bass, lead := p.bassTone.or(bassPatch), p.leadTone.or(leadPatch)

	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(rate)
		step := min(int(t/stepDur), total-1)
		trig := t - float64(step)*stepDur
		at := step % 16

		var chord []float64
		if len(p.chords) > 0 {
			chord = p.chords[(step/16)%len(p.chords)]
		}

		s := 0.0
		if kickP[at] {
			s += drums.kick(trig) * 0.9
		}
		if snareP[at] {
			s += drums.snare(trig, &seed) * 0.8
		}
		if hatP[at] {
			s += drums.hat(trig, openP[at], &seed)
		}
		if rideP[at] {
			s += drums.ride(trig, &seed)
		}
		if tomP[at] {
			s += tom(trig, p.tomFreq)
		}
		if chord != nil {
			if bassP[at] {
				s += saturate(bass.play(t, chord[0]/2, math.Exp(-trig*14)))
			}
			if p.pad > 0 {
				s += padPatch.chord(t, chord, 0.7) * p.pad
			}
			if p.arp > 0 {
				s += saturate(arpPatch.play(t, chord[step%len(chord)]*2, math.Exp(-trig*24))) * p.arp
			}
			if leadP[at] {
				env := leadEnvelope.at(trig / stepDur)
				s += saturate(lead.vibrato(t, chord[(step/2)%len(chord)]*2, env, 5.4, 0.01)) * 0.8
			}
		}
		if p.riser > 0 {
			// Noise through a lowpass that opens up over the whole buffer.
			prog := float64(i) / float64(n)
			c := 0.02 + 0.6*prog*prog
			lp += (seed.next() - lp) * c
			s += lp * prog * p.riser
		}

		v := float32(saturate(s * 0.6))
		out[2*i], out[2*i+1] = v, v
	}
	return out
}
