package audio

import "math"

// Instruments are per-sample functions of trig, the time in seconds since
// the step that fired them. Their tone constants come from the preset.

// kit tunes the percussion voices. Zero fields fall back to defaultKit.
type kit struct {
	kickHigh, kickLow float64 // pitch sweep bounds, Hz
	kickDecay         float64 // 1/s
	snareTone         float64 // Hz
	snareDecay        float64
	hatDecay          float64 // closed hat; an open hat rings three times longer
	rideBell          float64 // Hz
}

var defaultKit = kit{
	kickHigh:   160,
	kickLow:    52,
	kickDecay:  15,
	snareTone:  196,
	snareDecay: 24,
	hatDecay:   40,
	rideBell:   4900,
}

func (k kit) orDefault() kit {
	pick := func(v, d float64) float64 {
		if v > 0 {
			return v
		}
		return d
	}
	d := defaultKit
	return kit{
		kickHigh:   pick(k.kickHigh, d.kickHigh),
		kickLow:    pick(k.kickLow, d.kickLow),
		kickDecay:  pick(k.kickDecay, d.kickDecay),
		snareTone:  pick(k.snareTone, d.snareTone),
		snareDecay: pick(k.snareDecay, d.snareDecay),
		hatDecay:   pick(k.hatDecay, d.hatDecay),
		rideBell:   pick(k.rideBell, d.rideBell),
	}
}

// kick sweeps from kickHigh down to kickLow with a short click on top.
func (k kit) kick(trig float64) float64 {
	const sweep = 28.0
	phase := 2 * math.Pi * (k.kickLow*trig + (k.kickHigh-k.kickLow)*(1-math.Exp(-trig*sweep))/sweep)
	body := math.Sin(phase) * math.Exp(-trig*k.kickDecay) * 0.85
	click := math.Sin(2*math.Pi*1800*trig) * math.Exp(-trig*220) * 0.2
	return saturate(body + click)
}

func (k kit) snare(trig float64, n *noise) float64 {
	env := math.Exp(-trig * k.snareDecay)
	body := (math.Sin(2*math.Pi*k.snareTone*trig) + 0.4*math.Sin(2*math.Pi*k.snareTone*1.87*trig)) * 0.22
	// Differenced noise leans toward the top end.
	hiss := (n.next() - 0.5*n.next()) * 0.6
	return saturate((body + hiss) * env)
}

func (k kit) hat(trig float64, open bool, n *noise) float64 {
	decay := k.hatDecay
	if open {
		decay /= 3
	}
	metal := math.Sin(2*math.Pi*6800*trig) + 0.6*math.Sin(2*math.Pi*8900*trig)
	return saturate((0.7*n.next() + 0.3*metal) * math.Exp(-trig*decay) * 0.08)
}

func (k kit) ride(trig float64, n *noise) float64 {
	f := k.rideBell
	bell := math.Sin(2*math.Pi*f*trig) + 0.5*math.Sin(2*math.Pi*f*1.5*trig) + 0.3*math.Sin(2*math.Pi*f*0.67*trig)
	return saturate((0.3*bell + 0.15*n.next()) * math.Exp(-trig*6) * 0.2)
}

// tom drops a little in pitch after the hit. Low freq rings longer.
func tom(trig, freq float64) float64 {
	bend := freq * 0.4 * (1 - math.Exp(-trig*25)) / 25
	body := math.Sin(2*math.Pi*(freq*trig+bend)) * math.Exp(-trig*(8+freq/50)) * 0.85
	skin := math.Sin(2*math.Pi*freq*2.6*trig) * math.Exp(-trig*55) * 0.15
	return saturate(body + skin)
}

// patch is a two-operator FM voice.
type patch struct {
	ratio float64 // modulator / carrier
	depth float64 // modulation index at full envelope
	level float64
	sub   float64 // level of a sine an octave below
}

var (
	bassPatch = patch{ratio: 0.5, depth: 1.2, level: 0.5, sub: 0.22}
	padPatch  = patch{ratio: 1.5, depth: 0.7, level: 0.05}
	arpPatch  = patch{ratio: 2, depth: 3, level: 0.22}
	leadPatch = patch{ratio: 1.5, depth: 2.6, level: 0.28}
)

func (p patch) play(t, freq, env float64) float64 {
	mod := math.Sin(2 * math.Pi * freq * p.ratio * t)
	s := math.Sin(2*math.Pi*freq*t+p.depth*env*mod) * p.level
	if p.sub > 0 {
		s += math.Sin(math.Pi*freq*t) * p.sub
	}
	return s * env
}

// chord plays every note of chord through three slightly detuned copies of
// the patch, each with a slow vibrato.
func (p patch) chord(t float64, chord []float64, env float64) float64 {
	s := 0.0
	for _, freq := range chord {
		for _, d := range [3]float64{-0.003, 0, 0.004} {
			f := freq * (1 + d) * (1 + 0.003*math.Sin(2*math.Pi*(0.2+freq*0.001)*t))
			s += p.play(t, f, env)
		}
	}
	return saturate(s)
}

// vibrato returns the patch played with a pitch wobble of depth at rate Hz.
func (p patch) vibrato(t, freq, env, rate, depth float64) float64 {
	return p.play(t, freq*(1+depth*math.Sin(2*math.Pi*rate*t)), env)
}

func saturate(x float64) float64 { return math.Tanh(x) }

// envelope shapes a note over its normalized progress in [0,1]. attack,
// decay and release are fractions of the note.
type envelope struct {
	attack, decay, sustain, release float64
}

func (e envelope) at(progress float64) float64 {
	switch {
	case progress < e.attack:
		return progress / e.attack
	case progress < e.attack+e.decay:
		return 1 - (1-e.sustain)*(progress-e.attack)/e.decay
	case progress < 1-e.release:
		return e.sustain
	default:
		return e.sustain * max(0, (1-progress)/e.release)
	}
}

// noise is a xorshift generator over [-1,1).
type noise uint64

func (n *noise) next() float64 {
	x := uint64(*n)
	if x == 0 {
		x = 0x9e3779b97f4a7c15
	}
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*n = noise(x)
	return float64(x>>11)/(1<<52) - 1
}
