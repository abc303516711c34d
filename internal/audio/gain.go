package audio

import (
	"fmt"
	"slices"
	"time"

	"lockgroove/internal/sound"
)

// Gain scales everything routed into it. Ramps run on the mixer's sample
// clock. It implements sound.Gain.
type Gain struct {
	eng *Engine

	voices []*Voice
	ins    []*Gain

	from, to   float64
	start, end uint64

	evalFrame uint64
	l, r      float64
}

func newGain(e *Engine) *Gain {
	return &Gain{eng: e, from: 1, to: 1}
}

// SetInput reroutes src from its current stage into g.
func (g *Gain) SetInput(src sound.Playable) {
	v, ok := src.(*Voice)
	if !ok {
		g.eng.log.Warn("gain input is not an engine voice", "type", typeName(src))
		return
	}
	if v.out != nil {
		v.out.detach(v)
	}
	g.attach(v)
}

// Connect feeds g into dst.
func (g *Gain) Connect(dst sound.Gain) {
	d, ok := dst.(*Gain)
	if !ok || d == g {
		return
	}
	if !slices.Contains(d.ins, g) {
		d.ins = append(d.ins, g)
	}
}

func (g *Gain) Amp(value float64, ramp time.Duration) {
	now := g.eng.frame
	g.from = g.valueAt(now)
	g.to = value
	g.start = now
	g.end = now + uint64(ramp.Seconds()*float64(g.eng.rate))
}

func (g *Gain) Value() float64 { return g.valueAt(g.eng.frame) }

func (g *Gain) valueAt(f uint64) float64 {
	if f >= g.end || g.end == g.start {
		return g.to
	}
	if f <= g.start {
		return g.from
	}
	t := float64(f-g.start) / float64(g.end-g.start)
	return g.from + (g.to-g.from)*t
}

func (g *Gain) attach(v *Voice) {
	g.voices = append(g.voices, v)
	v.out = g
}

func (g *Gain) detach(v *Voice) {
	g.voices = slices.DeleteFunc(g.voices, func(x *Voice) bool { return x == v })
	if v.out == g {
		v.out = nil
	}
}

// eval sums the stage's inputs for frame f and applies the gain. Results
// are cached per frame; a cycle reads the previous frame's value.
func (g *Gain) eval(f uint64) (float64, float64) {
	if g.evalFrame == f {
		return g.l, g.r
	}
	g.evalFrame = f
	var l, r float64
	for _, v := range g.voices {
		l += v.cur[0]
		r += v.cur[1]
	}
	for _, in := range g.ins {
		il, ir := in.eval(f)
		l += il
		r += ir
	}
	k := g.valueAt(f)
	g.l, g.r = l*k, r*k
	return g.l, g.r
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
