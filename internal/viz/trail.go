package viz

import "math"

const (
	RadialHistory         = 360
	SpiralHistory         = 720
	RadialAccentThreshold = 0.3
)

// Amp scrolls a line graph of recent levels. Capacity is half the canvas
// width at construction; each sample occupies two pixels.
type Amp struct {
	history *History
}

func NewAmp(width float64) *Amp {
	return &Amp{history: NewHistory(int(width / 2))}
}

func (a *Amp) History() *History { return a.history }

func (a *Amp) Visualize(s Surface, level float64, _ []float64) {
	a.history.Push(level)

	h := s.Height()
	step := s.Width() / float64(a.history.Cap())
	s.Stroke(Palette.Red)
	s.StrokeWeight(3)
	s.BeginShape()
	for i := 1; i < a.history.Len(); i++ {
		y := Remap(a.history.At(i), 0, 0.5, h, 0)
		s.Vertex(float64(i)*step, y-h/4)
	}
	s.EndShape()
}

func (a *Amp) Reset() { a.history.Reset() }

// Radial wraps the level history around the centre, one degree per sample.
type Radial struct {
	history *History
}

func NewRadial() *Radial {
	return &Radial{history: NewHistory(RadialHistory)}
}

func (r *Radial) History() *History { return r.history }

func (r *Radial) Visualize(s Surface, level float64, _ []float64) {
	r.history.Push(level)

	if level > RadialAccentThreshold {
		s.Stroke(Palette.Red)
	} else {
		s.Stroke(Palette.LightGray)
	}
	s.StrokeWeight(2)

	cx, cy := s.Width()/2, s.Height()/2
	s.BeginShape()
	for i := 1; i < r.history.Len(); i++ {
		rad := Remap(r.history.At(i), 0, 0.6, 10, 1000)
		a := radians(float64(i))
		s.Vertex(cx+rad*math.Cos(a), cy+rad*math.Sin(a))
	}
	s.EndShape()
}

func (r *Radial) Reset() { r.history.Reset() }

// Spiral lays the level history along an Archimedean spiral so older samples
// sit closer to the centre.
type Spiral struct {
	history *History
}

func NewSpiral() *Spiral {
	return &Spiral{history: NewHistory(SpiralHistory)}
}

func (sp *Spiral) History() *History { return sp.history }

func (sp *Spiral) Visualize(s Surface, level float64, _ []float64) {
	sp.history.Push(level)

	cx, cy := s.Width()/2, s.Height()/2
	maxR := math.Min(cx, cy)
	n := float64(sp.history.Cap())

	s.Stroke(Palette.MediumGray)
	s.StrokeWeight(2)
	s.BeginShape()
	for i := 1; i < sp.history.Len(); i++ {
		base := float64(i) / n * maxR
		rad := base + Remap(sp.history.At(i), 0, 0.6, 0, 80)
		a := radians(float64(i) * 2)
		s.Vertex(cx+rad*math.Cos(a), cy+rad*math.Sin(a))
	}
	s.EndShape()
}

func (sp *Spiral) Reset() { sp.history.Reset() }
