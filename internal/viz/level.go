package viz

// LineVibration is a horizontal bar that rides the level.
type LineVibration struct{}

func (LineVibration) Visualize(s Surface, level float64, _ []float64) {
	y := 100 + Remap(level, 0, 1, 0, 400)
	s.Stroke(Palette.Red)
	s.StrokeWeight(7)
	s.Line(0, y, s.Width(), y)
}

func (LineVibration) Reset() {}

// Arc is a full-width ellipse whose height follows the level.
type Arc struct{}

func (Arc) Visualize(s Surface, level float64, _ []float64) {
	size := Remap(level, 0, 1, 0, 400)
	s.Stroke(Palette.MediumGray)
	s.StrokeWeight(3)
	s.Ellipse(s.Width()/2, s.Height()/2, s.Width(), size*10)
}

func (Arc) Reset() {}

// Ellipse drops a level-sized circle at a random horizontal offset.
type Ellipse struct {
	rng *Rand
}

func NewEllipse(seed uint64) *Ellipse {
	return &Ellipse{rng: NewRand(seed)}
}

func (e *Ellipse) Visualize(s Surface, level float64, _ []float64) {
	w := s.Width()
	size := Remap(level, 0, 1, 0, 700)
	offset := e.rng.RangeF(-w/2, w/2)
	s.Stroke(Palette.White)
	s.StrokeWeight(4)
	s.Ellipse(w/2+offset, s.Height()/2, size, size)
}

func (e *Ellipse) Reset() {}

// StationaryCircle pulses a centred ring in size, weight and tint.
type StationaryCircle struct{}

func (StationaryCircle) Visualize(s Surface, level float64, _ []float64) {
	size := Remap(level, 0, 1, 0, 450)
	tint := Remap(level, 0, 1, 50, 200)
	s.StrokeWeight(level * 100)
	s.Stroke(RGB(tint, 21, 42))
	s.Ellipse(s.Width()/2, s.Height()/2, size*4, size*4)
}

func (StationaryCircle) Reset() {}
