package viz

import "math"

// CurveTintBin is the bin whose magnitude tints the curve.
const CurveTintBin = 590

// Spectrum draws one bar per bin along the bottom edge.
type Spectrum struct{}

func (Spectrum) Visualize(s Surface, level float64, spectrum []float64) {
	n := len(spectrum)
	if n == 0 {
		return
	}
	w, h := s.Width(), s.Height()
	s.NoStroke()
	s.Fill(RGBA(Remap(level, 0, 1, 100, 255), 21, 42, 90))
	for i, m := range spectrum {
		x := Remap(float64(i), 0, float64(n), 0, w)
		bar := -h + Remap(m, 0, 255, h, 0)
		s.Rect(x, h, w/float64(n), bar)
	}
}

func (Spectrum) Reset() {}

// Curve plots the smoothed spectrum as one continuous curve.
type Curve struct{}

func (Curve) Visualize(s Surface, _ float64, spectrum []float64) {
	n := len(spectrum)
	if n == 0 {
		return
	}
	w, h := s.Width(), s.Height()

	tint := 10.0
	if n > CurveTintBin {
		tint = Remap(spectrum[CurveTintBin], 0, 255, 10, 150)
	}
	s.Stroke(RGB(148, tint, tint))
	s.StrokeWeight(2)

	s.BeginShape()
	for i := 0; i < n; i++ {
		p := SmoothPoint(spectrum, i)
		x := Remap(float64(i), 0, float64(n-1), 0, w)
		y := Remap(p, 0, 255, h/5, 0)
		s.CurveVertex(x, y+(h-250))
	}
	s.EndShape()
}

func (Curve) Reset() {}

const helixSteps = 64

// Helix twists two phase-opposed strands across the canvas. Strand height
// follows the smoothed spectrum; the twist speeds up with the level.
type Helix struct {
	phase float64
}

func (hx *Helix) Phase() float64 { return hx.phase }

func (hx *Helix) Visualize(s Surface, level float64, spectrum []float64) {
	hx.phase += 0.02 + level*0.3

	w, h := s.Width(), s.Height()
	n := len(spectrum)
	var top, bottom [helixSteps + 1][2]float64
	for i := 0; i <= helixSteps; i++ {
		x := w * float64(i) / helixSteps
		amp := h / 6 * (0.3 + SmoothPoint(spectrum, i*n/helixSteps)/255)
		off := amp * math.Sin(hx.phase+float64(i)*0.3)
		top[i] = [2]float64{x, h/2 + off}
		bottom[i] = [2]float64{x, h/2 - off}
	}

	s.StrokeWeight(1)
	s.Stroke(Palette.DarkGray)
	for i := 0; i <= helixSteps; i += 4 {
		s.Line(top[i][0], top[i][1], bottom[i][0], bottom[i][1])
	}

	s.StrokeWeight(3)
	drawStrand(s, Palette.Red, top[:])
	drawStrand(s, Palette.LightGray, bottom[:])
}

func drawStrand(s Surface, c Color, pts [][2]float64) {
	s.Stroke(c)
	s.BeginShape()
	for _, p := range pts {
		s.CurveVertex(p[0], p[1])
	}
	s.EndShape()
}

func (hx *Helix) Reset() { hx.phase = 0 }

const waveSteps = 128

// RotatingWave wraps the spectrum around a circle that spins with the level.
type RotatingWave struct {
	angle float64
}

func (rw *RotatingWave) Angle() float64 { return rw.angle }

func (rw *RotatingWave) Visualize(s Surface, level float64, spectrum []float64) {
	rw.angle += 0.005 + level*0.2

	cx, cy := s.Width()/2, s.Height()/2
	base := math.Min(cx, cy) / 2
	n := len(spectrum)

	s.Stroke(Palette.LightGray)
	s.StrokeWeight(2)
	s.BeginShape()
	for k := 0; k <= waveSteps; k++ {
		m := bin(spectrum, (k%waveSteps)*n/waveSteps)
		r := base + Remap(m, 0, 255, 0, base)
		a := rw.angle + 2*math.Pi*float64(k)/waveSteps
		s.Vertex(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	s.EndShape()
}

func (rw *RotatingWave) Reset() { rw.angle = 0 }

// Flower draws a rose curve: the level sets its size, the loudest bin picks
// the petal count.
type Flower struct {
	rotation float64
}

func (f *Flower) Rotation() float64 { return f.rotation }

// Petals returns the petal parameter k for a spectrum.
func Petals(spectrum []float64) int {
	best, bestIdx := -1.0, 0
	for i, m := range spectrum {
		if m > best {
			best, bestIdx = m, i
		}
	}
	return 3 + bestIdx%6
}

func (f *Flower) Visualize(s Surface, level float64, spectrum []float64) {
	f.rotation += 0.01 + level*0.05

	cx, cy := s.Width()/2, s.Height()/2
	minHalf := math.Min(cx, cy)
	radius := Remap(clampF(level, 0, 1), 0, 1, minHalf/8, minHalf)
	k := float64(Petals(spectrum))

	s.Stroke(Palette.Red)
	s.StrokeWeight(2)
	s.BeginShape()
	for deg := 0; deg <= 360; deg += 2 {
		t := radians(float64(deg))
		r := radius * math.Cos(k*t)
		a := t + f.rotation
		s.Vertex(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	s.EndShape()
}

func (f *Flower) Reset() { f.rotation = 0 }
