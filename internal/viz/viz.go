// Package viz turns per-frame amplitude and spectrum readings into draw calls.
//
// Every visualization owns its rolling state; nothing is shared between
// instances. Spectra carry byte-scaled magnitudes (0..255) and may be shorter
// than any index a variant likes to look at.
package viz

import "math"

// Surface is an immediate-mode 2-D canvas. Stroke and fill settings persist
// until changed.
type Surface interface {
	Width() float64
	Height() float64

	Background(c Color)
	Stroke(c Color)
	NoStroke()
	Fill(c Color)
	NoFill()
	StrokeWeight(w float64)

	BeginShape()
	Vertex(x, y float64)
	CurveVertex(x, y float64)
	EndShape()

	Ellipse(x, y, w, h float64)
	Rect(x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
	Triangle(x1, y1, x2, y2, x3, y3 float64)
	Point(x, y float64)
}

// Visualization renders one groove.
type Visualization interface {
	Visualize(s Surface, level float64, spectrum []float64)
	// Reset drops rolling state so a replay starts clean.
	Reset()
}

// Options size the instances that need to know the canvas up front.
type Options struct {
	Width, Height float64
	Seed          uint64
}

// Remap linearly maps v from [inMin,inMax] onto [outMin,outMax]. The result
// is not clamped.
func Remap(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// SmoothPoint averages the bins in [index-2, index+2), clipped to the
// spectrum. It returns 0 when the window holds no bins.
func SmoothPoint(spectrum []float64, index int) float64 {
	const neighbors = 2
	lo := index - neighbors
	hi := index + neighbors
	if lo < 0 {
		lo = 0
	}
	if hi > len(spectrum) {
		hi = len(spectrum)
	}
	if lo >= hi {
		return 0
	}
	sum := 0.0
	for i := lo; i < hi; i++ {
		sum += spectrum[i]
	}
	return sum / float64(hi-lo)
}

// bin returns spectrum[i], or 0 when i is out of range.
func bin(spectrum []float64, i int) float64 {
	if i < 0 || i >= len(spectrum) {
		return 0
	}
	return spectrum[i]
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
