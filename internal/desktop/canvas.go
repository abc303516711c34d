// Package desktop runs the board in a window: a GL canvas for the
// visualizations, clickable groove buttons and the frame loop.
package desktop

import (
	"math"

	"lockgroove/internal/viz"
)

// FloatsPerVertex is the canvas vertex layout: x, y, r, g, b, a.
const FloatsPerVertex = 6

const (
	curveSegments   = 12
	minEllipseSides = 16
	maxEllipseSides = 96
)

type point struct{ x, y float64 }

// Canvas implements viz.Surface by tessellating every call into a
// triangle list in window pixel space. The renderer uploads the list once
// per frame.
type Canvas struct {
	w, h float64

	bg       viz.Color
	stroke   viz.Color
	fill     viz.Color
	doStroke bool
	doFill   bool
	weight   float64

	shape []point
	curve []point

	tris []float32
}

var _ viz.Surface = (*Canvas)(nil)

func NewCanvas(w, h float64) *Canvas {
	c := &Canvas{w: w, h: h}
	c.Reset()
	return c
}

// Reset restores the default drawing state: white stroke of weight 1, white
// fill, black background, nothing queued.
func (c *Canvas) Reset() {
	c.bg = viz.Palette.Black
	c.stroke = viz.Palette.White
	c.fill = viz.Palette.White
	c.doStroke = true
	c.doFill = true
	c.weight = 1
	c.shape = c.shape[:0]
	c.curve = c.curve[:0]
	c.tris = c.tris[:0]
}

func (c *Canvas) Resize(w, h float64) { c.w, c.h = w, h }

func (c *Canvas) Width() float64  { return c.w }
func (c *Canvas) Height() float64 { return c.h }

// Vertices returns the queued triangles, FloatsPerVertex floats each.
func (c *Canvas) Vertices() []float32 { return c.tris }

// VertexCount is len(Vertices())/FloatsPerVertex.
func (c *Canvas) VertexCount() int { return len(c.tris) / FloatsPerVertex }

// BackgroundColor is the colour of the last Background call.
func (c *Canvas) BackgroundColor() viz.Color { return c.bg }

// Background drops everything queued so far.
func (c *Canvas) Background(col viz.Color) {
	c.bg = col
	c.tris = c.tris[:0]
}

func (c *Canvas) Stroke(col viz.Color) { c.stroke, c.doStroke = col, true }
func (c *Canvas) NoStroke()            { c.doStroke = false }
func (c *Canvas) Fill(col viz.Color)   { c.fill, c.doFill = col, true }
func (c *Canvas) NoFill()              { c.doFill = false }

func (c *Canvas) StrokeWeight(w float64) {
	if w < 0 {
		w = 0
	}
	c.weight = w
}

func (c *Canvas) BeginShape() {
	c.shape = c.shape[:0]
	c.curve = c.curve[:0]
}

func (c *Canvas) Vertex(x, y float64) { c.shape = append(c.shape, point{x, y}) }

func (c *Canvas) CurveVertex(x, y float64) { c.curve = append(c.curve, point{x, y}) }

// EndShape draws the shape as an open outline. Curve vertices are expanded into a
// Catmull-Rom spline whose first and last points act as control points.
func (c *Canvas) EndShape() {
	pts := c.shape
	if len(c.curve) >= 4 {
		pts = appendCatmullRom(pts, c.curve, curveSegments)
	}
	if c.doFill && len(pts) >= 3 {
		for i := 1; i+1 < len(pts); i++ {
			c.tri(pts[0], pts[i], pts[i+1], c.fill)
		}
	}
	if c.doStroke {
		c.polyline(pts, false)
	}
	c.shape = pts[:0]
	c.curve = c.curve[:0]
}

// Ellipse is centred on (x, y) with diameters w and h.
func (c *Canvas) Ellipse(x, y, w, h float64) {
	if w <= 0 && h <= 0 {
		return
	}
	ring := ellipseRing(x, y, w/2, h/2)
	if c.doFill {
		centre := point{x, y}
		for i := range ring {
			c.tri(centre, ring[i], ring[(i+1)%len(ring)], c.fill)
		}
	}
	if c.doStroke {
		c.polyline(ring, true)
	}
}

// Rect has its top-left corner at (x, y).
func (c *Canvas) Rect(x, y, w, h float64) {
	corners := []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	if c.doFill {
		c.tri(corners[0], corners[1], corners[2], c.fill)
		c.tri(corners[0], corners[2], corners[3], c.fill)
	}
	if c.doStroke {
		c.polyline(corners, true)
	}
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	if !c.doStroke {
		return
	}
	c.segment(point{x1, y1}, point{x2, y2})
}

func (c *Canvas) Triangle(x1, y1, x2, y2, x3, y3 float64) {
	pts := []point{{x1, y1}, {x2, y2}, {x3, y3}}
	if c.doFill {
		c.tri(pts[0], pts[1], pts[2], c.fill)
	}
	if c.doStroke {
		c.polyline(pts, true)
	}
}

// Point draws a stroke-coloured square as wide as the stroke weight.
func (c *Canvas) Point(x, y float64) {
	if !c.doStroke {
		return
	}
	r := math.Max(c.weight, 1) / 2
	a, b := point{x - r, y - r}, point{x + r, y - r}
	d, e := point{x + r, y + r}, point{x - r, y + r}
	c.tri(a, b, d, c.stroke)
	c.tri(a, d, e, c.stroke)
}

// quad queues a filled quadrilateral in the given colour regardless of the
// fill state. The button layer draws through it.
func (c *Canvas) quad(a, b, d, e point, col viz.Color) {
	c.tri(a, b, d, col)
	c.tri(a, d, e, col)
}

func (c *Canvas) polyline(pts []point, closed bool) {
	if c.weight == 0 {
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		c.segment(pts[i], pts[i+1])
	}
	if closed && len(pts) > 2 {
		c.segment(pts[len(pts)-1], pts[0])
	}
}

// segment draws a line as a quad of the stroke weight.
func (c *Canvas) segment(a, b point) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	hw := math.Max(c.weight, 1) / 2
	nx, ny := -dy/l*hw, dx/l*hw
	c.quad(
		point{a.x + nx, a.y + ny},
		point{b.x + nx, b.y + ny},
		point{b.x - nx, b.y - ny},
		point{a.x - nx, a.y - ny},
		c.stroke,
	)
}

func (c *Canvas) tri(a, b, d point, col viz.Color) {
	r := float32(col.R) / 255
	g := float32(col.G) / 255
	bl := float32(col.B) / 255
	al := float32(col.A) / 255
	c.tris = append(c.tris,
		float32(a.x), float32(a.y), r, g, bl, al,
		float32(b.x), float32(b.y), r, g, bl, al,
		float32(d.x), float32(d.y), r, g, bl, al,
	)
}

// ellipseSides picks a tessellation fine enough that edges stay a few
// pixels long.
func ellipseSides(rx, ry float64) int {
	perimeter := 2 * math.Pi * math.Max(math.Abs(rx), math.Abs(ry))
	n := int(perimeter / 4)
	return min(max(n, minEllipseSides), maxEllipseSides)
}

func ellipseRing(cx, cy, rx, ry float64) []point {
	n := ellipseSides(rx, ry)
	ring := make([]point, n)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / float64(n)
		ring[i] = point{cx + rx*math.Cos(a), cy + ry*math.Sin(a)}
	}
	return ring
}

// appendCatmullRom interpolates the spline through ctl[1]..ctl[len-2] and
// appends segs points per span to dst. Each span ends exactly on its
// control point.
func appendCatmullRom(dst, ctl []point, segs int) []point {
	if len(ctl) < 4 {
		return dst
	}
	dst = append(dst, ctl[1])
	for i := 1; i+2 < len(ctl); i++ {
		p0, p1, p2, p3 := ctl[i-1], ctl[i], ctl[i+1], ctl[i+2]
		for s := 1; s <= segs; s++ {
			t := float64(s) / float64(segs)
			dst = append(dst, point{
				catmullRom(p0.x, p1.x, p2.x, p3.x, t),
				catmullRom(p0.y, p1.y, p2.y, p3.y, t),
			})
		}
	}
	return dst
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}
