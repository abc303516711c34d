// Package viztest records draw calls instead of drawing them.
package viztest

import (
	"fmt"

	"lockgroove/internal/viz"
)

// Op is one recorded draw call.
type Op struct {
	Name string
	Args []float64
}

func (o Op) String() string { return fmt.Sprintf("%s%v", o.Name, o.Args) }

// Surface is a viz.Surface that logs every call.
type Surface struct {
	W, H float64
	Ops  []Op

	StrokeColor viz.Color
	FillColor   viz.Color
	Stroking    bool
	Filling     bool
}

func NewSurface(w, h float64) *Surface {
	return &Surface{W: w, H: h, Stroking: true, Filling: true}
}

func (s *Surface) rec(name string, args ...float64) {
	s.Ops = append(s.Ops, Op{Name: name, Args: args})
}

// Count returns how many calls named name were recorded.
func (s *Surface) Count(name string) int {
	n := 0
	for _, op := range s.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Find returns the recorded calls named name.
func (s *Surface) Find(name string) []Op {
	var out []Op
	for _, op := range s.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Clear forgets everything recorded so far.
func (s *Surface) Clear() { s.Ops = s.Ops[:0] }

func (s *Surface) Width() float64  { return s.W }
func (s *Surface) Height() float64 { return s.H }

func (s *Surface) Background(c viz.Color) {
	s.rec("background", float64(c.R), float64(c.G), float64(c.B))
}

func (s *Surface) Stroke(c viz.Color) {
	s.StrokeColor = c
	s.Stroking = true
	s.rec("stroke", float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}

func (s *Surface) NoStroke() {
	s.Stroking = false
	s.rec("noStroke")
}

func (s *Surface) Fill(c viz.Color) {
	s.FillColor = c
	s.Filling = true
	s.rec("fill", float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}

func (s *Surface) NoFill() {
	s.Filling = false
	s.rec("noFill")
}

func (s *Surface) StrokeWeight(w float64)   { s.rec("strokeWeight", w) }
func (s *Surface) BeginShape()              { s.rec("beginShape") }
func (s *Surface) Vertex(x, y float64)      { s.rec("vertex", x, y) }
func (s *Surface) CurveVertex(x, y float64) { s.rec("curveVertex", x, y) }
func (s *Surface) EndShape()                { s.rec("endShape") }

func (s *Surface) Ellipse(x, y, w, h float64) { s.rec("ellipse", x, y, w, h) }
func (s *Surface) Rect(x, y, w, h float64)    { s.rec("rect", x, y, w, h) }

func (s *Surface) Line(x1, y1, x2, y2 float64) { s.rec("line", x1, y1, x2, y2) }

func (s *Surface) Triangle(x1, y1, x2, y2, x3, y3 float64) {
	s.rec("triangle", x1, y1, x2, y2, x3, y3)
}

func (s *Surface) Point(x, y float64) { s.rec("point", x, y) }
