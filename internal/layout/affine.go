package layout

import "math"

// Affine is a 2-D affine transform stored column-major as
// [a b c d e f], mapping (x, y) to (a·x + c·y + e, b·x + d·y + f).
type Affine [6]float64

// Identity leaves points where they are.
func Identity() Affine { return Affine{1, 0, 0, 1, 0, 0} }

func Translate(tx, ty float64) Affine { return Affine{1, 0, 0, 1, tx, ty} }

// Rotate turns counter-clockwise by deg degrees in a y-up frame, which is
// clockwise on a y-down screen.
func Rotate(deg float64) Affine {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Affine{c, s, -s, c, 0, 0}
}

// Mul returns m·n: n is applied first.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Apply maps a point through m.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Compose multiplies left to right, so the last argument is applied first.
func Compose(ts ...Affine) Affine {
	out := Identity()
	for _, t := range ts {
		out = out.Mul(t)
	}
	return out
}
