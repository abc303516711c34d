// Package layout places groove buttons on a circular board: concentric rows
// of a fixed group size around the centre, or a plain square grid on narrow
// viewports.
package layout

import "math"

// Mode is the layout family picked from the viewport width.
type Mode int

const (
	Desktop Mode = iota
	Mobile
)

func (m Mode) String() string {
	if m == Mobile {
		return "mobile"
	}
	return "desktop"
}

const (
	DefaultGroupSize          = 7
	DefaultPaddingCoefficient = 1.0 / 3.0
	DefaultMobileBreakpoint   = 768
	DefaultMobileFill         = 0.85
)

type Config struct {
	GroupSize          int     `json:"groupSize"`
	PaddingCoefficient float64 `json:"paddingCoefficient"`
	MobileBreakpoint   float64 `json:"mobileBreakpoint"`
	MobileFill         float64 `json:"mobileFill"`
}

func DefaultConfig() Config {
	return Config{
		GroupSize:          DefaultGroupSize,
		PaddingCoefficient: DefaultPaddingCoefficient,
		MobileBreakpoint:   DefaultMobileBreakpoint,
		MobileFill:         DefaultMobileFill,
	}
}

// normalized fills zero or negative fields with the defaults.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.GroupSize <= 0 {
		c.GroupSize = d.GroupSize
	}
	if c.PaddingCoefficient < 0 {
		c.PaddingCoefficient = d.PaddingCoefficient
	}
	if c.MobileBreakpoint <= 0 {
		c.MobileBreakpoint = d.MobileBreakpoint
	}
	if c.MobileFill <= 0 {
		c.MobileFill = d.MobileFill
	}
	return c
}

// ModeFor reports which layout a viewport of width w gets.
func (c Config) ModeFor(w float64) Mode {
	if w < c.normalized().MobileBreakpoint {
		return Mobile
	}
	return Desktop
}

// Placement is where one item ends up.
type Placement struct {
	Index int
	Row   int
	Slot  int

	// Angle is the slot angle in degrees; RadialOffset the row's distance
	// from the centre. Both are zero in mobile mode.
	Angle        float64
	RadialOffset float64

	Width     float64
	Transform Affine

	// X, Y is the item's anchor: Transform applied to the origin.
	X, Y float64
}

// Result is one full layout pass.
type Result struct {
	Mode         Mode
	Rows         int
	Radius       float64
	RowThickness float64
	Padding      float64
	Placements   []Placement
}

// Compute lays out len(scales) items in a w×h container. scales[i] is item
// i's display scale; values <= 0 count as 1. Compute keeps no state, so
// calling it again with the same arguments gives the same result.
func Compute(cfg Config, w, h float64, scales []float64) Result {
	cfg = cfg.normalized()
	if cfg.ModeFor(w) == Mobile {
		return computeMobile(cfg, w, h, scales)
	}
	return computeRadial(cfg, w, h, scales)
}

func computeRadial(cfg Config, w, h float64, scales []float64) Result {
	n := len(scales)
	res := Result{Mode: Desktop}
	if n == 0 {
		return res
	}

	g := cfg.GroupSize
	p := cfg.PaddingCoefficient
	rows := (n + g - 1) / g
	radius := math.Min(w, h) / 2
	thickness := radius / (float64(rows) + float64(rows)*p + p)
	padding := thickness * p

	res.Rows = rows
	res.Radius = radius
	res.RowThickness = thickness
	res.Padding = padding
	res.Placements = make([]Placement, 0, n)

	cx, cy := w/2, h/2
	for r := 0; r < rows; r++ {
		first := r * g
		count := min(g, n-first)
		offset := float64(r+1)*thickness + float64(r+1)*padding
		slot := 360 / float64(count)

		for j := 0; j < count; j++ {
			angle := slot * float64(j)
			if r%2 == 1 {
				angle += slot / 2
			}
			t := Compose(
				Translate(cx, cy),
				Rotate(angle),
				Translate(offset, 0),
				Rotate(-angle),
			)
			x, y := t.Apply(0, 0)
			res.Placements = append(res.Placements, Placement{
				Index:        first + j,
				Row:          r,
				Slot:         j,
				Angle:        angle,
				RadialOffset: offset,
				Width:        thickness * scaleOf(scales[first+j]),
				Transform:    t,
				X:            x,
				Y:            y,
			})
		}
	}
	return res
}

// computeMobile sizes every item as the same square and flows them left to
// right, top to bottom.
func computeMobile(cfg Config, w, h float64, scales []float64) Result {
	n := len(scales)
	res := Result{Mode: Mobile}
	if n == 0 || w <= 0 || h <= 0 {
		return res
	}

	dim := math.Sqrt(w * h * cfg.MobileFill * cfg.MobileFill / float64(n))
	cols := max(1, int(w/dim))
	res.Rows = (n + cols - 1) / cols
	res.RowThickness = dim
	res.Placements = make([]Placement, n)

	for i := range n {
		row, col := i/cols, i%cols
		x, y := float64(col)*dim, float64(row)*dim
		res.Placements[i] = Placement{
			Index:     i,
			Row:       row,
			Slot:      col,
			Width:     dim,
			Transform: Translate(x, y),
			X:         x,
			Y:         y,
		}
	}
	return res
}

func scaleOf(s float64) float64 {
	if s <= 0 {
		return 1
	}
	return s
}
