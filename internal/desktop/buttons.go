package desktop

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"lockgroove/internal/board"
	"lockgroove/internal/layout"
	"lockgroove/internal/viz"
)

const (
	IconSize = 128 // icon texture edge in pixels

	buttonFill         = 0.9 // share of the placement width a button covers
	iconInset          = 0.15
	recordButtonSize   = 56
	recordButtonMargin = 16

	// Highlight spring: slightly underdamped so a toggle overshoots a little.
	springFrequency = 6.0
	springDamping   = 0.4
	clickKick       = 3.0
)

var (
	_ board.UI     = (*Buttons)(nil)
	_ board.Button = (*Button)(nil)
)

// Button is a square trigger drawn upright at its placement.
type Button struct {
	key    string
	record bool
	icon   *image.RGBA

	onClick []func()
	active  bool

	placed bool
	cx, cy float64
	size   float64

	glow, vel float64
}

func (b *Button) OnClick(fn func())     { b.onClick = append(b.onClick, fn) }
func (b *Button) SetActive(active bool) { b.active = active }
func (b *Button) Active() bool          { return b.active }

func (b *Button) Key() string            { return b.key }
func (b *Button) Icon() *image.RGBA      { return b.icon }
func (b *Button) Placed() bool           { return b.placed }
func (b *Button) Glow() float64          { return b.glow }
func (b *Button) Center() (x, y float64) { return b.cx, b.cy }

// Bounds is the drawn square: top-left corner and edge length.
func (b *Button) Bounds() (x, y, size float64) {
	s := b.size * (1 + 0.08*b.glow)
	return b.cx - s/2, b.cy - s/2, s
}

// IconBounds is Bounds shrunk by the icon inset.
func (b *Button) IconBounds() (x, y, size float64) {
	x, y, s := b.Bounds()
	in := s * iconInset
	return x + in, y + in, s - 2*in
}

func (b *Button) Contains(x, y float64) bool {
	if !b.placed {
		return false
	}
	half := b.size / 2
	return math.Abs(x-b.cx) <= half && math.Abs(y-b.cy) <= half
}

// Click runs the click handlers and kicks the highlight spring.
func (b *Button) Click() {
	b.vel += clickKick
	for _, fn := range b.onClick {
		fn()
	}
}

// Buttons is the board's button layer.
type Buttons struct {
	log     *slog.Logger
	spring  harmonica.Spring
	buttons []*Button
	record  *Button
}

func NewButtons(log *slog.Logger) *Buttons {
	if log == nil {
		log = slog.Default()
	}
	return &Buttons{
		log:    log,
		spring: harmonica.NewSpring(harmonica.FPS(60), springFrequency, springDamping),
	}
}

// NewButton loads the icon at path, or draws a glyph for key when path is
// empty or unreadable. The display scale arrives through Place.
func (u *Buttons) NewButton(key, icon string, _ float64) board.Button {
	b := &Button{key: key}
	if icon != "" {
		img, err := LoadIcon(icon, IconSize)
		if err != nil {
			u.log.Warn("icon load failed, using glyph", "key", key, "err", err)
		} else {
			b.icon = img
		}
	}
	if b.icon == nil {
		b.icon = Glyph(key, IconSize)
	}
	u.buttons = append(u.buttons, b)
	return b
}

// NewRecordButton sits in the top-left corner, outside the layout.
func (u *Buttons) NewRecordButton() board.Button {
	b := &Button{
		key:    "record",
		record: true,
		icon:   recordGlyph(IconSize),
		placed: true,
		cx:     recordButtonMargin + recordButtonSize/2,
		cy:     recordButtonMargin + recordButtonSize/2,
		size:   recordButtonSize,
	}
	u.record = b
	return b
}

// Place moves b to p. Radial placements anchor the button's centre, grid
// placements its top-left corner.
func (u *Buttons) Place(bb board.Button, p layout.Placement) {
	b, ok := bb.(*Button)
	if !ok {
		u.log.Warn("place: foreign button", "type", fmt.Sprintf("%T", bb))
		return
	}
	b.size = p.Width * buttonFill
	b.cx, b.cy = p.X, p.Y
	if p.RadialOffset == 0 {
		b.cx += p.Width / 2
		b.cy += p.Width / 2
	}
	b.placed = true
}

// All returns every button, the record button last.
func (u *Buttons) All() []*Button {
	out := make([]*Button, 0, len(u.buttons)+1)
	out = append(out, u.buttons...)
	if u.record != nil {
		out = append(out, u.record)
	}
	return out
}

// Hit returns the topmost button under (x, y).
func (u *Buttons) Hit(x, y float64) *Button {
	if u.record != nil && u.record.Contains(x, y) {
		return u.record
	}
	for i := len(u.buttons) - 1; i >= 0; i-- {
		if u.buttons[i].Contains(x, y) {
			return u.buttons[i]
		}
	}
	return nil
}

// Click clicks the button under (x, y) and reports whether there was one.
func (u *Buttons) Click(x, y float64) bool {
	b := u.Hit(x, y)
	if b == nil {
		return false
	}
	u.log.Debug("button clicked", "key", b.key)
	b.Click()
	return true
}

// Update steps every highlight spring one frame toward its active state.
func (u *Buttons) Update() {
	for _, b := range u.All() {
		target := 0.0
		if b.active {
			target = 1
		}
		b.glow, b.vel = u.spring.Update(b.glow, b.vel, target)
	}
}

// Draw queues every placed button's plate and outline on c. Icons are
// textured on top by the renderer.
func (u *Buttons) Draw(c *Canvas) {
	c.StrokeWeight(2)
	for _, b := range u.All() {
		if !b.placed {
			continue
		}
		x, y, s := b.Bounds()
		g := clamp01(b.glow)
		base := viz.Palette.MediumGray
		if b.record {
			base = viz.Palette.DarkGray
		}
		c.Fill(mix(base, viz.Palette.Red, g))
		c.Stroke(mix(viz.Palette.LightGray, viz.Palette.White, g))
		c.Rect(x, y, s, s)
	}
}

func mix(a, b viz.Color, t float64) viz.Color {
	l := func(x, y uint8) float64 { return float64(x) + (float64(y)-float64(x))*t }
	return viz.RGBA(l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), l(a.A, b.A))
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// LoadIcon decodes a PNG or JPEG and scales it to a size×size RGBA image.
// An .svg file is rasterized at that size instead.
func LoadIcon(path string, size int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		icon, err := oksvg.ReadIconStream(f)
		if err != nil {
			return nil, fmt.Errorf("parse icon %s: %w", path, err)
		}
		return rasterizeSVG(icon, size), nil
	}
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", path, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

func rasterizeSVG(icon *oksvg.SvgIcon, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	icon.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return dst
}

// Glyph draws a ring with spokes whose count and rotation derive from key.
func Glyph(key string, size int) *image.RGBA {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()
	spokes := 3 + int(sum%6)
	twist := float64(sum>>8%360) * math.Pi / 180

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	ink := color.RGBA{R: 230, G: 230, B: 230, A: 230}
	c := float64(size) / 2
	ringR, ringW := 0.72*c, 0.07*c
	spokeW := 0.05 * c
	for py := range size {
		for px := range size {
			dx, dy := float64(px)+0.5-c, float64(py)+0.5-c
			r := math.Hypot(dx, dy)
			if math.Abs(r-ringR) <= ringW {
				img.SetRGBA(px, py, ink)
				continue
			}
			if r > 0.55*c || r < 0.12*c {
				continue
			}
			a := math.Atan2(dy, dx) - twist
			step := 2 * math.Pi / float64(spokes)
			off := math.Remainder(a, step)
			if math.Abs(off)*r <= spokeW {
				img.SetRGBA(px, py, ink)
			}
		}
	}
	return img
}

func recordGlyph(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	dot := color.RGBA{R: 0xE0, G: 0x2A, B: 0x3C, A: 255}
	c := float64(size) / 2
	for py := range size {
		for px := range size {
			if math.Hypot(float64(px)+0.5-c, float64(py)+0.5-c) <= 0.4*c {
				img.SetRGBA(px, py, dot)
			}
		}
	}
	return img
}
