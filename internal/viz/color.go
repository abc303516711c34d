package viz

// Color is 8-bit RGBA.
type Color struct {
	R, G, B, A uint8
}

// RGB builds an opaque colour from float channels, clamped to 0..255.
func RGB(r, g, b float64) Color {
	return Color{R: u8(r), G: u8(g), B: u8(b), A: 255}
}

func RGBA(r, g, b, a float64) Color {
	return Color{R: u8(r), G: u8(g), B: u8(b), A: u8(a)}
}

func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

func u8(v float64) uint8 {
	return uint8(clampF(v, 0, 255) + 0.5)
}

var Palette = struct {
	Black      Color
	DarkGray   Color
	MediumGray Color
	LightGray  Color
	Red        Color
	White      Color
}{
	Black:      Color{R: 0x01, G: 0x07, B: 0x11, A: 255},
	DarkGray:   Color{R: 0x13, G: 0x17, B: 0x1F, A: 255},
	MediumGray: Color{R: 0x1C, G: 0x20, B: 0x26, A: 255},
	LightGray:  Color{R: 0x24, G: 0x27, B: 0x2D, A: 255},
	Red:        Color{R: 0x94, G: 0x15, B: 0x2A, A: 255},
	White:      Color{R: 255, G: 255, B: 255, A: 255},
}
