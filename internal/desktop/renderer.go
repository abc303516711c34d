//go:build !headless

package desktop

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

const initialShapeVerts = 64 * 1024

type Renderer struct {
	// Canvas triangles.
	shapeProg uint32
	shapeVAO  uint32
	shapeVBO  uint32
	shapeURes int32
	shapeCap  int // bytes allocated in shapeVBO

	// Button icons.
	iconProg   uint32
	iconVAO    uint32
	iconVBO    uint32
	iconURes   int32
	iconUTex   int32
	iconUAlpha int32

	textures map[*Button]uint32
}

func NewRenderer() (*Renderer, error) {
	shapeProg, err := linkProgram(shapeVertSrc, shapeFragSrc)
	if err != nil {
		return nil, fmt.Errorf("shape program: %w", err)
	}
	iconProg, err := linkProgram(iconVertSrc, iconFragSrc)
	if err != nil {
		gl.DeleteProgram(shapeProg)
		return nil, fmt.Errorf("icon program: %w", err)
	}

	r := &Renderer{
		shapeProg: shapeProg,
		iconProg:  iconProg,
		textures:  make(map[*Button]uint32),
	}

	// Shape VAO/VBO: streaming triangles, pos(2) + color(4).
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := int32(FloatsPerVertex * 4)
	r.shapeCap = initialShapeVerts * int(stride)
	gl.BufferData(gl.ARRAY_BUFFER, r.shapeCap, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0) // aPos
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aColor
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, glOffset(2*4))
	r.shapeVAO = vao
	r.shapeVBO = vbo

	gl.UseProgram(shapeProg)
	r.shapeURes = gl.GetUniformLocation(shapeProg, gl.Str("uResolution\x00"))

	// Icon VAO/VBO: one quad at a time, pos(2) + uv(2).
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride = int32(4 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, 6*int(stride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0) // aPos
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aUV
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, glOffset(2*4))
	r.iconVAO = vao
	r.iconVBO = vbo

	gl.UseProgram(iconProg)
	r.iconURes = gl.GetUniformLocation(iconProg, gl.Str("uResolution\x00"))
	r.iconUTex = gl.GetUniformLocation(iconProg, gl.Str("uIcon\x00"))
	r.iconUAlpha = gl.GetUniformLocation(iconProg, gl.Str("uAlpha\x00"))
	gl.Uniform1i(r.iconUTex, 0)

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.shapeVBO, r.iconVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.shapeVAO, r.iconVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.shapeProg, r.iconProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	clear(r.textures)
}

// Draw clears to the canvas background, draws its triangles and puts every
// placed button's icon on top.
func (r *Renderer) Draw(c *Canvas, buttons []*Button, fbW, fbH int) {
	bg := c.BackgroundColor()
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	if verts := c.Vertices(); len(verts) > 0 {
		gl.UseProgram(r.shapeProg)
		gl.BindVertexArray(r.shapeVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.shapeVBO)
		gl.Uniform2f(r.shapeURes, float32(c.Width()), float32(c.Height()))

		size := len(verts) * 4
		if size > r.shapeCap {
			r.shapeCap = size * 2
			gl.BufferData(gl.ARRAY_BUFFER, r.shapeCap, nil, gl.STREAM_DRAW)
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(verts))
		gl.DrawArrays(gl.TRIANGLES, 0, int32(c.VertexCount()))
	}

	gl.UseProgram(r.iconProg)
	gl.BindVertexArray(r.iconVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.iconVBO)
	gl.Uniform2f(r.iconURes, float32(c.Width()), float32(c.Height()))
	gl.ActiveTexture(gl.TEXTURE0)
	for _, b := range buttons {
		if !b.Placed() || b.Icon() == nil {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, r.texture(b))
		alpha := 0.7 + 0.3*clamp01(b.Glow())
		gl.Uniform1f(r.iconUAlpha, float32(alpha))

		x, y, s := b.IconBounds()
		x0, y0 := float32(x), float32(y)
		x1, y1 := float32(x+s), float32(y+s)
		quad := [24]float32{
			x0, y0, 0, 0,
			x1, y0, 1, 0,
			x0, y1, 0, 1,
			x1, y0, 1, 0,
			x1, y1, 1, 1,
			x0, y1, 0, 1,
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(quad)*4, gl.Ptr(&quad[0]))
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}

	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)
}

// texture uploads b's icon on first use.
func (r *Renderer) texture(b *Button) uint32 {
	if tex, ok := r.textures[b]; ok {
		return tex
	}
	tex := uploadTexture(b.Icon())
	r.textures[b] = tex
	return tex
}

func uploadTexture(img *image.RGBA) uint32 {
	bounds := img.Bounds()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(bounds.Dx()), int32(bounds.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return tex
}
