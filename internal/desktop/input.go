//go:build !headless

package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Input struct {
	prevMouse map[glfw.MouseButton]bool
	prevKeys  map[glfw.Key]bool

	resized       bool
	width, height int
}

func NewInput(window *glfw.Window) *Input {
	in := &Input{
		prevMouse: make(map[glfw.MouseButton]bool),
		prevKeys:  make(map[glfw.Key]bool),
	}
	window.SetSizeCallback(func(_ *glfw.Window, w, h int) {
		in.resized = true
		in.width, in.height = w, h
	})
	return in
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

func (in *Input) JustClicked(window *glfw.Window, btn glfw.MouseButton) bool {
	down := window.GetMouseButton(btn) == glfw.Press
	jp := down && !in.prevMouse[btn]
	in.prevMouse[btn] = down
	return jp
}

// Collect polls the window into one frame's input. The canvas lives in
// window coordinates, so cursor positions need no framebuffer scaling.
func (in *Input) Collect(window *glfw.Window) FrameInput {
	var f FrameInput
	if in.JustClicked(window, glfw.MouseButtonLeft) {
		x, y := window.GetCursorPos()
		f.Clicks = append(f.Clicks, [2]float64{x, y})
	}
	f.StopAll = in.JustPressed(window, glfw.KeySpace)
	f.ToggleRecording = in.JustPressed(window, glfw.KeyR)
	if in.JustPressed(window, glfw.KeyEscape) {
		window.SetShouldClose(true)
	}
	if in.resized {
		f.Resized = true
		f.Width, f.Height = float64(in.width), float64(in.height)
		in.resized = false
	}
	return f
}
