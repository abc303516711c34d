//go:build !headless

package desktop

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Run opens the window and drives the board until the window closes or ctx
// is cancelled. It must be called from the main goroutine.
func Run(ctx context.Context, app *App) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	window, err := initWindow(app.Width, app.Height, app.Title)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	app.log().Info("window open", "gl", gl.GoStr(gl.GetString(gl.VERSION)), "width", app.Width, "height", app.Height)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	// Layout and canvas follow the window size, which the window manager
	// may have changed from the requested one.
	w, h := window.GetSize()
	canvas := NewCanvas(float64(w), float64(h))
	in := NewInput(window)
	first := FrameInput{Resized: true, Width: float64(w), Height: float64(h)}
	app.Step(canvas, first)

	for !window.ShouldClose() && ctx.Err() == nil {
		glfw.PollEvents()
		app.Step(canvas, in.Collect(window))

		fbW, fbH := window.GetFramebufferSize()
		rend.Draw(canvas, app.UI.All(), fbW, fbH)
		window.SwapBuffers()
	}
	return nil
}
