//go:build headless

package desktop

import (
	"context"
	"time"
)

const headlessFrame = time.Second / 60

// Run drives the board without a window until ctx is cancelled. Frames are
// tessellated and dropped.
func Run(ctx context.Context, app *App) error {
	canvas := NewCanvas(float64(app.Width), float64(app.Height))
	app.log().Info("running headless", "width", app.Width, "height", app.Height)

	app.Step(canvas, FrameInput{Resized: true, Width: canvas.Width(), Height: canvas.Height()})
	tick := time.NewTicker(headlessFrame)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			app.Step(canvas, FrameInput{})
		}
	}
}
