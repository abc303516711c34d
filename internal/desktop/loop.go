package desktop

import (
	"log/slog"

	"lockgroove/internal/board"
	"lockgroove/internal/sched"
)

// Locker serializes the frame step with the audio mixer.
type Locker interface {
	Do(fn func())
}

// App is everything a frame touches.
type App struct {
	Engine Locker
	Sched  *sched.Scheduler
	Board  *board.Controller
	UI     *Buttons
	Logger *slog.Logger

	Title         string
	Width, Height int
}

// FrameInput is what the window collected since the previous frame.
type FrameInput struct {
	Clicks          [][2]float64 // window coordinates
	StopAll         bool
	ToggleRecording bool

	Resized       bool
	Width, Height float64
}

// Step advances the board by one frame and leaves the frame's geometry on
// c: visualizations first, buttons on top.
func (a *App) Step(c *Canvas, in FrameInput) {
	a.Engine.Do(func() {
		if in.Resized && in.Width > 0 && in.Height > 0 {
			c.Resize(in.Width, in.Height)
			a.Board.Relayout(in.Width, in.Height)
		}
		for _, p := range in.Clicks {
			a.UI.Click(p[0], p[1])
		}
		if in.StopAll {
			a.Board.StopAll()
		}
		if in.ToggleRecording {
			if err := a.Board.ToggleRecording(); err != nil {
				a.log().Error("recording", "err", err)
			}
		}
		a.Sched.RunDue()
		a.Board.Tick(c)
		a.UI.Update()
		a.UI.Draw(c)
	})
}

// Shutdown stops the board under the engine lock.
func (a *App) Shutdown() error {
	var err error
	a.Engine.Do(func() { err = a.Board.Shutdown() })
	return err
}

func (a *App) log() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// LogEvents reports board events on log at debug level.
func LogEvents(bus *board.EventBus, log *slog.Logger) {
	bus.SubscribeAll(func(e board.Event) {
		attrs := []any{"event", e.Type.String()}
		switch e.Type {
		case board.EventRecordingSaved:
			attrs = append(attrs, "path", e.Path)
		case board.EventLayoutChanged:
			attrs = append(attrs, "mode", e.Mode)
		case board.EventRecordingStarted:
		default:
			attrs = append(attrs, "key", e.Key)
		}
		log.Debug("board event", attrs...)
	})
}
