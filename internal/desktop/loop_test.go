package desktop

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"lockgroove/internal/board"
	"lockgroove/internal/config"
	"lockgroove/internal/layout"
	"lockgroove/internal/sched"
	"lockgroove/internal/sound"
	"lockgroove/internal/sound/soundtest"
	"lockgroove/internal/viz"
)

type countingLocker struct{ calls int }

func (l *countingLocker) Do(fn func()) {
	l.calls++
	fn()
}

type appRig struct {
	app   *App
	lock  *countingLocker
	clock *sched.ManualClock
	rec   *soundtest.Recorder
	canv  *Canvas
}

func newAppRig(t *testing.T, keys ...string) *appRig {
	t.Helper()
	clock := sched.NewManualClock(time.Unix(1000, 0))
	s := sched.New(clock)
	eng := soundtest.NewEngine(clock)
	master := soundtest.NewGain(clock)
	ui := NewButtons(quietLogger())
	rec := &soundtest.Recorder{}
	c := board.New(ui, rec, board.Options{RecordDir: t.TempDir(), Logger: quietLogger()})
	for _, k := range keys {
		v, err := viz.New(viz.KindStationaryCircle, viz.Options{})
		if err != nil {
			t.Fatal(err)
		}
		g := sound.NewDualPhaseLoop(eng, master,
			soundtest.NewPlayable(k+"/intro"), soundtest.NewPlayable(k+"/loop"), s, sound.Options{})
		if err := c.Add(board.NewEntry(k, g, v, "", 1)); err != nil {
			t.Fatal(err)
		}
	}
	lock := &countingLocker{}
	return &appRig{
		app:   &App{Engine: lock, Sched: s, Board: c, UI: ui, Logger: quietLogger(), Width: 800, Height: 600},
		lock:  lock,
		clock: clock,
		rec:   rec,
		canv:  NewCanvas(800, 600),
	}
}

func (r *appRig) buttonCenter(key string) (float64, float64) {
	e, _ := r.app.Board.Entry(key)
	return e.Button().(*Button).Center()
}

func TestStepResizeRelayouts(t *testing.T) {
	r := newAppRig(t, "a", "b", "c")
	r.app.Step(r.canv, FrameInput{Resized: true, Width: 800, Height: 600})

	for _, e := range r.app.Board.Entries() {
		if !e.Button().(*Button).Placed() {
			t.Fatalf("%s not placed", e.Key)
		}
	}
	// One row of three around (400,300) at offset 240.
	if x, y := r.buttonCenter("a"); x < 639.9 || x > 640.1 || y < 299.9 || y > 300.1 {
		t.Fatalf("a at (%v,%v), want (640,300)", x, y)
	}

	r.app.Step(r.canv, FrameInput{Resized: true, Width: 500, Height: 900})
	if r.canv.Width() != 500 || r.canv.Height() != 900 {
		t.Fatalf("canvas %vx%v, want 500x900", r.canv.Width(), r.canv.Height())
	}
	if r.app.Board.Mode() != layout.Mobile {
		t.Fatalf("mode %v after narrow resize", r.app.Board.Mode())
	}
}

func TestStepClickTogglesGroove(t *testing.T) {
	r := newAppRig(t, "a", "b", "c")
	r.app.Step(r.canv, FrameInput{Resized: true, Width: 800, Height: 600})

	x, y := r.buttonCenter("a")
	r.app.Step(r.canv, FrameInput{Clicks: [][2]float64{{x, y}}})
	a, _ := r.app.Board.Entry("a")
	if !a.Groove.IsPlaying() || !a.Button().Active() {
		t.Fatal("click should start a and light its button")
	}
	if b, _ := r.app.Board.Entry("b"); b.Groove.IsPlaying() {
		t.Fatal("b started too")
	}

	// Space fades everything out over the groove's fade.
	r.app.Step(r.canv, FrameInput{StopAll: true})
	if a.Button().Active() {
		t.Fatal("stop all left the button lit")
	}
	r.clock.Advance(config.DefaultFadeDuration - time.Millisecond)
	r.app.Step(r.canv, FrameInput{})
	if !a.Groove.IsPlaying() {
		t.Fatal("halted before the fade ended")
	}
	r.clock.Advance(time.Millisecond)
	r.app.Step(r.canv, FrameInput{})
	if a.Groove.IsPlaying() {
		t.Fatal("still playing after the fade")
	}
}

func TestStepRecording(t *testing.T) {
	r := newAppRig(t, "a")
	r.app.Step(r.canv, FrameInput{Resized: true, Width: 800, Height: 600})

	r.app.Step(r.canv, FrameInput{ToggleRecording: true})
	if !r.app.Board.Recording() {
		t.Fatal("R should start recording")
	}
	rec := r.app.UI.All()[1]
	rx, ry := rec.Center()
	r.app.Step(r.canv, FrameInput{Clicks: [][2]float64{{rx, ry}}})
	if r.app.Board.Recording() {
		t.Fatal("record button should stop recording")
	}
	if len(r.rec.Saves) != 1 {
		t.Fatalf("%d saves, want 1", len(r.rec.Saves))
	}
}

func TestStepDrawsButtonsOverBackground(t *testing.T) {
	r := newAppRig(t, "a", "b")
	r.app.Step(r.canv, FrameInput{Resized: true, Width: 800, Height: 600})
	if r.canv.BackgroundColor() != viz.Palette.Black {
		t.Fatalf("background %v, want black", r.canv.BackgroundColor())
	}
	// Silent grooves draw nothing, so only the three plates remain.
	if got, want := r.canv.VertexCount(), 3*(6+4*6); got != want {
		t.Fatalf("got %d vertices, want %d", got, want)
	}
	if r.lock.calls != 1 {
		t.Fatalf("%d locked sections, want 1", r.lock.calls)
	}
}

func TestShutdownUnderLock(t *testing.T) {
	r := newAppRig(t, "a")
	r.app.Step(r.canv, FrameInput{Resized: true, Width: 800, Height: 600})
	r.app.Step(r.canv, FrameInput{ToggleRecording: true})
	x, y := r.buttonCenter("a")
	r.app.Step(r.canv, FrameInput{Clicks: [][2]float64{{x, y}}})

	before := r.lock.calls
	if err := r.app.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if r.lock.calls != before+1 {
		t.Fatal("shutdown ran outside the engine lock")
	}
	a, _ := r.app.Board.Entry("a")
	if a.Groove.IsPlaying() || r.app.Board.Recording() {
		t.Fatal("shutdown left the board running")
	}
	if len(r.rec.Saves) != 1 {
		t.Fatalf("%d saves, want 1", len(r.rec.Saves))
	}
}

func TestLogEvents(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	bus := board.NewEventBus()
	LogEvents(bus, log)

	bus.Emit(board.Event{Type: board.EventGrooveStarted, Key: "kick"})
	bus.Emit(board.Event{Type: board.EventRecordingSaved, Path: "/tmp/mySound.wav"})

	out := buf.String()
	for _, want := range []string{`event="groove started"`, "key=kick", `event="recording saved"`, "path=/tmp/mySound.wav"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
