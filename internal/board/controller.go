package board

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"lockgroove/internal/config"
	"lockgroove/internal/layout"
	"lockgroove/internal/sound"
	"lockgroove/internal/viz"
)

var (
	ErrUnknownGroove = errors.New("unknown groove")
	ErrRecording     = errors.New("already recording")
	ErrNotRecording  = errors.New("not recording")
)

// Button is an on-screen trigger.
type Button interface {
	OnClick(fn func())
	SetActive(active bool)
	Active() bool
}

// UI creates and positions buttons.
type UI interface {
	NewButton(key, icon string, scale float64) Button
	NewRecordButton() Button
	Place(b Button, p layout.Placement)
}

type Options struct {
	FadeDuration time.Duration
	RecordDir    string
	Layout       layout.Config
	Logger       *slog.Logger
}

// Controller owns the entries, the recorder session and the layout.
type Controller struct {
	ui   UI
	rec  sound.Recorder
	opts Options
	log  *slog.Logger
	bus  *EventBus

	entries []*Entry
	byKey   map[string]*Entry

	recordButton Button
	take         sound.SoundFile

	mode   layout.Mode
	layout layout.Result
}

func New(ui UI, rec sound.Recorder, opts Options) *Controller {
	if opts.FadeDuration <= 0 {
		opts.FadeDuration = config.DefaultFadeDuration
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Controller{
		ui:    ui,
		rec:   rec,
		opts:  opts,
		log:   opts.Logger,
		bus:   NewEventBus(),
		byKey: make(map[string]*Entry),
	}
	c.recordButton = ui.NewRecordButton()
	c.recordButton.OnClick(func() {
		if err := c.ToggleRecording(); err != nil {
			c.log.Error("recording", "err", err)
		}
	})
	return c
}

func (c *Controller) Events() *EventBus { return c.bus }

// Add appends e in display order and gives it a button. Clicking the button
// toggles the groove with the configured fade and lights the button while
// the groove sounds.
func (c *Controller) Add(e *Entry) error {
	if _, dup := c.byKey[e.Key]; dup {
		return fmt.Errorf("add groove %q: duplicate key", e.Key)
	}
	e.bus = c.bus
	e.button = c.ui.NewButton(e.Key, e.Icon, e.IconScale)
	e.button.OnClick(func() {
		if err := c.Toggle(e.Key, c.opts.FadeDuration); err != nil {
			c.log.Error("toggle", "key", e.Key, "err", err)
		}
		e.button.SetActive(e.Sounding())
	})
	c.entries = append(c.entries, e)
	c.byKey[e.Key] = e
	return nil
}

func (c *Controller) Entries() []*Entry { return c.entries }

func (c *Controller) Entry(key string) (*Entry, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

// Toggle stops a playing groove over fade, or starts a stopped one.
func (c *Controller) Toggle(key string, fade time.Duration) error {
	e, ok := c.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroove, key)
	}
	if e.Groove.IsPlaying() {
		c.stop(e, fade)
		return nil
	}
	e.Groove.Loop()
	c.bus.Emit(Event{Type: EventGrooveStarted, Key: key})
	return nil
}

// StopAll fades every groove out and clears every button.
func (c *Controller) StopAll() {
	for _, e := range c.entries {
		c.stop(e, e.Groove.FadeDuration())
		e.button.SetActive(false)
	}
}

func (c *Controller) stop(e *Entry, fade time.Duration) {
	prev := e.Groove.State()
	e.Groove.Stop(fade, e)
	if prev != sound.FadingOut && e.Groove.State() == sound.FadingOut {
		c.bus.Emit(Event{Type: EventGrooveStopping, Key: e.Key})
	}
}

func (c *Controller) Recording() bool { return c.take != nil }

func (c *Controller) StartRecording() error {
	if c.take != nil {
		return ErrRecording
	}
	f := c.rec.NewFile()
	if err := c.rec.Record(f); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	c.take = f
	c.recordButton.SetActive(true)
	c.bus.Emit(Event{Type: EventRecordingStarted})
	return nil
}

// StopRecording ends the session and saves it as RecordingName in the
// record directory. It returns the written path.
func (c *Controller) StopRecording() (string, error) {
	if c.take == nil {
		return "", ErrNotRecording
	}
	take := c.take
	c.take = nil
	c.rec.Stop()
	c.recordButton.SetActive(false)

	path := filepath.Join(c.opts.RecordDir, config.RecordingName)
	if err := c.rec.Save(take, path); err != nil {
		return "", fmt.Errorf("stop recording: %w", err)
	}
	c.log.Info("recording saved", "path", path, "duration", take.Duration())
	c.bus.Emit(Event{Type: EventRecordingSaved, Path: path})
	return path, nil
}

// ToggleRecording starts a session when idle and stops it otherwise.
func (c *Controller) ToggleRecording() error {
	if c.take == nil {
		return c.StartRecording()
	}
	_, err := c.StopRecording()
	return err
}

// Tick draws one frame: the background, then every entry in display order.
func (c *Controller) Tick(s viz.Surface) {
	s.Background(viz.Palette.Black)
	for _, e := range c.entries {
		e.Visualize(s)
	}
}

// Relayout positions every button for a w×h board.
func (c *Controller) Relayout(w, h float64) layout.Result {
	scales := make([]float64, len(c.entries))
	for i, e := range c.entries {
		scales[i] = e.IconScale
	}
	res := layout.Compute(c.opts.Layout, w, h, scales)
	for _, p := range res.Placements {
		c.ui.Place(c.entries[p.Index].button, p)
	}
	c.mode = res.Mode
	c.layout = res
	c.log.Debug("relayout", "width", w, "height", h, "mode", res.Mode, "rows", res.Rows)
	c.bus.Emit(Event{Type: EventLayoutChanged, Mode: res.Mode})
	return res
}

func (c *Controller) Mode() layout.Mode     { return c.mode }
func (c *Controller) Layout() layout.Result { return c.layout }

// Shutdown halts every groove at once and saves an open recording.
func (c *Controller) Shutdown() error {
	for _, e := range c.entries {
		e.Groove.Stop(0, e)
		e.button.SetActive(false)
	}
	if c.take != nil {
		_, err := c.StopRecording()
		return err
	}
	return nil
}
