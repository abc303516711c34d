// Package board ties grooves, their visualizations and the on-screen buttons
// together and drives them frame by frame.
package board

import (
	"lockgroove/internal/sound"
	"lockgroove/internal/viz"
)

// Entry is one groove on the board.
type Entry struct {
	Key       string
	Groove    *sound.DualPhaseLoop
	Viz       viz.Visualization
	Icon      string
	IconScale float64

	button Button
	bus    *EventBus
}

func NewEntry(key string, groove *sound.DualPhaseLoop, v viz.Visualization, icon string, scale float64) *Entry {
	if scale <= 0 {
		scale = 1
	}
	return &Entry{Key: key, Groove: groove, Viz: v, Icon: icon, IconScale: scale}
}

// Button is the entry's trigger, nil until the entry joins a Controller.
func (e *Entry) Button() Button { return e.button }

// Sounding is true while the groove plays and is not fading out.
func (e *Entry) Sounding() bool {
	return e.Groove.IsPlaying() && e.Groove.State() != sound.FadingOut
}

// Visualize samples the active phase and hands the reading to the
// visualization. Nothing is drawn while the groove is stopped or silent.
// It reports whether the visualization ran.
func (e *Entry) Visualize(s viz.Surface) bool {
	if !e.Groove.IsPlaying() {
		return false
	}
	var level float64
	if amp := e.Groove.Amplitude(); amp != nil {
		level = amp.Level()
	}
	var spectrum []float64
	if fft := e.Groove.FFT(); fft != nil {
		spectrum = fft.Analyze()
	}
	if level == 0 && silent(spectrum) {
		return false
	}
	s.NoFill()
	e.Viz.Visualize(s, level, spectrum)
	return true
}

// Reset is handed to the groove on Stop, so it runs once the groove has
// actually halted, immediately or at the end of a fade.
func (e *Entry) Reset() {
	e.Viz.Reset()
	if e.button != nil {
		e.button.SetActive(false)
	}
	if e.bus != nil {
		e.bus.Emit(Event{Type: EventGrooveStopped, Key: e.Key})
	}
}

func silent(spectrum []float64) bool {
	for _, m := range spectrum {
		if m != 0 {
			return false
		}
	}
	return true
}
