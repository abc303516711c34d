// Package sound holds the capability contracts of the audio engine and the
// two-phase groove built on top of them.
package sound

import (
	"time"

	"lockgroove/internal/sched"
)

// Playable is a loaded piece of audio.
//
// OnEnded callbacks fire only when playback reaches the end of the data on its
// own; Stop never triggers them. Engines deliver the callback inline with
// playback so a handler can start the next sound without a gap.
type Playable interface {
	Play()
	Loop()
	Stop()
	IsPlaying() bool
	IsLooping() bool
	OnEnded(fn func())
	SetLoop(loop bool)
	Disconnect()
}

// Gain is an independently controllable gain stage.
type Gain interface {
	// SetInput routes src through this stage instead of straight to the output.
	SetInput(src Playable)
	Connect(dst Gain)
	// Amp moves the gain to value. A positive ramp interpolates linearly from
	// the current value; zero jumps.
	Amp(value float64, ramp time.Duration)
	Value() float64
}

// Amplitude meters the level of a single source.
type Amplitude interface {
	Level() float64
}

// Analyser returns the most recent magnitude spectrum of a source, one entry
// per bin, scaled to [0,255].
type Analyser interface {
	Analyze() []float64
}

// Engine creates the nodes a groove needs around its playables.
type Engine interface {
	NewGain() Gain
	NewAmplitude(src Playable) Amplitude
	NewFFT(src Playable) Analyser
}

// Resetter is implemented by anything holding rolling state that must be
// cleared when a groove stops.
type Resetter interface {
	Reset()
}

// Scheduler defers work onto the control thread.
type Scheduler interface {
	After(d time.Duration, fn func()) *sched.Task
}

// SoundFile is a recording in progress or finished.
type SoundFile interface {
	Duration() time.Duration
}

// Recorder captures the master output into sound files.
type Recorder interface {
	NewFile() SoundFile
	Record(f SoundFile) error
	Stop()
	// Save writes f to path.
	Save(f SoundFile, path string) error
}
