// Package soundtest provides in-memory stand-ins for the audio engine.
package soundtest

import (
	"time"

	"lockgroove/internal/sched"
	"lockgroove/internal/sound"
)

// Playable tracks transport state and lets a test end playback naturally.
type Playable struct {
	Name string

	playing, looping bool
	loopFlag         bool
	ended            []func()

	Plays, Loops, Stops int
	Disconnected        bool
}

func NewPlayable(name string) *Playable { return &Playable{Name: name} }

func (p *Playable) Play() {
	p.playing = true
	p.looping = p.loopFlag
	p.Plays++
}

func (p *Playable) Loop() {
	p.playing = true
	p.looping = true
	p.Loops++
}

func (p *Playable) Stop() {
	p.playing = false
	p.looping = false
	p.Stops++
}

func (p *Playable) IsPlaying() bool   { return p.playing }
func (p *Playable) IsLooping() bool   { return p.looping }
func (p *Playable) OnEnded(fn func()) { p.ended = append(p.ended, fn) }
func (p *Playable) SetLoop(loop bool) { p.loopFlag = loop }
func (p *Playable) Disconnect()       { p.Disconnected = true }

// Finish simulates the data running out. Looping playables never finish.
func (p *Playable) Finish() {
	if !p.playing || p.looping {
		return
	}
	p.playing = false
	for _, fn := range p.ended {
		fn()
	}
}

// Drop silences the playable without an end notification, the way an engine
// drops a looping voice with no data.
func (p *Playable) Drop() {
	p.playing = false
	p.looping = false
}

type AmpCall struct {
	Value float64
	Ramp  time.Duration
	At    time.Time
}

// Gain interpolates ramps against a clock so tests can sample the trajectory.
type Gain struct {
	clock sched.Clock

	from, to float64
	start    time.Time
	ramp     time.Duration

	Input   sound.Playable
	Outputs []sound.Gain
	Calls   []AmpCall
}

func NewGain(clock sched.Clock) *Gain {
	return &Gain{clock: clock, from: 1, to: 1}
}

func (g *Gain) SetInput(src sound.Playable) { g.Input = src }
func (g *Gain) Connect(dst sound.Gain)      { g.Outputs = append(g.Outputs, dst) }

func (g *Gain) Amp(value float64, ramp time.Duration) {
	now := g.clock.Now()
	g.from = g.Value()
	g.to = value
	g.start = now
	g.ramp = ramp
	g.Calls = append(g.Calls, AmpCall{Value: value, Ramp: ramp, At: now})
}

func (g *Gain) Value() float64 {
	if g.ramp <= 0 {
		return g.to
	}
	el := g.clock.Now().Sub(g.start)
	if el >= g.ramp {
		return g.to
	}
	if el <= 0 {
		return g.from
	}
	return g.from + (g.to-g.from)*float64(el)/float64(g.ramp)
}

// Meter is a settable amplitude reading.
type Meter struct {
	Value float64
	Reads int
}

func (m *Meter) Level() float64 {
	m.Reads++
	return m.Value
}

// Analyser is a settable spectrum.
type Analyser struct {
	Bins  []float64
	Reads int
}

func (a *Analyser) Analyze() []float64 {
	a.Reads++
	return a.Bins
}

// Engine hands out fakes and remembers them per source.
type Engine struct {
	clock sched.Clock

	Gains []*Gain
	Amps  map[sound.Playable]*Meter
	FFTs  map[sound.Playable]*Analyser
}

func NewEngine(clock sched.Clock) *Engine {
	return &Engine{
		clock: clock,
		Amps:  make(map[sound.Playable]*Meter),
		FFTs:  make(map[sound.Playable]*Analyser),
	}
}

func (e *Engine) NewGain() sound.Gain {
	g := NewGain(e.clock)
	e.Gains = append(e.Gains, g)
	return g
}

func (e *Engine) NewAmplitude(src sound.Playable) sound.Amplitude {
	m := &Meter{}
	e.Amps[src] = m
	return m
}

func (e *Engine) NewFFT(src sound.Playable) sound.Analyser {
	a := &Analyser{}
	e.FFTs[src] = a
	return a
}

// GainFor returns the stage whose input is src.
func (e *Engine) GainFor(src sound.Playable) *Gain {
	for _, g := range e.Gains {
		if g.Input == src {
			return g
		}
	}
	return nil
}

// Counter counts Reset calls.
type Counter struct {
	Resets int
}

func (c *Counter) Reset() { c.Resets++ }

// File is a fake recording.
type File struct {
	ID  int
	Len time.Duration
}

func (f *File) Duration() time.Duration { return f.Len }

type SaveCall struct {
	File sound.SoundFile
	Path string
}

// Recorder remembers what it was asked to capture and save.
type Recorder struct {
	Files     []*File
	Recording sound.SoundFile
	Stops     int
	Saves     []SaveCall

	// SaveErr is returned from Save when set.
	SaveErr error
}

func (r *Recorder) NewFile() sound.SoundFile {
	f := &File{ID: len(r.Files)}
	r.Files = append(r.Files, f)
	return f
}

func (r *Recorder) Record(f sound.SoundFile) error {
	r.Recording = f
	return nil
}

func (r *Recorder) Stop() {
	r.Recording = nil
	r.Stops++
}

func (r *Recorder) Save(f sound.SoundFile, path string) error {
	r.Saves = append(r.Saves, SaveCall{File: f, Path: path})
	return r.SaveErr
}
