// Package audio is the board's sound engine: a sample-accurate software mixer
// with per-voice gain stages, level and spectrum analysis, recording, file
// decoding and a procedural drum machine. Output goes to the sound card
// through oto, or to a real-time pump when no device is available.
package audio

import (
	"log/slog"
	"sync"

	"lockgroove/internal/config"
	"lockgroove/internal/sound"
)

var (
	_ sound.Engine   = (*Engine)(nil)
	_ sound.Playable = (*Voice)(nil)
	_ sound.Gain     = (*Gain)(nil)
	_ sound.Recorder = (*Recorder)(nil)
)

// maxSettlePasses bounds how often one frame is re-rendered for voices that
// end-of-stream callbacks started.
const maxSettlePasses = 4

// Options configure an Engine. Zero fields take the defaults from config;
// a MasterGain of 0 means unity.
type Options struct {
	SampleRate int
	MasterGain float64
	Logger     *slog.Logger
}

// Engine owns every voice and gain stage. All methods except Render and Do
// expect the engine lock to be held, either because the caller runs inside
// Do or because no output is running yet.
type Engine struct {
	mu sync.Mutex

	rate   int
	frame  uint64
	master *Gain
	voices []*Voice

	capture *Take
	log     *slog.Logger
}

func New(opts Options) *Engine {
	if opts.SampleRate <= 0 {
		opts.SampleRate = config.SampleRate
	}
	if opts.MasterGain == 0 {
		opts.MasterGain = config.DefaultGain
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	e := &Engine{rate: opts.SampleRate, log: opts.Logger}
	e.master = newGain(e)
	e.master.Amp(opts.MasterGain, 0)
	return e
}

// Do runs fn under the engine lock, serialized with the mixer.
func (e *Engine) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func (e *Engine) SampleRate() int { return e.rate }

// Frame is the number of frames rendered so far.
func (e *Engine) Frame() uint64 { return e.frame }

// Master is the bus every voice feeds unless routed through another stage.
func (e *Engine) Master() *Gain { return e.master }

// NewVoice wraps interleaved stereo samples in a voice routed to the master.
func (e *Engine) NewVoice(name string, samples []float32) *Voice {
	v := &Voice{eng: e, name: name, data: samples, frames: len(samples) / 2}
	e.voices = append(e.voices, v)
	e.master.attach(v)
	return v
}

// Load decodes resource and returns a voice for it.
func (e *Engine) Load(resource string) (*Voice, error) {
	samples, err := Decode(resource, e.rate)
	if err != nil {
		return nil, err
	}
	e.log.Debug("loaded voice", "resource", resource, "frames", len(samples)/2)
	return e.NewVoice(resource, samples), nil
}

func (e *Engine) NewGain() sound.Gain { return newGain(e) }

func (e *Engine) NewAmplitude(src sound.Playable) sound.Amplitude {
	m := &Meter{ring: newRing(config.SpectrumBins)}
	if v, ok := src.(*Voice); ok {
		v.taps = append(v.taps, m.ring)
	}
	return m
}

func (e *Engine) NewFFT(src sound.Playable) sound.Analyser {
	a := newAnalyser(config.FFTSize)
	if v, ok := src.(*Voice); ok {
		v.taps = append(v.taps, a.ring)
	}
	return a
}

// Render mixes len(out)/2 frames of interleaved stereo into out.
func (e *Engine) Render(out []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i+1 < len(out); i += 2 {
		l, r := e.renderFrame()
		out[i] = clampSample(l)
		out[i+1] = clampSample(r)
	}
}

func (e *Engine) renderFrame() (float64, float64) {
	e.frame++
	f := e.frame

	// Voices started by an end-of-stream callback during this frame get
	// rendered again so they sound on the frame the previous one fell silent.
	for pass := 0; pass < maxSettlePasses; pass++ {
		stepped := false
		for _, v := range e.voices {
			if v.mark != f {
				v.step(f)
				stepped = true
			}
		}
		if !stepped {
			break
		}
	}
	for _, v := range e.voices {
		if len(v.taps) == 0 {
			continue
		}
		mono := (v.cur[0] + v.cur[1]) / 2
		for _, t := range v.taps {
			t.push(mono)
		}
	}

	l, r := e.master.eval(f)
	if e.capture != nil {
		e.capture.samples = append(e.capture.samples, clampSample(l), clampSample(r))
	}
	return l, r
}

func clampSample(v float64) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return float32(v)
}
