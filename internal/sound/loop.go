package sound

import (
	"time"

	"lockgroove/internal/sched"
)

const (
	DefaultFadeDuration = 3000 * time.Millisecond
	DefaultGain         = 1.0
)

type State int

const (
	Idle State = iota
	PlayingIntro
	PlayingLoop
	FadingOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PlayingIntro:
		return "intro"
	case PlayingLoop:
		return "loop"
	case FadingOut:
		return "fading"
	}
	return "unknown"
}

type Options struct {
	FadeDuration time.Duration
	DefaultGain  float64
}

// DualPhaseLoop plays a one-shot intro that hands off into an endless loop.
// Both phases run through their own gain stage into a shared master.
//
// All methods must be called from the control thread.
type DualPhaseLoop struct {
	intro, loop         Playable
	introGain, loopGain Gain
	introAmp, loopAmp   Amplitude
	introFFT, loopFFT   Analyser

	sched        Scheduler
	fadeDuration time.Duration
	defaultGain  float64

	state     State
	handedOff bool        // loop phase started for the current run
	fade      *sched.Task // pending fade completion
}

func NewDualPhaseLoop(eng Engine, master Gain, intro, loop Playable, s Scheduler, opts Options) *DualPhaseLoop {
	if opts.FadeDuration <= 0 {
		opts.FadeDuration = DefaultFadeDuration
	}
	if opts.DefaultGain <= 0 {
		opts.DefaultGain = DefaultGain
	}

	d := &DualPhaseLoop{
		intro:        intro,
		loop:         loop,
		sched:        s,
		fadeDuration: opts.FadeDuration,
		defaultGain:  opts.DefaultGain,
	}

	intro.SetLoop(false)
	loop.SetLoop(false)

	d.introGain = eng.NewGain()
	d.introGain.SetInput(intro)
	d.introGain.Connect(master)
	d.introGain.Amp(d.defaultGain, 0)

	d.loopGain = eng.NewGain()
	d.loopGain.SetInput(loop)
	d.loopGain.Connect(master)
	d.loopGain.Amp(d.defaultGain, 0)

	d.introAmp = eng.NewAmplitude(intro)
	d.introFFT = eng.NewFFT(intro)
	d.loopAmp = eng.NewAmplitude(loop)
	d.loopFFT = eng.NewFFT(loop)

	intro.OnEnded(d.introEnded)
	return d
}

func (d *DualPhaseLoop) State() State                 { return d.state }
func (d *DualPhaseLoop) FadeDuration() time.Duration { return d.fadeDuration }
func (d *DualPhaseLoop) DefaultGain() float64        { return d.defaultGain }

// IsPlaying is true while the intro plays or the loop is looping, including
// the duration of a fade-out.
func (d *DualPhaseLoop) IsPlaying() bool {
	return d.intro.IsPlaying() || d.loop.IsLooping()
}

// Loop starts the intro. It does nothing while the groove is audible.
func (d *DualPhaseLoop) Loop() {
	d.settle(nil)
	if d.state != Idle {
		return
	}
	d.handedOff = false
	d.intro.Play()
	d.state = PlayingIntro
}

// introEnded runs inside the engine's end-of-stream notification and starts
// the loop right there so no samples are lost between the phases. An intro
// that runs out during a fade still hands off; the loop gain is ramping too.
func (d *DualPhaseLoop) introEnded() {
	if d.state == Idle || d.handedOff {
		return
	}
	d.handedOff = true
	d.loop.Loop()
	if d.state == PlayingIntro {
		d.state = PlayingLoop
	}
}

// Stop silences the groove and resets viz once it is quiet.
//
// fade <= 0 halts immediately and cancels any fade in flight. A stale
// completion never reaches a groove restarted afterwards. A second
// positive fade while already fading keeps the first deadline. Stop on a
// silent groove is a no-op, apart from returning it to Idle if its
// playables fell silent on their own.
func (d *DualPhaseLoop) Stop(fade time.Duration, viz Resetter) {
	if d.settle(viz) || !d.IsPlaying() {
		return
	}
	if fade <= 0 {
		d.halt(viz)
		return
	}
	if d.state == FadingOut {
		return
	}

	d.introGain.Amp(0, fade)
	d.loopGain.Amp(0, fade)
	d.state = FadingOut

	d.fade = d.sched.After(fade, func() {
		d.fade = nil
		d.halt(viz)
	})
}

// settle halts a groove whose state says it is sounding while neither
// playable is, such as a loop over empty data. It reports whether it did.
func (d *DualPhaseLoop) settle(viz Resetter) bool {
	if d.state == Idle || d.IsPlaying() {
		return false
	}
	d.halt(viz)
	return true
}

func (d *DualPhaseLoop) halt(viz Resetter) {
	d.fade.Cancel()
	d.fade = nil
	d.state = Idle
	d.handedOff = false
	d.intro.Stop()
	d.loop.Stop()
	d.introGain.Amp(d.defaultGain, 0)
	d.loopGain.Amp(d.defaultGain, 0)
	if viz != nil {
		viz.Reset()
	}
}

// Amplitude returns the meter of whichever phase is sounding, or nil.
func (d *DualPhaseLoop) Amplitude() Amplitude {
	if d.intro.IsPlaying() {
		return d.introAmp
	}
	if d.loop.IsLooping() {
		return d.loopAmp
	}
	return nil
}

// FFT returns the analyser of whichever phase is sounding, or nil.
func (d *DualPhaseLoop) FFT() Analyser {
	if d.intro.IsPlaying() {
		return d.introFFT
	}
	if d.loop.IsLooping() {
		return d.loopFFT
	}
	return nil
}
