package sound_test

import (
	"testing"
	"time"

	"lockgroove/internal/sched"
	"lockgroove/internal/sound"
	"lockgroove/internal/sound/soundtest"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type rig struct {
	clk         *sched.ManualClock
	sched       *sched.Scheduler
	eng         *soundtest.Engine
	intro, loop *soundtest.Playable
	master      *soundtest.Gain
	viz         *soundtest.Counter
	d           *sound.DualPhaseLoop
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		clk:   sched.NewManualClock(epoch),
		intro: soundtest.NewPlayable("intro"),
		loop:  soundtest.NewPlayable("loop"),
		viz:   &soundtest.Counter{},
	}
	r.sched = sched.New(r.clk)
	r.eng = soundtest.NewEngine(r.clk)
	r.master = soundtest.NewGain(r.clk)
	r.d = sound.NewDualPhaseLoop(r.eng, r.master, r.intro, r.loop, r.sched, sound.Options{})
	return r
}

func (r *rig) advance(d time.Duration) {
	r.clk.Advance(d)
	r.sched.RunDue()
}

func TestWiring(t *testing.T) {
	r := newRig(t)

	ig := r.eng.GainFor(r.intro)
	lg := r.eng.GainFor(r.loop)
	if ig == nil || lg == nil {
		t.Fatal("each phase needs its own gain stage")
	}
	if ig == lg {
		t.Fatal("phases share a gain stage")
	}
	for _, g := range []*soundtest.Gain{ig, lg} {
		if len(g.Outputs) != 1 || g.Outputs[0] != r.master {
			t.Fatalf("gain outputs = %v, want master", g.Outputs)
		}
		if g.Value() != sound.DefaultGain {
			t.Fatalf("initial gain = %v", g.Value())
		}
	}
	if r.d.State() != sound.Idle {
		t.Fatalf("initial state = %v", r.d.State())
	}
	if r.d.FadeDuration() != sound.DefaultFadeDuration {
		t.Fatalf("fade duration = %v", r.d.FadeDuration())
	}
}

func TestGaplessHandoff(t *testing.T) {
	r := newRig(t)

	// Registered after the loop's own handler, so it observes the state the
	// moment the intro's end notification has been handled.
	gapless := true
	r.intro.OnEnded(func() {
		if !r.d.IsPlaying() {
			gapless = false
		}
	})

	r.d.Loop()
	if !r.d.IsPlaying() || r.d.State() != sound.PlayingIntro {
		t.Fatalf("after Loop: playing=%v state=%v", r.d.IsPlaying(), r.d.State())
	}

	r.intro.Finish()
	if !gapless {
		t.Fatal("loop was not running when the intro end was delivered")
	}
	if r.d.State() != sound.PlayingLoop {
		t.Fatalf("state = %v, want loop", r.d.State())
	}
	if r.loop.Loops != 1 {
		t.Fatalf("loop started %d times", r.loop.Loops)
	}

	for i := 0; i < 10; i++ {
		r.advance(16 * time.Millisecond)
		if !r.d.IsPlaying() {
			t.Fatalf("not playing at tick %d", i)
		}
	}
}

func TestLoopIsNoOpUnlessIdle(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.d.Loop()
	if r.intro.Plays != 1 {
		t.Fatalf("intro played %d times", r.intro.Plays)
	}

	r.intro.Finish()
	r.d.Loop()
	if r.intro.Plays != 1 || r.loop.Loops != 1 {
		t.Fatalf("Loop during loop phase restarted playback")
	}

	r.d.Stop(time.Second, r.viz)
	r.d.Loop()
	if r.d.State() != sound.FadingOut || r.intro.Plays != 1 {
		t.Fatalf("Loop during fade changed state to %v", r.d.State())
	}
}

func TestSilentGrooveRestarts(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.intro.Finish()
	r.loop.Drop()
	if r.d.IsPlaying() || r.d.State() != sound.PlayingLoop {
		t.Fatalf("setup: playing=%v state=%v", r.d.IsPlaying(), r.d.State())
	}

	r.d.Loop()
	if r.d.State() != sound.PlayingIntro || r.intro.Plays != 2 {
		t.Fatalf("Loop on a silent groove: state=%v plays=%d", r.d.State(), r.intro.Plays)
	}

	// Stop brings a silent fading groove back to Idle and resets viz.
	r.d.Stop(time.Second, r.viz)
	r.intro.Drop()
	r.d.Stop(time.Second, r.viz)
	if r.d.State() != sound.Idle || r.viz.Resets != 1 {
		t.Fatalf("after stop: state=%v resets=%d", r.d.State(), r.viz.Resets)
	}
	if r.sched.Len() != 0 {
		t.Fatal("pending fade survived the halt")
	}
	if g := r.eng.GainFor(r.loop).Value(); g != sound.DefaultGain {
		t.Fatalf("loop gain = %v, want restored", g)
	}
}

func TestStopOnIdleIsNoOp(t *testing.T) {
	r := newRig(t)
	ig := r.eng.GainFor(r.intro)
	lg := r.eng.GainFor(r.loop)
	before := len(ig.Calls) + len(lg.Calls)

	r.d.Stop(0, r.viz)
	r.d.Stop(time.Second, r.viz)

	if n := len(ig.Calls) + len(lg.Calls); n != before {
		t.Fatalf("gain mutated on idle stop (%d calls)", n-before)
	}
	if r.viz.Resets != 0 {
		t.Fatalf("reset called %d times", r.viz.Resets)
	}
	if r.sched.Len() != 0 {
		t.Fatal("idle stop scheduled a task")
	}

	r.d.Loop()
	r.d.Stop(0, r.viz)
	calls := len(ig.Calls) + len(lg.Calls)
	r.d.Stop(0, r.viz)
	if len(ig.Calls)+len(lg.Calls) != calls || r.viz.Resets != 1 {
		t.Fatal("second stop was not a no-op")
	}
}

func TestImmediateStop(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.intro.Finish()

	r.d.Stop(0, r.viz)
	if r.d.IsPlaying() || r.d.State() != sound.Idle {
		t.Fatalf("still playing after Stop(0): state=%v", r.d.State())
	}
	if r.viz.Resets != 1 {
		t.Fatalf("resets = %d", r.viz.Resets)
	}
	if v := r.eng.GainFor(r.loop).Value(); v != sound.DefaultGain {
		t.Fatalf("loop gain = %v", v)
	}
}

func TestFadeTrajectory(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.intro.Finish()

	const fade = 3000 * time.Millisecond
	ig := r.eng.GainFor(r.intro)
	lg := r.eng.GainFor(r.loop)

	r.d.Stop(fade, r.viz)
	if r.d.State() != sound.FadingOut {
		t.Fatalf("state = %v", r.d.State())
	}

	prev := lg.Value()
	if prev != sound.DefaultGain {
		t.Fatalf("fade starts at %v", prev)
	}
	step := 100 * time.Millisecond
	for el := step; el < fade; el += step {
		r.advance(step)
		v := lg.Value()
		if v > prev {
			t.Fatalf("gain rose from %v to %v at %v", prev, v, el)
		}
		if ig.Value() != v {
			t.Fatalf("intro gain %v diverged from loop gain %v", ig.Value(), v)
		}
		if !r.d.IsPlaying() {
			t.Fatalf("halted early at %v", el)
		}
		if r.viz.Resets != 0 {
			t.Fatalf("reset early at %v", el)
		}
		prev = v
	}

	// Reaching the deadline exactly completes the fade.
	r.clk.Advance(fade - (fade/step-1)*step - time.Nanosecond)
	if lg.Value() <= 0 {
		t.Fatalf("gain hit zero before the deadline")
	}
	r.advance(time.Nanosecond)

	if r.d.IsPlaying() {
		t.Fatal("still playing after fade")
	}
	if r.intro.IsPlaying() || r.loop.IsPlaying() {
		t.Fatal("a phase kept playing")
	}
	if ig.Value() != sound.DefaultGain || lg.Value() != sound.DefaultGain {
		t.Fatalf("gains not restored: %v %v", ig.Value(), lg.Value())
	}
	if r.viz.Resets != 1 {
		t.Fatalf("resets = %d", r.viz.Resets)
	}

	// The ramp reached zero right before the restore.
	var sawZeroRamp bool
	for _, c := range lg.Calls {
		if c.Value == 0 && c.Ramp == fade {
			sawZeroRamp = true
		}
	}
	if !sawZeroRamp {
		t.Fatalf("no ramp to zero over %v in %+v", fade, lg.Calls)
	}
}

func TestImmediateStopCancelsFade(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.intro.Finish()

	r.d.Stop(time.Second, r.viz)
	r.advance(200 * time.Millisecond)
	r.d.Stop(0, r.viz)
	if r.viz.Resets != 1 || r.d.State() != sound.Idle {
		t.Fatalf("immediate stop: resets=%d state=%v", r.viz.Resets, r.d.State())
	}

	// Restart before the stale deadline would have fired.
	r.d.Loop()
	r.advance(2 * time.Second)

	if !r.d.IsPlaying() {
		t.Fatal("stale fade completion halted the restarted groove")
	}
	if r.viz.Resets != 1 {
		t.Fatalf("stale fade completion reset the visualization (%d)", r.viz.Resets)
	}
	if v := r.eng.GainFor(r.intro).Value(); v != sound.DefaultGain {
		t.Fatalf("restarted at gain %v", v)
	}
}

func TestSecondFadeKeepsDeadline(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.intro.Finish()
	lg := r.eng.GainFor(r.loop)

	r.d.Stop(time.Second, r.viz)
	calls := len(lg.Calls)
	r.advance(500 * time.Millisecond)
	r.d.Stop(5*time.Second, r.viz)
	if len(lg.Calls) != calls {
		t.Fatal("second fade re-ramped the gain")
	}
	if r.sched.Len() != 1 {
		t.Fatalf("pending tasks = %d, want 1", r.sched.Len())
	}

	r.advance(500 * time.Millisecond)
	if r.d.IsPlaying() || r.viz.Resets != 1 {
		t.Fatalf("fade did not complete at the first deadline: playing=%v resets=%d", r.d.IsPlaying(), r.viz.Resets)
	}
	r.advance(10 * time.Second)
	if r.viz.Resets != 1 {
		t.Fatalf("resets = %d after everything settled", r.viz.Resets)
	}
}

func TestIntroEndingDuringFadeHandsOff(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.d.Stop(time.Second, r.viz)

	r.intro.Finish()
	if !r.d.IsPlaying() {
		t.Fatal("groove went silent mid-fade")
	}
	if r.d.State() != sound.FadingOut {
		t.Fatalf("state = %v", r.d.State())
	}

	r.advance(time.Second)
	if r.d.IsPlaying() || r.viz.Resets != 1 {
		t.Fatal("fade did not finish")
	}
}

func TestStopDoesNotTriggerHandoff(t *testing.T) {
	r := newRig(t)
	r.d.Loop()
	r.d.Stop(0, r.viz)

	// A late end notification must not revive the groove.
	r.intro.OnEnded(func() {})
	r.intro.Play()
	r.intro.Finish()
	if r.loop.Loops != 0 {
		t.Fatal("loop started after stop")
	}
}

func TestAnalysisFollowsActivePhase(t *testing.T) {
	r := newRig(t)
	if r.d.Amplitude() != nil || r.d.FFT() != nil {
		t.Fatal("idle groove returned analysis nodes")
	}

	r.d.Loop()
	if r.d.Amplitude() != r.eng.Amps[r.intro] || r.d.FFT() != r.eng.FFTs[r.intro] {
		t.Fatal("intro phase should expose the intro analysers")
	}

	r.intro.Finish()
	if r.d.Amplitude() != r.eng.Amps[r.loop] || r.d.FFT() != r.eng.FFTs[r.loop] {
		t.Fatal("loop phase should expose the loop analysers")
	}

	r.d.Stop(0, nil)
	if r.d.Amplitude() != nil || r.d.FFT() != nil {
		t.Fatal("stopped groove returned analysis nodes")
	}
}
