package audio

// Voice plays one decoded buffer. It implements sound.Playable.
type Voice struct {
	eng  *Engine
	name string

	data   []float32
	frames int
	pos    int

	playing  bool
	looping  bool
	loopFlag bool
	ended    []func()

	out  *Gain
	cur  [2]float64
	mark uint64
	taps []*ring
}

func (v *Voice) Name() string { return v.name }

// Frames is the voice's length in sample frames.
func (v *Voice) Frames() int { return v.frames }

// Play starts from the top, looping only if SetLoop(true) was called.
func (v *Voice) Play() { v.start(v.loopFlag) }

func (v *Voice) Loop() { v.start(true) }

func (v *Voice) start(loop bool) {
	v.pos = 0
	v.playing = true
	v.looping = loop
	// Render again if the mixer already stepped this voice in the current
	// frame.
	if v.mark == v.eng.frame {
		v.mark = 0
	}
}

// Stop halts playback without firing OnEnded callbacks.
func (v *Voice) Stop() {
	v.playing = false
	v.looping = false
	v.pos = 0
}

func (v *Voice) IsPlaying() bool { return v.playing }
func (v *Voice) IsLooping() bool { return v.playing && v.looping }

// OnEnded registers fn to run, inside the mixer, when playback runs out of
// data.
func (v *Voice) OnEnded(fn func()) { v.ended = append(v.ended, fn) }

func (v *Voice) SetLoop(loop bool) {
	v.loopFlag = loop
	if v.playing {
		v.looping = loop
	}
}

// Disconnect takes the voice off whatever stage it feeds.
func (v *Voice) Disconnect() {
	if v.out != nil {
		v.out.detach(v)
	}
}

func (v *Voice) step(frame uint64) {
	v.mark = frame
	v.cur = [2]float64{}
	if !v.playing {
		return
	}
	if v.pos >= v.frames {
		if !v.looping || v.frames == 0 {
			v.playing = false
			v.looping = false
			v.pos = 0
			for _, fn := range v.ended {
				fn()
			}
			return
		}
		v.pos = 0
	}
	v.cur[0] = float64(v.data[2*v.pos])
	v.cur[1] = float64(v.data[2*v.pos+1])
	v.pos++
}
