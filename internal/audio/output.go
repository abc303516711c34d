package audio

import (
	"encoding/binary"
	"io"
	"math"
	"time"
)

// Output is a running sink pulling from the engine.
type Output = io.Closer

// mixReader renders the engine as float32 little-endian stereo.
type mixReader struct {
	eng *Engine
	buf []float32
}

func (m *mixReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if cap(m.buf) < frames*2 {
		m.buf = make([]float32, frames*2)
	}
	buf := m.buf[:frames*2]
	m.eng.Render(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * 8, nil
}

// Pump drives the engine in real time without a sound device, so callbacks,
// analysis and recording keep working.
type Pump struct {
	stop chan struct{}
	done chan struct{}
}

func StartPump(e *Engine, period time.Duration) *Pump {
	p := &Pump{stop: make(chan struct{}), done: make(chan struct{})}
	go p.run(e, period)
	return p
}

func (p *Pump) run(e *Engine, period time.Duration) {
	defer close(p.done)
	t := time.NewTicker(period)
	defer t.Stop()

	start := time.Now()
	var rendered int64
	var buf []float32
	for {
		select {
		case <-p.stop:
			return
		case now := <-t.C:
			owed := int64(now.Sub(start).Seconds()*float64(e.rate)) - rendered
			if owed <= 0 {
				continue
			}
			if int64(cap(buf)) < owed*2 {
				buf = make([]float32, owed*2)
			}
			e.Render(buf[:owed*2])
			rendered += owed
		}
	}
}

func (p *Pump) Close() error {
	close(p.stop)
	<-p.done
	return nil
}
