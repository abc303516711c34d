package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"lockgroove/internal/config"
)

// ring keeps the most recent mono samples of a voice.
type ring struct {
	buf []float64
	pos int
}

func newRing(n int) *ring { return &ring{buf: make([]float64, n)} }

func (r *ring) push(v float64) {
	r.buf[r.pos] = v
	r.pos = (r.pos + 1) % len(r.buf)
}

// copyTo writes the samples into dst oldest first.
func (r *ring) copyTo(dst []float64) {
	n := copy(dst, r.buf[r.pos:])
	copy(dst[n:], r.buf[:r.pos])
}

// Meter reports the RMS level of the last block of a voice.
type Meter struct {
	ring *ring
}

func (m *Meter) Level() float64 {
	sum := 0.0
	for _, v := range m.ring.buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(m.ring.buf)))
}

// Analyser is a windowed FFT over the last FFTSize samples of a voice, with
// time smoothing and decibel-to-byte scaling.
type Analyser struct {
	ring     *ring
	window   []float64
	scratch  []float64
	smoothed []float64
	out      []float64

	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

func newAnalyser(size int) *Analyser {
	return &Analyser{
		ring:        newRing(size),
		window:      window.Blackman(size),
		scratch:     make([]float64, size),
		smoothed:    make([]float64, size/2),
		out:         make([]float64, size/2),
		Smoothing:   config.FFTSmoothing,
		MinDecibels: config.MinDecibels,
		MaxDecibels: config.MaxDecibels,
	}
}

// Analyze returns size/2 bins in [0,255]. The returned slice is reused by
// the next call.
func (a *Analyser) Analyze() []float64 {
	a.ring.copyTo(a.scratch)
	for i := range a.scratch {
		a.scratch[i] *= a.window[i]
	}
	spec := fft.FFTReal(a.scratch)

	n := float64(len(a.scratch))
	span := a.MaxDecibels - a.MinDecibels
	for k := range a.smoothed {
		mag := cmplx.Abs(spec[k]) / n
		a.smoothed[k] = a.Smoothing*a.smoothed[k] + (1-a.Smoothing)*mag
		db := math.Inf(-1)
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}
		a.out[k] = math.Max(0, math.Min(255, 255*(db-a.MinDecibels)/span))
	}
	return a.out
}
