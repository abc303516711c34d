package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"lockgroove/internal/config"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decode turns a groove resource into interleaved stereo float32 samples at
// rate. Resources are "synth:<preset>" or a path to an .mp3 or .wav file.
func Decode(resource string, rate int) ([]float32, error) {
	if name, ok := strings.CutPrefix(resource, config.SynthScheme); ok {
		return Synthesize(name, rate)
	}

	f, err := os.Open(resource)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", resource, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(resource)); ext {
	case ".wav":
		return decodeWAV(f, rate)
	case ".mp3":
		return decodeMP3(f, rate)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func decodeWAV(r io.ReadSeeker, rate int) ([]float32, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a PCM WAV file", ErrUnsupportedFormat)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	bitDepth := int(d.BitDepth)
	if bitDepth == 0 {
		return nil, fmt.Errorf("%w: unknown bit depth", ErrUnsupportedFormat)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	factor := math.Pow(2, float64(bitDepth-1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(float64(v) / factor)
	}
	return resample(toStereo(samples, channels), buf.Format.SampleRate, rate), nil
}

func decodeMP3(r io.Reader, rate int) ([]float32, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	// go-mp3 always yields 16-bit little-endian stereo.
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}
	return resample(samples, d.SampleRate(), rate), nil
}

// toStereo keeps the first two channels, duplicating mono.
func toStereo(samples []float32, channels int) []float32 {
	if channels == 2 {
		return samples
	}
	frames := len(samples) / channels
	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		l := samples[i*channels]
		r := l
		if channels > 1 {
			r = samples[i*channels+1]
		}
		out[2*i], out[2*i+1] = l, r
	}
	return out
}

// resample converts interleaved stereo between rates by linear
// interpolation.
func resample(samples []float32, from, to int) []float32 {
	if from == to || from <= 0 || to <= 0 || len(samples) < 4 {
		return samples
	}
	inFrames := len(samples) / 2
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	out := make([]float32, outFrames*2)
	step := float64(from) / float64(to)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := float32(pos - float64(j))
		k := min(j+1, inFrames-1)
		for c := 0; c < 2; c++ {
			a, b := samples[2*j+c], samples[2*k+c]
			out[2*i+c] = a + (b-a)*frac
		}
	}
	return out
}
