package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"lockgroove/internal/config"
	"lockgroove/internal/sound"
)

var ErrForeignFile = errors.New("sound file not created by this recorder")

// Take is captured master output, interleaved stereo.
type Take struct {
	rate    int
	samples []float32
}

func (t *Take) Frames() int { return len(t.samples) / 2 }

func (t *Take) Duration() time.Duration {
	if t.rate == 0 {
		return 0
	}
	return time.Duration(t.Frames()) * time.Second / time.Duration(t.rate)
}

// Samples returns the captured interleaved samples.
func (t *Take) Samples() []float32 { return t.samples }

// Recorder captures the master bus. It implements sound.Recorder.
type Recorder struct {
	eng *Engine
}

func NewRecorder(e *Engine) *Recorder { return &Recorder{eng: e} }

func (r *Recorder) NewFile() sound.SoundFile { return &Take{rate: r.eng.rate} }

// Record starts appending the master output to f, replacing any capture in
// progress.
func (r *Recorder) Record(f sound.SoundFile) error {
	t, ok := f.(*Take)
	if !ok {
		return ErrForeignFile
	}
	r.eng.capture = t
	return nil
}

func (r *Recorder) Stop() { r.eng.capture = nil }

// Save writes f as a 16-bit stereo WAV file at path, creating parent
// directories as needed.
func (r *Recorder) Save(f sound.SoundFile, path string) error {
	t, ok := f.(*Take)
	if !ok {
		return ErrForeignFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save recording: %w", err)
	}
	if err := t.WriteWAV(path); err != nil {
		return fmt.Errorf("save recording: %w", err)
	}
	r.eng.log.Debug("wav written", "path", path, "frames", t.Frames())
	return nil
}

// WriteWAV encodes the take to path.
func (t *Take) WriteWAV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, t.rate, config.RecordingBits, config.ChannelCount, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: config.ChannelCount,
			SampleRate:  t.rate,
		},
		Data:           make([]int, len(t.samples)),
		SourceBitDepth: config.RecordingBits,
	}
	for i, s := range t.samples {
		buf.Data[i] = int(s * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}
