package audio

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lockgroove/internal/config"
	"lockgroove/internal/sound/soundtest"
)

func TestRecordingRoundTrip(t *testing.T) {
	e := New(Options{SampleRate: testRate})
	rec := NewRecorder(e)
	v := e.NewVoice("v", constant(0.5, 10))
	v.Loop()

	render(e, 20) // before recording
	take := rec.NewFile()
	if err := rec.Record(take); err != nil {
		t.Fatal(err)
	}
	render(e, 500)
	rec.Stop()
	render(e, 20) // after recording

	if got := take.Duration(); got != 500*time.Millisecond {
		t.Fatalf("duration = %v", got)
	}

	path := filepath.Join(t.TempDir(), "out", config.RecordingName)
	if err := rec.Save(take, path); err != nil {
		t.Fatal(err)
	}
	samples, err := Decode(path, testRate)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1000 {
		t.Fatalf("decoded %d samples, want 1000", len(samples))
	}
	for i, s := range samples {
		if math.Abs(float64(s)-0.5) > 1e-3 {
			t.Fatalf("sample %d = %v", i, s)
		}
	}
}

func TestSaveLogsOnlyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	e := New(Options{SampleRate: testRate, Logger: log})
	rec := NewRecorder(e)
	take := rec.NewFile()
	if err := rec.Record(take); err != nil {
		t.Fatal(err)
	}
	render(e, 10)
	rec.Stop()
	if err := rec.Save(take, filepath.Join(t.TempDir(), config.RecordingName)); err != nil {
		t.Fatal(err)
	}
	// The board reports the save; the recorder stays quiet at info.
	if buf.Len() != 0 {
		t.Fatalf("save logged at info:\n%s", buf.String())
	}
}

func TestRecorderRejectsForeignFiles(t *testing.T) {
	rec := NewRecorder(New(Options{SampleRate: testRate}))
	foreign := &soundtest.File{}
	if err := rec.Record(foreign); !errors.Is(err, ErrForeignFile) {
		t.Fatalf("Record = %v", err)
	}
	if err := rec.Save(foreign, filepath.Join(t.TempDir(), "x.wav")); !errors.Is(err, ErrForeignFile) {
		t.Fatalf("Save = %v", err)
	}
}

func TestDecodeResampledWAV(t *testing.T) {
	src := &Take{rate: 500, samples: constant(0.25, 250)}
	path := filepath.Join(t.TempDir(), "half.wav")
	if err := src.WriteWAV(path); err != nil {
		t.Fatal(err)
	}
	samples, err := Decode(path, testRate)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1000 {
		t.Fatalf("resampled to %d samples, want 1000", len(samples))
	}
	for i, s := range samples {
		if math.Abs(float64(s)-0.25) > 1e-3 {
			t.Fatalf("sample %d = %v", i, s)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	ogg := filepath.Join(dir, "loop.ogg")
	if err := os.WriteFile(ogg, []byte("OggS"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(ogg, testRate); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ogg: %v", err)
	}

	junk := filepath.Join(dir, "junk.wav")
	if err := os.WriteFile(junk, []byte("definitely not RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(junk, testRate); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("junk wav: %v", err)
	}

	if _, err := Decode(filepath.Join(dir, "missing.mp3"), testRate); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := Decode("synth:kazoo", testRate); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("unknown preset: %v", err)
	}
}

func TestToStereo(t *testing.T) {
	mono := []float32{0.1, 0.2}
	if got := toStereo(mono, 1); len(got) != 4 || got[0] != 0.1 || got[1] != 0.1 || got[3] != 0.2 {
		t.Fatalf("mono = %v", got)
	}
	quad := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	if got := toStereo(quad, 4); len(got) != 4 || got[2] != 5 || got[3] != 6 {
		t.Fatalf("quad = %v", got)
	}
}
