package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lockgroove/internal/viz"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Grooves) != len(viz.Kinds()) {
		t.Fatalf("grooves = %d, want one per visualization", len(cfg.Grooves))
	}
	used := map[string]bool{}
	for _, g := range cfg.Grooves {
		used[g.Visualization] = true
	}
	for _, k := range viz.Kinds() {
		if !used[k.String()] {
			t.Errorf("no default groove shows %v", k)
		}
	}
	if cfg.Fade() != 3*time.Second {
		t.Fatalf("fade = %v", cfg.Fade())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("LOCKGROOVE_SEED", "")
	p := writeFile(t, "board.json", `{
		"fadeDuration": "250ms",
		"recordDir": "/tmp/rec",
		"grooves": [
			{"key": "g1", "intro": "sounds/noise.wav", "loop": "synth:funky", "visualization": "radial", "iconScale": 1.5},
			{"key": "g2", "intro": "/abs/intro.mp3", "loop": "/abs/loop.MP3"}
		]
	}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fade() != 250*time.Millisecond {
		t.Fatalf("fade = %v", cfg.Fade())
	}
	if cfg.RecordingPath() != "/tmp/rec/mySound.wav" {
		t.Fatalf("recording path = %q", cfg.RecordingPath())
	}
	if len(cfg.Grooves) != 2 {
		t.Fatalf("grooves = %d", len(cfg.Grooves))
	}
	g1 := cfg.Grooves[0]
	if g1.Intro != filepath.Join(filepath.Dir(p), "sounds/noise.wav") {
		t.Fatalf("intro not resolved against the file: %q", g1.Intro)
	}
	if g1.Loop != "synth:funky" || g1.Scale() != 1.5 {
		t.Fatalf("g1 = %+v", g1)
	}
	// Unset fields of the second groove are not inherited from the defaults.
	if g2 := cfg.Grooves[1]; g2.Visualization != "" || g2.Scale() != 1 {
		t.Fatalf("g2 = %+v", g2)
	}
	if cfg.Width != WindowWidth || cfg.Layout.GroupSize != 7 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadKeepsDefaultGrooves(t *testing.T) {
	t.Setenv("LOCKGROOVE_SEED", "")
	p := writeFile(t, "c.json", `{"fadeDuration": 1500}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fade() != 1500*time.Millisecond {
		t.Fatalf("fade = %v", cfg.Fade())
	}
	if len(cfg.Grooves) != len(Default().Grooves) {
		t.Fatalf("grooves = %d", len(cfg.Grooves))
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("LOCKGROOVE_SEED", "")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file accepted")
	}
	if _, err := Load(writeFile(t, "bad.json", `{"grooves": [`)); err == nil {
		t.Fatal("broken JSON accepted")
	}
	if _, err := Load(writeFile(t, "bad.json", `{"fadeDuration": "soon"}`)); err == nil {
		t.Fatal("bad duration accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"no grooves", func(c *Config) { c.Grooves = nil }},
		{"empty key", func(c *Config) { c.Grooves[0].Key = "" }},
		{"duplicate key", func(c *Config) { c.Grooves[1].Key = c.Grooves[0].Key }},
		{"missing loop", func(c *Config) { c.Grooves[0].Loop = "" }},
		{"bad extension", func(c *Config) { c.Grooves[0].Intro = "noise.ogg" }},
		{"empty preset", func(c *Config) { c.Grooves[0].Loop = "synth:" }},
		{"unknown viz", func(c *Config) { c.Grooves[0].Visualization = "lava-lamp" }},
		{"negative scale", func(c *Config) { c.Grooves[0].IconScale = -1 }},
		{"negative fade", func(c *Config) { c.FadeDuration = -1 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}

	cfg := Default()
	cfg.Grooves[0].Visualization = "lava-lamp"
	if err := cfg.Validate(); !errors.Is(err, viz.ErrUnknownKind) {
		t.Fatalf("err = %v, want it to wrap ErrUnknownKind", err)
	}
}

func TestSeedFromEnv(t *testing.T) {
	t.Setenv("LOCKGROOVE_SEED", "42")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("seed = %d", cfg.Seed)
	}

	t.Setenv("LOCKGROOVE_SEED", "forty-two")
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
}

func TestDurationJSON(t *testing.T) {
	d := Duration(1500 * time.Millisecond)
	b, err := d.MarshalJSON()
	if err != nil || string(b) != `"1.5s"` {
		t.Fatalf("marshal = %s, %v", b, err)
	}
	var back Duration
	if err := back.UnmarshalJSON(b); err != nil || back != d {
		t.Fatalf("unmarshal = %v, %v", back, err)
	}
}
