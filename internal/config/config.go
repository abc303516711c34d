// Package config holds the groove table and runtime settings of the board.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lockgroove/internal/layout"
	"lockgroove/internal/viz"
)

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("invalid config")

// SynthScheme prefixes procedurally generated resources, e.g. "synth:funky".
const SynthScheme = "synth:"

// GrooveDef configures one button on the board.
type GrooveDef struct {
	Key           string  `json:"key"`
	Intro         string  `json:"intro"`
	Loop          string  `json:"loop"`
	Visualization string  `json:"visualization,omitempty"`
	Icon          string  `json:"icon,omitempty"`
	IconScale     float64 `json:"iconScale,omitempty"`
}

// Scale returns the icon scale, 1 when unset.
func (g GrooveDef) Scale() float64 {
	if g.IconScale <= 0 {
		return 1
	}
	return g.IconScale
}

// Duration is a time.Duration that reads from JSON as "3s"-style strings or
// as plain milliseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(time.Duration(x * float64(time.Millisecond)))
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("duration %q: %w", x, err)
		}
		*d = Duration(p)
	default:
		return fmt.Errorf("duration: unexpected %s", b)
	}
	return nil
}

type Config struct {
	Grooves      []GrooveDef   `json:"grooves"`
	FadeDuration Duration      `json:"fadeDuration"`
	MasterGain   float64       `json:"masterGain"`
	RecordDir    string        `json:"recordDir"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Seed         uint64        `json:"seed"`
	Layout       layout.Config `json:"layout"`
}

// Fade returns the configured fade as a time.Duration.
func (c *Config) Fade() time.Duration { return time.Duration(c.FadeDuration) }

// RecordingPath is where a finished recording is written.
func (c *Config) RecordingPath() string {
	return filepath.Join(c.RecordDir, RecordingName)
}

// Default returns the built-in board: fourteen procedural grooves, one per
// visualization.
func Default() *Config {
	return &Config{
		Grooves:      defaultGrooves(),
		FadeDuration: Duration(DefaultFadeDuration),
		MasterGain:   DefaultGain,
		RecordDir:    ".",
		Width:        WindowWidth,
		Height:       WindowHeight,
		Seed:         1,
		Layout:       layout.DefaultConfig(),
	}
}

func defaultGrooves() []GrooveDef {
	rows := []struct {
		key, intro, loop string
		kind             viz.Kind
		scale            float64
	}{
		{"hihat", "count-in", "hihat-roll", viz.KindCurve, 1},
		{"ride", "count-in", "ride", viz.KindParticleScurry, 1},
		{"tom-floor", "roll", "tom-floor", viz.KindLineVibration, 1},
		{"kick", "count-in", "kick", viz.KindArc, 1},
		{"funky", "riser", "funky", viz.KindHelix, 1.1},
		{"dark", "riser", "dark", viz.KindRadial, 1},
		{"synthwave", "riser", "synthwave", viz.KindSpiral, 1},
		{"taiko", "roll", "taiko", viz.KindAmp, 1.2},
		{"bass-drum", "roll", "bass-drum", viz.KindEllipse, 1},
		{"ambient", "riser", "ambient", viz.KindSnow, 0.9},
		{"arcade", "count-in", "arcade", viz.KindRotatingWave, 1},
		{"noir", "riser", "noir", viz.KindFlower, 1},
		{"neon", "count-in", "neon", viz.KindStationaryCircle, 1},
		{"dnb", "roll", "dnb", viz.KindSpectrum, 1},
	}
	out := make([]GrooveDef, len(rows))
	for i, r := range rows {
		out[i] = GrooveDef{
			Key:           r.key,
			Intro:         SynthScheme + r.intro,
			Loop:          SynthScheme + r.loop,
			Visualization: r.kind.String(),
			IconScale:     r.scale,
		}
	}
	return out
}

// Load reads a JSON file over the defaults, applies the environment and
// validates the result. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		defaults := cfg.Grooves
		cfg.Grooves = nil
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if cfg.Grooves == nil {
			cfg.Grooves = defaults
		}
		// Relative resources are resolved against the file's directory.
		cfg.resolve(filepath.Dir(path))
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || strings.HasPrefix(p, SynthScheme) || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Grooves {
		g := &c.Grooves[i]
		g.Intro = abs(g.Intro)
		g.Loop = abs(g.Loop)
		g.Icon = abs(g.Icon)
	}
}

// ApplyEnv applies LOCKGROOVE_SEED when set.
func (c *Config) ApplyEnv() error {
	s := os.Getenv("LOCKGROOVE_SEED")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: LOCKGROOVE_SEED %q: %v", ErrInvalid, s, err)
	}
	c.Seed = v
	return nil
}

// Validate checks the groove table and settings.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Grooves) == 0 {
		errs = append(errs, errors.New("no grooves"))
	}
	seen := make(map[string]bool, len(c.Grooves))
	for i, g := range c.Grooves {
		if g.Key == "" {
			errs = append(errs, fmt.Errorf("groove %d: empty key", i))
		} else if seen[g.Key] {
			errs = append(errs, fmt.Errorf("groove %q: duplicate key", g.Key))
		}
		seen[g.Key] = true
		for _, res := range []struct{ name, v string }{{"intro", g.Intro}, {"loop", g.Loop}} {
			if err := checkResource(res.v); err != nil {
				errs = append(errs, fmt.Errorf("groove %q: %s: %w", g.Key, res.name, err))
			}
		}
		if _, err := viz.ParseKind(g.Visualization); err != nil {
			errs = append(errs, fmt.Errorf("groove %q: %w", g.Key, err))
		}
		if g.IconScale < 0 {
			errs = append(errs, fmt.Errorf("groove %q: negative icon scale", g.Key))
		}
	}
	if c.FadeDuration < 0 {
		errs = append(errs, errors.New("negative fade duration"))
	}
	if c.MasterGain < 0 {
		errs = append(errs, errors.New("negative master gain"))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Width, c.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func checkResource(r string) error {
	if r == "" {
		return errors.New("missing resource")
	}
	if name, ok := strings.CutPrefix(r, SynthScheme); ok {
		if name == "" {
			return errors.New("empty synth preset")
		}
		return nil
	}
	switch strings.ToLower(filepath.Ext(r)) {
	case ".mp3", ".wav":
		return nil
	}
	return fmt.Errorf("unsupported resource %q", r)
}
