package board

import (
	"fmt"
	"log/slog"

	"lockgroove/internal/config"
	"lockgroove/internal/sound"
	"lockgroove/internal/viz"
)

// Deps are the collaborators a board is assembled from.
type Deps struct {
	Engine   sound.Engine
	Master   sound.Gain
	Load     func(resource string) (sound.Playable, error)
	Sched    sound.Scheduler
	UI       UI
	Recorder sound.Recorder
	Logger   *slog.Logger
}

// FromConfig loads every groove of cfg and lays the board out at the
// configured window size.
func FromConfig(cfg *config.Config, d Deps) (*Controller, error) {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	c := New(d.UI, d.Recorder, Options{
		FadeDuration: cfg.Fade(),
		RecordDir:    cfg.RecordDir,
		Layout:       cfg.Layout,
		Logger:       log,
	})

	vopts := viz.Options{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	for i, g := range cfg.Grooves {
		intro, err := d.Load(g.Intro)
		if err != nil {
			return nil, fmt.Errorf("groove %q: intro: %w", g.Key, err)
		}
		loop, err := d.Load(g.Loop)
		if err != nil {
			return nil, fmt.Errorf("groove %q: loop: %w", g.Key, err)
		}
		kind, err := viz.ParseKind(g.Visualization)
		if err != nil {
			return nil, fmt.Errorf("groove %q: %w", g.Key, err)
		}
		vopts.Seed = cfg.Seed + uint64(i)
		v, err := viz.New(kind, vopts)
		if err != nil {
			return nil, fmt.Errorf("groove %q: %w", g.Key, err)
		}

		groove := sound.NewDualPhaseLoop(d.Engine, d.Master, intro, loop, d.Sched, sound.Options{
			FadeDuration: cfg.Fade(),
			DefaultGain:  config.DefaultGain,
		})
		if err := c.Add(NewEntry(g.Key, groove, v, g.Icon, g.Scale())); err != nil {
			return nil, err
		}
		log.Debug("groove loaded", "key", g.Key, "viz", kind)
	}

	c.Relayout(float64(cfg.Width), float64(cfg.Height))
	return c, nil
}
