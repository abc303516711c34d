// Command lockgroove is an audio-reactive sound board: click a button to
// start a groove's intro, which hands off to its endless loop; click again
// to fade it out.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"lockgroove/internal/audio"
	"lockgroove/internal/board"
	"lockgroove/internal/config"
	"lockgroove/internal/desktop"
	"lockgroove/internal/sched"
	"lockgroove/internal/sound"
)

// GLFW needs the main thread.
func init() { runtime.LockOSThread() }

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lockgroove: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "groove board JSON file (built-in board when empty)")
		recordDir  = flag.String("record-dir", "", "directory recordings are saved to as "+config.RecordingName)
		fade       = flag.Duration("fade", config.DefaultFadeDuration, "fade-out when a groove is switched off")
		width      = flag.Int("width", config.WindowWidth, "window width")
		height     = flag.Int("height", config.WindowHeight, "window height")
		logLevel   = flag.String("log-level", "info", "debug, info, warn or error")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "record-dir":
			cfg.RecordDir = *recordDir
		case "fade":
			cfg.FadeDuration = config.Duration(*fade)
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	eng := audio.New(audio.Options{
		SampleRate: config.SampleRate,
		MasterGain: cfg.MasterGain,
		Logger:     log,
	})
	s := sched.New(sched.SystemClock{})
	ui := desktop.NewButtons(log)

	start := time.Now()
	ctrl, err := board.FromConfig(cfg, board.Deps{
		Engine: eng,
		Master: eng.Master(),
		Load: func(resource string) (sound.Playable, error) {
			v, err := eng.Load(resource)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		Sched:    s,
		UI:       ui,
		Recorder: audio.NewRecorder(eng),
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("build board: %w", err)
	}
	log.Info("board ready",
		"grooves", len(ctrl.Entries()),
		"took", time.Since(start).Round(time.Millisecond),
		"recording", cfg.RecordingPath())

	out, err := audio.OpenOutput(eng)
	if err != nil {
		log.Warn("audio init failed, continuing without sound", "err", err)
		out = audio.StartPump(eng, 10*time.Millisecond)
	}
	defer out.Close()

	app := &desktop.App{
		Engine: eng,
		Sched:  s,
		Board:  ctrl,
		UI:     ui,
		Logger: log,
		Title:  "Lock Groove",
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	desktop.LogEvents(ctrl.Events(), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := desktop.Run(ctx, app)
	if err := app.Shutdown(); err != nil {
		log.Error("shutdown", "err", err)
	}
	return runErr
}
