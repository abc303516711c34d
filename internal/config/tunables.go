package config

import "time"

// Audio engine.
const (
	SampleRate   = 44100
	ChannelCount = 2
	// Frames the mixer renders per pull; 512 frames is ~11.6 ms at 44.1 kHz.
	BufferFrames = 512
)

// Analysis.
const (
	FFTSize      = 2048
	SpectrumBins = FFTSize / 2
	FFTSmoothing = 0.8
	MinDecibels  = -100.0
	MaxDecibels  = -30.0
)

// Fades.
const (
	DefaultFadeDuration = 3000 * time.Millisecond
	DefaultGain         = 1.0
)

// Window defaults.
const (
	WindowWidth  = 1280
	WindowHeight = 800
)

// Recording.
const (
	RecordingName = "mySound.wav"
	RecordingBits = 16
)
