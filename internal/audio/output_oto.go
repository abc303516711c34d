//go:build !headless

package audio

import (
	"fmt"

	"github.com/hajimehoshi/oto/v2"

	"lockgroove/internal/config"
)

type otoOutput struct {
	ctx    *oto.Context
	player oto.Player
}

// OpenOutput streams the engine to the default sound device.
func OpenOutput(e *Engine) (Output, error) {
	ctx, ready, err := oto.NewContext(e.rate, config.ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready
	player := ctx.NewPlayer(&mixReader{eng: e})
	player.SetBufferSize(config.BufferFrames * config.ChannelCount * 4)
	player.Play()
	e.log.Info("audio output open", "rate", e.rate)
	return &otoOutput{ctx: ctx, player: player}, nil
}

func (o *otoOutput) Close() error { return o.player.Close() }
