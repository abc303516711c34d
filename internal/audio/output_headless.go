//go:build headless

package audio

import "time"

// OpenOutput runs the engine on a real-time pump; headless builds have no
// sound device.
func OpenOutput(e *Engine) (Output, error) {
	e.log.Info("headless audio", "rate", e.rate)
	return StartPump(e, 10*time.Millisecond), nil
}
