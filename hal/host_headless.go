//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// DriveFunc applies scripted inputs for the given time since boot.
type DriveFunc func(elapsed time.Duration, in Stimulus)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	// Ticks stops the run after that many 1 ms ticks (0 = run forever).
	Ticks   uint64
	Verbose bool
	Drive   DriveFunc
}

// RunHeadless runs the board without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}

	h := newHostHAL(HostOptions{Verbose: cfg.Verbose})
	if cfg.Drive != nil {
		cfg.Drive(0, h)
	}
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.frame()
			now := h.t.now()
			if cfg.Drive != nil {
				cfg.Drive(h.t.elapsed(), h)
			}
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if cfg.Ticks > 0 && now >= cfg.Ticks {
				return nil
			}
		}
	}
}
