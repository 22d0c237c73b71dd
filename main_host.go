//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"boardloop/app"
	"boardloop/hal"
	"boardloop/sim"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var script string
	var scale int
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 100, "Runner frame rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N 1ms ticks in headless mode (0 = run forever).")
	flag.StringVar(&script, "script", "", "YAML stimulus script to replay (headless mode).")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Log LED and speaker transitions.")
	flag.DurationVar(&appCfg.StatsEvery, "stats", 0, "Log task statistics at this interval (0 = off).")
	flag.IntVar(&scale, "scale", 4, "Window pixel scale.")
	flag.Parse()

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if cfg.Enabled {
		if script != "" {
			s, err := sim.Load(script)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			cfg.Drive = sim.NewPlayer(s).Drive
			if cfg.Ticks == 0 && s.LoopMS == 0 {
				// Let the last step show on the LCD before exiting.
				cfg.Ticks = uint64((s.Duration() + time.Second) / time.Millisecond)
			}
		}
		appCfg.ExitOnFault = true

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if script != "" {
		fmt.Fprintln(os.Stderr, "-script requires -headless")
		os.Exit(2)
	}
	if err := hal.RunWindow(newApp, hal.WindowConfig{Scale: scale, Verbose: cfg.Verbose}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
