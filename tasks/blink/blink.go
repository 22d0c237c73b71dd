// Package blink toggles an indicator LED.
package blink

import (
	"time"

	"boardloop/hal"
	"boardloop/kernel"
)

type Task struct {
	led    hal.LED
	on     bool
	period time.Duration
	inited bool
}

// New returns a blinker that drives led to initial before its first toggle.
func New(led hal.LED, initial bool, period time.Duration) *Task {
	return &Task{led: led, on: initial, period: period}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		t.set()
	}

	t.on = !t.on
	t.set()
	ctx.Sleep(t.period)
}

// On reports the level last driven.
func (t *Task) On() bool { return t.on }

func (t *Task) set() {
	if t.led == nil {
		return
	}
	if t.on {
		t.led.High()
	} else {
		t.led.Low()
	}
}
