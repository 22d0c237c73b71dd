// Package temp samples the temperature sensor into the temperature slot.
package temp

import (
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/internal/health"
)

type Board interface {
	Thermometer() hal.Thermometer
}

type Task struct {
	board  Board
	w      *state.Writer
	period time.Duration

	dev    hal.Thermometer
	inited bool
	health *health.Tracker
}

func New(board Board, w *state.Writer, period time.Duration) *Task {
	return &Task{board: board, w: w, period: period, health: health.New("temp")}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		if t.board != nil {
			t.dev = t.board.Thermometer()
		}
	}

	if c, err := t.read(); t.health.Observe(ctx, err) {
		t.w.SetFloat(state.SlotTemperature, c)
	}
	ctx.Sleep(t.period)
}

func (t *Task) read() (float32, error) {
	if t.dev == nil {
		return 0, health.ErrNoDevice
	}
	return t.dev.ReadTemperature()
}
