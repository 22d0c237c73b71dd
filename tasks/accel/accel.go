// Package accel samples the three-axis accelerometer into the accel slot.
package accel

import (
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/internal/health"
)

type Board interface {
	Accelerometer() hal.Accelerometer
}

type Task struct {
	board  Board
	w      *state.Writer
	period time.Duration

	dev    hal.Accelerometer
	inited bool
	health *health.Tracker
}

func New(board Board, w *state.Writer, period time.Duration) *Task {
	return &Task{board: board, w: w, period: period, health: health.New("accel")}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		if t.board != nil {
			t.dev = t.board.Accelerometer()
		}
	}

	if v, err := t.read(); t.health.Observe(ctx, err) {
		t.w.SetAccel(v)
	}
	ctx.Sleep(t.period)
}

func (t *Task) read() (state.Vec3, error) {
	if t.dev == nil {
		return state.Vec3{}, health.ErrNoDevice
	}
	x, y, z, err := t.dev.ReadAcceleration()
	return state.Vec3{X: x, Y: y, Z: z}, err
}
