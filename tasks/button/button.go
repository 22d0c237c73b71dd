// Package button samples SW3 into the button slot.
//
// SW3 pulls its line low when pressed.
package button

import (
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/internal/health"
)

type Board interface {
	Button() hal.GPIOPin
}

type Task struct {
	board  Board
	w      *state.Writer
	period time.Duration

	pin    hal.GPIOPin
	inited bool
	health *health.Tracker
}

func New(board Board, w *state.Writer, period time.Duration) *Task {
	return &Task{board: board, w: w, period: period, health: health.New("sw3")}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		if t.board != nil {
			t.pin = t.board.Button()
		}
		if t.pin != nil {
			if err := t.pin.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
				ctx.Logf("configure %s: %v", t.pin.Name(), err)
			}
		}
	}

	if level, err := t.read(); t.health.Observe(ctx, err) {
		t.w.SetButton(!level)
	}
	ctx.Sleep(t.period)
}

func (t *Task) read() (bool, error) {
	if t.pin == nil {
		return false, health.ErrNoDevice
	}
	return t.pin.Read()
}
