// Package pot samples both potentiometers into the pot slots.
package pot

import (
	"errors"
	"fmt"
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/internal/health"
)

type Board interface {
	Pot(ch hal.PotChannel) hal.AnalogIn
}

var channels = [...]struct {
	ch   hal.PotChannel
	slot state.Slot
	name string
}{
	{hal.PotLeft, state.SlotPotLeft, "left"},
	{hal.PotRight, state.SlotPotRight, "right"},
}

type Task struct {
	board  Board
	w      *state.Writer
	period time.Duration

	in     [len(channels)]hal.AnalogIn
	inited bool
	health *health.Tracker
}

// New returns the sampler. w must own both pot slots.
func New(board Board, w *state.Writer, period time.Duration) *Task {
	return &Task{board: board, w: w, period: period, health: health.New("pot")}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		if t.board != nil {
			for i, c := range channels {
				t.in[i] = t.board.Pot(c.ch)
			}
		}
	}

	var errs []error
	for i, c := range channels {
		if t.in[i] == nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, health.ErrNoDevice))
			continue
		}
		v, err := t.in[i].Read()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		t.w.SetFloat(c.slot, v)
	}
	t.health.Observe(ctx, errors.Join(errs...))
	ctx.Sleep(t.period)
}
