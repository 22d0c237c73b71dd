// Package speaker sounds a fixed tone on the speaker while SW3 is held.
package speaker

import (
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/internal/health"
)

const (
	// TonePeriod is one cycle of 440 Hz.
	TonePeriod = 2272 * time.Microsecond
	// ToneOn is the 50% duty pulse.
	ToneOn = 1136 * time.Microsecond
	// ToneOff silences the output.
	ToneOff time.Duration = 0
)

// Pulse returns the pulse width for the button state. It never returns
// anything but ToneOn or ToneOff.
func Pulse(pressed bool) time.Duration {
	if pressed {
		return ToneOn
	}
	return ToneOff
}

type Board interface {
	Speaker() hal.PWM
}

type Task struct {
	board  Board
	store  *state.Store
	period time.Duration

	pwm    hal.PWM
	inited bool
	health *health.Tracker
}

func New(board Board, store *state.Store, period time.Duration) *Task {
	return &Task{board: board, store: store, period: period, health: health.New("speaker")}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		t.acquire(ctx)
	}

	t.health.Observe(ctx, t.drive(Pulse(t.store.ButtonPressed())))
	ctx.Sleep(t.period)
}

func (t *Task) acquire(ctx *kernel.Context) {
	if t.board != nil {
		t.pwm = t.board.Speaker()
	}
	if t.pwm == nil {
		return
	}
	if err := t.pwm.SetPeriod(TonePeriod); err != nil {
		ctx.Logf("set period: %v", err)
	}
	if err := t.pwm.SetPulseWidth(ToneOff); err != nil {
		ctx.Logf("set pulse: %v", err)
	}
}

func (t *Task) drive(pulse time.Duration) error {
	if t.pwm == nil {
		return health.ErrNoDevice
	}
	return t.pwm.SetPulseWidth(pulse)
}
