// Package joystick samples the five-way joystick into the joystick slot.
package joystick

import (
	"errors"
	"fmt"
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/internal/health"
)

// Idle is published when no contact is closed.
const Idle = '-'

var symbols = [hal.JoyPinCount]rune{
	hal.JoyCenter: 'C',
	hal.JoyUp:     'U',
	hal.JoyDown:   'D',
	hal.JoyLeft:   'L',
	hal.JoyRight:  'R',
}

// Symbol returns the character published for pin.
func Symbol(pin hal.JoystickPin) rune {
	if pin >= hal.JoyPinCount {
		return Idle
	}
	return symbols[pin]
}

// Scan returns the symbol of the first active contact in scan order, or Idle.
func Scan(active [hal.JoyPinCount]bool) rune {
	for pin, on := range active {
		if on {
			return symbols[pin]
		}
	}
	return Idle
}

// Board is the part of the HAL the joystick sampler uses.
type Board interface {
	Joystick() [hal.JoyPinCount]hal.GPIOPin
}

type Task struct {
	board  Board
	w      *state.Writer
	period time.Duration

	pins   [hal.JoyPinCount]hal.GPIOPin
	inited bool
	health *health.Tracker
}

func New(board Board, w *state.Writer, period time.Duration) *Task {
	return &Task{board: board, w: w, period: period, health: health.New("joystick")}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		t.acquire(ctx)
	}

	if active, err := t.read(); t.health.Observe(ctx, err) {
		t.w.SetJoystick(Scan(active))
	}
	ctx.Sleep(t.period)
}

func (t *Task) acquire(ctx *kernel.Context) {
	if t.board != nil {
		t.pins = t.board.Joystick()
	}
	for pin, p := range t.pins {
		if p == nil {
			continue
		}
		if err := p.Configure(hal.GPIOModeInput, hal.GPIOPullDown); err != nil {
			ctx.Logf("configure %s (%s): %v", p.Name(), hal.JoystickPin(pin), err)
		}
	}
}

func (t *Task) read() ([hal.JoyPinCount]bool, error) {
	var active [hal.JoyPinCount]bool
	var errs []error
	for pin, p := range t.pins {
		if p == nil {
			errs = append(errs, fmt.Errorf("%s: %w", hal.JoystickPin(pin), health.ErrNoDevice))
			continue
		}
		level, err := p.Read()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		active[pin] = level
	}
	return active, errors.Join(errs...)
}
