package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boardloop/hal"
	"boardloop/internal/buildinfo"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/accel"
	"boardloop/tasks/blink"
	"boardloop/tasks/button"
	"boardloop/tasks/joystick"
	"boardloop/tasks/lcd"
	"boardloop/tasks/pot"
	"boardloop/tasks/speaker"
	"boardloop/tasks/temp"
)

// stackBytes is the per-task stack budget: 256 words.
const stackBytes = 256 * 4

type Config struct {
	// StatsEvery logs the task table at this interval of kernel time (0 = off).
	StatsEvery time.Duration
	// ExitOnFault makes the step function return the fault that halted the kernel.
	// Otherwise the fault screen stays up and stepping continues.
	ExitOnFault bool
}

type taskDef struct {
	name     string
	priority kernel.Priority
	period   time.Duration
	build    func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error)
}

// taskTable is the fixed task set in dispatch order.
var taskTable = []taskDef{
	{"joystick", 1, 100 * time.Millisecond, func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error) {
		w, err := s.Claim("joystick", state.SlotJoystick)
		if err != nil {
			return nil, err
		}
		return joystick.New(h, w, period), nil
	}},
	{"sw3", 2, 100 * time.Millisecond, func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error) {
		w, err := s.Claim("sw3", state.SlotButton)
		if err != nil {
			return nil, err
		}
		return button.New(h, w, period), nil
	}},
	{"pot", 3, 100 * time.Millisecond, func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error) {
		w, err := s.Claim("pot", state.SlotPotLeft, state.SlotPotRight)
		if err != nil {
			return nil, err
		}
		return pot.New(h, w, period), nil
	}},
	{"accel", 4, 100 * time.Millisecond, func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error) {
		w, err := s.Claim("accel", state.SlotAccel)
		if err != nil {
			return nil, err
		}
		return accel.New(h, w, period), nil
	}},
	{"lcd", 5, 100 * time.Millisecond, func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error) {
		return lcd.New(h, s, period), nil
	}},
	{"speaker", 6, 100 * time.Millisecond, func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error) {
		return speaker.New(h, s, period), nil
	}},
	{"led-red", 7, 500 * time.Millisecond, func(h hal.HAL, _ *state.Store, period time.Duration) (kernel.Task, error) {
		return blink.New(h.RedLED(), true, period), nil
	}},
	{"led-green", 8, 500 * time.Millisecond, func(h hal.HAL, _ *state.Store, period time.Duration) (kernel.Task, error) {
		return blink.New(h.GreenLED(), false, period), nil
	}},
	{"temp", 9, time.Second, func(h hal.HAL, s *state.Store, period time.Duration) (kernel.Task, error) {
		w, err := s.Claim("temp", state.SlotTemperature)
		if err != nil {
			return nil, err
		}
		return temp.New(h, w, period), nil
	}},
}

type system struct {
	h     hal.HAL
	k     *kernel.Kernel
	store *state.Store
	cfg   Config

	done      chan error
	halted    error
	lastStats uint64
}

// New initializes the board loop with default config and starts it.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// Run starts the board loop and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, Config{})
}

// NewWithConfig starts the kernel in the background and returns a step
// function for host runners to call once per frame.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	sys, err := newSystem(h, cfg)
	if err != nil {
		logLine(h, "boot: "+err.Error())
		return func() error { return err }
	}
	go func() { sys.done <- sys.k.Run(context.Background()) }()
	return sys.step
}

func RunWithConfig(h hal.HAL, cfg Config) {
	sys, err := newSystem(h, cfg)
	if err != nil {
		logLine(h, "boot: "+err.Error())
		select {}
	}
	err = sys.k.Run(context.Background())
	logLine(h, "kernel: halted: "+err.Error())
	select {}
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	if h == nil {
		return nil, errors.New("app: nil HAL")
	}
	bootScreen(h, buildinfo.Banner())

	k := kernel.New()
	if l := h.Logger(); l != nil {
		k.SetLogger(l)
	}
	sys := &system{h: h, k: k, store: state.New(), cfg: cfg, done: make(chan error, 1)}

	for _, def := range taskTable {
		task, err := def.build(h, sys.store, def.period)
		if err != nil {
			return nil, fmt.Errorf("app: task %s: %w", def.name, err)
		}
		if _, err := k.AddTask(kernel.Spec{
			Name:       def.name,
			Priority:   def.priority,
			StackBytes: stackBytes,
			Period:     def.period,
			Task:       task,
		}); err != nil {
			return nil, fmt.Errorf("app: task %s: %w", def.name, err)
		}
	}

	installPanicHandler(h, k)
	logPinMap(h)

	var src kernel.TickSource
	if t := h.Time(); t != nil {
		src = t
	} else {
		logLine(h, "boot: no tick source, tasks will not wake")
	}
	if err := k.StartTick(src); err != nil {
		return nil, err
	}
	return sys, nil
}

func (s *system) step() error {
	if s.halted == nil {
		select {
		case err := <-s.done:
			s.halted = err
		default:
		}
	}
	if s.halted != nil {
		if s.cfg.ExitOnFault {
			return s.halted
		}
		return nil
	}

	if s.cfg.StatsEvery > 0 {
		now := s.k.NowTick()
		every := uint64(s.cfg.StatsEvery / kernel.TickPeriod)
		if every > 0 && now-s.lastStats >= every {
			s.lastStats = now
			s.logStats()
		}
	}
	return nil
}

func (s *system) logStats() {
	for _, st := range s.k.Stats() {
		logLine(s.h, fmt.Sprintf("stats: %-9s prio=%d period=%s runs=%d last=%d overruns=%d",
			st.Name, st.Priority, st.Period, st.Dispatches, st.LastDispatch, st.Overruns))
	}
}

func logPinMap(h hal.HAL) {
	g := h.GPIO()
	if g == nil {
		return
	}
	for i := 0; i < g.PinCount(); i++ {
		if p := g.Pin(i); p != nil {
			logLine(h, fmt.Sprintf("gpio: %d %s %s", i, p.Name(), p.Caps()))
		}
	}
}

func logLine(h hal.HAL, s string) {
	if h == nil {
		return
	}
	if l := h.Logger(); l != nil {
		l.WriteLineString(s)
	}
}
