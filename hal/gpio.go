package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// check reports whether a pin with caps c may be configured as mode/pull.
// Outputs never take a pull resistor.
func (c GPIOCaps) check(name string, mode GPIOMode, pull GPIOPull) error {
	var need GPIOCaps
	switch mode {
	case GPIOModeInput:
		need = GPIOCapInput
	case GPIOModeOutput:
		need = GPIOCapOutput
		if pull != GPIOPullNone {
			return fmt.Errorf("gpio: pin %s: pull on output", name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode %d", name, mode)
	}
	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		need |= GPIOCapPullUp
	case GPIOPullDown:
		need |= GPIOCapPullDown
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull %d", name, pull)
	}
	if missing := need &^ c; missing != 0 {
		return fmt.Errorf("gpio: pin %s: unsupported %s", name, missing)
	}
	return nil
}

func (c GPIOCaps) String() string {
	s := ""
	for _, f := range []struct {
		bit  GPIOCaps
		name string
	}{
		{GPIOCapInput, "input"},
		{GPIOCapOutput, "output"},
		{GPIOCapPullUp, "pull-up"},
		{GPIOCapPullDown, "pull-down"},
	} {
		if c&f.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += f.name
	}
	if s == "" {
		return "none"
	}
	return s
}

// GPIO lists the board's named pins, mainly for diagnostics.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// pinBank is a fixed GPIO listing. A nil bank has no pins.
type pinBank []GPIOPin

func (b pinBank) PinCount() int { return len(b) }

func (b pinBank) Pin(id int) GPIOPin {
	if id < 0 || id >= len(b) {
		return nil
	}
	return b[id]
}

// virtualPin is an input whose level is set by the simulated outside world.
// An undriven input reads its pull level.
type virtualPin struct {
	mu     sync.Mutex
	name   string
	caps   GPIOCaps
	mode   GPIOMode
	pull   GPIOPull
	driven bool
	level  bool
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{name: name, caps: caps}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := p.caps.check(p.name, mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	p.mode, p.pull = mode, pull
	p.mu.Unlock()
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == GPIOModeInput && !p.driven {
		return p.pull == GPIOPullUp, nil
	}
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	return nil
}

// Drive sets the externally applied level.
func (p *virtualPin) Drive(level bool) {
	p.mu.Lock()
	p.driven, p.level = true, level
	p.mu.Unlock()
}

// Release stops driving the pin so it floats to its pull level.
func (p *virtualPin) Release() {
	p.mu.Lock()
	p.driven = false
	p.mu.Unlock()
}

// ledPin exposes an LED as an output-only pin that remembers its level.
type ledPin struct {
	mu    sync.Mutex
	led   LED
	name  string
	level bool
}

func newLEDPin(name string, led LED) GPIOPin {
	if led == nil {
		return nil
	}
	return &ledPin{led: led, name: name}
}

func (p *ledPin) Name() string   { return p.name }
func (p *ledPin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *ledPin) Configure(mode GPIOMode, pull GPIOPull) error {
	return p.Caps().check(p.name, mode, pull)
}

func (p *ledPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *ledPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}

// ledOut routes LED calls through its GPIO pin so the pin mirrors the level.
type ledOut struct {
	pin GPIOPin
}

func (l ledOut) High() { _ = l.pin.Write(true) }
func (l ledOut) Low()  { _ = l.pin.Write(false) }
