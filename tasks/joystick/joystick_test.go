package joystick

import (
	"errors"
	"testing"
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
)

type fakePin struct {
	name   string
	level  bool
	err    error
	mode   hal.GPIOMode
	pull   hal.GPIOPull
	config int
}

func (p *fakePin) Name() string       { return p.name }
func (p *fakePin) Caps() hal.GPIOCaps { return hal.GPIOCapInput | hal.GPIOCapPullDown }
func (p *fakePin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	p.mode, p.pull = mode, pull
	p.config++
	return nil
}
func (p *fakePin) Read() (bool, error)    { return p.level, p.err }
func (p *fakePin) Write(level bool) error { return errors.New("input only") }

type fakeBoard struct {
	pins  [hal.JoyPinCount]*fakePin
	calls int
}

func newFakeBoard() *fakeBoard {
	b := &fakeBoard{}
	for i := range b.pins {
		b.pins[i] = &fakePin{name: hal.JoystickPin(i).String()}
	}
	return b
}

func (b *fakeBoard) Joystick() [hal.JoyPinCount]hal.GPIOPin {
	b.calls++
	var out [hal.JoyPinCount]hal.GPIOPin
	for i, p := range b.pins {
		out[i] = p
	}
	return out
}

func TestScanFirstActiveWins(t *testing.T) {
	cases := []struct {
		name   string
		active [hal.JoyPinCount]bool
		want   rune
	}{
		{"none", [hal.JoyPinCount]bool{}, Idle},
		{"center", [hal.JoyPinCount]bool{true}, 'C'},
		{"right only", [hal.JoyPinCount]bool{false, false, false, false, true}, 'R'},
		{"up and left", [hal.JoyPinCount]bool{false, true, false, true, false}, 'U'},
		{"down and right", [hal.JoyPinCount]bool{false, false, true, false, true}, 'D'},
		{"all", [hal.JoyPinCount]bool{true, true, true, true, true}, 'C'},
	}
	for _, tc := range cases {
		if got := Scan(tc.active); got != tc.want {
			t.Fatalf("%s: Scan() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSymbol(t *testing.T) {
	if got := Symbol(hal.JoyLeft); got != 'L' {
		t.Fatalf("Symbol(left) = %q, want 'L'", got)
	}
	if got := Symbol(hal.JoyPinCount); got != Idle {
		t.Fatalf("Symbol(out of range) = %q, want Idle", got)
	}
}

func run(t *testing.T, task kernel.Task) *kernel.Kernel {
	t.Helper()
	k := kernel.New()
	if _, err := k.AddTask(kernel.Spec{Name: "joystick", Priority: 1, Task: task}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := k.StartTick(nil); err != nil {
		t.Fatalf("StartTick: %v", err)
	}
	return k
}

func TestTaskPublishesScan(t *testing.T) {
	s := state.New()
	w, err := s.Claim("joystick", state.SlotJoystick)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	b := newFakeBoard()
	k := run(t, New(b, w, 100*time.Millisecond))

	k.Step()
	if got := s.Joystick(); got != Idle {
		t.Fatalf("Joystick() = %q, want Idle", got)
	}

	b.pins[hal.JoyDown].level = true
	b.pins[hal.JoyRight].level = true
	k.TickTo(100)
	k.Step()
	if got := s.Joystick(); got != 'D' {
		t.Fatalf("Joystick() = %q, want 'D'", got)
	}

	if b.calls != 1 {
		t.Fatalf("Joystick() acquired %d times, want once", b.calls)
	}
	for _, p := range b.pins {
		if p.config != 1 || p.mode != hal.GPIOModeInput || p.pull != hal.GPIOPullDown {
			t.Fatalf("pin %s configured %d times as %v/%v", p.name, p.config, p.mode, p.pull)
		}
	}
}

func TestReadErrorKeepsLastSymbol(t *testing.T) {
	s := state.New()
	w, _ := s.Claim("joystick", state.SlotJoystick)
	b := newFakeBoard()
	b.pins[hal.JoyUp].level = true
	k := run(t, New(b, w, 100*time.Millisecond))

	k.Step()
	seq := s.Seq(state.SlotJoystick)

	b.pins[hal.JoyUp].level = false
	b.pins[hal.JoyCenter].err = errors.New("bus fault")
	k.TickTo(100)
	k.Step()

	if got := s.Joystick(); got != 'U' {
		t.Fatalf("Joystick() = %q after failed read, want 'U'", got)
	}
	if s.Seq(state.SlotJoystick) != seq {
		t.Fatal("failed read bumped the slot sequence")
	}
	if err := k.Fault(); err != nil {
		t.Fatalf("Fault() = %v, want nil", err)
	}
}
