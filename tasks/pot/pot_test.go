package pot

import (
	"errors"
	"testing"
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
)

type fakeAnalog struct {
	v   float32
	err error
}

func (a *fakeAnalog) Read() (float32, error) { return a.v, a.err }

type fakeBoard [2]*fakeAnalog

func (b *fakeBoard) Pot(ch hal.PotChannel) hal.AnalogIn { return b[ch] }

func TestPotWritesBothSlots(t *testing.T) {
	s := state.New()
	w, err := s.Claim("pot", state.SlotPotLeft, state.SlotPotRight)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	b := &fakeBoard{{v: 0.42}, {v: 0.77}}

	k := kernel.New()
	k.AddTask(kernel.Spec{Name: "pot", Priority: 3, Task: New(b, w, 100*time.Millisecond)})
	k.StartTick(nil)
	k.Step()

	if got := s.PotLeft(); got != 0.42 {
		t.Fatalf("PotLeft() = %v, want 0.42", got)
	}
	if got := s.PotRight(); got != 0.77 {
		t.Fatalf("PotRight() = %v, want 0.77", got)
	}
}

func TestPotFailureIsPerChannel(t *testing.T) {
	s := state.New()
	w, _ := s.Claim("pot", state.SlotPotLeft, state.SlotPotRight)
	b := &fakeBoard{{v: 0.1}, {v: 0.2}}

	k := kernel.New()
	k.AddTask(kernel.Spec{Name: "pot", Priority: 3, Task: New(b, w, 100*time.Millisecond)})
	k.StartTick(nil)
	k.Step()

	b[0].v, b[0].err = 0.9, errors.New("adc busy")
	b[1].v = 0.3
	k.TickTo(100)
	k.Step()

	if got := s.PotLeft(); got != 0.1 {
		t.Fatalf("PotLeft() = %v, want 0.1 kept after failed read", got)
	}
	if got := s.PotRight(); got != 0.3 {
		t.Fatalf("PotRight() = %v, want 0.3", got)
	}
}
