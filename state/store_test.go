package state

import (
	"errors"
	"runtime"
	"sync"
	"testing"
)

func TestStoreDefaults(t *testing.T) {
	s := New()

	got := s.Snapshot()
	want := Readings{Joystick: JoystickUnset}
	if got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}
	for slot := SlotPotLeft; slot < slotCount; slot++ {
		if seq := s.Seq(slot); seq != 0 {
			t.Fatalf("Seq(%s) = %d, want 0", slot, seq)
		}
	}
}

func TestClaimIsExclusive(t *testing.T) {
	s := New()

	if _, err := s.Claim("pot", SlotPotLeft, SlotPotRight); err != nil {
		t.Fatalf("Claim(pot): %v", err)
	}
	_, err := s.Claim("rogue", SlotButton, SlotPotRight)
	if !errors.Is(err, ErrSlotClaimed) {
		t.Fatalf("Claim(rogue) err = %v, want ErrSlotClaimed", err)
	}

	// The failed claim must not keep the slots it grabbed before failing.
	if owner := s.Owner(SlotButton); owner != "" {
		t.Fatalf("Owner(button) = %q, want empty after failed claim", owner)
	}
	if owner := s.Owner(SlotPotRight); owner != "pot" {
		t.Fatalf("Owner(pot-right) = %q, want pot", owner)
	}
	if _, err := s.Claim("sw3", SlotButton); err != nil {
		t.Fatalf("Claim(sw3): %v", err)
	}
}

func TestClaimBadSlot(t *testing.T) {
	s := New()
	if _, err := s.Claim("x", slotCount); !errors.Is(err, ErrBadSlot) {
		t.Fatalf("Claim(bad) err = %v, want ErrBadSlot", err)
	}
}

func TestWriterRejectsForeignSlot(t *testing.T) {
	s := New()
	w, err := s.Claim("temp", SlotTemperature)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic writing an unowned slot")
		}
		if got := s.PotLeft(); got != 0 {
			t.Fatalf("PotLeft() = %v, want untouched 0", got)
		}
	}()
	w.SetFloat(SlotPotLeft, 1)
}

func TestWriterRejectsKindMismatch(t *testing.T) {
	s := New()
	w, err := s.Claim("joy", SlotJoystick)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for float write to the joystick slot")
		}
	}()
	w.SetFloat(SlotJoystick, 1)
}

func TestLastWriteWins(t *testing.T) {
	s := New()
	pots, _ := s.Claim("pot", SlotPotLeft, SlotPotRight)
	joy, _ := s.Claim("joystick", SlotJoystick)
	acc, _ := s.Claim("accel", SlotAccel)
	tmp, _ := s.Claim("temp", SlotTemperature)
	sw3, _ := s.Claim("sw3", SlotButton)

	pots.SetFloat(SlotPotLeft, 0.1)
	pots.SetFloat(SlotPotLeft, 0.42)
	pots.SetFloat(SlotPotRight, 0.77)
	joy.SetJoystick('U')
	acc.SetAccel(Vec3{X: 0.1, Y: -0.2, Z: 0.9})
	tmp.SetFloat(SlotTemperature, 24.55)
	sw3.SetButton(true)
	sw3.SetButton(false)

	got := s.Snapshot()
	want := Readings{
		PotLeft:     0.42,
		PotRight:    0.77,
		Joystick:    'U',
		Accel:       Vec3{X: 0.1, Y: -0.2, Z: 0.9},
		Temperature: 24.55,
		Button:      false,
	}
	if got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}
	if seq := s.Seq(SlotPotLeft); seq != 2 {
		t.Fatalf("Seq(pot-left) = %d, want 2", seq)
	}
	if seq := s.Seq(SlotButton); seq != 2 {
		t.Fatalf("Seq(button) = %d, want 2", seq)
	}
}

func TestConcurrentReadersSeeWrittenValues(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(4)
	defer runtime.GOMAXPROCS(oldProcs)

	s := New()
	w, _ := s.Claim("temp", SlotTemperature)

	valid := map[float32]bool{0: true, 1: true, 2: true}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10_000; i++ {
			w.SetFloat(SlotTemperature, float32(1+i%2))
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
		if v := s.Temperature(); !valid[v] {
			t.Fatalf("Temperature() = %v, want one of the written values", v)
		}
	}
}
