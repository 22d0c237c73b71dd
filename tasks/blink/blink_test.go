package blink

import (
	"testing"
	"time"

	"boardloop/kernel"
)

type recLED struct{ levels []bool }

func (l *recLED) High() { l.levels = append(l.levels, true) }
func (l *recLED) Low()  { l.levels = append(l.levels, false) }

func TestRedAndGreenBlinkInAntiphase(t *testing.T) {
	red, green := &recLED{}, &recLED{}
	k := kernel.New()
	k.AddTask(kernel.Spec{Name: "led-red", Priority: 7, Task: New(red, true, 500*time.Millisecond)})
	k.AddTask(kernel.Spec{Name: "led-green", Priority: 8, Task: New(green, false, 500*time.Millisecond)})
	k.StartTick(nil)

	for tick := uint64(0); tick <= 1000; tick += 500 {
		k.TickTo(tick)
		for k.Step() {
		}
	}

	wantRed := []bool{true, false, true, false}
	wantGreen := []bool{false, true, false, true}
	for i := range wantRed {
		if red.levels[i] != wantRed[i] || green.levels[i] != wantGreen[i] {
			t.Fatalf("red = %v, green = %v", red.levels, green.levels)
		}
	}
}

func TestBlinkSleepsItsPeriod(t *testing.T) {
	led := &recLED{}
	k := kernel.New()
	k.AddTask(kernel.Spec{Name: "led", Priority: 1, Task: New(led, false, 500*time.Millisecond)})
	k.StartTick(nil)

	k.Step()
	k.TickTo(499)
	if k.Step() {
		t.Fatal("blink ran before 500ms")
	}
	k.TickTo(500)
	if !k.Step() {
		t.Fatal("blink did not run at 500ms")
	}
}

func TestNilLED(t *testing.T) {
	task := New(nil, true, time.Second)
	task.Step(&kernel.Context{})
	if task.On() {
		t.Fatal("On() = true after one toggle from high")
	}
}
