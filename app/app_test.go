package app

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"boardloop/hal"
	"boardloop/kernel"
	"boardloop/state"
	"boardloop/tasks/speaker"
)

type lineLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *lineLog) has(prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

type pin struct {
	name  string
	level bool
}

func (p *pin) Name() string                               { return p.name }
func (p *pin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput | hal.GPIOCapOutput }
func (p *pin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *pin) Read() (bool, error)                        { return p.level, nil }
func (p *pin) Write(level bool) error                     { p.level = level; return nil }

type led struct{ toggles int }

func (l *led) High() { l.toggles++ }
func (l *led) Low()  { l.toggles++ }

type analog float32

func (a *analog) Read() (float32, error) { return float32(*a), nil }

type imu struct {
	v     state.Vec3
	c     float32
	crash bool
}

func (m *imu) ReadAcceleration() (x, y, z float32, err error) {
	if m.crash {
		var axes []float32
		return axes[2], 0, 0, nil
	}
	return m.v.X, m.v.Y, m.v.Z, nil
}

func (m *imu) ReadTemperature() (float32, error) { return m.c, nil }

type pwm struct {
	mu     sync.Mutex
	period time.Duration
	pulses []time.Duration
}

func (p *pwm) SetPeriod(d time.Duration) error { p.period = d; return nil }
func (p *pwm) SetPulseWidth(d time.Duration) error {
	p.mu.Lock()
	p.pulses = append(p.pulses, d)
	p.mu.Unlock()
	return nil
}

type fb struct {
	buf      []byte
	presents int
}

func (f *fb) Width() int              { return 128 }
func (f *fb) Height() int             { return 32 }
func (f *fb) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fb) StrideBytes() int        { return 256 }
func (f *fb) Buffer() []byte          { return f.buf }
func (f *fb) Present() error          { f.presents++; return nil }
func (f *fb) ClearRGB(r, g, b uint8) {
	for i := range f.buf {
		f.buf[i] = r
	}
}
func (f *fb) Framebuffer() hal.Framebuffer { return f }

func (f *fb) dark() int {
	n := 0
	for i := 0; i < len(f.buf); i += 2 {
		if f.buf[i] != 0xFF {
			n++
		}
	}
	return n
}

type ticks chan uint64

func (t ticks) Ticks() <-chan uint64 { return t }

type fakeHAL struct {
	log        *lineLog
	red, green *led
	joy        [hal.JoyPinCount]*pin
	sw3        *pin
	pots       [2]*analog
	imu        *imu
	spk        *pwm
	fb         *fb
	t          ticks
}

func newFakeHAL() *fakeHAL {
	h := &fakeHAL{
		log:   &lineLog{},
		red:   &led{},
		green: &led{},
		sw3:   &pin{name: "SW3", level: true},
		pots:  [2]*analog{new(analog), new(analog)},
		imu:   &imu{},
		spk:   &pwm{},
		fb:    &fb{buf: make([]byte, 128*32*2)},
		t:     make(ticks, 1),
	}
	for i := range h.joy {
		h.joy[i] = &pin{name: hal.JoystickPin(i).String()}
	}
	return h
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) RedLED() hal.LED      { return h.red }
func (h *fakeHAL) GreenLED() hal.LED    { return h.green }
func (h *fakeHAL) GPIO() hal.GPIO       { return nil }
func (h *fakeHAL) Button() hal.GPIOPin  { return h.sw3 }
func (h *fakeHAL) Speaker() hal.PWM     { return h.spk }
func (h *fakeHAL) Display() hal.Display { return h.fb }
func (h *fakeHAL) Time() hal.Time       { return h.t }

func (h *fakeHAL) Accelerometer() hal.Accelerometer   { return h.imu }
func (h *fakeHAL) Thermometer() hal.Thermometer       { return h.imu }
func (h *fakeHAL) Pot(ch hal.PotChannel) hal.AnalogIn { return h.pots[ch] }

func (h *fakeHAL) Joystick() [hal.JoyPinCount]hal.GPIOPin {
	var out [hal.JoyPinCount]hal.GPIOPin
	for i, p := range h.joy {
		out[i] = p
	}
	return out
}

// runUntil dispatches everything due up to and including tick end.
func runUntil(k *kernel.Kernel, end uint64) {
	for tick := k.NowTick(); tick <= end; tick++ {
		k.TickTo(tick)
		for k.Step() {
		}
	}
}

func TestTaskTableMatchesSchedule(t *testing.T) {
	sys, err := newSystem(newFakeHAL(), Config{})
	if err != nil {
		t.Fatalf("newSystem: %v", err)
	}

	want := []struct {
		name   string
		period time.Duration
	}{
		{"joystick", 100 * time.Millisecond},
		{"sw3", 100 * time.Millisecond},
		{"pot", 100 * time.Millisecond},
		{"accel", 100 * time.Millisecond},
		{"lcd", 100 * time.Millisecond},
		{"speaker", 100 * time.Millisecond},
		{"led-red", 500 * time.Millisecond},
		{"led-green", 500 * time.Millisecond},
		{"temp", time.Second},
	}
	st := sys.k.Stats()
	if len(st) != len(want) {
		t.Fatalf("len(Stats()) = %d, want %d", len(st), len(want))
	}
	for i, w := range want {
		if st[i].Name != w.name || st[i].Period != w.period || st[i].Priority != kernel.Priority(i+1) {
			t.Fatalf("task %d = %s/%s/%d, want %s/%s/%d", i, st[i].Name, st[i].Period, st[i].Priority, w.name, w.period, i+1)
		}
		if st[i].StackBytes != 1024 {
			t.Fatalf("%s stack = %d, want 1024", st[i].Name, st[i].StackBytes)
		}
	}
}

func TestSlotsHaveSingleOwners(t *testing.T) {
	sys, err := newSystem(newFakeHAL(), Config{})
	if err != nil {
		t.Fatalf("newSystem: %v", err)
	}

	owners := map[state.Slot]string{
		state.SlotPotLeft:     "pot",
		state.SlotPotRight:    "pot",
		state.SlotJoystick:    "joystick",
		state.SlotAccel:       "accel",
		state.SlotTemperature: "temp",
		state.SlotButton:      "sw3",
	}
	for slot, want := range owners {
		if got := sys.store.Owner(slot); got != want {
			t.Fatalf("Owner(%s) = %q, want %q", slot, got, want)
		}
		if _, err := sys.store.Claim("intruder", slot); !errors.Is(err, state.ErrSlotClaimed) {
			t.Fatalf("Claim(%s) err = %v, want ErrSlotClaimed", slot, err)
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	h := newFakeHAL()
	*h.pots[0], *h.pots[1] = 0.42, 0.77
	h.joy[hal.JoyUp].level = true
	h.imu.v = state.Vec3{X: 0.1, Y: -0.2, Z: 0.9}
	h.imu.c = 24.55

	sys, err := newSystem(h, Config{})
	if err != nil {
		t.Fatalf("newSystem: %v", err)
	}
	runUntil(sys.k, 1000)

	got := sys.store.Snapshot()
	want := state.Readings{
		PotLeft:     0.42,
		PotRight:    0.77,
		Joystick:    'U',
		Accel:       state.Vec3{X: 0.1, Y: -0.2, Z: 0.9},
		Temperature: 24.55,
	}
	if got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}

	for _, p := range h.spk.pulses {
		if p != speaker.ToneOff {
			t.Fatalf("pulse %s with button released, want off", p)
		}
	}
	if h.fb.dark() == 0 {
		t.Fatal("LCD is blank after a second of rendering")
	}
	// Initial level plus toggles at 0, 500 and 1000 ms.
	if h.red.toggles != 4 || h.green.toggles != 4 {
		t.Fatalf("led writes = %d/%d, want 4/4", h.red.toggles, h.green.toggles)
	}
	if err := sys.k.Fault(); err != nil {
		t.Fatalf("Fault() = %v", err)
	}
}

func TestButtonDrivesSpeaker(t *testing.T) {
	h := newFakeHAL()
	sys, err := newSystem(h, Config{})
	if err != nil {
		t.Fatalf("newSystem: %v", err)
	}
	runUntil(sys.k, 0)

	h.sw3.level = false
	runUntil(sys.k, 100)
	if last := h.spk.pulses[len(h.spk.pulses)-1]; last != speaker.ToneOn {
		t.Fatalf("pulse after press = %s, want %s", last, speaker.ToneOn)
	}

	h.sw3.level = true
	runUntil(sys.k, 200)
	if last := h.spk.pulses[len(h.spk.pulses)-1]; last != speaker.ToneOff {
		t.Fatalf("pulse after release = %s, want off", last)
	}
}

func TestTaskFaultShowsFaultScreen(t *testing.T) {
	h := newFakeHAL()
	h.imu.crash = true

	sys, err := newSystem(h, Config{ExitOnFault: true})
	if err != nil {
		t.Fatalf("newSystem: %v", err)
	}
	runUntil(sys.k, 0)

	if err := sys.k.Fault(); !errors.Is(err, kernel.ErrTaskFault) {
		t.Fatalf("Fault() = %v, want ErrTaskFault", err)
	}
	if !h.log.has("boardloop panic: task=accel") {
		t.Fatalf("log = %q, want panic line", h.log.lines)
	}
	if h.fb.dark() == 0 {
		t.Fatal("fault screen is blank")
	}
}

func TestStepReportsFaultWhenExiting(t *testing.T) {
	h := newFakeHAL()
	h.imu.crash = true

	step := NewWithConfig(h, Config{ExitOnFault: true})
	deadline := time.After(2 * time.Second)
	for {
		if err := step(); err != nil {
			if !errors.Is(err, kernel.ErrTaskFault) {
				t.Fatalf("step() = %v, want ErrTaskFault", err)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("step() never reported the fault")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestStatsAreLogged(t *testing.T) {
	h := newFakeHAL()
	sys, err := newSystem(h, Config{StatsEvery: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("newSystem: %v", err)
	}
	runUntil(sys.k, 100)
	if err := sys.step(); err != nil {
		t.Fatalf("step() = %v", err)
	}
	if !h.log.has("stats: joystick") {
		t.Fatalf("log = %q, want stats lines", h.log.lines)
	}
}

func TestNilHAL(t *testing.T) {
	if _, err := newSystem(nil, Config{}); err == nil {
		t.Fatal("newSystem(nil) err = nil")
	}
}
