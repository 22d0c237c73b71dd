//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"boardloop/internal/mathx"
)

// LCD geometry of the C12832 panel.
const (
	lcdWidth  = 128
	lcdHeight = 32
)

type hostHAL struct {
	logger *hostLogger
	red    GPIOPin
	green  GPIOPin
	gpio   GPIO
	joy    [JoyPinCount]*virtualPin
	sw3    *virtualPin
	pots   [2]*hostAnalog
	accel  *hostAccel
	therm  *hostThermometer
	spk    *hostPWM
	fb     *hostFramebuffer
	t      *hostTime
}

// HostOptions tunes the simulated board.
type HostOptions struct {
	// Verbose logs LED and speaker transitions.
	Verbose bool
}

// New returns a host HAL implementation with default options.
func New() HAL {
	return newHostHAL(HostOptions{})
}

func newHostHAL(opts HostOptions) *hostHAL {
	logger := &hostLogger{w: os.Stdout}

	h := &hostHAL{
		logger: logger,
		red:    newLEDPin("LED_R", &hostLED{name: "led-red", logger: logger, verbose: opts.Verbose}),
		green:  newLEDPin("LED_G", &hostLED{name: "led-green", logger: logger, verbose: opts.Verbose}),
		sw3:    newVirtualPin("SW3", GPIOCapInput|GPIOCapPullUp),
		pots:   [2]*hostAnalog{newHostAnalog(0.5), newHostAnalog(0.5)},
		accel:  &hostAccel{z: 1},
		therm:  &hostThermometer{c: 22.5},
		spk:    &hostPWM{logger: logger, verbose: opts.Verbose},
		fb:     newHostFramebuffer(lcdWidth, lcdHeight),
		t:      newHostTime(),
	}

	pins := make([]GPIOPin, 0, JoyPinCount+3)
	for p := JoyCenter; p < JoyPinCount; p++ {
		h.joy[p] = newVirtualPin(joyPinName(p), GPIOCapInput|GPIOCapPullDown)
		pins = append(pins, h.joy[p])
	}
	pins = append(pins, h.sw3, h.red, h.green)
	h.gpio = pinBank(pins)
	return h
}

func joyPinName(p JoystickPin) string {
	return fmt.Sprintf("JOY_%c", "CUDLR"[p])
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) RedLED() LED      { return ledOut{pin: h.red} }
func (h *hostHAL) GreenLED() LED    { return ledOut{pin: h.green} }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Button() GPIOPin  { return h.sw3 }
func (h *hostHAL) Speaker() PWM     { return h.spk }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time       { return h.t }

func (h *hostHAL) Accelerometer() Accelerometer { return h.accel }
func (h *hostHAL) Thermometer() Thermometer     { return h.therm }

func (h *hostHAL) Joystick() [JoyPinCount]GPIOPin {
	var out [JoyPinCount]GPIOPin
	for i, p := range h.joy {
		out[i] = p
	}
	return out
}

func (h *hostHAL) Pot(ch PotChannel) AnalogIn {
	if int(ch) >= len(h.pots) {
		return nil
	}
	return h.pots[ch]
}

func (h *hostHAL) SetJoystick(pin JoystickPin, active bool) {
	if pin >= JoyPinCount {
		return
	}
	h.joy[pin].Drive(active)
}

func (h *hostHAL) SetButton(pressed bool) {
	// SW3 pulls the line low when pressed.
	h.sw3.Drive(!pressed)
}

func (h *hostHAL) SetPot(ch PotChannel, v float32) {
	if int(ch) >= len(h.pots) {
		return
	}
	h.pots[ch].set(v)
}

func (h *hostHAL) SetAcceleration(x, y, z float32) { h.accel.set(x, y, z) }
func (h *hostHAL) SetTemperature(c float32)        { h.therm.set(c) }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu      sync.Mutex
	name    string
	on      bool
	verbose bool
	logger  Logger
}

func (l *hostLED) High() { l.set(true) }
func (l *hostLED) Low()  { l.set(false) }

func (l *hostLED) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = on
	if !l.verbose || l.logger == nil {
		return
	}
	if on {
		l.logger.WriteLineString(l.name + ": HIGH")
	} else {
		l.logger.WriteLineString(l.name + ": LOW")
	}
}

type hostAnalog struct {
	mu sync.Mutex
	v  float32
}

func newHostAnalog(v float32) *hostAnalog {
	a := &hostAnalog{}
	a.set(v)
	return a
}

func (a *hostAnalog) Read() (float32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.v, nil
}

func (a *hostAnalog) set(v float32) {
	a.mu.Lock()
	a.v = mathx.Clamp(v, 0, 1)
	a.mu.Unlock()
}

func (a *hostAnalog) nudge(d float32) {
	a.mu.Lock()
	a.v = mathx.Clamp(a.v+d, 0, 1)
	a.mu.Unlock()
}

// accelRange is the full-scale range of the simulated sensor in g.
const accelRange = 8

type hostAccel struct {
	mu      sync.Mutex
	x, y, z float32
}

func (a *hostAccel) ReadAcceleration() (x, y, z float32, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.x, a.y, a.z, nil
}

func (a *hostAccel) set(x, y, z float32) {
	a.mu.Lock()
	a.x = mathx.Clamp(x, -accelRange, accelRange)
	a.y = mathx.Clamp(y, -accelRange, accelRange)
	a.z = mathx.Clamp(z, -accelRange, accelRange)
	a.mu.Unlock()
}

func (a *hostAccel) nudge(dx, dy float32) {
	a.mu.Lock()
	x, y, z := a.x+dx, a.y+dy, a.z
	a.mu.Unlock()
	a.set(x, y, z)
}

type hostThermometer struct {
	mu sync.Mutex
	c  float32
}

func (t *hostThermometer) ReadTemperature() (float32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.c, nil
}

func (t *hostThermometer) set(c float32) {
	t.mu.Lock()
	t.c = mathx.Clamp(c, -40, 125)
	t.mu.Unlock()
}

func (t *hostThermometer) nudge(d float32) {
	t.mu.Lock()
	c := t.c + d
	t.mu.Unlock()
	t.set(c)
}

// hostPWM records the speaker settings and feeds the tone generator.
type hostPWM struct {
	mu      sync.Mutex
	period  time.Duration
	pulse   time.Duration
	verbose bool
	logger  Logger
}

func (p *hostPWM) SetPeriod(period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("pwm: invalid period %s", period)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pulse > period {
		p.pulse = period
	}
	if p.period != period && p.verbose && p.logger != nil {
		p.logger.WriteLineString(fmt.Sprintf("speaker: period %s", period))
	}
	p.period = period
	return nil
}

func (p *hostPWM) SetPulseWidth(width time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if width < 0 || width > p.period {
		return fmt.Errorf("pwm: pulse %s outside period %s", width, p.period)
	}
	if p.pulse != width && p.verbose && p.logger != nil {
		p.logger.WriteLineString(fmt.Sprintf("speaker: pulse %s", width))
	}
	p.pulse = width
	return nil
}

func (p *hostPWM) settings() (period, pulse time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.period, p.pulse
}
