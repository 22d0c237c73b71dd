package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream, one tick per millisecond.
type Time interface {
	Ticks() <-chan uint64
}

// AnalogIn reads a normalized value in [0, 1].
type AnalogIn interface {
	Read() (float32, error)
}

// Accelerometer reads acceleration in g.
type Accelerometer interface {
	ReadAcceleration() (x, y, z float32, err error)
}

// Thermometer reads temperature in degrees Celsius.
type Thermometer interface {
	ReadTemperature() (float32, error)
}

// PWM is a single pulse-width modulated output.
type PWM interface {
	SetPeriod(period time.Duration) error
	SetPulseWidth(width time.Duration) error
}

// JoystickPin indexes the five joystick contacts in scan order.
type JoystickPin uint8

const (
	JoyCenter JoystickPin = iota
	JoyUp
	JoyDown
	JoyLeft
	JoyRight

	JoyPinCount
)

func (p JoystickPin) String() string {
	switch p {
	case JoyCenter:
		return "center"
	case JoyUp:
		return "up"
	case JoyDown:
		return "down"
	case JoyLeft:
		return "left"
	case JoyRight:
		return "right"
	default:
		return "unknown"
	}
}

// PotChannel selects one of the two potentiometers.
type PotChannel uint8

const (
	PotLeft PotChannel = iota
	PotRight
)

// HAL provides the only contact point between the application and the board.
type HAL interface {
	Logger() Logger
	RedLED() LED
	GreenLED() LED
	GPIO() GPIO
	// Joystick returns the five joystick pins in scan order.
	Joystick() [JoyPinCount]GPIOPin
	// Button returns the SW3 pin (active low).
	Button() GPIOPin
	Pot(ch PotChannel) AnalogIn
	Accelerometer() Accelerometer
	Thermometer() Thermometer
	Speaker() PWM
	Display() Display
	Time() Time
}

// Stimulus drives simulated inputs. Only host HALs implement it.
type Stimulus interface {
	SetJoystick(pin JoystickPin, active bool)
	SetButton(pressed bool)
	SetPot(ch PotChannel, v float32)
	SetAcceleration(x, y, z float32)
	SetTemperature(c float32)
}
