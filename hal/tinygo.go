//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	red    GPIOPin
	green  GPIOPin
	gpio   GPIO
	joy    [JoyPinCount]GPIOPin
	sw3    GPIOPin
	pots   [2]AnalogIn
	imu    *imuSensor
	spk    PWM
	fb     Framebuffer
	t      *tinyGoTime
}

// New returns a Pico (RP2040) HAL wired to the application shield.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Joystick C/U/D/L/R: GP2, GP3, GP6, GP7, GP8. SW3: GP9 (active low).
// Pots: GP26 (ADC0), GP27 (ADC1). IMU: I2C0 on GP4/GP5.
// Speaker: GP16. LEDs: GP17 (red), GP18 (green).
// LCD: ST7565 on SPI1, SCK GP10, MOSI GP11, CS GP13, A0 GP14, RST GP15.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	machine.InitADC()

	h := &tinyGoHAL{
		logger: logger,
		red:    newLEDPin("LED_R", newPinLED(machine.GP17)),
		green:  newLEDPin("LED_G", newPinLED(machine.GP18)),
		sw3:    &machinePin{name: "SW3", pin: machine.GP9, caps: GPIOCapInput | GPIOCapPullUp},
		pots:   [2]AnalogIn{newADCInput(machine.ADC0), newADCInput(machine.ADC1)},
		imu:    newIMUSensor(machine.I2C0, machine.GP4, machine.GP5),
		spk:    newPWMOut(machine.GP16),
		t:      newTinyGoTime(),
	}

	joyPins := [JoyPinCount]machine.Pin{machine.GP2, machine.GP3, machine.GP6, machine.GP7, machine.GP8}
	pins := make([]GPIOPin, 0, JoyPinCount+3)
	for i, p := range joyPins {
		h.joy[i] = &machinePin{name: joyPinName(JoystickPin(i)), pin: p, caps: GPIOCapInput | GPIOCapPullDown}
		pins = append(pins, h.joy[i])
	}
	pins = append(pins, h.sw3, h.red, h.green)
	h.gpio = pinBank(pins)

	if lcd, err := initST7565(); err != nil {
		logger.WriteLineString("hal: lcd init failed: " + err.Error())
	} else {
		h.fb = newMonoFramebuffer(lcd)
	}
	return h
}

func joyPinName(p JoystickPin) string {
	return "JOY_" + string("CUDLR"[p])
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) RedLED() LED      { return ledOut{pin: h.red} }
func (h *tinyGoHAL) GreenLED() LED    { return ledOut{pin: h.green} }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Button() GPIOPin  { return h.sw3 }
func (h *tinyGoHAL) Speaker() PWM     { return h.spk }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Time() Time       { return h.t }

func (h *tinyGoHAL) Joystick() [JoyPinCount]GPIOPin { return h.joy }

func (h *tinyGoHAL) Pot(ch PotChannel) AnalogIn {
	if int(ch) >= len(h.pots) {
		return nil
	}
	return h.pots[ch]
}

func (h *tinyGoHAL) Accelerometer() Accelerometer {
	if h.imu == nil {
		return nil
	}
	return h.imu
}

func (h *tinyGoHAL) Thermometer() Thermometer {
	if h.imu == nil {
		return nil
	}
	return h.imu
}
