//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"time"
)

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmOut drives a single PWM pin with a period and pulse width.
type pwmOut struct {
	pin    machine.Pin
	pwm    pwmDevice
	ch     uint8
	period time.Duration
	ready  bool
}

func newPWMOut(pin machine.Pin) PWM {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil
	}
	return &pwmOut{pin: pin, pwm: pwm}
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (p *pwmOut) SetPeriod(period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("pwm: invalid period %s", period)
	}
	if err := p.pwm.Configure(machine.PWMConfig{Period: uint64(period.Nanoseconds())}); err != nil {
		return err
	}
	ch, err := p.pwm.Channel(p.pin)
	if err != nil {
		return err
	}
	p.ch = ch
	p.period = period
	p.ready = true
	p.pwm.Set(p.ch, 0)
	return nil
}

func (p *pwmOut) SetPulseWidth(width time.Duration) error {
	if !p.ready {
		return fmt.Errorf("pwm: period not set")
	}
	if width < 0 || width > p.period {
		return fmt.Errorf("pwm: pulse %s outside period %s", width, p.period)
	}
	top := uint64(p.pwm.Top())
	p.pwm.Set(p.ch, uint32(top*uint64(width)/uint64(p.period)))
	return nil
}
