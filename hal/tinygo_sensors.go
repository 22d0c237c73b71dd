//go:build tinygo && baremetal

package hal

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/lsm6ds3tr"
)

var errIMUMissing = errors.New("imu: not connected")

type adcInput struct {
	adc machine.ADC
}

func newADCInput(pin machine.Pin) *adcInput {
	a := &adcInput{adc: machine.ADC{Pin: pin}}
	a.adc.Configure(machine.ADCConfig{})
	return a
}

// Read scales the 16-bit ADC result to [0, 1].
func (a *adcInput) Read() (float32, error) {
	return float32(a.adc.Get()) / 65535, nil
}

// imuSensor serves both the accelerometer and the die temperature of the LSM6DS3TR.
type imuSensor struct {
	dev *lsm6ds3tr.Device
	ok  bool
}

func newIMUSensor(bus *machine.I2C, sda, scl machine.Pin) *imuSensor {
	if err := bus.Configure(machine.I2CConfig{
		SDA:       sda,
		SCL:       scl,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		return &imuSensor{}
	}
	dev := lsm6ds3tr.New(bus)
	err := dev.Configure(lsm6ds3tr.Configuration{
		AccelRange:      lsm6ds3tr.ACCEL_8G,
		AccelSampleRate: lsm6ds3tr.ACCEL_SR_104,
		GyroRange:       lsm6ds3tr.GYRO_1000DPS,
		GyroSampleRate:  lsm6ds3tr.GYRO_SR_104,
	})
	return &imuSensor{dev: dev, ok: err == nil && dev.Connected()}
}

// ReadAcceleration converts the driver's micro-g readings to g.
func (s *imuSensor) ReadAcceleration() (x, y, z float32, err error) {
	if !s.ok {
		return 0, 0, 0, errIMUMissing
	}
	ax, ay, az, err := s.dev.ReadAcceleration()
	if err != nil {
		return 0, 0, 0, err
	}
	return float32(ax) / 1e6, float32(ay) / 1e6, float32(az) / 1e6, nil
}

// ReadTemperature converts the driver's milli-degree reading to degrees Celsius.
func (s *imuSensor) ReadTemperature() (float32, error) {
	if !s.ok {
		return 0, errIMUMissing
	}
	mc, err := s.dev.ReadTemperature()
	if err != nil {
		return 0, err
	}
	return float32(mc) / 1000, nil
}
