//go:build tinygo && baremetal

package hal

import (
	"errors"
	"fmt"
	"machine"
	"time"
)

const (
	lcdWidth  = 128
	lcdHeight = 32
	lcdPages  = lcdHeight / 8
)

// st7565 drives the C12832 128x32 monochrome panel.
type st7565 struct {
	spi machine.SPI
	cs  machine.Pin
	a0  machine.Pin
	rst machine.Pin

	page [lcdWidth]byte
}

func initST7565() (*st7565, error) {
	if machine.SPI1 == nil {
		return nil, errors.New("SPI1 unavailable")
	}

	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		Frequency: 20_000_000,
		Mode:      3,
	}); err != nil {
		return nil, err
	}

	lcd := &st7565{
		spi: *machine.SPI1,
		cs:  machine.GP13,
		a0:  machine.GP14,
		rst: machine.GP15,
	}

	lcd.cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lcd.a0.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lcd.rst.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lcd.cs.High()
	lcd.a0.High()
	lcd.rst.High()

	lcd.reset()
	if err := lcd.init(); err != nil {
		return nil, err
	}
	return lcd, nil
}

func (d *st7565) reset() {
	d.rst.Low()
	time.Sleep(time.Millisecond)
	d.rst.High()
	time.Sleep(5 * time.Millisecond)
}

var st7565Init = [][]byte{
	{0xAE},       // display off
	{0xA2},       // bias 1/9
	{0xA0},       // ADC normal
	{0xC8},       // COM scan reverse
	{0x22},       // resistor ratio
	{0x2F},       // booster, regulator, follower on
	{0x40},       // start line 0
	{0x81, 0x17}, // contrast
	{0xA6},       // normal, not inverted
	{0xAF},       // display on
}

func (d *st7565) init() error {
	for _, c := range st7565Init {
		if err := d.cmd(c...); err != nil {
			return fmt.Errorf("st7565: init %#02x: %w", c[0], err)
		}
	}
	return nil
}

func (d *st7565) cmd(data ...byte) error {
	return d.send(false, data)
}

// send clocks data out with A0 selecting command (false) or display data.
func (d *st7565) send(isData bool, data []byte) error {
	d.cs.Low()
	d.a0.Set(isData)
	err := d.spi.Tx(data, nil)
	d.cs.High()
	return err
}

func (d *st7565) writePage(n int, cols []byte) error {
	if err := d.cmd(0xB0|byte(n), 0x10, 0x00); err != nil {
		return fmt.Errorf("st7565: page %d address: %w", n, err)
	}
	if err := d.send(true, cols); err != nil {
		return fmt.Errorf("st7565: page %d data: %w", n, err)
	}
	return nil
}

// monoFramebuffer keeps an RGB565 canvas and packs it into panel pages on Present.
//
// Any pixel that is not white lights a dot.
type monoFramebuffer struct {
	lcd *st7565
	buf []byte
}

func newMonoFramebuffer(lcd *st7565) *monoFramebuffer {
	return &monoFramebuffer{lcd: lcd, buf: make([]byte, lcdWidth*lcdHeight*2)}
}

func (f *monoFramebuffer) Width() int          { return lcdWidth }
func (f *monoFramebuffer) Height() int         { return lcdHeight }
func (f *monoFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *monoFramebuffer) StrideBytes() int    { return lcdWidth * 2 }
func (f *monoFramebuffer) Buffer() []byte      { return f.buf }

func (f *monoFramebuffer) ClearRGB(r, g, b uint8) {
	pack565(r, g, b).fill(f.buf)
}

func (f *monoFramebuffer) Present() error {
	if f.lcd == nil {
		return ErrNotImplemented
	}
	return packPages(f.buf, lcdWidth, lcdPages, f.lcd.page[:], f.lcd.writePage)
}
