//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"boardloop/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// statusHeight is the strip under the LCD that shows the LEDs and speaker.
const statusHeight = 6

// WindowConfig controls the desktop runner.
type WindowConfig struct {
	Scale   int
	Verbose bool
}

// RunWindow starts a desktop window that shows the LCD and maps keys to board inputs.
// It blocks until the window closes.
//
// Keys: arrows and Enter for the joystick, Space for SW3, Q/A and W/S for the
// pots, J/L and I/K to tilt the accelerometer, T/G for temperature.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}

	h := newHostHAL(HostOptions{Verbose: cfg.Verbose})
	step := newApp(h)

	tone, err := startTone(h.spk)
	if err != nil {
		h.logger.WriteLineString("hal: speaker audio unavailable: " + err.Error())
	}
	defer tone.Close()

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(buildinfo.Name + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, (h.fb.height+statusHeight)*cfg.Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	dot     *ebiten.Image
	scratch []byte
	step    func() error
}

var joyKeys = [JoyPinCount]ebiten.Key{
	JoyCenter: ebiten.KeyEnter,
	JoyUp:     ebiten.KeyArrowUp,
	JoyDown:   ebiten.KeyArrowDown,
	JoyLeft:   ebiten.KeyArrowLeft,
	JoyRight:  ebiten.KeyArrowRight,
}

func (g *hostGame) poll() {
	h := g.h
	for pin, key := range joyKeys {
		h.SetJoystick(JoystickPin(pin), ebiten.IsKeyPressed(key))
	}
	h.SetButton(ebiten.IsKeyPressed(ebiten.KeySpace))

	nudge := func(key ebiten.Key, fn func()) {
		if inpututil.IsKeyJustPressed(key) || inpututil.KeyPressDuration(key) > 20 {
			fn()
		}
	}
	nudge(ebiten.KeyQ, func() { h.pots[PotLeft].nudge(0.01) })
	nudge(ebiten.KeyA, func() { h.pots[PotLeft].nudge(-0.01) })
	nudge(ebiten.KeyW, func() { h.pots[PotRight].nudge(0.01) })
	nudge(ebiten.KeyS, func() { h.pots[PotRight].nudge(-0.01) })
	nudge(ebiten.KeyJ, func() { h.accel.nudge(-0.05, 0) })
	nudge(ebiten.KeyL, func() { h.accel.nudge(0.05, 0) })
	nudge(ebiten.KeyI, func() { h.accel.nudge(0, 0.05) })
	nudge(ebiten.KeyK, func() { h.accel.nudge(0, -0.05) })
	nudge(ebiten.KeyT, func() { h.therm.nudge(0.25) })
	nudge(ebiten.KeyG, func() { h.therm.nudge(-0.25) })
}

func (g *hostGame) Update() error {
	g.poll()
	g.h.t.frame()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.dot = ebiten.NewImage(statusHeight-2, statusHeight-2)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := load565(src, i).rgb()
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)

	red, _ := g.h.red.Read()
	green, _ := g.h.green.Read()
	_, pulse := g.h.spk.settings()
	g.drawDot(screen, 1, red, color.RGBA{R: 0xFF, A: 0xFF})
	g.drawDot(screen, 1+statusHeight, green, color.RGBA{G: 0xFF, A: 0xFF})
	g.drawDot(screen, fb.width-statusHeight, pulse > 0, color.RGBA{R: 0xFF, G: 0xC0, A: 0xFF})
}

func (g *hostGame) drawDot(screen *ebiten.Image, x int, on bool, c color.RGBA) {
	if !on {
		c = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	}
	g.dot.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(g.h.fb.height+1))
	screen.DrawImage(g.dot, op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height + statusHeight
}
