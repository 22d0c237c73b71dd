// Package lcd renders the shared readings on the 128x32 panel.
package lcd

import (
	"fmt"
	"time"

	"boardloop/hal"
	"boardloop/internal/fbdisplay"
	"boardloop/kernel"
	"boardloop/state"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Column and row origins of the text grid, in pixels.
const (
	colLeft   = 0
	colMiddle = 43
	colRight  = 86
	rowHeight = 8

	// baseline is the distance from a row's top to the font baseline.
	baseline = 6
)

// Field is one label and value at a fixed grid position.
type Field struct {
	X, Y int16
	Text string
}

// Layout formats the readings into the seven display fields.
//
// The left column holds the pots and joystick, the middle column the three
// accelerometer axes, and the top-right corner the temperature.
func Layout(r state.Readings) []Field {
	return []Field{
		{colLeft, 0 * rowHeight, fmt.Sprintf("L: %0.2f", r.PotLeft)},
		{colLeft, 1 * rowHeight, fmt.Sprintf("R: %0.2f", r.PotRight)},
		{colLeft, 2 * rowHeight, fmt.Sprintf("J: %c", r.Joystick)},
		{colMiddle, 0 * rowHeight, fmt.Sprintf("X: %0.2f", r.Accel.X)},
		{colMiddle, 1 * rowHeight, fmt.Sprintf("Y: %0.2f", r.Accel.Y)},
		{colMiddle, 2 * rowHeight, fmt.Sprintf("Z: %0.2f", r.Accel.Z)},
		{colRight, 0 * rowHeight, fmt.Sprintf("T: %02.2f", r.Temperature)},
	}
}

type Board interface {
	Display() hal.Display
}

type Task struct {
	board  Board
	store  *state.Store
	period time.Duration
	font   tinyfont.Fonter

	d      *fbdisplay.Display
	inited bool
	frames uint64
}

func New(board Board, store *state.Store, period time.Duration) *Task {
	return &Task{board: board, store: store, period: period, font: &proggy.TinySZ8pt7b}
}

func (t *Task) Step(ctx *kernel.Context) {
	if !t.inited {
		t.inited = true
		t.acquire(ctx)
	}

	if t.d != nil {
		t.render(ctx, Layout(t.store.Snapshot()))
	}
	ctx.Sleep(t.period)
}

func (t *Task) acquire(ctx *kernel.Context) {
	var fb hal.Framebuffer
	if t.board != nil {
		if disp := t.board.Display(); disp != nil {
			fb = disp.Framebuffer()
		}
	}
	if fb == nil {
		ctx.Logf("no display, rendering disabled")
		return
	}
	t.d = fbdisplay.New(fb)
	t.d.Clear(fbdisplay.White)
	if err := t.d.Display(); err != nil {
		ctx.Logf("present: %v", err)
	}
}

func (t *Task) render(ctx *kernel.Context, fields []Field) {
	t.d.Clear(fbdisplay.White)

	w, _ := t.d.Size()
	for _, f := range fields {
		x := f.X
		// Keep the right column on the panel when the value is wide.
		if lw, _ := tinyfont.LineWidth(t.font, f.Text); x+int16(lw) > w && int16(lw) <= w {
			x = w - int16(lw)
		}
		tinyfont.WriteLine(t.d, t.font, x, f.Y+baseline, f.Text, fbdisplay.Black)
	}

	if err := t.d.Display(); err != nil && t.frames == 0 {
		ctx.Logf("present: %v", err)
	}
	t.frames++
}

// Frames returns the number of redraws so far.
func (t *Task) Frames() uint64 { return t.frames }
