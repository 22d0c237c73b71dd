package app

import (
	"boardloop/hal"
	"boardloop/internal/fbdisplay"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// bootScreen logs msg and shows it on the LCD until the renderer's first clear.
func bootScreen(h hal.HAL, msg string) {
	logLine(h, "boot: "+msg)

	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}

	d := fbdisplay.New(fb)
	d.Clear(fbdisplay.White)
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 0, 6, "booting", fbdisplay.Black)
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 0, 14, msg, fbdisplay.Black)
	_ = d.Display()
}
