package app

import (
	"fmt"
	"strings"

	"boardloop/hal"
	"boardloop/internal/fbdisplay"
	"boardloop/kernel"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// faultStackLines bounds how much of the stack reaches the 4-line panel.
const faultStackLines = 2

func installPanicHandler(h hal.HAL, k *kernel.Kernel) {
	k.SetPanicHandler(func(info kernel.PanicInfo) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("boardloop panic: task=%s panic=%v", info.Task, info.Value))
			for _, line := range stackLines(info.Stack) {
				l.WriteLineString(line)
			}
		}
		faultScreen(h, info)
	})
}

// faultScreen prints the fault on the LCD. The kernel is halted, so nothing
// redraws over it.
func faultScreen(h hal.HAL, info kernel.PanicInfo) {
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

	t := tinyterm.NewTerminal(d)
	t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 8,
		FontOffset: 6,
	})

	// No trailing newline: the panel has four rows and a fifth would scroll.
	out := []string{"PANIC in " + info.Task, fmt.Sprint(info.Value)}
	lines := stackLines(info.Stack)
	if len(lines) == 0 {
		out = append(out, "stack: unavailable")
	}
	for i, line := range lines {
		if i == faultStackLines {
			break
		}
		out = append(out, strings.TrimSpace(line))
	}
	fmt.Fprint(t, strings.Join(out, "\n"))
	_ = fb.Present()
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
