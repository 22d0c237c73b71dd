//go:build !tinygo

package kernel

import "runtime"

// maxStack bounds the trace kept in PanicInfo; the fault screen shows a few
// lines and the log gets the rest.
const maxStack = 8 << 10

// captureStack returns the faulting goroutine's stack. It runs inside the
// dispatcher's deferred recover, so the panicking frames are still present.
func captureStack() []byte {
	buf := make([]byte, maxStack)
	return buf[:runtime.Stack(buf, false)]
}
