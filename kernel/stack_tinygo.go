//go:build tinygo

package kernel

// TinyGo has no runtime.Stack; faults report the task name and value only.
func captureStack() []byte { return nil }
