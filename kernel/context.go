package kernel

import (
	"fmt"
	"time"
)

// Context provides task-local access to kernel operations.
type Context struct {
	k      *Kernel
	taskID TaskID
	name   string

	sleeping   bool
	sleepTicks uint64
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Name returns the current task name.
func (c *Context) Name() string { return c.name }

// NowTick returns the current tick.
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.NowTick()
}

// Sleep suspends the task for at least d once the current Step returns.
//
// Durations are rounded up to whole ticks, with a minimum of one tick.
// Sleeping before the tick source is started is a fault.
func (c *Context) Sleep(d time.Duration) {
	if c.k == nil {
		return
	}
	c.k.mu.Lock()
	on := c.k.tickOn
	c.k.mu.Unlock()
	if !on {
		panic(ErrTickNotStarted)
	}

	n := ticksFor(d)
	if n == 0 {
		n = 1
	}
	c.sleeping = true
	c.sleepTicks = n
}

// Logf writes a log line prefixed with the task name.
func (c *Context) Logf(format string, args ...any) {
	if c.k == nil || c.k.log == nil {
		return
	}
	c.k.log.WriteLineString(c.name + ": " + fmt.Sprintf(format, args...))
}
