// Package health tracks device read failures so a task logs the transition
// into failure and the recovery, not every failed sample.
package health

import "errors"

// ErrNoDevice is reported when the board has no such peripheral.
var ErrNoDevice = errors.New("device not present")

// Logger is satisfied by *kernel.Context.
type Logger interface {
	Logf(format string, args ...any)
}

// Tracker remembers whether the last read of a device failed.
type Tracker struct {
	what     string
	failing  bool
	failures uint32
}

func New(what string) *Tracker {
	return &Tracker{what: what}
}

// Observe records the outcome of one read and reports whether it succeeded.
func (t *Tracker) Observe(log Logger, err error) bool {
	if err != nil {
		t.failures++
		if !t.failing {
			t.failing = true
			log.Logf("%s read failed: %v", t.what, err)
		}
		return false
	}
	if t.failing {
		t.failing = false
		log.Logf("%s recovered after %d failed reads", t.what, t.failures)
		t.failures = 0
	}
	return true
}

// Failing reports whether the most recent read failed.
func (t *Tracker) Failing() bool { return t.failing }
