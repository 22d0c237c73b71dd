//go:build !tinygo

package hal

import (
	"sync/atomic"
	"time"
)

// hostTime turns wall-clock progress between runner frames into 1 ms ticks.
//
// The first frame starts the clock with a single tick. Sub-millisecond
// remainders carry into the next frame so no time is lost.
type hostTime struct {
	ch  chan uint64
	seq atomic.Uint64

	started bool
	last    time.Time
	carry   time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// now returns the last tick emitted.
func (t *hostTime) now() uint64 { return t.seq.Load() }

// elapsed is the simulated time since the first frame.
func (t *hostTime) elapsed() time.Duration {
	return time.Duration(t.now()) * time.Millisecond
}

// frame advances the clock to the current wall time.
func (t *hostTime) frame() { t.advanceTo(time.Now()) }

func (t *hostTime) advanceTo(now time.Time) {
	if !t.started {
		t.started, t.last = true, now
		t.emit(1)
		return
	}
	t.carry += now.Sub(t.last)
	t.last = now
	if n := t.carry / time.Millisecond; n > 0 {
		t.carry -= n * time.Millisecond
		t.emit(uint64(n))
	}
}

// emit publishes n ticks. The kernel only needs the latest sequence number,
// so when the channel is full the oldest pending value is discarded.
func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		seq := t.seq.Add(1)
		for {
			select {
			case t.ch <- seq:
			default:
				select {
				case <-t.ch:
				default:
				}
				continue
			}
			break
		}
	}
}
