package sim

import (
	"time"

	"boardloop/hal"
)

// Player applies a script's steps as time passes.
type Player struct {
	s     *Script
	next  int
	cycle int64
}

func NewPlayer(s *Script) *Player {
	return &Player{s: s}
}

// Drive applies every step due at elapsed that has not been applied yet.
// Elapsed must not go backwards.
func (p *Player) Drive(elapsed time.Duration, in hal.Stimulus) {
	if p == nil || p.s == nil || len(p.s.Steps) == 0 {
		return
	}
	ms := elapsed.Milliseconds()

	for {
		base := p.cycle * p.s.LoopMS
		for p.next < len(p.s.Steps) && base+p.s.Steps[p.next].AtMS <= ms {
			p.s.Steps[p.next].apply(in)
			p.next++
		}
		if p.s.LoopMS <= 0 || ms < base+p.s.LoopMS {
			return
		}
		p.cycle++
		p.next = 0
	}
}

// Done reports whether a one-shot script has applied every step.
func (p *Player) Done() bool {
	return p.s.LoopMS <= 0 && p.next >= len(p.s.Steps)
}
