// internal/clock/clock.go
package clock

import (
	"sync/atomic"
	"time"
)

// Clock reports milliseconds since boot. It wraps after ~49.7 days;
// callers compare with unsigned subtraction.
type Clock interface {
	Millis() uint32
}

// Boot is the process clock, anchored at construction.
type Boot struct {
	start time.Time
}

func NewBoot() *Boot { return &Boot{start: time.Now()} }

func (b *Boot) Millis() uint32 {
	return uint32(time.Since(b.start).Milliseconds())
}

// Manual is a settable clock for tests and replays.
type Manual struct {
	ms atomic.Uint32
}

func (m *Manual) Millis() uint32 { return m.ms.Load() }

// Set jumps to an absolute time.
func (m *Manual) Set(ms uint32) { m.ms.Store(ms) }

// Advance moves the clock forward by d milliseconds.
func (m *Manual) Advance(d uint32) { m.ms.Add(d) }

// Elapsed returns now-since with wrap-safe arithmetic.
func Elapsed(now, since uint32) uint32 { return now - since }
