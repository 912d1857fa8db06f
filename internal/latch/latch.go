// internal/latch/latch.go
package latch

import "sync/atomic"

// Latch is a one-shot edge event.
// One writer sets it, one reader takes it. Take reads and clears atomically,
// so an occurrence is observed at most once.
type Latch struct {
	v atomic.Bool
}

// Set records an occurrence. Setting an already-set latch is a no-op.
func (l *Latch) Set() { l.v.Store(true) }

// Take returns true once per occurrence and clears the latch.
func (l *Latch) Take() bool { return l.v.Swap(false) }

// Peek reports the latch without consuming it.
func (l *Latch) Peek() bool { return l.v.Load() }

// Clear drops a pending occurrence.
func (l *Latch) Clear() { l.v.Store(false) }
