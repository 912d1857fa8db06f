// internal/power/monitor.go
package power

import (
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/clock"
)

// Monitor detects a long press followed by release.
//
// A press held for at least holdMs arms the gesture; the following release
// fires it exactly once. Releasing early never fires.
// Not safe for concurrent use; poll from one loop.
type Monitor struct {
	btn        Button
	holdMs     uint32
	debounceMs uint32

	// debounce
	raw      bool
	rawSince uint32
	started  bool

	// stable level
	pressed      bool
	pressedSince uint32
	holdObserved bool

	readFailing bool
}

func NewMonitor(btn Button, holdMs, debounceMs uint32) *Monitor {
	return &Monitor{btn: btn, holdMs: holdMs, debounceMs: debounceMs}
}

// PollLongPressRelease samples the button at nowMs and reports whether the
// gesture completed on this poll.
func (m *Monitor) PollLongPressRelease(nowMs uint32) bool {
	raw := m.read()

	if !m.started || raw != m.raw {
		m.raw = raw
		m.rawSince = nowMs
		m.started = true
	}

	if raw != m.pressed && clock.Elapsed(nowMs, m.rawSince) >= m.debounceMs {
		m.pressed = raw
		if raw {
			m.pressedSince = m.rawSince
			m.holdObserved = false
		} else if m.holdObserved {
			m.holdObserved = false
			log.Info("power: long press released")
			return true
		}
	}

	if m.pressed && !m.holdObserved && clock.Elapsed(nowMs, m.pressedSince) >= m.holdMs {
		m.holdObserved = true
		log.WithField("hold_ms", m.holdMs).Debug("power: long press observed")
	}
	return false
}

// HoldObserved reports whether a qualifying press is waiting for release.
func (m *Monitor) HoldObserved() bool { return m.holdObserved }

func (m *Monitor) read() bool {
	p, err := m.btn.Pressed()
	if err != nil {
		if !m.readFailing {
			log.WithError(err).Warn("power: button read failed")
			m.readFailing = true
		}
		// hold the last level so a failing read never makes a release edge
		return m.raw
	}
	m.readFailing = false
	return p
}
