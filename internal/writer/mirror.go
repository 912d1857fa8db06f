// internal/writer/mirror.go
package writer

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/status"
)

// Mirror publishes the latest snapshot on its own goroutine.
// Publish never blocks; intermediate snapshots are dropped.
type Mirror struct {
	sw       StatusWriter
	interval time.Duration
	latest   chan status.Snapshot
}

func NewMirror(sw StatusWriter, interval time.Duration) *Mirror {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Mirror{
		sw:       sw,
		interval: interval,
		latest:   make(chan status.Snapshot, 1),
	}
}

// Publish replaces any pending snapshot with s.
func (m *Mirror) Publish(s status.Snapshot) {
	for {
		select {
		case m.latest <- s:
			return
		default:
		}
		select {
		case <-m.latest:
		default:
		}
	}
}

// Interval is the delivery cadence.
func (m *Mirror) Interval() time.Duration { return m.interval }

// Run delivers the most recent snapshot once per interval until ctx is done.
// Failed deliveries are retried with the next snapshot.
func (m *Mirror) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var (
		snap    status.Snapshot
		have    bool
		failing bool
	)

	for {
		select {
		case <-ctx.Done():
			return

		case s := <-m.latest:
			snap, have = s, true

		case <-ticker.C:
			if !have {
				continue
			}
			err := m.sw.WriteStatus(snap)
			switch {
			case err != nil && !failing:
				log.WithError(err).Warn("status mirror: write failed")
				failing = true
			case err == nil && failing:
				log.Info("status mirror: recovered")
				failing = false
			}
		}
	}
}
