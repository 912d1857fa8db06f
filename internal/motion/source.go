// internal/motion/source.go
package motion

import (
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/packet"
)

// Source yields timestamped acceleration samples.
// Exactly two variants exist: Live and Replay.
type Source interface {
	Begin() error
	Update() packet.Sample
	SampleRateHz() uint8
	Reset()
	End()
}

// Mode tags the variant chosen at startup.
type Mode uint16

const (
	ModeLive Mode = iota
	ModeReplay
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Select attempts replay first and falls back to live.
// The result is fixed for the node's lifetime.
// A nil replay means replay is not configured.
func Select(replay *Replay, live *Live) (Source, Mode) {
	if replay != nil {
		err := replay.Begin()
		if err == nil {
			log.WithField("rate_hz", replay.SampleRateHz()).Info("motion: replay source selected")
			return replay, ModeReplay
		}
		log.WithError(err).Warn("motion: replay unavailable, falling back to live sensor")
	}

	// Live begin failure is not fatal: reads degrade to zero samples.
	if err := live.Begin(); err != nil {
		log.WithError(err).Error("motion: live sensor begin failed")
	} else {
		log.WithField("rate_hz", live.SampleRateHz()).Info("motion: live source selected")
	}
	return live, ModeLive
}
