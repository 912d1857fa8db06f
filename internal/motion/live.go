// internal/motion/live.go
package motion

import (
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/clock"
	"github.com/tamzrod/imu-streamer/internal/packet"
)

// Accelerometer is the physical sensor contract. Readings are in g.
type Accelerometer interface {
	Begin() error
	ReadG() (x, y, z float64, err error)
	SampleRateHz() uint8
}

// Live samples a physical accelerometer.
// A failed read yields a zero-axis sample; the stream never stalls.
type Live struct {
	acc Accelerometer
	clk clock.Clock

	faults  atomic.Uint64
	inFault bool
}

func NewLive(acc Accelerometer, clk clock.Clock) *Live {
	return &Live{acc: acc, clk: clk}
}

func (l *Live) Begin() error {
	l.Reset()
	return l.acc.Begin()
}

func (l *Live) Update() packet.Sample {
	now := l.clk.Millis()
	rate := l.acc.SampleRateHz()

	x, y, z, err := l.acc.ReadG()
	if err != nil {
		l.faults.Add(1)
		if !l.inFault {
			log.WithError(err).Warn("motion: sensor read failed, sending zero sample")
			l.inFault = true
		}
		return packet.Sample{TimestampMs: now, RateHz: rate}
	}
	if l.inFault {
		log.WithField("faults", l.faults.Load()).Info("motion: sensor recovered")
		l.inFault = false
	}

	return packet.FromG(now, x, y, z, rate)
}

func (l *Live) SampleRateHz() uint8 { return l.acc.SampleRateHz() }

// Faults returns the number of failed reads since Begin.
func (l *Live) Faults() uint64 { return l.faults.Load() }

func (l *Live) Reset() {
	l.faults.Store(0)
	l.inFault = false
}

func (l *Live) End() {
	if c, ok := l.acc.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("motion: sensor close failed")
		}
	}
}
