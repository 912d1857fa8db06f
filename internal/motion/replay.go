// internal/motion/replay.go
package motion

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/clock"
	"github.com/tamzrod/imu-streamer/internal/packet"
)

// ErrMalformedRecord marks a row that could not produce a sample.
// The row is consumed; the stream continues with the next one.
var ErrMalformedRecord = errors.New("motion: malformed record")

// Record is one recorded reading in g.
type Record struct {
	TimestampMs uint32
	Gx, Gy, Gz  float64
}

// RecordSource is an ordered, restartable record producer.
// Next returns io.EOF at end-of-stream. Rewind positions at the first record
// (past any header).
type RecordSource interface {
	Open() error
	Next() (Record, error)
	Rewind() error
	Close() error
}

// Replay plays a recorded sequence cyclically at a nominal rate.
// Packet timestamps come from the node clock, not from the recording.
type Replay struct {
	src    RecordSource
	clk    clock.Clock
	rateHz uint8

	last    packet.Sample
	cursor  uint64 // records produced since the last rewind
	laps    uint64
	skipped uint64
}

func NewReplay(src RecordSource, clk clock.Clock, rateHz uint8) *Replay {
	return &Replay{src: src, clk: clk, rateHz: rateHz}
}

func (r *Replay) Begin() error {
	if err := r.src.Open(); err != nil {
		return fmt.Errorf("motion: replay open: %w", err)
	}
	r.Reset()
	return nil
}

// Update produces the next recorded sample.
// End-of-stream rewinds and yields the first record.
// A malformed row leaves the last good sample in place.
func (r *Replay) Update() packet.Sample {
	rec, err := r.src.Next()
	if errors.Is(err, io.EOF) {
		if err := r.rewind(); err != nil {
			log.WithError(err).Warn("motion: replay rewind failed")
			return r.last
		}
		rec, err = r.src.Next()
	}

	if err != nil {
		r.skipped++
		if !errors.Is(err, ErrMalformedRecord) {
			log.WithError(err).Debug("motion: replay read failed")
		}
		return r.last
	}

	r.cursor++
	r.last = packet.FromG(r.clk.Millis(), rec.Gx, rec.Gy, rec.Gz, r.rateHz)
	return r.last
}

func (r *Replay) rewind() error {
	if err := r.src.Rewind(); err != nil {
		return err
	}
	r.laps++
	r.cursor = 0
	log.WithField("laps", r.laps).Debug("motion: replay rewound")
	return nil
}

func (r *Replay) SampleRateHz() uint8 { return r.rateHz }

// Position returns the cursor within the current lap and the completed laps.
func (r *Replay) Position() (cursor, laps uint64) { return r.cursor, r.laps }

// Skipped returns the number of rows that failed production.
func (r *Replay) Skipped() uint64 { return r.skipped }

func (r *Replay) Reset() {
	r.last = packet.Sample{RateHz: r.rateHz}
}

func (r *Replay) End() {
	if err := r.src.Close(); err != nil {
		log.WithError(err).Warn("motion: replay close failed")
	}
}
