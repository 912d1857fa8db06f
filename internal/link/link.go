// internal/link/link.go
package link

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/latch"
	"github.com/tamzrod/imu-streamer/internal/packet"
)

// Config is the link identity.
type Config struct {
	DeviceName  string
	ServiceUUID uuid.UUID
	CharUUID    uuid.UUID
	MTU         int
}

// Stats counts notify outcomes since Begin.
type Stats struct {
	Sent    uint64
	Dropped uint64
}

// Link tracks connection and subscription state for a single peer and
// delivers telemetry packets.
//
// Radio callbacks only flip status flags and latch edge events.
// The controller consumes edges with ShouldStartStreaming / ShouldStopStreaming.
type Link struct {
	radio Radio
	cfg   Config

	connected  atomic.Bool
	subscribed atomic.Bool

	evStart latch.Latch
	evStop  latch.Latch

	sent    atomic.Uint64
	dropped atomic.Uint64

	mu   sync.Mutex
	peer string

	adv        Advertisement
	configured bool
}

func New(radio Radio, cfg Config) *Link {
	return &Link{radio: radio, cfg: cfg}
}

// Begin configures the radio once and starts advertising.
// Calling Begin again reuses the cached advertisement.
func (l *Link) Begin() error {
	if !l.configured {
		adv := Advertisement{
			Flags:    FlagsGeneralNoBREDR,
			Services: []uuid.UUID{l.cfg.ServiceUUID},
			Name:     l.cfg.DeviceName,
		}
		if err := adv.Validate(); err != nil {
			return err
		}

		p := Profile{
			DeviceName:     l.cfg.DeviceName,
			Service:        l.cfg.ServiceUUID,
			Characteristic: l.cfg.CharUUID,
			MTU:            l.cfg.MTU,
		}
		if err := l.radio.Configure(p, l); err != nil {
			return fmt.Errorf("link: configure: %w", err)
		}
		if err := l.radio.SetAdvertisement(adv); err != nil {
			return fmt.Errorf("link: set advertisement: %w", err)
		}

		l.adv = adv
		l.configured = true
	}

	l.connected.Store(false)
	l.subscribed.Store(false)
	l.evStart.Clear()
	l.evStop.Clear()
	l.sent.Store(0)
	l.dropped.Store(0)

	if err := l.radio.StartAdvertising(); err != nil {
		return fmt.Errorf("link: start advertising: %w", err)
	}
	log.WithField("name", l.cfg.DeviceName).Info("link: advertising")
	return nil
}

func (l *Link) Connected() bool   { return l.connected.Load() }
func (l *Link) Subscribed() bool  { return l.subscribed.Load() }
func (l *Link) Advertising() bool { return l.radio.Advertising() }

// Advertisement returns the cached advertising data.
func (l *Link) Advertisement() Advertisement { return l.adv }

// Peer returns the connected peer address, or "".
func (l *Link) Peer() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.peer
}

// ShouldStartStreaming returns true once per subscribe edge.
func (l *Link) ShouldStartStreaming() bool { return l.evStart.Take() }

// ShouldStopStreaming returns true once per unsubscribe or disconnect edge.
func (l *Link) ShouldStopStreaming() bool { return l.evStop.Take() }

// Send notifies the peer with one encoded sample.
// No-op unless connected and subscribed.
func (l *Link) Send(s packet.Sample) {
	if !l.connected.Load() || !l.subscribed.Load() {
		return
	}

	b := packet.Encode(s)
	l.radio.SetValue(b[:])

	if err := l.radio.Notify(b[:]); err != nil {
		if l.dropped.Add(1) == 1 {
			log.WithError(err).Warn("link: notify dropped")
		}
		return
	}
	l.sent.Add(1)
}

func (l *Link) Stats() Stats {
	return Stats{Sent: l.sent.Load(), Dropped: l.dropped.Load()}
}

// StopNotifications stops sending; the peer stays connected.
func (l *Link) StopNotifications() { l.subscribed.Store(false) }

func (l *Link) StopAdvertising() {
	if err := l.radio.StopAdvertising(); err != nil {
		log.WithError(err).Warn("link: stop advertising failed")
	}
}

// Flush is a no-op; notifications are not queued by the link.
func (l *Link) Flush() {}

// Poll re-arms advertising when no peer is connected.
func (l *Link) Poll() {
	if l.connected.Load() || l.radio.Advertising() {
		return
	}
	if err := l.radio.StartAdvertising(); err != nil {
		log.WithError(err).Debug("link: advertising restart failed")
	}
}

// Reset drops pending edge events. Connection status is kept.
func (l *Link) Reset() {
	l.evStart.Clear()
	l.evStop.Clear()
}

// ------------------------------------------------------------
// Handler
// ------------------------------------------------------------

func (l *Link) OnConnect(peer string) {
	l.mu.Lock()
	l.peer = peer
	l.mu.Unlock()

	l.connected.Store(true)
	log.WithField("peer", peer).Info("link: connected")
}

func (l *Link) OnDisconnect(peer string, reason int) {
	l.mu.Lock()
	l.peer = ""
	l.mu.Unlock()

	l.connected.Store(false)
	l.subscribed.Store(false)
	l.evStop.Set()

	log.WithFields(log.Fields{"peer": peer, "reason": reason}).Info("link: disconnected")

	if err := l.radio.StartAdvertising(); err != nil {
		log.WithError(err).Warn("link: advertising restart failed")
	}
}

func (l *Link) OnSubscribe(peer string, cccd uint16) {
	if cccd&0x0001 != 0 {
		l.subscribed.Store(true)
		l.evStart.Set()
		log.WithField("peer", peer).Info("link: notifications enabled")
		return
	}
	l.subscribed.Store(false)
	l.evStop.Set()
	log.WithField("peer", peer).Info("link: notifications disabled")
}
