//go:build linux

// internal/link/bleradio/radio_linux.go

package bleradio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/link"
)

// Radio is an HCI peripheral backed by go-ble.
//
// go-ble reports no connect event to a peripheral, so a peer is considered
// connected from its first request until its Disconnected channel closes.
type Radio struct {
	cfg Config

	mu          sync.Mutex
	dev         ble.Device
	h           link.Handler
	name        string
	services    []ble.UUID
	advertising bool
	advGen      uint64
	advCancel   context.CancelFunc
	value       []byte
	notifier    ble.Notifier
	peers       map[string]struct{}
}

func New(cfg Config) *Radio {
	return &Radio{cfg: cfg, peers: make(map[string]struct{})}
}

func (r *Radio) Configure(p link.Profile, h link.Handler) error {
	dev, err := linux.NewDevice(ble.OptDeviceID(r.cfg.DeviceID))
	if err != nil {
		return fmt.Errorf("bleradio: open hci%d: %w", r.cfg.DeviceID, err)
	}
	ble.SetDefaultDevice(dev)

	svc := ble.NewService(ble.MustParse(p.Service.String()))
	chr := svc.NewCharacteristic(ble.MustParse(p.Characteristic.String()))
	chr.HandleRead(ble.ReadHandlerFunc(r.serveRead))
	chr.HandleNotify(ble.NotifyHandlerFunc(r.serveNotify))

	if err := dev.AddService(svc); err != nil {
		_ = dev.Stop()
		return fmt.Errorf("bleradio: add service: %w", err)
	}

	r.mu.Lock()
	r.dev = dev
	r.h = h
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"hci":     r.cfg.DeviceID,
		"service": p.Service.String(),
		"mtu":     p.MTU,
	}).Info("bleradio: gatt service registered")
	return nil
}

func (r *Radio) SetAdvertisement(a link.Advertisement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return link.ErrNotConfigured
	}

	r.name = a.Name
	r.services = r.services[:0]
	for _, u := range a.Services {
		r.services = append(r.services, ble.MustParse(u.String()))
	}
	return nil
}

func (r *Radio) StartAdvertising() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return link.ErrNotConfigured
	}
	if r.advertising {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.advGen++
	gen := r.advGen
	r.advCancel = cancel
	r.advertising = true

	dev, name, services := r.dev, r.name, append([]ble.UUID(nil), r.services...)
	go func() {
		err := dev.AdvertiseNameAndServices(ctx, name, services...)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("bleradio: advertising stopped")
		}
		r.mu.Lock()
		if r.advGen == gen {
			r.advertising = false
		}
		r.mu.Unlock()
	}()
	return nil
}

func (r *Radio) StopAdvertising() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopAdvertisingLocked()
	return nil
}

func (r *Radio) stopAdvertisingLocked() {
	if r.advCancel != nil {
		r.advCancel()
		r.advCancel = nil
	}
	r.advGen++
	r.advertising = false
}

func (r *Radio) Advertising() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.advertising
}

func (r *Radio) SetValue(b []byte) {
	r.mu.Lock()
	r.value = append(r.value[:0], b...)
	r.mu.Unlock()
}

func (r *Radio) Notify(b []byte) error {
	r.mu.Lock()
	n := r.notifier
	r.mu.Unlock()

	if n == nil {
		return link.ErrNotSubscribed
	}
	_, err := n.Write(b)
	return err
}

func (r *Radio) Close() error {
	r.mu.Lock()
	r.stopAdvertisingLocked()
	dev := r.dev
	r.dev = nil
	r.mu.Unlock()

	if dev == nil {
		return nil
	}
	return dev.Stop()
}

// ------------------------------------------------------------
// gatt handlers
// ------------------------------------------------------------

func (r *Radio) serveRead(req ble.Request, rsp ble.ResponseWriter) {
	r.track(req.Conn())

	r.mu.Lock()
	v := append([]byte(nil), r.value...)
	r.mu.Unlock()

	if _, err := rsp.Write(v); err != nil {
		log.WithError(err).Debug("bleradio: read response failed")
	}
}

// serveNotify runs for the lifetime of one subscription.
func (r *Radio) serveNotify(req ble.Request, n ble.Notifier) {
	conn := req.Conn()
	peer := r.track(conn)

	r.mu.Lock()
	r.notifier = n
	h := r.h
	r.mu.Unlock()

	h.OnSubscribe(peer, 0x0001)

	select {
	case <-n.Context().Done():
		h.OnSubscribe(peer, 0x0000)
	case <-conn.Disconnected():
	}

	r.mu.Lock()
	if r.notifier == n {
		r.notifier = nil
	}
	r.mu.Unlock()
}

// track reports a connect for the first request seen on conn.
func (r *Radio) track(conn ble.Conn) string {
	peer := conn.RemoteAddr().String()

	r.mu.Lock()
	_, known := r.peers[peer]
	if !known {
		r.peers[peer] = struct{}{}
		// the controller stops advertising on connection
		r.stopAdvertisingLocked()
	}
	h := r.h
	r.mu.Unlock()

	if known {
		return peer
	}

	h.OnConnect(peer)
	go func() {
		<-conn.Disconnected()

		r.mu.Lock()
		delete(r.peers, peer)
		r.mu.Unlock()

		h.OnDisconnect(peer, 0)
	}()
	return peer
}
