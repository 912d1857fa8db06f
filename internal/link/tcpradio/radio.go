// internal/link/tcpradio/radio.go
package tcpradio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/link"
)

// Disconnect reasons reported to the handler (HCI codes).
const (
	ReasonRemoteTerminated = 0x13
	ReasonLocalTerminated  = 0x16
)

// Radio emulates a single-connection peripheral over TCP.
//
// One client at a time. A client is accepted only while advertising;
// accepting stops advertising, as a peripheral does on connection.
type Radio struct {
	listen       string
	writeTimeout time.Duration

	mu          sync.Mutex
	ln          net.Listener
	conn        net.Conn
	h           link.Handler
	adv         link.Advertisement
	advertising bool
	notifying   bool
	value       []byte

	wmu sync.Mutex // serializes frame writes on conn

	wg sync.WaitGroup
}

type Config struct {
	Listen       string
	WriteTimeout time.Duration
}

func New(cfg Config) *Radio {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 50 * time.Millisecond
	}
	return &Radio{listen: cfg.Listen, writeTimeout: cfg.WriteTimeout}
}

// Configure opens the listener and starts accepting.
func (r *Radio) Configure(p link.Profile, h link.Handler) error {
	ln, err := net.Listen("tcp", r.listen)
	if err != nil {
		return fmt.Errorf("tcpradio: listen %s: %w", r.listen, err)
	}

	r.mu.Lock()
	r.ln = ln
	r.h = h
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"addr":    ln.Addr().String(),
		"service": p.Service.String(),
	}).Info("tcpradio: listening")

	r.wg.Add(1)
	go r.acceptLoop(ln)
	return nil
}

// Addr returns the bound listener address.
func (r *Radio) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ln == nil {
		return nil
	}
	return r.ln.Addr()
}

func (r *Radio) SetAdvertisement(a link.Advertisement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ln == nil {
		return link.ErrNotConfigured
	}
	r.adv = a
	return nil
}

func (r *Radio) StartAdvertising() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ln == nil {
		return link.ErrNotConfigured
	}
	if r.conn == nil {
		r.advertising = true
	}
	return nil
}

func (r *Radio) StopAdvertising() error {
	r.mu.Lock()
	r.advertising = false
	r.mu.Unlock()
	return nil
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
	conn, on := r.conn, r.notifying
	r.mu.Unlock()

	if conn == nil || !on {
		return link.ErrNotSubscribed
	}
	return r.write(conn, buildFrame(TypeNotify, b))
}

// Close stops accepting and drops the current client.
func (r *Radio) Close() error {
	r.mu.Lock()
	ln, conn := r.ln, r.conn
	r.ln = nil
	r.advertising = false
	r.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
	r.wg.Wait()
	return err
}

// ------------------------------------------------------------
// connection handling
// ------------------------------------------------------------

func (r *Radio) acceptLoop(ln net.Listener) {
	defer r.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.WithError(err).Warn("tcpradio: accept failed")
			continue
		}

		r.mu.Lock()
		busy := r.conn != nil || !r.advertising
		if !busy {
			r.conn = conn
			r.advertising = false
			r.notifying = false
		}
		adv, h := r.adv, r.h
		r.mu.Unlock()

		if busy {
			log.WithField("peer", conn.RemoteAddr().String()).Debug("tcpradio: refused connection")
			_ = conn.Close()
			continue
		}

		peer := conn.RemoteAddr().String()
		if err := r.write(conn, buildFrame(TypeAdvert, buildAdvert(adv.Payload(), adv.ScanResponse()))); err != nil {
			log.WithError(err).Warn("tcpradio: advert write failed")
		}
		h.OnConnect(peer)

		r.wg.Add(1)
		go r.serve(conn, peer, h)
	}
}

func (r *Radio) serve(conn net.Conn, peer string, h link.Handler) {
	defer r.wg.Done()

	reason := ReasonRemoteTerminated
	for {
		typ, payload, err := readFrame(conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				reason = ReasonLocalTerminated
			}
			break
		}

		switch typ {
		case TypeCCCD:
			if len(payload) != 2 {
				log.WithField("len", len(payload)).Debug("tcpradio: bad cccd write")
				continue
			}
			v := binary.LittleEndian.Uint16(payload)
			r.mu.Lock()
			r.notifying = v&0x0001 != 0
			r.mu.Unlock()
			h.OnSubscribe(peer, v)

		case TypeRead:
			r.mu.Lock()
			v := append([]byte(nil), r.value...)
			r.mu.Unlock()
			if err := r.write(conn, buildFrame(TypeValue, v)); err != nil {
				log.WithError(err).Debug("tcpradio: read response failed")
			}

		default:
			log.WithField("type", typ).Debug("tcpradio: unknown frame")
		}
	}

	_ = conn.Close()

	r.mu.Lock()
	if r.conn == conn {
		r.conn = nil
		r.notifying = false
	}
	r.mu.Unlock()

	h.OnDisconnect(peer, reason)
}

func (r *Radio) write(conn net.Conn, b []byte) error {
	r.wmu.Lock()
	defer r.wmu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(r.writeTimeout))
	return writeAll(conn, b)
}
