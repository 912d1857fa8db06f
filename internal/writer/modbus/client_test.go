// internal/writer/modbus/client_test.go
package modbus

import (
	"encoding/binary"
	"io"
	"net"
	"reflect"
	"sync"
	"testing"
	"time"
)

type received struct {
	unitID uint8
	addr   uint16
	data   []byte
}

// fc16Server answers write-multiple-registers requests. The first
// connection is dropped after one reply.
type fc16Server struct {
	ln net.Listener

	mu      sync.Mutex
	accepts int
	got     []received
}

func newFC16Server(t *testing.T) *fc16Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &fc16Server{ln: ln}
	go s.serve()
	return s
}

func (s *fc16Server) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.accepts++
		limit := 0
		if s.accepts == 1 {
			limit = 1
		}
		s.mu.Unlock()
		go s.handle(conn, limit)
	}
}

// handle serves limit requests, or until the peer hangs up when limit is 0.
func (s *fc16Server) handle(conn net.Conn, limit int) {
	defer conn.Close()

	for n := 0; limit == 0 || n < limit; n++ {
		var hdr [7]byte
		if _, err := io.ReadFull(conn, hdr[:]); err != nil {
			return
		}
		pdu := make([]byte, binary.BigEndian.Uint16(hdr[4:6])-1)
		if _, err := io.ReadFull(conn, pdu); err != nil {
			return
		}
		if pdu[0] != 0x10 {
			return
		}

		s.mu.Lock()
		s.got = append(s.got, received{
			unitID: hdr[6],
			addr:   binary.BigEndian.Uint16(pdu[1:3]),
			data:   append([]byte(nil), pdu[6:]...),
		})
		s.mu.Unlock()

		resp := make([]byte, 12)
		copy(resp[0:4], hdr[0:4])
		binary.BigEndian.PutUint16(resp[4:6], 6)
		resp[6] = hdr[6]
		copy(resp[7:12], pdu[0:5])
		if _, err := conn.Write(resp); err != nil {
			return
		}
	}
}

func (s *fc16Server) snapshot() (int, []received) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepts, append([]received(nil), s.got...)
}

func TestEndpointClient_ReconnectsAfterDroppedConnection(t *testing.T) {
	srv := newFC16Server(t)
	defer srv.ln.Close()

	c, err := NewEndpointClient(Config{Endpoint: srv.ln.Addr().String(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewEndpointClient err=%v", err)
	}
	defer c.Close()

	if err := c.WriteRegisters(1, 10, []uint16{0x0102}); err != nil {
		t.Fatalf("first write err=%v", err)
	}

	// server hung up after the first reply
	if err := c.WriteRegisters(1, 10, []uint16{0x0304}); err == nil {
		t.Fatalf("expected error on dropped connection")
	}

	if err := c.WriteRegisters(7, 20, []uint16{0xABCD, 0x0001}); err != nil {
		t.Fatalf("write after reconnect err=%v", err)
	}

	accepts, got := srv.snapshot()
	if accepts != 2 {
		t.Fatalf("expected 2 connections, got %d", accepts)
	}
	last := got[len(got)-1]
	want := received{unitID: 7, addr: 20, data: []byte{0xAB, 0xCD, 0x00, 0x01}}
	if !reflect.DeepEqual(last, want) {
		t.Fatalf("unexpected request %+v, want %+v", last, want)
	}
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected endpoint error")
	}
}

func TestPackRegisters_BigEndian(t *testing.T) {
	got := packRegisters([]uint16{0x1234, 0x00FF})
	if !reflect.DeepEqual(got, []byte{0x12, 0x34, 0x00, 0xFF}) {
		t.Fatalf("unexpected %x", got)
	}
}
