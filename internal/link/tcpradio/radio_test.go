// internal/link/tcpradio/radio_test.go
package tcpradio

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/imu-streamer/internal/link"
	"github.com/tamzrod/imu-streamer/internal/packet"
)

func newLoopbackLink(t *testing.T) (*link.Link, *Radio) {
	t.Helper()
	r := New(Config{Listen: "127.0.0.1:0"})
	l := link.New(r, link.Config{
		DeviceName:  "Stridera-Unknown",
		ServiceUUID: uuid.MustParse("7b9d1f00-8d2a-4b3a-94c1-6b8a1a9b7c10"),
		CharUUID:    uuid.MustParse("7b9d1f01-8d2a-4b3a-94c1-6b8a1a9b7c10"),
		MTU:         247,
	})
	if err := l.Begin(); err != nil {
		t.Fatalf("Begin err=%v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return l, r
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	b := buildFrame(TypeNotify, []byte{1, 2, 3})
	if !bytes.Equal(b[:6], []byte{'S', 'N', 0x01, TypeNotify, 0x00, 0x03}) {
		t.Fatalf("unexpected header % x", b[:6])
	}

	typ, p, err := readFrame(bytes.NewReader(b))
	if err != nil || typ != TypeNotify || !bytes.Equal(p, []byte{1, 2, 3}) {
		t.Fatalf("unexpected typ=%x p=% x err=%v", typ, p, err)
	}

	b[0] = 'X'
	if _, _, err := readFrame(bytes.NewReader(b)); err == nil {
		t.Fatalf("expected bad magic")
	}
}

func TestRadio_SubscribeStreamDisconnect(t *testing.T) {
	l, r := newLoopbackLink(t)

	c, err := Dial(r.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial err=%v", err)
	}
	defer c.Close()

	if !bytes.Equal(c.Advert, l.Advertisement().Payload()) {
		t.Fatalf("unexpected advert % x", c.Advert)
	}
	if string(c.ScanResponse[2:]) != "Stridera-Unknown" {
		t.Fatalf("unexpected scan response % x", c.ScanResponse)
	}

	waitFor(t, "connect", l.Connected)
	if r.Advertising() {
		t.Fatalf("advertising must stop on connect")
	}

	if err := c.Subscribe(true); err != nil {
		t.Fatalf("Subscribe err=%v", err)
	}
	waitFor(t, "subscribe", l.Subscribed)
	if !l.ShouldStartStreaming() {
		t.Fatalf("expected start edge")
	}

	want := packet.Sample{TimestampMs: 42, AxMg: -5, AyMg: 7, AzMg: 1000, RateHz: 100}
	l.Send(want)

	got, err := c.NextSample(time.Second)
	if err != nil {
		t.Fatalf("NextSample err=%v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := c.RequestRead(); err != nil {
		t.Fatalf("RequestRead err=%v", err)
	}
	typ, v, err := c.Next(time.Second)
	if err != nil || typ != TypeValue {
		t.Fatalf("expected value frame, got typ=%x err=%v", typ, err)
	}
	if s, _ := packet.Decode(v); s != want {
		t.Fatalf("unexpected read value %+v", s)
	}

	_ = c.Close()
	waitFor(t, "disconnect", func() bool { return !l.Connected() })
	if l.Subscribed() || !l.ShouldStopStreaming() {
		t.Fatalf("expected unsubscribed with stop edge")
	}
	waitFor(t, "advertising", r.Advertising)
}

func TestRadio_SecondClientRefused(t *testing.T) {
	l, r := newLoopbackLink(t)

	c, err := Dial(r.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial err=%v", err)
	}
	defer c.Close()
	waitFor(t, "connect", l.Connected)

	conn, err := net.DialTimeout("tcp", r.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var b [1]byte
	if _, err := conn.Read(b[:]); err == nil {
		t.Fatalf("expected refused connection to be closed")
	}
}

func TestRadio_NotifyWithoutSubscriber(t *testing.T) {
	_, r := newLoopbackLink(t)
	if err := r.Notify([]byte{1}); err != link.ErrNotSubscribed {
		t.Fatalf("expected ErrNotSubscribed, got %v", err)
	}
}

func TestRadio_NotConfigured(t *testing.T) {
	r := New(Config{Listen: "127.0.0.1:0"})
	if err := r.StartAdvertising(); err != link.ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
