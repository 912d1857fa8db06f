// internal/link/tcpradio/client.go
package tcpradio

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/tamzrod/imu-streamer/internal/packet"
)

// Client is the central side of the TCP link.
type Client struct {
	conn net.Conn

	Advert       []byte
	ScanResponse []byte
}

// Dial connects and consumes the advert frame.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("tcpradio: dial: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	typ, payload, err := readFrame(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("tcpradio: read advert: %w", err)
	}
	if typ != TypeAdvert {
		conn.Close()
		return nil, fmt.Errorf("tcpradio: expected advert, got 0x%02x", typ)
	}
	adv, scan, err := splitAdvert(payload)
	if err != nil {
		conn.Close()
		return nil, err
	}
	_ = conn.SetReadDeadline(time.Time{})

	return &Client{conn: conn, Advert: adv, ScanResponse: scan}, nil
}

// Subscribe writes the CCCD.
func (c *Client) Subscribe(on bool) error {
	var v [2]byte
	if on {
		binary.LittleEndian.PutUint16(v[:], 0x0001)
	}
	return writeAll(c.conn, buildFrame(TypeCCCD, v[:]))
}

// RequestRead asks for the characteristic value; it arrives via Next.
func (c *Client) RequestRead() error {
	return writeAll(c.conn, buildFrame(TypeRead, nil))
}

// Next returns the next frame type and payload.
func (c *Client) Next(timeout time.Duration) (byte, []byte, error) {
	if timeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	}
	return readFrame(c.conn)
}

// NextSample skips non-notify frames and decodes the next sample.
func (c *Client) NextSample(timeout time.Duration) (packet.Sample, error) {
	for {
		typ, payload, err := c.Next(timeout)
		if err != nil {
			return packet.Sample{}, err
		}
		if typ == TypeNotify {
			return packet.Decode(payload)
		}
	}
}

func (c *Client) Close() error { return c.conn.Close() }
