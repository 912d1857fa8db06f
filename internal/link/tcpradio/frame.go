// internal/link/tcpradio/frame.go
package tcpradio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magicHi byte = 0x53 // 'S'
	magicLo byte = 0x4E // 'N'

	versionV1 byte = 0x01

	headerSize = 6
	maxPayload = 512
)

// Frame types.
const (
	// node -> client
	TypeAdvert byte = 0x01
	TypeValue  byte = 0x04
	TypeNotify byte = 0x10

	// client -> node
	TypeCCCD byte = 0x02
	TypeRead byte = 0x03
)

var errBadMagic = errors.New("tcpradio: bad magic")

//
// ---- Frame v1 (LOCKED) ----
//
// Layout (6 bytes header):
// 0–1  Magic "SN"
// 2    Version (0x01)
// 3    Type
// 4–5  Payload length (big-endian)
// 6+   Payload
//

func buildFrame(typ byte, payload []byte) []byte {
	out := make([]byte, headerSize, headerSize+len(payload))
	out[0] = magicHi
	out[1] = magicLo
	out[2] = versionV1
	out[3] = typ
	binary.BigEndian.PutUint16(out[4:6], uint16(len(payload)))
	return append(out, payload...)
}

func readFrame(r io.Reader) (byte, []byte, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	if hdr[0] != magicHi || hdr[1] != magicLo {
		return 0, nil, errBadMagic
	}
	if hdr[2] != versionV1 {
		return 0, nil, fmt.Errorf("tcpradio: unsupported version 0x%02x", hdr[2])
	}

	n := binary.BigEndian.Uint16(hdr[4:6])
	if n > maxPayload {
		return 0, nil, fmt.Errorf("tcpradio: payload %d bytes exceeds %d", n, maxPayload)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return hdr[3], payload, nil
}

// advert payload: u8 adv length, adv bytes, scan response bytes.
func buildAdvert(adv, scan []byte) []byte {
	out := make([]byte, 0, 1+len(adv)+len(scan))
	out = append(out, byte(len(adv)))
	out = append(out, adv...)
	return append(out, scan...)
}

func splitAdvert(p []byte) (adv, scan []byte, err error) {
	if len(p) < 1 || int(p[0]) > len(p)-1 {
		return nil, nil, errors.New("tcpradio: short advert")
	}
	n := int(p[0])
	return p[1 : 1+n], p[1+n:], nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
