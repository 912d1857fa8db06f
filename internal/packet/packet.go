// internal/packet/packet.go
package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Telemetry record layout.
// This layout is the wire contract with the subscriber and MUST NOT change.
//
//	0–3   timestamp ms since boot (u32)
//	4–5   ax milli-g (i16)
//	6–7   ay milli-g (i16)
//	8–9   az milli-g (i16)
//	10    nominal sample rate Hz (u8)
//	11    reserved, written as zero
//
// Multi-byte fields are little-endian.
const Size = 12

const (
	offTimestamp = 0
	offAx        = 4
	offAy        = 6
	offAz        = 8
	offRate      = 10
	offReserved  = 11
)

// ErrShortPacket is returned when a buffer is not exactly Size bytes.
var ErrShortPacket = errors.New("packet: invalid length")

// Sample is one acceleration reading, identical to the on-wire record.
type Sample struct {
	TimestampMs uint32
	AxMg        int16
	AyMg        int16
	AzMg        int16
	RateHz      uint8
	Reserved    uint8 // ignored on read, zero on write
}

// Encode serializes s into the fixed record. No IO. No side effects.
func Encode(s Sample) [Size]byte {
	var b [Size]byte
	binary.LittleEndian.PutUint32(b[offTimestamp:], s.TimestampMs)
	binary.LittleEndian.PutUint16(b[offAx:], uint16(s.AxMg))
	binary.LittleEndian.PutUint16(b[offAy:], uint16(s.AyMg))
	binary.LittleEndian.PutUint16(b[offAz:], uint16(s.AzMg))
	b[offRate] = s.RateHz
	b[offReserved] = 0
	return b
}

// AppendEncode appends the encoded record to dst.
func AppendEncode(dst []byte, s Sample) []byte {
	b := Encode(s)
	return append(dst, b[:]...)
}

// Decode is the exact inverse of Encode.
func Decode(b []byte) (Sample, error) {
	if len(b) != Size {
		return Sample{}, fmt.Errorf("%w: got %d want %d", ErrShortPacket, len(b), Size)
	}
	return Sample{
		TimestampMs: binary.LittleEndian.Uint32(b[offTimestamp:]),
		AxMg:        int16(binary.LittleEndian.Uint16(b[offAx:])),
		AyMg:        int16(binary.LittleEndian.Uint16(b[offAy:])),
		AzMg:        int16(binary.LittleEndian.Uint16(b[offAz:])),
		RateHz:      b[offRate],
	}, nil
}

// MilliG converts a g-force reading to milli-g: round to nearest, then clamp to int16.
// NaN maps to zero.
func MilliG(g float64) int16 {
	if math.IsNaN(g) {
		return 0
	}
	mg := math.Round(g * 1000)
	if mg > math.MaxInt16 {
		return math.MaxInt16
	}
	if mg < math.MinInt16 {
		return math.MinInt16
	}
	return int16(mg)
}

// FromG builds a sample from a g-force triple.
func FromG(tsMs uint32, gx, gy, gz float64, rateHz uint8) Sample {
	return Sample{
		TimestampMs: tsMs,
		AxMg:        MilliG(gx),
		AyMg:        MilliG(gy),
		AzMg:        MilliG(gz),
		RateHz:      rateHz,
	}
}
