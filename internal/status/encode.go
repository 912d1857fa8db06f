// internal/status/encode.go
package status

import "math"

// Encode converts a Snapshot into a full node status block.
// Name slots are left zero; the writer owns identity.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerNode)

	regs[SlotState] = s.State
	regs[SlotLinkFlags] = linkFlags(s)
	regs[SlotMotion] = s.Motion

	regs[SlotAx] = uint16(s.AxMg)
	regs[SlotAy] = uint16(s.AyMg)
	regs[SlotAz] = uint16(s.AzMg)

	putU32(regs[SlotSentHi:SlotSentLo+1], s.Sent)
	putU32(regs[SlotDroppedHi:SlotDroppedLo+1], s.Dropped)

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
// Non-printable bytes become '?'.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

func linkFlags(s Snapshot) uint16 {
	var f uint16
	if s.Connected {
		f |= FlagConnected
	}
	if s.Subscribed {
		f |= FlagSubscribed
	}
	if s.Advertising {
		f |= FlagAdvertising
	}
	return f
}

// putU32 saturates counters at MaxUint32. Counters MUST NOT wrap on the wire.
func putU32(dst []uint16, v uint64) {
	if v > math.MaxUint32 {
		v = math.MaxUint32
	}
	dst[0] = uint16(v >> 16)
	dst[1] = uint16(v)
}
