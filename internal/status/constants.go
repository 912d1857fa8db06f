// internal/status/constants.go
package status

// Node Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerNode is the fixed number of holding registers per node.
const SlotsPerNode = 20

// ---- SLOT INDICES ----

const (
	SlotState     = 0
	SlotLinkFlags = 1
	SlotMotion    = 2

	// last sample, milli-g, two's complement
	SlotAx = 3
	SlotAy = 4
	SlotAz = 5

	// u32 counters, high word first
	SlotSentHi    = 6
	SlotSentLo    = 7
	SlotDroppedHi = 8
	SlotDroppedLo = 9

	SlotReserved10 = 10
)

// SlotLiveEnd is the last slot rewritten on incremental updates (inclusive).
const SlotLiveEnd = SlotReserved10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// Slot 19 is reserved.

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- STATE CODES ----

const (
	StateUnknown      uint16 = 0
	StateBooting      uint16 = 1
	StateIdle         uint16 = 2
	StateStreaming    uint16 = 3
	StateShuttingDown uint16 = 4
)

// ---- LINK FLAGS ----

const (
	FlagConnected   uint16 = 1 << 0
	FlagSubscribed  uint16 = 1 << 1
	FlagAdvertising uint16 = 1 << 2
)

// ---- MOTION MODES ----

const (
	MotionLive   uint16 = 0
	MotionReplay uint16 = 1
)
