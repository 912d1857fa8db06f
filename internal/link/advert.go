// internal/link/advert.go
package link

import (
	"fmt"

	"github.com/google/uuid"
)

// AD structure types used by the node.
const (
	adFlags            byte = 0x01
	adComplete128      byte = 0x07
	adCompleteName     byte = 0x09
	MaxAdvertisingData      = 31

	// FlagsGeneralNoBREDR is LE General Discoverable, BR/EDR not supported.
	FlagsGeneralNoBREDR byte = 0x06
)

// Advertisement describes what the node broadcasts while waiting for a peer.
// Services go in the advertising packet, the name in the scan response.
type Advertisement struct {
	Flags    byte
	Services []uuid.UUID
	Name     string
}

// Payload encodes the advertising packet.
func (a Advertisement) Payload() []byte {
	out := []byte{2, adFlags, a.Flags}
	if len(a.Services) == 0 {
		return out
	}

	out = append(out, byte(1+16*len(a.Services)), adComplete128)
	for _, u := range a.Services {
		// 128-bit UUIDs are little-endian on air
		for i := 15; i >= 0; i-- {
			out = append(out, u[i])
		}
	}
	return out
}

// ScanResponse encodes the scan response packet.
func (a Advertisement) ScanResponse() []byte {
	if a.Name == "" {
		return nil
	}
	out := []byte{byte(1 + len(a.Name)), adCompleteName}
	return append(out, a.Name...)
}

// Validate checks both packets fit the legacy advertising limit.
func (a Advertisement) Validate() error {
	if n := len(a.Payload()); n > MaxAdvertisingData {
		return fmt.Errorf("link: advertising payload %d bytes > %d", n, MaxAdvertisingData)
	}
	if n := len(a.ScanResponse()); n > MaxAdvertisingData {
		return fmt.Errorf("link: scan response %d bytes > %d", n, MaxAdvertisingData)
	}
	return nil
}
