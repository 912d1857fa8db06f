// internal/link/radio.go
package link

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotConfigured is returned by radios used before Configure.
var ErrNotConfigured = errors.New("link: radio not configured")

// ErrNotSubscribed is returned by Notify when no peer has notifications enabled.
var ErrNotSubscribed = errors.New("link: no subscriber")

// Profile is the node's radio identity: one service with one
// notify/read characteristic.
type Profile struct {
	DeviceName     string
	Service        uuid.UUID
	Characteristic uuid.UUID
	MTU            int
}

// Handler receives radio events.
// Implementations MUST NOT block; callbacks run on the radio's own goroutines.
type Handler interface {
	OnConnect(peer string)
	OnDisconnect(peer string, reason int)
	OnSubscribe(peer string, cccd uint16)
}

// Radio is the wireless stack seen from the link.
type Radio interface {
	Configure(p Profile, h Handler) error
	SetAdvertisement(a Advertisement) error
	StartAdvertising() error
	StopAdvertising() error
	Advertising() bool

	// SetValue updates the readable characteristic value.
	SetValue(b []byte)
	// Notify pushes b to the subscribed peer without waiting for acknowledgement.
	Notify(b []byte) error

	Close() error
}
