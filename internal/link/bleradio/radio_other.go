//go:build !linux

// internal/link/bleradio/radio_other.go

package bleradio

import (
	"errors"

	"github.com/tamzrod/imu-streamer/internal/link"
)

var errUnsupported = errors.New("bleradio: HCI radio requires linux")

// Radio is unavailable off linux; Configure always fails.
type Radio struct{}

func New(Config) *Radio { return &Radio{} }

func (*Radio) Configure(link.Profile, link.Handler) error { return errUnsupported }
func (*Radio) SetAdvertisement(link.Advertisement) error  { return link.ErrNotConfigured }
func (*Radio) StartAdvertising() error                    { return link.ErrNotConfigured }
func (*Radio) StopAdvertising() error                     { return nil }
func (*Radio) Advertising() bool                          { return false }
func (*Radio) SetValue([]byte)                            {}
func (*Radio) Notify([]byte) error                        { return link.ErrNotSubscribed }
func (*Radio) Close() error                               { return nil }
