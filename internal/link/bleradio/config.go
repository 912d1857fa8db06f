// internal/link/bleradio/config.go
package bleradio

// Config selects the local HCI adapter.
type Config struct {
	DeviceID int
}
