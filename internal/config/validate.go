// internal/config/validate.go
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// NODE
	// ------------------------------------------------------------

	if cfg.Node.DeviceName == "" {
		return fmt.Errorf("node: device_name is required")
	}
	for i := 0; i < len(cfg.Node.DeviceName); i++ {
		if cfg.Node.DeviceName[i] < 0x20 || cfg.Node.DeviceName[i] > 0x7E {
			return fmt.Errorf("node: device_name must contain printable ASCII characters only")
		}
	}
	if cfg.Node.IdleDelayMs < 0 || cfg.Node.StreamDelayMs < 0 {
		return fmt.Errorf("node: tick delays must be >= 0")
	}

	// ------------------------------------------------------------
	// LINK
	// ------------------------------------------------------------

	switch cfg.Link.Transport {
	case TransportTCP:
		if _, _, err := net.SplitHostPort(cfg.Link.Listen); err != nil {
			return fmt.Errorf("link: listen %q: %w", cfg.Link.Listen, err)
		}
	case TransportBLE:
		if cfg.Link.HCIDevice < 0 {
			return fmt.Errorf("link: hci_device must be >= 0")
		}
	default:
		return fmt.Errorf("link: unknown transport %q (want %s or %s)", cfg.Link.Transport, TransportTCP, TransportBLE)
	}

	svc, err := uuid.Parse(cfg.Link.ServiceUUID)
	if err != nil {
		return fmt.Errorf("link: service_uuid: %w", err)
	}
	chr, err := uuid.Parse(cfg.Link.CharUUID)
	if err != nil {
		return fmt.Errorf("link: char_uuid: %w", err)
	}
	if svc == chr {
		return fmt.Errorf("link: service_uuid and char_uuid must differ")
	}

	// 12-byte record + 3-byte ATT notification header
	if cfg.Link.MTU != 0 && cfg.Link.MTU < 15 {
		return fmt.Errorf("link: mtu %d too small for a telemetry record", cfg.Link.MTU)
	}

	// ------------------------------------------------------------
	// MOTION
	// ------------------------------------------------------------

	switch cfg.Motion.Live.Driver {
	case DriverMock:
	case DriverSerial:
		if cfg.Motion.Live.Serial.Address == "" {
			return fmt.Errorf("motion: live serial driver requires serial.address")
		}
		if cfg.Motion.Live.Serial.BaudRate <= 0 {
			return fmt.Errorf("motion: live serial baud_rate must be > 0")
		}
	default:
		return fmt.Errorf("motion: unknown live driver %q", cfg.Motion.Live.Driver)
	}

	// ------------------------------------------------------------
	// POWER
	// ------------------------------------------------------------

	if cfg.Power.HoldMs == 0 {
		return fmt.Errorf("power: hold_ms must be > 0")
	}
	if cfg.Power.DebounceMs >= cfg.Power.HoldMs {
		return fmt.Errorf("power: debounce_ms (%d) must be shorter than hold_ms (%d)", cfg.Power.DebounceMs, cfg.Power.HoldMs)
	}
	for _, a := range cfg.Power.OffCommand {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("power: off_command contains an empty argument")
		}
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Status.Endpoint != "" {
		if _, _, err := net.SplitHostPort(cfg.Status.Endpoint); err != nil {
			return fmt.Errorf("status: endpoint %q: %w", cfg.Status.Endpoint, err)
		}
		if cfg.Status.IntervalMs < 0 {
			return fmt.Errorf("status: interval_ms must be >= 0")
		}
	}

	return nil
}
