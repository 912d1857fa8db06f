// internal/config/normalize.go
package config

// DeviceNameMaxChars matches the device name area of the status block.
const DeviceNameMaxChars = 16

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// Normalize device_name:
	// - ASCII already validated
	// - Truncate to max 16 characters
	if len(cfg.Node.DeviceName) > DeviceNameMaxChars {
		cfg.Node.DeviceName = cfg.Node.DeviceName[:DeviceNameMaxChars]
	}

	// Zero rates fall back to the nominal 100 Hz loop.
	if cfg.Motion.Replay.RateHz == 0 {
		cfg.Motion.Replay.RateHz = 100
	}
	if cfg.Motion.Live.RateHz == 0 {
		cfg.Motion.Live.RateHz = 100
	}

	if cfg.Link.WriteTimeoutMs <= 0 {
		cfg.Link.WriteTimeoutMs = 50
	}
	if cfg.Status.TimeoutMs <= 0 {
		cfg.Status.TimeoutMs = 1000
	}
	if cfg.Status.IntervalMs == 0 {
		cfg.Status.IntervalMs = 250
	}
}
