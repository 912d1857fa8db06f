// internal/config/load.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Identity defaults. The UUID pair is the contract with existing clients.
const (
	DefaultServiceUUID = "7b9d1f00-8d2a-4b3a-94c1-6b8a1a9b7c10"
	DefaultCharUUID    = "7b9d1f01-8d2a-4b3a-94c1-6b8a1a9b7c10"
	DefaultDeviceName  = "Stridera-Unknown"
)

// Default returns a configuration that runs without any hardware:
// TCP radio emulation, mock accelerometer, no button, no status mirror.
func Default() *Config {
	return &Config{
		Node: NodeConfig{
			DeviceName:       DefaultDeviceName,
			BootGraceMs:      2000,
			ShutdownSettleMs: 2000,
			IdleDelayMs:      20,
			StreamDelayMs:    10,
		},
		Link: LinkConfig{
			Transport:      TransportTCP,
			Listen:         "127.0.0.1:7600",
			ServiceUUID:    DefaultServiceUUID,
			CharUUID:       DefaultCharUUID,
			MTU:            247,
			WriteTimeoutMs: 50,
		},
		Motion: MotionConfig{
			Replay: ReplayConfig{
				HasHeader: true,
				RateHz:    100,
			},
			Live: LiveConfig{
				Driver: DriverMock,
				RateHz: 100,
				Serial: SerialConfig{
					BaudRate:  115200,
					TimeoutMs: 50,
				},
			},
		},
		Power: PowerConfig{
			HoldMs:     1500,
			DebounceMs: 50,
			Button: ButtonConfig{
				ActiveLow: true,
			},
		},
		Status: StatusConfig{
			UnitID:     1,
			TimeoutMs:  1000,
			IntervalMs: 250,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (if path is set),
// then a local .env file (if present), then STREAMER_* environment overrides.
// Load does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STREAMER_DEVICE_NAME"); v != "" {
		cfg.Node.DeviceName = v
	}
	if v := os.Getenv("STREAMER_LINK_TRANSPORT"); v != "" {
		cfg.Link.Transport = strings.ToLower(v)
	}
	if v := os.Getenv("STREAMER_LINK_LISTEN"); v != "" {
		cfg.Link.Listen = v
	}
	if v := os.Getenv("STREAMER_REPLAY_PATH"); v != "" {
		cfg.Motion.Replay.Path = v
	}
	if v := os.Getenv("STREAMER_STATUS_ENDPOINT"); v != "" {
		cfg.Status.Endpoint = v
	}
	if v := os.Getenv("STREAMER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
