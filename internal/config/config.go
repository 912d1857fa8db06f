// internal/config/config.go
package config

type Config struct {
	Node   NodeConfig   `yaml:"node"`
	Link   LinkConfig   `yaml:"link"`
	Motion MotionConfig `yaml:"motion"`
	Power  PowerConfig  `yaml:"power"`
	Status StatusConfig `yaml:"status"`
	Log    LogConfig    `yaml:"log"`
}

// ---- NODE ----

type NodeConfig struct {
	DeviceName       string `yaml:"device_name"`
	BootGraceMs      uint32 `yaml:"boot_grace_ms"`
	ShutdownSettleMs uint32 `yaml:"shutdown_settle_ms"`
	IdleDelayMs      int    `yaml:"idle_delay_ms"`
	StreamDelayMs    int    `yaml:"stream_delay_ms"`
}

// ---- LINK ----

const (
	TransportTCP = "tcp"
	TransportBLE = "ble"
)

type LinkConfig struct {
	Transport      string `yaml:"transport"`  // tcp | ble
	Listen         string `yaml:"listen"`     // tcp only
	HCIDevice      int    `yaml:"hci_device"` // ble only
	ServiceUUID    string `yaml:"service_uuid"`
	CharUUID       string `yaml:"char_uuid"`
	MTU            int    `yaml:"mtu"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
}

// ---- MOTION ----

type MotionConfig struct {
	Replay ReplayConfig `yaml:"replay"`
	Live   LiveConfig   `yaml:"live"`
}

type ReplayConfig struct {
	Path      string `yaml:"path"` // empty disables replay
	HasHeader bool   `yaml:"has_header"`
	RateHz    uint8  `yaml:"rate_hz"`
}

const (
	DriverMock   = "mock"
	DriverSerial = "serial"
)

type LiveConfig struct {
	Driver string       `yaml:"driver"` // mock | serial
	RateHz uint8        `yaml:"rate_hz"`
	Serial SerialConfig `yaml:"serial"`
}

type SerialConfig struct {
	Address   string `yaml:"address"`
	BaudRate  int    `yaml:"baud_rate"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POWER ----

type PowerConfig struct {
	HoldMs     uint32       `yaml:"hold_ms"`
	DebounceMs uint32       `yaml:"debounce_ms"`
	Button     ButtonConfig `yaml:"button"`
	OffCommand []string     `yaml:"off_command"`
}

type ButtonConfig struct {
	GPIOValuePath string `yaml:"gpio_value_path"` // empty: no hardware button
	ActiveLow     bool   `yaml:"active_low"`
}

// ---- STATUS MIRROR (optional) ----

type StatusConfig struct {
	Endpoint   string `yaml:"endpoint"` // empty disables the mirror
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	IntervalMs int    `yaml:"interval_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}
