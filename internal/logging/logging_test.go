// internal/logging/logging_test.go
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/config"
)

func TestSetup_BadLevel(t *testing.T) {
	if _, err := Setup(config.LogConfig{Level: "chatty"}); err == nil {
		t.Fatalf("expected level error, got nil")
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamer.log")

	closeLog, err := Setup(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("Setup err=%v", err)
	}
	defer log.SetOutput(os.Stderr)

	log.WithField("state", "IDLE").Info("fsm transition")

	if err := closeLog(); err != nil {
		t.Fatalf("close err=%v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "state=IDLE") {
		t.Fatalf("log file missing entry: %q", data)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("level not applied: %v", log.GetLevel())
	}
}
