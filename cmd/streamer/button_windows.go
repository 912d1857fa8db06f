//go:build windows

// cmd/streamer/button_windows.go
package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/power"
)

func watchButtonSignals(*power.ManualButton) {
	log.Debug("power button signals unavailable on windows")
}
