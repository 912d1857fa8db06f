//go:build !windows

// cmd/streamer/button_unix.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/power"
)

// watchButtonSignals maps SIGUSR1 to press and SIGUSR2 to release.
func watchButtonSignals(btn *power.ManualButton) {
	usr := make(chan os.Signal, 4)
	signal.Notify(usr, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for s := range usr {
			if s == syscall.SIGUSR1 {
				btn.Press()
			} else {
				btn.Release()
			}
			log.WithField("signal", s.String()).Debug("power button")
		}
	}()
}
