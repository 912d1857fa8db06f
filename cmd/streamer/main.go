// cmd/streamer/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/config"
	"github.com/tamzrod/imu-streamer/internal/logging"
	"github.com/tamzrod/imu-streamer/internal/node"
)

func main() {
	cfgPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	if err := config.Validate(cfg); err != nil {
		log.WithError(err).Fatal("config validation failed")
	}
	config.Normalize(cfg)

	closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		log.WithError(err).Fatal("logging setup failed")
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --------------------
	// Build node (power switch halts the run loop)
	// --------------------

	n, closeNode, err := node.Build(cfg, cancel)
	if err != nil {
		log.WithError(err).Fatal("node build failed")
	}
	defer closeNode()

	// First signal: graceful shutdown through the FSM. Second: hard stop.
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.WithField("signal", s.String()).Info("shutdown requested")
		n.RequestShutdown()

		s = <-sig
		log.WithField("signal", s.String()).Warn("forced stop")
		cancel()
	}()

	// Without a GPIO button, signals drive the in-process one.
	if btn := n.Button(); btn != nil {
		watchButtonSignals(btn)
	}

	log.WithFields(log.Fields{
		"name":      cfg.Node.DeviceName,
		"transport": cfg.Link.Transport,
	}).Info("streamer starting")

	if err := n.Run(ctx); err != nil {
		log.WithError(err).Error("node stopped")
		closeNode()
		os.Exit(1)
	}

	log.Info("streamer stopped")
}
