// internal/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tamzrod/imu-streamer/internal/config"
)

// Setup configures the process-wide logrus logger.
// stdout is always included; a rotating file is added when cfg.File is set.
// The returned closer releases the log file.
func Setup(cfg config.LogConfig) (func() error, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return func() error { return nil }, nil
	}

	rot := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rot))

	return rot.Close, nil
}
