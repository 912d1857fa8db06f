// internal/node/builder.go
package node

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/clock"
	"github.com/tamzrod/imu-streamer/internal/config"
	"github.com/tamzrod/imu-streamer/internal/link"
	"github.com/tamzrod/imu-streamer/internal/link/bleradio"
	"github.com/tamzrod/imu-streamer/internal/link/tcpradio"
	"github.com/tamzrod/imu-streamer/internal/motion"
	"github.com/tamzrod/imu-streamer/internal/power"
	"github.com/tamzrod/imu-streamer/internal/session"
	"github.com/tamzrod/imu-streamer/internal/writer"
)

// Build constructs the node and wires collaborator lifecycle.
// halt is called by the power switch; it should stop Run.
// Assumes config has already passed validation and normalization.
// Nothing is started here; Run begins the session.
func Build(c *config.Config, halt func()) (*Node, func() error, error) {
	clk := clock.NewBoot()

	// ---- link ----
	svc, err := uuid.Parse(c.Link.ServiceUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("node: service uuid: %w", err)
	}
	chr, err := uuid.Parse(c.Link.CharUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("node: char uuid: %w", err)
	}

	n := &Node{}

	var radio link.Radio
	switch c.Link.Transport {
	case config.TransportBLE:
		radio = bleradio.New(bleradio.Config{DeviceID: c.Link.HCIDevice})
	default:
		n.tcp = tcpradio.New(tcpradio.Config{
			Listen:       c.Link.Listen,
			WriteTimeout: time.Duration(c.Link.WriteTimeoutMs) * time.Millisecond,
		})
		radio = n.tcp
	}

	n.link = link.New(radio, link.Config{
		DeviceName:  c.Node.DeviceName,
		ServiceUUID: svc,
		CharUUID:    chr,
		MTU:         c.Link.MTU,
	})

	// ---- motion ----
	var replay *motion.Replay
	if c.Motion.Replay.Path != "" {
		src := motion.NewCSVRecordSource(c.Motion.Replay.Path, c.Motion.Replay.HasHeader)
		replay = motion.NewReplay(src, clk, c.Motion.Replay.RateHz)
	}

	var acc motion.Accelerometer
	switch c.Motion.Live.Driver {
	case config.DriverSerial:
		acc = motion.NewSerialAccelerometer(motion.SerialConfig{
			Address:  c.Motion.Live.Serial.Address,
			BaudRate: c.Motion.Live.Serial.BaudRate,
			Timeout:  time.Duration(c.Motion.Live.Serial.TimeoutMs) * time.Millisecond,
			RateHz:   c.Motion.Live.RateHz,
		})
	default:
		acc = &motion.MockAccelerometer{RateHz: c.Motion.Live.RateHz}
	}
	live := motion.NewLive(acc, clk)

	// ---- power ----
	var btn power.Button
	if c.Power.Button.GPIOValuePath != "" {
		btn = &power.GPIOButton{
			ValuePath: c.Power.Button.GPIOValuePath,
			ActiveLow: c.Power.Button.ActiveLow,
		}
	} else {
		n.button = &power.ManualButton{}
		btn = n.button
	}
	mon := power.NewMonitor(btn, c.Power.HoldMs, c.Power.DebounceMs)
	sw := &power.CommandSwitch{Argv: c.Power.OffCommand, Halt: halt}

	// ---- controller ----
	n.ctl = session.New(session.Deps{
		Clock:  clk,
		Link:   n.link,
		Replay: replay,
		Live:   live,
		Power:  mon,
		Switch: sw,
		Banner: session.LogBanner{},
	}, session.Config{
		BootGraceMs:      c.Node.BootGraceMs,
		ShutdownSettleMs: c.Node.ShutdownSettleMs,
		IdleDelay:        time.Duration(c.Node.IdleDelayMs) * time.Millisecond,
		StreamDelay:      time.Duration(c.Node.StreamDelayMs) * time.Millisecond,
	})

	closers := []func() error{radio.Close}

	// ---- status mirror (optional) ----
	if plan, ok := writer.BuildStatusPlan(c); ok {
		m, closeMirror, err := writer.BuildMirror(plan, c.Status)
		if err != nil {
			_ = radio.Close()
			return nil, nil, err
		}
		n.mirror = m
		closers = append(closers, closeMirror)
		log.WithFields(log.Fields{
			"endpoint": plan.Endpoint,
			"unit":     plan.UnitID,
			"slot":     plan.BaseSlot,
		}).Info("node: status mirror enabled")
	}

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	return n, closeAll, nil
}
