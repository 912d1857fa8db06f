// internal/session/controller.go
package session

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/imu-streamer/internal/clock"
	"github.com/tamzrod/imu-streamer/internal/latch"
	"github.com/tamzrod/imu-streamer/internal/motion"
	"github.com/tamzrod/imu-streamer/internal/packet"
	"github.com/tamzrod/imu-streamer/internal/power"
)

// Link is the controller's view of the telemetry link.
type Link interface {
	Begin() error
	Connected() bool
	Subscribed() bool
	ShouldStartStreaming() bool
	ShouldStopStreaming() bool
	Send(s packet.Sample)
	StopNotifications()
	StopAdvertising()
	Flush()
	Poll()
	Reset()
}

// PowerMonitor reports the shutdown gesture.
type PowerMonitor interface {
	PollLongPressRelease(nowMs uint32) bool
}

// Deps are the controller's collaborators.
// Replay may be nil; Live is required. Banner is optional.
type Deps struct {
	Clock  clock.Clock
	Link   Link
	Replay *motion.Replay
	Live   *motion.Live
	Power  PowerMonitor
	Switch power.Switch
	Banner Banner
}

// Config holds FSM timing.
type Config struct {
	BootGraceMs      uint32
	ShutdownSettleMs uint32
	IdleDelay        time.Duration
	StreamDelay      time.Duration
}

// Controller coordinates link, motion source and power gesture.
// Tick MUST be called from a single goroutine.
type Controller struct {
	d   Deps
	cfg Config

	source motion.Source
	mode   motion.Mode

	state      State
	bootAt     uint32
	shutdownAt uint32

	reqStart    bool
	reqStop     bool
	reqShutdown bool

	// set from outside the tick goroutine
	extShutdown latch.Latch

	last packet.Sample

	drawn     View
	drawValid bool
}

func New(d Deps, cfg Config) *Controller {
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = 20 * time.Millisecond
	}
	if cfg.StreamDelay <= 0 {
		cfg.StreamDelay = 10 * time.Millisecond
	}
	return &Controller{d: d, cfg: cfg}
}

// Begin initialises the link and motion source and enters BOOTING.
// A link failure is fatal; a sensor failure is not.
func (c *Controller) Begin() error {
	if err := c.d.Link.Begin(); err != nil {
		return fmt.Errorf("session: link begin: %w", err)
	}
	c.source, c.mode = motion.Select(c.d.Replay, c.d.Live)

	c.resetRuntime()

	c.bootAt = c.d.Clock.Millis()
	c.state = StateBooting
	c.refreshBanner()
	log.WithField("state", c.state).Info("session: begin")
	return nil
}

// Tick runs one poll-transition-act cycle and returns the delay before the next tick.
func (c *Controller) Tick() time.Duration {
	now := c.d.Clock.Millis()
	pastGrace := clock.Elapsed(now, c.bootAt) > c.cfg.BootGraceMs

	// ---- 1) Poll inputs ----

	// always polled to keep hold tracking current
	gesture := c.d.Power.PollLongPressRelease(now)
	if pastGrace && (gesture || c.extShutdown.Take()) {
		c.reqShutdown = true
	}

	if c.d.Link.ShouldStartStreaming() {
		c.reqStart = true
	}
	if c.d.Link.ShouldStopStreaming() {
		c.reqStop = true
	}

	// ---- 2) Transitions ----

	if c.state == StateBooting {
		if pastGrace {
			c.enter(StateIdle, "boot grace elapsed")
		}
		c.refreshBanner()
		return c.cfg.StreamDelay
	}

	if c.reqShutdown {
		c.reqShutdown = false
		// a repeated gesture restarts the settle window
		c.shutdownAt = now
		if c.state != StateShuttingDown {
			c.enter(StateShuttingDown, "power gesture")
		}
	}

	if c.reqStart {
		c.reqStart = false
		if c.state == StateIdle && c.d.Link.Connected() {
			// Reset drops a stop edge latched since the poll above; the
			// subscribed level still reflects it.
			c.resetRuntime()
			if c.d.Link.Subscribed() {
				c.enter(StateStreaming, "subscribed")
			}
		}
	}

	if c.reqStop {
		c.reqStop = false
		if c.state == StateStreaming {
			c.d.Link.StopNotifications()
			c.enter(StateIdle, "unsubscribed")
		}
	}

	if c.state == StateStreaming && !c.d.Link.Connected() {
		c.enter(StateIdle, "disconnected")
	}

	// ---- 3) Actions ----

	switch c.state {
	case StateIdle:
		c.refreshBanner()
		c.d.Link.Poll()
		return c.cfg.IdleDelay

	case StateStreaming:
		c.refreshBanner()
		c.last = c.source.Update()
		c.d.Link.Send(c.last)
		return c.cfg.StreamDelay

	case StateShuttingDown:
		c.refreshBanner()
		if clock.Elapsed(now, c.shutdownAt) >= c.cfg.ShutdownSettleMs {
			c.powerDown()
		}
		return c.cfg.StreamDelay
	}

	return c.cfg.StreamDelay
}

// powerDown runs the ordered shutdown sequence.
func (c *Controller) powerDown() {
	log.Info("session: powering off")

	c.d.Link.Flush()
	c.d.Link.StopNotifications()
	c.d.Link.StopAdvertising()
	c.source.End()

	err := c.d.Switch.PowerOff()

	// still running: power-off returned
	e := log.WithField("state", StateIdle)
	if err != nil {
		e = e.WithError(err)
	}
	e.Warn("session: power-off returned, falling back")
	c.state = StateIdle
}

// RequestShutdown latches a shutdown request from outside the tick loop.
// It is honoured once the boot grace period has passed.
func (c *Controller) RequestShutdown() { c.extShutdown.Set() }

func (c *Controller) State() State { return c.state }

// Mode reports which motion source Begin selected.
func (c *Controller) Mode() motion.Mode { return c.mode }

// LastSample is the most recent sample sent while streaming.
func (c *Controller) LastSample() packet.Sample { return c.last }

func (c *Controller) View() View {
	return View{
		State:      c.state,
		Connected:  c.d.Link.Connected(),
		Subscribed: c.d.Link.Subscribed(),
	}
}

// resetRuntime clears latched requests. The link stays up.
func (c *Controller) resetRuntime() {
	c.d.Link.Reset()
	if c.source != nil {
		c.source.Reset()
	}
	c.reqStart, c.reqStop, c.reqShutdown = false, false, false
	c.drawValid = false
}

func (c *Controller) enter(s State, why string) {
	log.WithFields(log.Fields{"from": c.state, "state": s, "reason": why}).Info("session: transition")
	c.state = s
}

// refreshBanner redraws only when the view changed.
func (c *Controller) refreshBanner() {
	if c.d.Banner == nil {
		return
	}
	v := c.View()
	if c.drawValid && v == c.drawn {
		return
	}
	c.d.Banner.Render(v)
	c.drawn = v
	c.drawValid = true
}
