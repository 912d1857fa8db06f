// internal/node/node.go
package node

import (
	"context"
	"net"
	"time"

	"github.com/tamzrod/imu-streamer/internal/link"
	"github.com/tamzrod/imu-streamer/internal/link/tcpradio"
	"github.com/tamzrod/imu-streamer/internal/motion"
	"github.com/tamzrod/imu-streamer/internal/power"
	"github.com/tamzrod/imu-streamer/internal/session"
	"github.com/tamzrod/imu-streamer/internal/status"
	"github.com/tamzrod/imu-streamer/internal/writer"
)

// Node is one sensor node: controller, link and optional status mirror.
type Node struct {
	ctl    *session.Controller
	link   *link.Link
	mirror *writer.Mirror

	tcp    *tcpradio.Radio     // nil unless tcp transport
	button *power.ManualButton // nil when a hardware button is configured
}

// Run begins the session and drives Tick at the cadence it returns.
// One goroutine. No overlap. Returns when ctx is done.
func (n *Node) Run(ctx context.Context) error {
	if err := n.ctl.Begin(); err != nil {
		return err
	}

	if n.mirror != nil {
		go n.mirror.Run(ctx)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		d := n.ctl.Tick()
		if n.mirror != nil {
			n.mirror.Publish(n.Snapshot())
		}
		timer.Reset(d)
	}
}

// RequestShutdown asks the controller to shut down at the next tick past boot grace.
func (n *Node) RequestShutdown() { n.ctl.RequestShutdown() }

// Button returns the in-process button, or nil when hardware is wired.
func (n *Node) Button() *power.ManualButton { return n.button }

// LinkAddr returns the TCP radio address, or nil for other transports.
func (n *Node) LinkAddr() net.Addr {
	if n.tcp == nil {
		return nil
	}
	return n.tcp.Addr()
}

// Snapshot describes the node for the status block.
// Must be called from the Run goroutine.
func (n *Node) Snapshot() status.Snapshot {
	v := n.ctl.View()
	last := n.ctl.LastSample()
	st := n.link.Stats()

	return status.Snapshot{
		State:       stateCode(v.State),
		Connected:   v.Connected,
		Subscribed:  v.Subscribed,
		Advertising: n.link.Advertising(),
		Motion:      motionCode(n.ctl.Mode()),
		AxMg:        last.AxMg,
		AyMg:        last.AyMg,
		AzMg:        last.AzMg,
		Sent:        st.Sent,
		Dropped:     st.Dropped,
	}
}

func stateCode(s session.State) uint16 {
	switch s {
	case session.StateBooting:
		return status.StateBooting
	case session.StateIdle:
		return status.StateIdle
	case session.StateStreaming:
		return status.StateStreaming
	case session.StateShuttingDown:
		return status.StateShuttingDown
	default:
		return status.StateUnknown
	}
}

func motionCode(m motion.Mode) uint16 {
	if m == motion.ModeReplay {
		return status.MotionReplay
	}
	return status.MotionLive
}
