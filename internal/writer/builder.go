// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	"github.com/tamzrod/imu-streamer/internal/config"
	wmodbus "github.com/tamzrod/imu-streamer/internal/writer/modbus"
)

// BuildStatusPlan converts node config into a status plan.
// Returns false when no status endpoint is configured.
// Assumes config has already passed validation.
func BuildStatusPlan(c *config.Config) (StatusPlan, bool) {
	if c.Status.Endpoint == "" {
		return StatusPlan{}, false
	}
	return StatusPlan{
		Endpoint:   c.Status.Endpoint,
		UnitID:     c.Status.UnitID,
		BaseSlot:   c.Status.Slot,
		DeviceName: c.Node.DeviceName,
	}, true
}

// BuildMirror wires plan, Modbus client and mirror loop.
// The returned close func releases the endpoint connection.
func BuildMirror(plan StatusPlan, c config.StatusConfig) (*Mirror, func() error, error) {
	if plan.Endpoint == "" {
		return nil, nil, errors.New("writer: status endpoint required")
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw := NewNodeStatusWriter(plan, cli)
	m := NewMirror(sw, time.Duration(c.IntervalMs)*time.Millisecond)
	return m, cli.Close, nil
}
