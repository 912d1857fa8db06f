// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/imu-streamer/internal/status"
)

// nodeStatusWriter is the concrete implementation used by the mirror.
type nodeStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

// NewNodeStatusWriter builds a status writer for one Modbus memory.
func NewNodeStatusWriter(plan StatusPlan, cli endpointClient) *nodeStatusWriter {
	return &nodeStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		nameRegs: status.EncodeDeviceName(plan.DeviceName),
	}
}

// WriteStatus delivers a node status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *nodeStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	regs := sw.fullBlockRegs(s)
	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: contiguous runs of changed live slots
	// ------------------------------------------------------------
	var errs []string

	for start := 0; start <= status.SlotLiveEnd; {
		if regs[start] == sw.last[start] {
			start++
			continue
		}
		end := start
		for end+1 <= status.SlotLiveEnd && regs[end+1] != sw.last[end+1] {
			end++
		}

		run := regs[start : end+1]
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr+uint16(start), run); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", start, end, err))
		} else {
			copy(sw.last[start:end+1], run)
		}
		start = end + 1
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *nodeStatusWriter) baseAddr() uint16 {
	// Each node owns a fixed SlotsPerNode block.
	return sw.plan.BaseSlot * status.SlotsPerNode
}

func (sw *nodeStatusWriter) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)

	// Device name always lives at the end of the block
	copy(regs[status.SlotDeviceNameStart:status.SlotDeviceNameEnd+1], sw.nameRegs)

	return regs
}
