// internal/writer/status_writer_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/tamzrod/imu-streamer/internal/status"
)

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

type fakeEndpointClient struct {
	writes []writeCall
	fail   bool
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.fail {
		return errors.New("connection refused")
	}
	f.writes = append(f.writes, writeCall{
		unitID: unitID,
		addr:   addr,
		regs:   append([]uint16(nil), regs...),
	})
	return nil
}

func (f *fakeEndpointClient) last() writeCall { return f.writes[len(f.writes)-1] }

func testPlan() StatusPlan {
	return StatusPlan{
		Endpoint:   "status-endpoint",
		UnitID:     1,
		BaseSlot:   2,
		DeviceName: "NODE-01",
	}
}

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewNodeStatusWriter(testPlan(), cli)

	// ---- first write: FULL ASSERT ----
	if err := sw.WriteStatus(status.Snapshot{State: status.StateIdle}); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	w := cli.last()
	if len(w.regs) != status.SlotsPerNode {
		t.Fatalf("expected full block write (%d regs), got %d", status.SlotsPerNode, len(w.regs))
	}
	if w.addr != 2*status.SlotsPerNode || w.unitID != 1 {
		t.Fatalf("unexpected target unit=%d addr=%d", w.unitID, w.addr)
	}

	expectedNameRegs := status.EncodeDeviceName("NODE-01")
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		slot := status.SlotDeviceNameStart + i
		if w.regs[slot] != expectedNameRegs[i] {
			t.Fatalf("device name slot %d mismatch: got=%d want=%d", slot, w.regs[slot], expectedNameRegs[i])
		}
	}

	// ---- second write: INCREMENTAL ONLY ----
	if err := sw.WriteStatus(status.Snapshot{State: status.StateStreaming}); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	w = cli.last()
	if len(w.regs) != 1 || w.addr != 2*status.SlotsPerNode+status.SlotState {
		t.Fatalf("expected single state slot write, got addr=%d regs=%v", w.addr, w.regs)
	}
	if w.regs[0] != status.StateStreaming {
		t.Fatalf("unexpected state %d", w.regs[0])
	}
}

func TestIncrementalCoalescesContiguousSlots(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewNodeStatusWriter(testPlan(), cli)

	_ = sw.WriteStatus(status.Snapshot{})
	n := len(cli.writes)

	if err := sw.WriteStatus(status.Snapshot{AxMg: 1, AyMg: 2, AzMg: 3, Sent: 9}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got := cli.writes[n:]
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	base := uint16(2 * status.SlotsPerNode)
	if got[0].addr != base+status.SlotAx || len(got[0].regs) != 3 {
		t.Fatalf("unexpected axis run %+v", got[0])
	}
	if got[1].addr != base+status.SlotSentLo || len(got[1].regs) != 1 || got[1].regs[0] != 9 {
		t.Fatalf("unexpected counter run %+v", got[1])
	}
}

func TestUnchangedSnapshotWritesNothing(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewNodeStatusWriter(testPlan(), cli)

	s := status.Snapshot{State: status.StateIdle, Advertising: true}
	_ = sw.WriteStatus(s)
	_ = sw.WriteStatus(s)

	if len(cli.writes) != 1 {
		t.Fatalf("expected only the full write, got %d", len(cli.writes))
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := NewNodeStatusWriter(testPlan(), cli)

	_ = sw.WriteStatus(status.Snapshot{State: status.StateIdle})

	cli.fail = true
	if err := sw.WriteStatus(status.Snapshot{State: status.StateStreaming}); err == nil {
		t.Fatalf("expected error")
	}

	cli.fail = false
	if err := sw.WriteStatus(status.Snapshot{State: status.StateStreaming}); err != nil {
		t.Fatalf("recovery write failed: %v", err)
	}
	if len(cli.last().regs) != status.SlotsPerNode {
		t.Fatalf("expected full block after failure, got %d regs", len(cli.last().regs))
	}
}
