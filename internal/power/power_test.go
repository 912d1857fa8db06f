// internal/power/power_test.go
package power

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type errButton struct{}

func (errButton) Pressed() (bool, error) { return false, errors.New("gpio gone") }

type flakyButton struct {
	pressed bool
	err     error
}

func (b *flakyButton) Pressed() (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	return b.pressed, nil
}

// hold presses for holdFor ms starting at 0, then releases, polling every 10ms
// until end. It returns the times at which the gesture fired.
func hold(m *Monitor, btn *ManualButton, holdFor, end uint32) []uint32 {
	var fired []uint32
	for now := uint32(0); now <= end; now += 10 {
		if now < holdFor {
			btn.Press()
		} else {
			btn.Release()
		}
		if m.PollLongPressRelease(now) {
			fired = append(fired, now)
		}
	}
	return fired
}

func TestMonitor_LongHoldFiresOnceOnRelease(t *testing.T) {
	btn := &ManualButton{}
	m := NewMonitor(btn, 1500, 50)

	fired := hold(m, btn, 1600, 3000)
	if len(fired) != 1 {
		t.Fatalf("expected one fire, got %v", fired)
	}
	if fired[0] < 1600 {
		t.Fatalf("fired before release at %d", fired[0])
	}
	if m.HoldObserved() {
		t.Fatalf("expected latch cleared after fire")
	}
}

func TestMonitor_ShortHoldNeverFires(t *testing.T) {
	btn := &ManualButton{}
	m := NewMonitor(btn, 1500, 50)

	if fired := hold(m, btn, 800, 3000); len(fired) != 0 {
		t.Fatalf("expected no fire, got %v", fired)
	}
}

func TestMonitor_NoDebounce(t *testing.T) {
	btn := &ManualButton{}
	m := NewMonitor(btn, 1500, 0)

	fired := hold(m, btn, 1510, 2000)
	if len(fired) != 1 || fired[0] != 1510 {
		t.Fatalf("expected fire at 1510, got %v", fired)
	}
}

func TestMonitor_BounceIgnored(t *testing.T) {
	btn := &ManualButton{}
	m := NewMonitor(btn, 1500, 50)

	for now := uint32(0); now <= 1600; now += 10 {
		btn.Press()
		// 20ms glitch mid-hold must not restart the hold
		if now == 700 || now == 710 {
			btn.Release()
		}
		if m.PollLongPressRelease(now) {
			t.Fatalf("fired while held at %d", now)
		}
	}
	if !m.HoldObserved() {
		t.Fatalf("expected hold observed despite glitch")
	}
}

func TestMonitor_ReadErrorIsNotPressed(t *testing.T) {
	m := NewMonitor(errButton{}, 100, 0)
	for now := uint32(0); now < 500; now += 10 {
		if m.PollLongPressRelease(now) {
			t.Fatalf("unexpected fire")
		}
	}
}

func TestMonitor_ReadErrorWhileHeldIsNotRelease(t *testing.T) {
	btn := &flakyButton{pressed: true}
	m := NewMonitor(btn, 1500, 50)

	for now := uint32(0); now <= 3000; now += 10 {
		if now == 1600 {
			btn.err = errors.New("gpio gone")
		}
		if m.PollLongPressRelease(now) {
			t.Fatalf("fired at %d while still held", now)
		}
	}
	if !m.HoldObserved() {
		t.Fatalf("expected hold latch kept through read errors")
	}

	btn.err = nil
	btn.pressed = false
	var fired []uint32
	for now := uint32(3010); now <= 3200; now += 10 {
		if m.PollLongPressRelease(now) {
			fired = append(fired, now)
		}
	}
	if len(fired) != 1 {
		t.Fatalf("expected one fire after real release, got %v", fired)
	}
}

func TestGPIOButton_ActiveLow(t *testing.T) {
	p := filepath.Join(t.TempDir(), "value")
	if err := os.WriteFile(p, []byte("0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	b := &GPIOButton{ValuePath: p, ActiveLow: true}
	pressed, err := b.Pressed()
	if err != nil || !pressed {
		t.Fatalf("expected pressed, got %v err=%v", pressed, err)
	}

	_ = os.WriteFile(p, []byte("x"), 0o644)
	if _, err := b.Pressed(); err == nil {
		t.Fatalf("expected error on bad value")
	}
}

func TestCommandSwitch_HaltsWithoutCommand(t *testing.T) {
	halted := false
	s := &CommandSwitch{Halt: func() { halted = true }}

	if err := s.PowerOff(); err != nil {
		t.Fatalf("PowerOff err=%v", err)
	}
	if !halted {
		t.Fatalf("expected halt")
	}
}

func TestCommandSwitch_CommandFailureStillHalts(t *testing.T) {
	halted := false
	s := &CommandSwitch{
		Argv: []string{filepath.Join(t.TempDir(), "missing-binary")},
		Halt: func() { halted = true },
	}

	if err := s.PowerOff(); err == nil {
		t.Fatalf("expected error")
	}
	if !halted {
		t.Fatalf("expected halt")
	}
}
