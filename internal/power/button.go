// internal/power/button.go
package power

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// Button reports the instantaneous press level.
type Button interface {
	Pressed() (bool, error)
}

// GPIOButton reads a sysfs GPIO value file ("0" or "1").
type GPIOButton struct {
	ValuePath string
	ActiveLow bool
}

func (b *GPIOButton) Pressed() (bool, error) {
	raw, err := os.ReadFile(b.ValuePath)
	if err != nil {
		return false, err
	}

	var high bool
	switch strings.TrimSpace(string(raw)) {
	case "1":
		high = true
	case "0":
		high = false
	default:
		return false, fmt.Errorf("power: unexpected gpio value %q", raw)
	}

	if b.ActiveLow {
		return !high, nil
	}
	return high, nil
}

// ManualButton is a button driven in-process.
type ManualButton struct {
	down atomic.Bool
}

func (b *ManualButton) Press()   { b.down.Store(true) }
func (b *ManualButton) Release() { b.down.Store(false) }

func (b *ManualButton) Pressed() (bool, error) { return b.down.Load(), nil }
