// internal/power/switch.go
package power

import (
	"fmt"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// Switch cuts power. On real hardware PowerOff does not return.
type Switch interface {
	PowerOff() error
}

// CommandSwitch runs an optional power-off command, then halts the process loop.
type CommandSwitch struct {
	Argv []string
	Halt func()
}

func (s *CommandSwitch) PowerOff() error {
	var err error
	if len(s.Argv) > 0 {
		log.WithField("cmd", s.Argv[0]).Info("power: running power-off command")
		out, runErr := exec.Command(s.Argv[0], s.Argv[1:]...).CombinedOutput()
		if runErr != nil {
			err = fmt.Errorf("power: off command: %w (%s)", runErr, out)
		}
	}

	if s.Halt != nil {
		s.Halt()
	}
	return err
}
