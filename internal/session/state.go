// internal/session/state.go
package session

// State is the controller's FSM state.
type State uint8

const (
	StateBooting State = iota
	StateIdle
	StateStreaming
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "BOOTING"
	case StateIdle:
		return "IDLE"
	case StateStreaming:
		return "STREAMING"
	case StateShuttingDown:
		return "SHUTTING_DOWN"
	default:
		return "UNKNOWN"
	}
}

// View is what a banner renderer needs. Reading it has no side effects.
type View struct {
	State      State
	Connected  bool
	Subscribed bool
}
