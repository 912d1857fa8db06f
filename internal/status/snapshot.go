// internal/status/snapshot.go
package status

// Snapshot represents exactly what the mirror is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	State uint16

	Connected   bool
	Subscribed  bool
	Advertising bool

	Motion uint16

	AxMg, AyMg, AzMg int16

	Sent    uint64
	Dropped uint64
}
