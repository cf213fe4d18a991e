// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can discard them, count in memory, or expose them to
// Prometheus.
type Recorder interface {
	// Account events
	IncUserRegistered()
	IncLogin(status string) // status: "success" or "failure"
	IncLoginThrottled()
	IncSessionLookup(status string) // status: "hit" or "miss"

	// Note events
	IncNoteCreated()
	IncNoteDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
