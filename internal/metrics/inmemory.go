package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered uint64
	LoginSuccesses  uint64
	LoginFailures   uint64
	LoginsThrottled uint64
	SessionHits     uint64
	SessionMisses   uint64
	NotesCreated    uint64
	NotesDeleted    uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered uint64
	loginSuccesses  uint64
	loginFailures   uint64
	loginsThrottled uint64
	sessionHits     uint64
	sessionMisses   uint64
	notesCreated    uint64
	notesDeleted    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered: atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:  atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:   atomic.LoadUint64(&m.loginFailures),
		LoginsThrottled: atomic.LoadUint64(&m.loginsThrottled),
		SessionHits:     atomic.LoadUint64(&m.sessionHits),
		SessionMisses:   atomic.LoadUint64(&m.sessionMisses),
		NotesCreated:    atomic.LoadUint64(&m.notesCreated),
		NotesDeleted:    atomic.LoadUint64(&m.notesDeleted),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncLoginThrottled increments the throttle counter.
func (m *InMemoryRecorder) IncLoginThrottled() {
	atomic.AddUint64(&m.loginsThrottled, 1)
}

// IncSessionLookup increments the session lookup counter for the status.
func (m *InMemoryRecorder) IncSessionLookup(status string) {
	if status == "hit" {
		atomic.AddUint64(&m.sessionHits, 1)
		return
	}
	atomic.AddUint64(&m.sessionMisses, 1)
}

// IncNoteCreated increments the note created counter.
func (m *InMemoryRecorder) IncNoteCreated() {
	atomic.AddUint64(&m.notesCreated, 1)
}

// IncNoteDeleted increments the note deleted counter.
func (m *InMemoryRecorder) IncNoteDeleted() {
	atomic.AddUint64(&m.notesDeleted, 1)
}
