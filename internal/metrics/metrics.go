// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "sync/atomic"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncSignup()
	IncLogin()
	IncLoginFailure()
	IncLibraryUpdate()
}

// NewNoop returns a Recorder that discards all events.
func NewNoop() Recorder {
	return noop{}
}

type noop struct{}

func (noop) IncSignup()        {}
func (noop) IncLogin()         {}
func (noop) IncLoginFailure()  {}
func (noop) IncLibraryUpdate() {}

// InMemory is a Recorder backed by atomic counters, suitable for a single
// process. Exposed as JSON via the /metrics endpoint.
type InMemory struct {
	signups        atomic.Int64
	logins         atomic.Int64
	loginFailures  atomic.Int64
	libraryUpdates atomic.Int64
}

// NewInMemory returns an empty in-memory Recorder.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (m *InMemory) IncSignup()        { m.signups.Add(1) }
func (m *InMemory) IncLogin()         { m.logins.Add(1) }
func (m *InMemory) IncLoginFailure()  { m.loginFailures.Add(1) }
func (m *InMemory) IncLibraryUpdate() { m.libraryUpdates.Add(1) }

// Snapshot returns the current counter values.
func (m *InMemory) Snapshot() map[string]int64 {
	return map[string]int64{
		"signups_total":         m.signups.Load(),
		"logins_total":          m.logins.Load(),
		"login_failures_total":  m.loginFailures.Load(),
		"library_updates_total": m.libraryUpdates.Load(),
	}
}
