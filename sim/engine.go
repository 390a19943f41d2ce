package sim

// A Scheduler accepts events that happen now or later.
type Scheduler interface {
	CurrentTime() VTimeInSec
	Schedule(e Event)
}

// An Engine runs scheduled events in time order. Events scheduled for the
// same time run in the order they were scheduled.
type Engine interface {
	Hookable
	Scheduler

	// Run processes events until none is left or a handler fails.
	Run() error

	// Pause blocks the engine before its next event until Continue is
	// called. The monitor uses it to inspect a running simulation.
	Pause()
	Continue()

	// EventCount returns the number of events handled so far.
	EventCount() uint64
}
