package sim

// VTimeInSec is a time in the simulated world, in seconds.
type VTimeInSec float64

// An Event happens at a time and is processed by its handler.
type Event interface {
	Time() VTimeInSec
	Handler() Handler
}

// A Handler processes the events scheduled for it. An event only changes the
// state of its own handler.
type Handler interface {
	Handle(e Event) error
}

// HandlerFunc turns a function into a Handler.
type HandlerFunc func(e Event) error

// Handle calls f.
func (f HandlerFunc) Handle(e Event) error {
	return f(e)
}

// EventBase carries the time and the handler of an event.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates an EventBase with a fresh ID.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}
