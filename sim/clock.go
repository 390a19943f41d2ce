package sim

import "log"

// Edge identifies one of the two phases of a clock cycle.
type Edge int

// The two edges of a cycle.
const (
	RisingEdge Edge = iota
	FallingEdge
)

func (e Edge) String() string {
	switch e {
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	default:
		return "unknown"
	}
}

// EdgeEvent triggers one edge of a clock.
type EdgeEvent struct {
	*EventBase
	Edge  Edge
	Cycle uint64
}

// NewEdgeEvent creates a new EdgeEvent.
func NewEdgeEvent(
	t VTimeInSec,
	handler Handler,
	edge Edge,
	cycle uint64,
) *EdgeEvent {
	return &EdgeEvent{
		EventBase: NewEventBase(t, handler),
		Edge:      edge,
		Cycle:     cycle,
	}
}

// A TwoPhaseComponent is updated on both edges of a clock.
//
// On the rising edge, the clock first calls AdvanceRising on every
// component. After the signals written during AdvanceRising become visible,
// the clock calls Receive on every component so that they can latch what
// their neighbors sent in the same cycle. On the falling edge, the clock
// calls AdvanceFalling on every component.
type TwoPhaseComponent interface {
	Named

	AdvanceRising(cycle uint64)
	Receive(cycle uint64)
	AdvanceFalling(cycle uint64)
}

// A Committer holds written values that only become readable after Update is
// called.
type Committer interface {
	Update()
}

// HookPosCycleEnd is triggered after the falling edge of every cycle. The
// item is the cycle number.
var HookPosCycleEnd = &HookPos{Name: "CycleEnd"}

// Clock drives a group of TwoPhaseComponents and the signals connecting them.
type Clock struct {
	NamedBase
	HookableBase

	engine     Scheduler
	freq       Freq
	components []TwoPhaseComponent
	signals    []Committer

	maxCycles uint64
	cycle     uint64
	started   bool
	stopped   bool
}

// NewClock creates a new clock that schedules its edges on the engine.
func NewClock(name string, engine Scheduler, freq Freq) *Clock {
	if engine == nil {
		log.Panicf("%s: engine cannot be nil", name)
	}

	c := &Clock{
		NamedBase: MakeNamedBase(name),
		engine:    engine,
		freq:      freq,
	}

	return c
}

// Freq returns the frequency of the clock.
func (c *Clock) Freq() Freq {
	return c.freq
}

// Register adds components driven by the clock. Components are advanced in
// registration order.
func (c *Clock) Register(comps ...TwoPhaseComponent) {
	c.components = append(c.components, comps...)
}

// RegisterSignal adds signals that are committed after each edge.
func (c *Clock) RegisterSignal(signals ...Committer) {
	c.signals = append(c.signals, signals...)
}

// Components returns the components driven by the clock.
func (c *Clock) Components() []TwoPhaseComponent {
	return c.components
}

// SetMaxCycles limits the number of cycles that the clock runs. Zero means
// the clock runs until stopped.
func (c *Clock) SetMaxCycles(n uint64) {
	c.maxCycles = n
}

// Cycle returns the number of completed cycles.
func (c *Clock) Cycle() uint64 {
	return c.cycle
}

// Start schedules the first rising edge no earlier than now.
func (c *Clock) Start(now VTimeInSec) {
	if c.started {
		return
	}

	c.started = true
	c.stopped = false
	c.engine.Schedule(
		NewEdgeEvent(c.freq.RisingAt(now), c, RisingEdge, c.cycle))
}

// Stop prevents the clock from scheduling more edges. The cycle that is in
// progress is still completed.
func (c *Clock) Stop() {
	c.stopped = true
}

// Handle processes the clock edges.
func (c *Clock) Handle(e Event) error {
	evt, ok := e.(*EdgeEvent)
	if !ok {
		log.Panicf("%s: cannot handle event of type %T", c.Name(), e)
	}

	switch evt.Edge {
	case RisingEdge:
		c.rising(evt)
	case FallingEdge:
		c.falling(evt)
	}

	return nil
}

func (c *Clock) rising(evt *EdgeEvent) {
	for _, comp := range c.components {
		comp.AdvanceRising(evt.Cycle)
	}

	c.commit()

	for _, comp := range c.components {
		comp.Receive(evt.Cycle)
	}

	c.engine.Schedule(NewEdgeEvent(
		c.freq.FallingOf(evt.Time()), c, FallingEdge, evt.Cycle))
}

func (c *Clock) falling(evt *EdgeEvent) {
	for _, comp := range c.components {
		comp.AdvanceFalling(evt.Cycle)
	}

	c.commit()

	c.cycle = evt.Cycle + 1
	c.InvokeHook(HookCtx{
		Domain: c,
		Pos:    HookPosCycleEnd,
		Item:   evt.Cycle,
	})

	if c.stopped || (c.maxCycles > 0 && c.cycle >= c.maxCycles) {
		c.started = false
		return
	}

	c.engine.Schedule(NewEdgeEvent(
		c.freq.RisingAfter(evt.Time()), c, RisingEdge, c.cycle))
}

func (c *Clock) commit() {
	for _, s := range c.signals {
		s.Update()
	}
}
