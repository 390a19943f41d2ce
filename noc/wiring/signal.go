package wiring

import (
	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/sim"
)

// A Signal holds a value that is written in one phase and becomes readable
// after Update is called. Until the next Update, readers keep seeing the old
// value. A value stays on the signal until it is overwritten.
type Signal[T any] struct {
	name    string
	current T
	next    T
}

// NewSignal creates a signal with an initial value.
func NewSignal[T any](name string, init T) *Signal[T] {
	return &Signal[T]{
		name:    name,
		current: init,
		next:    init,
	}
}

// Name returns the name of the signal.
func (s *Signal[T]) Name() string {
	return s.name
}

// Read returns the committed value.
func (s *Signal[T]) Read() T {
	return s.current
}

// Write sets the value that becomes visible after the next Update. Slices
// and pointers are not copied, writers must not mutate them afterwards.
func (s *Signal[T]) Write(v T) {
	s.next = v
}

// Update commits the written value.
func (s *Signal[T]) Update() {
	s.current = s.next
}

// A SignalGroup is the set of signals that one side of a link drives.
//
// Valid, Data and VC carry a flit to the other side, where VC addresses the
// input buffers of the receiver. FlowControl, Tag and Empty describe the
// input buffers of the driver and are indexed by the driver's VCs.
type SignalGroup struct {
	name string

	Valid       *Signal[bool]
	Data        *Signal[*messaging.Flit]
	VC          *Signal[int]
	FlowControl *Signal[[]bool]
	Tag         *Signal[[]int]
	Empty       *Signal[[]bool]
}

// NewSignalGroup creates the signals driven by a side with numVCs input VCs.
// Flow control starts ready and buffers start empty.
func NewSignalGroup(name string, numVCs int) *SignalGroup {
	fc := make([]bool, numVCs)
	empty := make([]bool, numVCs)
	for i := range fc {
		fc[i] = true
		empty[i] = true
	}

	return &SignalGroup{
		name:        name,
		Valid:       NewSignal(name+".Valid", false),
		Data:        NewSignal[*messaging.Flit](name+".Data", nil),
		VC:          NewSignal(name+".VC", 0),
		FlowControl: NewSignal(name+".FlowControl", fc),
		Tag:         NewSignal(name+".Tag", make([]int, numVCs)),
		Empty:       NewSignal(name+".Empty", empty),
	}
}

// Name returns the name of the group.
func (g *SignalGroup) Name() string {
	return g.name
}

// NumVCs returns the number of VCs that the vector signals describe.
func (g *SignalGroup) NumVCs() int {
	return len(g.FlowControl.Read())
}

// Update commits all the signals in the group.
func (g *SignalGroup) Update() {
	for _, s := range g.committers() {
		s.Update()
	}
}

func (g *SignalGroup) committers() []sim.Committer {
	return []sim.Committer{
		g.Valid, g.Data, g.VC, g.FlowControl, g.Tag, g.Empty,
	}
}
