package messaging

import (
	"github.com/sarchlab/vcnoc/sim"
)

// A TrafficCounter counts the flits and packets that pass a hook position.
// A packet is counted when its tail flit passes.
type TrafficCounter struct {
	Pos        *sim.HookPos
	NumFlits   uint64
	NumPackets uint64
}

// NewTrafficCounter creates a counter that listens to the given position.
func NewTrafficCounter(pos *sim.HookPos) *TrafficCounter {
	return &TrafficCounter{Pos: pos}
}

// Func adds the flit to the counter
func (c *TrafficCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != c.Pos {
		return
	}

	flit, ok := ctx.Item.(*Flit)
	if !ok {
		return
	}

	c.NumFlits++
	if flit.Type == Tail {
		c.NumPackets++
	}
}
