package router

import (
	"fmt"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/noc/topology"
	"github.com/sarchlab/vcnoc/noc/wiring"
	"github.com/sarchlab/vcnoc/sim"
	"github.com/sarchlab/vcnoc/sim/queueing"
)

// Builder can help building routers.
type Builder struct {
	node                 *topology.Node
	routingName          string
	selectionName        string
	arbiterName          string
	routing              routing.Routing
	selection            routing.Selection
	stats                *Statistics
	flowControlThreshold int
	reservedSlots        int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		routingName:          routing.RoutingXYZ,
		selectionName:        routing.SelectionRoundRobin,
		arbiterName:          ArbiterRRVC,
		flowControlThreshold: 2,
		reservedSlots:        1,
	}
}

// WithNode sets the node that the router is placed on. The connections of
// the node must be made before building the router.
func (b Builder) WithNode(node *topology.Node) Builder {
	b.node = node
	return b
}

// WithRouting sets the routing algorithm by name.
func (b Builder) WithRouting(name string) Builder {
	b.routingName = name
	return b
}

// WithSelection sets the selection algorithm by name.
func (b Builder) WithSelection(name string) Builder {
	b.selectionName = name
	return b
}

// WithRoutingStrategy sets the routing algorithm directly. It takes
// precedence over WithRouting.
func (b Builder) WithRoutingStrategy(r routing.Routing) Builder {
	b.routing = r
	return b
}

// WithSelectionStrategy sets the selection algorithm directly. It takes
// precedence over WithSelection.
func (b Builder) WithSelectionStrategy(s routing.Selection) Builder {
	b.selection = s
	return b
}

// WithArbiter sets the arbiter by name.
func (b Builder) WithArbiter(name string) Builder {
	b.arbiterName = name
	return b
}

// WithStatistics sets the counters that the router updates. Routers that
// share the counters report the sum.
func (b Builder) WithStatistics(stats *Statistics) Builder {
	b.stats = stats
	return b
}

// WithFlowControlThreshold sets the number of free slots that an input
// buffer needs to accept more flits from upstream.
func (b Builder) WithFlowControlThreshold(n int) Builder {
	b.flowControlThreshold = n
	return b
}

// WithReservedSlots sets the number of slots of each input buffer that are
// not used to hold flits.
func (b Builder) WithReservedSlots(n int) Builder {
	b.reservedSlots = n
	return b
}

// Build creates a new router.
func (b Builder) Build(name string) *Comp {
	b.nodeMustBeGiven()
	b.thresholdMustBePositive()

	c := &Comp{
		NamedBase:            sim.MakeNamedBase(name),
		node:                 b.node,
		stats:                b.stats,
		flowControlThreshold: b.flowControlThreshold,
		info:                 routing.NewInformation(b.node),
		packets:              newPacketArena(),
		routedPackets:        make(map[packetKey]struct{}),
	}

	if c.stats == nil {
		c.stats = NewStatistics()
	}

	c.routing = b.buildRouting()
	c.selection = b.buildSelection()
	c.arbiter = b.buildArbiter()

	b.buildPorts(c)

	return c
}

func (b Builder) buildRouting() routing.Routing {
	if b.routing != nil {
		return b.routing
	}

	r, err := routing.NewRouting(b.routingName, b.node)
	if err != nil {
		panic(err)
	}

	return r
}

func (b Builder) buildSelection() routing.Selection {
	if b.selection != nil {
		return b.selection
	}

	s, err := routing.NewSelection(b.selectionName, b.node)
	if err != nil {
		panic(err)
	}

	return s
}

func (b Builder) buildArbiter() Arbiter {
	a, err := NewArbiter(b.arbiterName)
	if err != nil {
		panic(err)
	}

	return a
}

func (b Builder) buildPorts(c *Comp) {
	n := b.node.NumPorts()

	c.ports = make([]*wiring.Port, n)
	c.buffers = make([][]queueing.Buffer[*messaging.Flit], n)
	c.routedFlits = make([][]*messaging.Flit, n)
	c.pkgcnt = make([][]int, n)

	for dir := 0; dir < n; dir++ {
		end := b.node.End(dir)
		dirName := b.node.PortToDir(dir).String()
		capacity := end.BufferDepth - b.reservedSlots

		if capacity <= 0 {
			panic(fmt.Sprintf(
				"%s: buffer depth %d of port %s leaves no room after %d reserved slots",
				c.Name(), end.BufferDepth, dirName, b.reservedSlots))
		}

		c.ports[dir] = wiring.NewPort(
			fmt.Sprintf("%s.Port[%s]", c.Name(), dirName), end.VCCount)

		c.buffers[dir] = make([]queueing.Buffer[*messaging.Flit], end.VCCount)
		for vc := 0; vc < end.VCCount; vc++ {
			c.buffers[dir][vc] = queueing.NewBuffer[*messaging.Flit](
				fmt.Sprintf("%s.Buf[%s][%d]", c.Name(), dirName, vc), capacity)
		}

		c.routedFlits[dir] = make([]*messaging.Flit, end.VCCount)
		c.pkgcnt[dir] = make([]int, end.VCCount)
	}
}

func (b Builder) nodeMustBeGiven() {
	if b.node == nil {
		panic("router requires a node to be placed on")
	}

	if b.node.NumPorts() == 0 {
		panic(fmt.Sprintf("router on %s requires at least one connection",
			b.node))
	}
}

func (b Builder) thresholdMustBePositive() {
	if b.flowControlThreshold <= 0 {
		panic("router flow control threshold must be positive")
	}
}
