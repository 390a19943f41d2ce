package standalone

import (
	"fmt"

	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/topology"
	"github.com/sarchlab/vcnoc/noc/wiring"
	"github.com/sarchlab/vcnoc/sim"
)

// A PortSpec describes one connection of the router under test. VCCount and
// BufferDepth describe the input buffers of the router. PeerVCCount is the
// number of input VCs of the agent on the other side.
type PortSpec struct {
	Dir         topology.Direction
	VCCount     int
	BufferDepth int
	PeerVCCount int
}

// TestbenchBuilder can build testbenches.
type TestbenchBuilder struct {
	engine        sim.Engine
	freq          sim.Freq
	pos           topology.Vec3
	ports         []PortSpec
	routerBuilder router.Builder
}

// MakeTestbenchBuilder creates a builder with a 1 GHz clock and the default
// router parameters.
func MakeTestbenchBuilder() TestbenchBuilder {
	return TestbenchBuilder{
		freq:          1 * sim.GHz,
		routerBuilder: router.MakeBuilder(),
	}
}

// WithEngine sets the engine that the clock schedules its edges on.
func (b TestbenchBuilder) WithEngine(engine sim.Engine) TestbenchBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the clock.
func (b TestbenchBuilder) WithFreq(freq sim.Freq) TestbenchBuilder {
	b.freq = freq
	return b
}

// WithPosition sets the position of the router node.
func (b TestbenchBuilder) WithPosition(pos topology.Vec3) TestbenchBuilder {
	b.pos = pos
	return b
}

// WithPort adds a connection. Ports are numbered in the order they are
// added.
func (b TestbenchBuilder) WithPort(spec PortSpec) TestbenchBuilder {
	b.ports = append(append([]PortSpec(nil), b.ports...), spec)
	return b
}

// WithRouterBuilder sets how the router is built. The node is set by the
// testbench.
func (b TestbenchBuilder) WithRouterBuilder(rb router.Builder) TestbenchBuilder {
	b.routerBuilder = rb
	return b
}

// Build creates the router, one agent per port and the clock.
func (b TestbenchBuilder) Build(name string) *Testbench {
	b.portsMustBeGiven()

	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	t := &Testbench{
		Engine: engine,
		Clock:  sim.NewClock(name+".Clock", engine, b.freq),
		Node:   topology.NewNode(0, b.pos),
	}

	for i, spec := range b.ports {
		peer := topology.NewNode(i+1, b.peerPosition(spec.Dir))
		topology.Connect(i,
			topology.ConnectionEnd{
				Node:        t.Node,
				Dir:         spec.Dir,
				VCCount:     spec.VCCount,
				BufferDepth: spec.BufferDepth,
			},
			topology.ConnectionEnd{
				Node:        peer,
				Dir:         spec.Dir.Opposite(),
				VCCount:     spec.PeerVCCount,
				BufferDepth: spec.BufferDepth,
			})
	}

	t.Router = b.routerBuilder.WithNode(t.Node).Build(name + ".Router")
	t.Clock.Register(t.Router)

	for i, spec := range b.ports {
		agent := NewAgent(
			fmt.Sprintf("%s.Agent[%s]", name, spec.Dir), spec.PeerVCCount)
		agent.Node = t.Node.Connections[i].Peer(t.Node).Node

		w := wiring.ConnectWithWire(t.Router.Port(i), agent.Port())

		t.Agents = append(t.Agents, agent)
		t.Wires = append(t.Wires, w)
		t.Clock.Register(agent)
		t.Clock.RegisterSignal(w)
	}

	return t
}

// peerPosition places the neighbor one hop away in the direction. The local
// neighbor shares the position of the router.
func (b TestbenchBuilder) peerPosition(d topology.Direction) topology.Vec3 {
	p := b.pos

	switch d {
	case topology.East:
		p.X++
	case topology.West:
		p.X--
	case topology.North:
		p.Y++
	case topology.South:
		p.Y--
	case topology.Up:
		p.Z++
	case topology.Down:
		p.Z--
	}

	return p
}

func (b TestbenchBuilder) portsMustBeGiven() {
	if len(b.ports) == 0 {
		panic("testbench requires at least one port")
	}
}

// A Testbench is a router surrounded by agents, one on each port.
type Testbench struct {
	Engine sim.Engine
	Clock  *sim.Clock
	Node   *topology.Node
	Router *router.Comp
	Agents []*Agent
	Wires  []*wiring.Wire
}

// Agent returns the agent in a direction.
func (t *Testbench) Agent(d topology.Direction) *Agent {
	port, ok := t.Node.DirToPort(d)
	if !ok {
		panic(fmt.Sprintf("testbench has no port in direction %s", d))
	}

	return t.Agents[port]
}

// Drained checks if every injected packet has left the router.
func (t *Testbench) Drained() bool {
	for _, a := range t.Agents {
		if !a.Idle() {
			return false
		}
	}

	if t.Router.NumTrackedPackets() > 0 {
		return false
	}

	for _, buf := range t.Router.Buffers() {
		if !buf.Empty() {
			return false
		}
	}

	for dir := 0; dir < t.Router.NumPorts(); dir++ {
		for vc := 0; vc < t.Router.Port(dir).NumVCs(); vc++ {
			if t.Router.HoldingFlit(dir, vc) != nil {
				return false
			}
		}
	}

	return true
}

// StopWhenDrained makes the clock stop at the end of the first cycle in
// which the testbench is drained.
func (t *Testbench) StopWhenDrained() {
	t.Clock.AcceptHook(drainWatcher{t: t})
}

type drainWatcher struct {
	t *Testbench
}

func (w drainWatcher) Func(ctx sim.HookCtx) {
	if ctx.Pos == sim.HookPosCycleEnd && w.t.Drained() {
		w.t.Clock.Stop()
	}
}

// Run runs the clock for at most maxCycles cycles. Zero means no limit.
func (t *Testbench) Run(maxCycles uint64) error {
	t.Clock.SetMaxCycles(maxCycles)
	t.Clock.Start(t.Engine.CurrentTime())

	return t.Engine.Run()
}
