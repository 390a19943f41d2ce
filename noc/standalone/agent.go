// Package standalone provides a testbench agent that drives one router port.
package standalone

import (
	"log"
	"sort"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/topology"
	"github.com/sarchlab/vcnoc/noc/wiring"
	"github.com/sarchlab/vcnoc/sim"
)

// HookPosAgentSend marks when an agent sends a flit. The item is the flit.
var HookPosAgentSend = &sim.HookPos{Name: "agent_send_flit"}

// HookPosAgentRecv marks when an agent receives a flit. The item is the flit.
var HookPosAgentRecv = &sim.HookPos{Name: "agent_recv_flit"}

// An Injection schedules a packet to be sent on a VC of the router once the
// cycle is reached.
type Injection struct {
	Cycle  uint64
	VC     int
	Packet *messaging.Packet
}

// A Stall withdraws the flow control of a VC of the agent during the cycles
// in [Start, End).
type Stall struct {
	VC    int
	Start uint64
	End   uint64
}

// Agent is a two-phase component that plays the neighbor of a router on one
// port. It injects packets flit by flit, honoring the flow control that the
// router reports, and sinks the flits that the router sends.
type Agent struct {
	sim.NamedBase
	sim.HookableBase

	// Node is where the agent sits in the topology. It is the destination
	// of the packets that the agent should sink.
	Node *topology.Node

	port   *wiring.Port
	cycle  uint64
	stalls []Stall

	injections []Injection
	sending    []*messaging.Flit
	sendingVC  int

	Received        []*messaging.Flit
	ReceivedPackets []*messaging.Packet
	NumFlitsSent    uint64
}

// NewAgent creates an agent with numVCs input VCs.
func NewAgent(name string, numVCs int) *Agent {
	a := &Agent{
		NamedBase: sim.MakeNamedBase(name),
	}
	a.port = wiring.NewPort(name+".Port", numVCs)

	return a
}

// Port returns the port of the agent.
func (a *Agent) Port() *wiring.Port {
	return a.port
}

// Inject schedules a packet. Packets are sent in the order of their cycles,
// one at a time.
func (a *Agent) Inject(inj Injection) {
	if inj.Packet == nil {
		log.Panicf("%s: cannot inject a nil packet", a.Name())
	}

	a.injections = append(a.injections, inj)
	sort.SliceStable(a.injections, func(i, j int) bool {
		return a.injections[i].Cycle < a.injections[j].Cycle
	})
}

// AddStall withdraws the flow control of a VC for a cycle window.
func (a *Agent) AddStall(s Stall) {
	if s.VC < 0 || s.VC >= a.port.NumVCs() {
		log.Panicf("%s: cannot stall VC %d, only %d VCs",
			a.Name(), s.VC, a.port.NumVCs())
	}

	a.stalls = append(a.stalls, s)
}

// NumPending returns the number of injected packets that have not started.
func (a *Agent) NumPending() int {
	return len(a.injections)
}

// Idle checks if the agent has nothing left to send.
func (a *Agent) Idle() bool {
	return len(a.injections) == 0 && len(a.sending) == 0
}

// AdvanceRising sends the next flit if the router can take it.
func (a *Agent) AdvanceRising(cycle uint64) {
	a.cycle = cycle

	if !a.port.Connected() {
		return
	}

	a.startNextPacket()

	if len(a.sending) == 0 {
		return
	}

	ready := a.port.In.FlowControl.Read()
	if a.sendingVC >= len(ready) {
		log.Panicf("%s: VC %d does not exist on the other side",
			a.Name(), a.sendingVC)
	}

	if !ready[a.sendingVC] {
		return
	}

	flit := a.sending[0]
	a.sending = a.sending[1:]

	a.port.Out.Valid.Write(true)
	a.port.Out.Data.Write(flit)
	a.port.Out.VC.Write(a.sendingVC)
	a.NumFlitsSent++

	a.invoke(HookPosAgentSend, flit)
}

func (a *Agent) startNextPacket() {
	if len(a.sending) > 0 || len(a.injections) == 0 {
		return
	}

	next := a.injections[0]
	if next.Cycle > a.cycle {
		return
	}

	a.injections = a.injections[1:]
	a.sending = append(a.sending, next.Packet.Flits...)
	a.sendingVC = next.VC
}

// Receive sinks the flit that the router sends in this cycle.
func (a *Agent) Receive(cycle uint64) {
	a.cycle = cycle

	if !a.port.Connected() || !a.port.In.Valid.Read() {
		return
	}

	flit := a.port.In.Data.Read()
	a.Received = append(a.Received, flit)

	if flit.Type == messaging.Tail {
		a.ReceivedPackets = append(a.ReceivedPackets, flit.Packet)
	}

	a.invoke(HookPosAgentRecv, flit)
}

// AdvanceFalling reports the flow control of the agent for the next cycle.
func (a *Agent) AdvanceFalling(cycle uint64) {
	a.cycle = cycle

	a.port.Out.Valid.Write(false)

	numVCs := a.port.NumVCs()
	fc := make([]bool, numVCs)
	empty := make([]bool, numVCs)
	for vc := 0; vc < numVCs; vc++ {
		fc[vc] = !a.stalled(vc, cycle+1)
		empty[vc] = true
	}

	a.port.Out.FlowControl.Write(fc)
	a.port.Out.Empty.Write(empty)
}

func (a *Agent) stalled(vc int, cycle uint64) bool {
	for _, s := range a.stalls {
		if s.VC == vc && cycle >= s.Start && cycle < s.End {
			return true
		}
	}

	return false
}

func (a *Agent) invoke(pos *sim.HookPos, flit *messaging.Flit) {
	if a.NumHooks() == 0 {
		return
	}

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    pos,
		Item:   flit,
		Detail: a.cycle,
	})
}
