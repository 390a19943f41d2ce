// Package acceptance runs random traffic through a router and checks that
// every packet arrives at its destination exactly once.
package acceptance

import (
	"log"
	"math/rand"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/sim"
)

// Test is a test case.
type Test struct {
	bench         *standalone.Testbench
	rng           *rand.Rand
	packets       []*messaging.Packet
	receivedTable map[*messaging.Packet]bool
	agentTraffic  []*messaging.TrafficCounter
	routerTraffic *messaging.TrafficCounter
}

// NewTest creates a new test on a testbench.
func NewTest(bench *standalone.Testbench, seed int64) *Test {
	t := &Test{
		bench:         bench,
		rng:           rand.New(rand.NewSource(seed)),
		receivedTable: make(map[*messaging.Packet]bool),
	}

	for _, a := range bench.Agents {
		a.AcceptHook(t)

		counter := messaging.NewTrafficCounter(standalone.HookPosAgentRecv)
		a.AcceptHook(counter)
		t.agentTraffic = append(t.agentTraffic, counter)
	}

	t.routerTraffic = messaging.NewTrafficCounter(router.HookPosFlitSent)
	bench.Router.AcceptHook(t.routerTraffic)

	return t
}

// GeneratePackets schedules n packets from a random agent to another random
// agent. The packets are injected at random cycles in [0, window) and carry
// 2 to maxFlits flits.
func (t *Test) GeneratePackets(n int, maxFlits int, window uint64) {
	agents := t.bench.Agents

	for i := 0; i < n; i++ {
		src := agents[t.rng.Intn(len(agents))]

		dst := agents[t.rng.Intn(len(agents))]
		for dst == src {
			dst = agents[t.rng.Intn(len(agents))]
		}

		packet := messaging.PacketBuilder{}.
			WithSrc(src.Node).
			WithDst(dst.Node).
			WithNumFlits(2 + t.rng.Intn(maxFlits-1)).
			Build()

		inPort := t.bench.Node.PortOf(src.Node.Connections[0])
		numVCs := t.bench.Router.Port(inPort).NumVCs()

		src.Inject(standalone.Injection{
			Cycle:  uint64(t.rng.Int63n(int64(window))),
			VC:     t.rng.Intn(numVCs),
			Packet: packet,
		})

		t.packets = append(t.packets, packet)
	}
}

// Func checks every packet that an agent receives.
func (t *Test) Func(ctx sim.HookCtx) {
	if ctx.Pos != standalone.HookPosAgentRecv {
		return
	}

	agent := ctx.Domain.(*standalone.Agent)
	flit := ctx.Item.(*messaging.Flit)

	t.packetMustBeReceivedAtItsDestination(flit.Packet, agent)

	if flit.Type == messaging.Tail {
		t.packetMustNotBeReceivedBefore(flit.Packet)
	}
}

func (t *Test) packetMustBeReceivedAtItsDestination(
	packet *messaging.Packet,
	agent *standalone.Agent,
) {
	if packet.Dst != agent.Node {
		log.Panicf("packet %s for %s delivered to %s",
			packet.ID, packet.Dst, agent.Node)
	}
}

func (t *Test) packetMustNotBeReceivedBefore(packet *messaging.Packet) {
	if t.receivedTable[packet] {
		log.Panicf("packet %s is double delivered", packet.ID)
	}

	t.receivedTable[packet] = true
}

// NumPackets returns the number of packets generated.
func (t *Test) NumPackets() int {
	return len(t.packets)
}

// NumReceived returns the number of packets received.
func (t *Test) NumReceived() int {
	return len(t.receivedTable)
}

// MustHaveReceivedAllPackets asserts that all the packets sent are received.
func (t *Test) MustHaveReceivedAllPackets() {
	if len(t.packets) == len(t.receivedTable) {
		return
	}

	for _, p := range t.packets {
		if !t.receivedTable[p] {
			log.Printf("packet %s expected, but not received\n", p.ID)
		}
	}

	panic("some packets are dropped")
}

// ReportBandwidthAchieved dumps the flits per cycle observed by each agent.
func (t *Test) ReportBandwidthAchieved() {
	cycles := float64(t.bench.Clock.Cycle())
	if cycles == 0 {
		return
	}

	for i, a := range t.bench.Agents {
		log.Printf(
			"agent %s, send %.3f flits/cycle, recv %.3f flits/cycle",
			a.Name(),
			float64(a.NumFlitsSent)/cycles,
			float64(t.agentTraffic[i].NumFlits)/cycles)
	}

	log.Printf("total %d flits, %d packets in %d cycles",
		t.routerTraffic.NumFlits, t.routerTraffic.NumPackets, uint64(cycles))
}

// RouterTraffic returns the number of flits and packets that the router sent.
func (t *Test) RouterTraffic() (flits, packets uint64) {
	return t.routerTraffic.NumFlits, t.routerTraffic.NumPackets
}
