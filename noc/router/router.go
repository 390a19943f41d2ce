// Package router provides a virtual channel router.
package router

import (
	"fmt"
	"log"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/noc/topology"
	"github.com/sarchlab/vcnoc/noc/wiring"
	"github.com/sarchlab/vcnoc/sim"
	"github.com/sarchlab/vcnoc/sim/queueing"
)

type arbitratedFlit struct {
	flit *messaging.Flit
	in   routing.Channel
}

// Comp is a virtual channel router placed on a topology node. Port i of the
// router serves the i-th connection of the node. Each port has one input
// buffer per VC.
//
// The router is advanced by a clock. On the rising edge, it sends the flits
// that won the last arbitration, arbitrates the flits routed in the last
// cycle, and routes the flits at the front of the buffers. It receives flits
// after the rising edge signals settle. On the falling edge, it updates the
// congestion metrics and reports flow control to the upstream neighbors.
type Comp struct {
	sim.NamedBase
	sim.HookableBase

	node      *topology.Node
	ports     []*wiring.Port
	buffers   [][]queueing.Buffer[*messaging.Flit]
	routing   routing.Routing
	selection routing.Selection
	arbiter   Arbiter
	stats     *Statistics

	flowControlThreshold int

	info          *routing.Information
	packets       *packetArena
	routedPackets map[packetKey]struct{}
	routedFlits   [][]*messaging.Flit
	arbitrated    []arbitratedFlit
	pkgcnt        [][]int

	rrDirOff      int
	crossbarCount int
	cycle         uint64
}

// Node returns the node that the router is placed on.
func (c *Comp) Node() *topology.Node {
	return c.node
}

// NumPorts returns the number of ports of the router.
func (c *Comp) NumPorts() int {
	return len(c.ports)
}

// Port returns the port that serves the given connection index.
func (c *Comp) Port(dir int) *wiring.Port {
	return c.ports[dir]
}

// Buffer returns the input buffer of a channel.
func (c *Comp) Buffer(dir, vc int) queueing.Buffer[*messaging.Flit] {
	return c.buffers[dir][vc]
}

// Buffers lists all the input buffers.
func (c *Comp) Buffers() []queueing.Buffer[*messaging.Flit] {
	var bufs []queueing.Buffer[*messaging.Flit]
	for _, perDir := range c.buffers {
		bufs = append(bufs, perDir...)
	}

	return bufs
}

// Gauges lists all the input buffers as gauges.
func (c *Comp) Gauges() []queueing.Gauge {
	var gauges []queueing.Gauge
	for _, b := range c.Buffers() {
		gauges = append(gauges, b)
	}

	return gauges
}

// Routing returns the routing algorithm of the router.
func (c *Comp) Routing() routing.Routing {
	return c.routing
}

// Info returns the routing state of the router.
func (c *Comp) Info() *routing.Information {
	return c.info
}

// Stats returns the counters that the router updates.
func (c *Comp) Stats() *Statistics {
	return c.stats
}

// Arbiter returns the crossbar arbiter.
func (c *Comp) Arbiter() Arbiter {
	return c.arbiter
}

// PacketInformation returns the routing state of a packet that entered
// through an input channel.
func (c *Comp) PacketInformation(
	packetID string,
	in routing.Channel,
) (*routing.PacketInformation, bool) {
	return c.packets.Lookup(packetKey{packetID: packetID, in: in})
}

// NumTrackedPackets returns the number of packets that have routing state in
// the router.
func (c *Comp) NumTrackedPackets() int {
	return c.packets.Len()
}

// InFlightPackets returns the number of packets that entered through a
// channel and have not left.
func (c *Comp) InFlightPackets(dir, vc int) int {
	return c.pkgcnt[dir][vc]
}

// HoldingFlit returns the flit that waits for arbitration on a channel.
func (c *Comp) HoldingFlit(dir, vc int) *messaging.Flit {
	return c.routedFlits[dir][vc]
}

// CrossbarCount returns the number of output directions used in the last
// arbitration.
func (c *Comp) CrossbarCount() int {
	return c.crossbarCount
}

// AdvanceRising runs the rising edge of a cycle.
func (c *Comp) AdvanceRising(cycle uint64) {
	c.cycle = cycle

	c.readControl()
	c.routing.BeginCycle(c.info)
	c.send()
	c.arbiter.Arbitrate(c)
	c.route()
}

// Receive latches the flits that the upstream neighbors sent in this cycle.
func (c *Comp) Receive(cycle uint64) {
	c.cycle = cycle

	for dir, port := range c.ports {
		if !port.Connected() || !port.In.Valid.Read() {
			continue
		}

		flit := port.In.Data.Read()
		vc := port.In.VC.Read()
		c.receiveFlit(dir, vc, flit)
	}
}

// AdvanceFalling runs the falling edge of a cycle.
func (c *Comp) AdvanceFalling(cycle uint64) {
	c.cycle = cycle

	for _, port := range c.ports {
		port.Out.Valid.Write(false)
	}

	c.updateCongestion()
	c.routing.EndCycle(c.info)
	c.writeControl()
}

func (c *Comp) readControl() {
	for dir, port := range c.ports {
		if !port.Connected() {
			continue
		}

		fc := port.In.FlowControl.Read()
		tag := port.In.Tag.Read()
		empty := port.In.Empty.Read()

		for vc := range fc {
			ch := routing.Channel{Dir: dir, VC: vc}
			c.info.FlowIn[ch] = fc[vc]
			c.info.TagIn[ch] = tag[vc]
			c.info.EmptyIn[ch] = empty[vc]
		}
	}
}

func (c *Comp) writeControl() {
	for dir, port := range c.ports {
		numVCs := len(c.buffers[dir])
		fc := make([]bool, numVCs)
		tag := make([]int, numVCs)
		empty := make([]bool, numVCs)

		for vc, buf := range c.buffers[dir] {
			fc[vc] = buf.Free() >= c.flowControlThreshold
			tag[vc] = c.info.TagOut[routing.Channel{Dir: dir, VC: vc}]
			empty[vc] = buf.Empty()
		}

		port.Out.FlowControl.Write(fc)
		port.Out.Tag.Write(tag)
		port.Out.Empty.Write(empty)
	}
}

func (c *Comp) updateCongestion() {
	for dir, perDir := range c.buffers {
		end := c.node.End(dir)
		depth := float64(end.BufferDepth)

		end.BufferUtilization = 0
		end.BufferCongestion = 0

		for vc, buf := range perDir {
			occupied := buf.Occupied()
			congestion := float64(occupied) / depth

			end.VCBufferUtilization[vc] = occupied
			end.VCBufferCongestion[vc] = congestion
			end.BufferUtilization += occupied
			end.BufferCongestion += congestion
		}

		end.BufferCongestion /= float64(len(perDir))
	}

	c.node.Congestion = float64(c.crossbarCount) / float64(len(c.ports))
}

func (c *Comp) receiveFlit(dir, vc int, flit *messaging.Flit) {
	if dir < 0 || dir >= len(c.buffers) || vc < 0 || vc >= len(c.buffers[dir]) {
		log.Panicf("%s: flit %s arrives at nonexistent channel (%d,%d)",
			c.Name(), flit, dir, vc)
	}

	in := routing.Channel{Dir: dir, VC: vc}
	buf := c.buffers[dir][vc]

	c.stats.FlitsReceived.Add(1)
	c.invoke(HookPosFlitReceived, flit, in, routing.InvalidChannel)

	if flit.Type == messaging.Head {
		c.info.TagOut[in] = flit.Packet.Class
	}

	if !buf.Enqueue(flit) {
		c.stats.BufferOverflows.Add(1)
		c.invoke(HookPosBufferOverflow, flit, in, routing.InvalidChannel)

		return
	}

	if flit.Type != messaging.Head {
		return
	}

	key := c.keyOf(flit, in)
	pInfo := routing.NewPacketInformation(flit.Packet, in)
	if _, ok := c.packets.Insert(key, pInfo); !ok {
		log.Panicf("%s: packet cycle, %s is already tracked at %s",
			c.Name(), flit.Packet.ID, in)
	}

	c.pkgcnt[dir][vc]++
}

func (c *Comp) route() {
	for dir, perDir := range c.buffers {
		for vc, buf := range perDir {
			flit, ok := buf.Front()
			if !ok {
				continue
			}

			in := routing.Channel{Dir: dir, VC: vc}
			key := c.keyOf(flit, in)

			if _, routed := c.routedPackets[key]; !routed {
				if flit.Type != messaging.Head {
					c.discardOrphan(buf, flit, in)
					continue
				}

				c.routeHead(flit, in, key)
			}

			if c.routedFlits[dir][vc] == nil {
				buf.Dequeue()
				c.routedFlits[dir][vc] = flit
			}
		}
	}
}

func (c *Comp) routeHead(
	flit *messaging.Flit,
	in routing.Channel,
	key packetKey,
) {
	pInfo := c.mustFindPacketInformation(flit, in)

	c.routing.Route(c.info, pInfo)
	if len(pInfo.RoutedChannels) == 0 {
		pInfo.DropFlag = true
		c.stats.RouteFailures.Add(1)
		c.invoke(HookPosRouteFail, flit, in, routing.InvalidChannel)
	}

	c.selection.Select(c.info, pInfo)
	if len(pInfo.SelectedChannels) == 0 {
		pInfo.DropFlag = true
		c.stats.SelectFailures.Add(1)
		c.invoke(HookPosSelectFail, flit, in, routing.InvalidChannel)
	}

	c.routedPackets[key] = struct{}{}
	flit.Packet.RecordHop(c.node.ID)
}

// discardOrphan removes a body or tail flit whose head never made it into
// the router.
func (c *Comp) discardOrphan(
	buf queueing.Buffer[*messaging.Flit],
	flit *messaging.Flit,
	in routing.Channel,
) {
	buf.Dequeue()
	c.stats.ProtocolViolations.Add(1)
	c.invoke(HookPosProtocolViolation, flit, in, routing.InvalidChannel)
}

// decide finalizes the output channel of a head flit. It returns false if
// the flit should not be arbitrated in this cycle.
func (c *Comp) decide(
	flit *messaging.Flit,
	in routing.Channel,
	pInfo *routing.PacketInformation,
) bool {
	c.routing.MakeDecision(c.info, pInfo)
	if pInfo.DropFlag {
		c.stats.DecisionFailures.Add(1)
		c.invoke(HookPosDecisionFail, flit, in, routing.InvalidChannel)
	}

	if pInfo.RerouteFlag {
		pInfo.RerouteFlag = false
		c.stats.Reroutes.Add(1)
		c.invoke(HookPosReroute, flit, in, routing.InvalidChannel)

		c.routing.Route(c.info, pInfo)
		c.selection.Select(c.info, pInfo)

		if len(pInfo.SelectedChannels) > 0 {
			return false
		}

		pInfo.DropFlag = true
		c.stats.RerouteFailures.Add(1)
		c.invoke(HookPosRerouteFail, flit, in, routing.InvalidChannel)

		return true
	}

	if pInfo.DelayFlag {
		log.Panicf("%s: delay requested for %s at %s, delaying is not supported",
			c.Name(), flit, in)
	}

	return true
}

// drop releases the holding slot of a dropped packet's flit. The packet is
// released when its tail is dropped.
func (c *Comp) drop(
	flit *messaging.Flit,
	in routing.Channel,
) {
	if flit.Type == messaging.Tail {
		key := c.keyOf(flit, in)
		pInfo := c.mustFindPacketInformation(flit, in)

		c.invoke(HookPosPacketDropped, flit.Packet, in, routing.InvalidChannel)
		c.arbiter.Release(c, pInfo)
		delete(c.routedPackets, key)
		c.packets.Remove(key)
		c.pkgcnt[in.Dir][in.VC]--
		c.stats.DroppedPackets.Add(1)
	}

	c.routedFlits[in.Dir][in.VC] = nil
}

func (c *Comp) outputChannelMustBeValid(
	flit *messaging.Flit,
	pInfo *routing.PacketInformation,
) routing.Channel {
	out := pInfo.OutputChannel
	if !out.Valid() || out.Dir >= len(c.ports) ||
		out.VC >= c.node.Connections[out.Dir].Peer(c.node).VCCount {
		c.invoke(HookPosRouteFail, flit, pInfo.InputChannel, out)
		log.Panicf("%s: failed decision, %s at %s has output channel %s",
			c.Name(), flit, pInfo.InputChannel, out)
	}

	return out
}

func (c *Comp) downstreamReady(
	flit *messaging.Flit,
	in, out routing.Channel,
) bool {
	if c.info.FlowIn[out] {
		return true
	}

	c.stats.FlowControlStalls.Add(1)
	c.invoke(HookPosFlowControlStall, flit, in, out)

	return false
}

// win moves a flit from its holding slot to the list of flits to send.
func (c *Comp) win(flit *messaging.Flit, in routing.Channel) {
	c.arbitrated = append(c.arbitrated, arbitratedFlit{flit: flit, in: in})
	c.routedFlits[in.Dir][in.VC] = nil
}

func (c *Comp) send() {
	for _, a := range c.arbitrated {
		flit := a.flit
		key := c.keyOf(flit, a.in)
		pInfo := c.mustFindPacketInformation(flit, a.in)
		out := pInfo.OutputChannel

		port := c.ports[out.Dir]
		port.Out.Valid.Write(true)
		port.Out.Data.Write(flit)
		port.Out.VC.Write(out.VC)

		c.stats.FlitsSent.Add(1)
		c.invoke(HookPosFlitSent, flit, a.in, out)

		if flit.Type == messaging.Tail {
			delete(c.routedPackets, key)
			c.arbiter.Release(c, pInfo)
			c.packets.Remove(key)
			c.pkgcnt[a.in.Dir][a.in.VC]--
			c.stats.PacketsSent.Add(1)
		}
	}

	c.arbitrated = c.arbitrated[:0]
}

func (c *Comp) keyOf(flit *messaging.Flit, in routing.Channel) packetKey {
	return packetKey{packetID: flit.Packet.ID, in: in}
}

func (c *Comp) mustFindPacketInformation(
	flit *messaging.Flit,
	in routing.Channel,
) *routing.PacketInformation {
	pInfo, ok := c.packets.Lookup(c.keyOf(flit, in))
	if !ok {
		log.Panicf("%s: no routing state for %s at %s", c.Name(), flit, in)
	}

	return pInfo
}

func (c *Comp) numDirs() int {
	return len(c.buffers)
}

func (c *Comp) String() string {
	return fmt.Sprintf("%s@%s", c.Name(), c.node)
}
