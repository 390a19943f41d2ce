package router

import (
	"fmt"
	"sort"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/routing"
)

// The names of the arbiters.
const (
	ArbiterRRVC = "rrVC"
	ArbiterFair = "fair"
)

// An Arbiter decides which routed flits cross the crossbar in a cycle. Every
// output direction accepts at most one flit per cycle.
type Arbiter interface {
	Name() string

	// Arbitrate moves the winning flits of the router from their holding
	// slots to the send list.
	Arbitrate(c *Comp)

	// Release frees the output channel held by a packet after its tail has
	// been sent or dropped.
	Release(c *Comp, pInfo *routing.PacketInformation)
}

// NewArbiter creates an arbiter by name.
func NewArbiter(name string) (Arbiter, error) {
	switch name {
	case ArbiterRRVC:
		return &rrVCArbiter{}, nil
	case ArbiterFair:
		return &fairArbiter{currentVCs: make(map[int]int)}, nil
	default:
		return nil, fmt.Errorf("unknown arbiter %q", name)
	}
}

// rrVCArbiter visits the input directions round robin, starting one
// direction later every cycle. An output channel is held by the packet whose
// head claimed it first until its tail is sent.
type rrVCArbiter struct{}

func (a *rrVCArbiter) Name() string {
	return ArbiterRRVC
}

func (a *rrVCArbiter) Arbitrate(c *Comp) {
	n := c.numDirs()
	served := make([]bool, n)
	count := 0

	for i := 0; i < n; i++ {
		dir := (c.rrDirOff + i) % n

		for vc, flit := range c.routedFlits[dir] {
			if flit == nil {
				continue
			}

			in := routing.Channel{Dir: dir, VC: vc}
			if a.arbitrateFlit(c, flit, in, served) {
				count++
			}
		}
	}

	c.rrDirOff = (c.rrDirOff + 1) % n
	c.crossbarCount = count
}

func (a *rrVCArbiter) arbitrateFlit(
	c *Comp,
	flit *messaging.Flit,
	in routing.Channel,
	served []bool,
) bool {
	pInfo := c.mustFindPacketInformation(flit, in)

	if flit.Type == messaging.Head && !c.decide(flit, in, pInfo) {
		return false
	}

	if pInfo.DropFlag {
		c.drop(flit, in)
		return false
	}

	out := c.outputChannelMustBeValid(flit, pInfo)

	if !c.downstreamReady(flit, in, out) {
		return false
	}

	if served[out.Dir] {
		return false
	}

	if flit.Type == messaging.Head && !c.info.Occupied(out) {
		c.info.OccupyTable[out] = flit.Packet
		c.invoke(HookPosChannelAssigned, flit, in, out)
	}

	if c.info.OccupyTable[out] != flit.Packet {
		return false
	}

	c.win(flit, in)
	served[out.Dir] = true

	return true
}

func (a *rrVCArbiter) Release(c *Comp, pInfo *routing.PacketInformation) {
	out := pInfo.OutputChannel
	if c.info.OccupyTable[out] == pInfo.Packet {
		delete(c.info.OccupyTable, out)
	}
}

// fairArbiter lets the heads register as claimants of their output channels
// first. Then each output direction serves one of its claimed VCs, rotating
// over the claimed VCs from cycle to cycle.
type fairArbiter struct {
	currentVCs map[int]int
}

func (a *fairArbiter) Name() string {
	return ArbiterFair
}

func (a *fairArbiter) Arbitrate(c *Comp) {
	a.registerClaims(c)

	n := c.numDirs()
	count := 0

	for i := 0; i < n; i++ {
		dir := (c.rrDirOff + i) % n
		vc := a.nextAvailableVC(c, dir)
		a.currentVCs[dir] = vc

		out := routing.Channel{Dir: dir, VC: vc}
		in, claimed := c.info.FairOccupyTable[out]
		if !claimed {
			continue
		}

		flit := c.routedFlits[in.Dir][in.VC]
		if flit == nil {
			continue
		}

		pInfo := c.mustFindPacketInformation(flit, in)
		if pInfo.OutputChannel != out {
			continue
		}

		if !c.downstreamReady(flit, in, out) {
			continue
		}

		c.win(flit, in)
		count++
	}

	c.rrDirOff = (c.rrDirOff + 1) % n
	c.crossbarCount = count
}

func (a *fairArbiter) registerClaims(c *Comp) {
	n := c.numDirs()

	for i := 0; i < n; i++ {
		dir := (c.rrDirOff + i) % n

		for vc, flit := range c.routedFlits[dir] {
			if flit == nil {
				continue
			}

			in := routing.Channel{Dir: dir, VC: vc}
			pInfo := c.mustFindPacketInformation(flit, in)

			if flit.Type == messaging.Head && !c.decide(flit, in, pInfo) {
				a.withdrawClaims(c, in, routing.InvalidChannel)
				continue
			}

			if pInfo.DropFlag {
				a.withdrawClaims(c, in, routing.InvalidChannel)
				c.drop(flit, in)
				continue
			}

			if flit.Type != messaging.Head {
				continue
			}

			out := c.outputChannelMustBeValid(flit, pInfo)
			a.withdrawClaims(c, in, out)

			if _, claimed := c.info.FairOccupyTable[out]; claimed {
				continue
			}

			c.info.FairOccupyTable[out] = in
			c.invoke(HookPosChannelAssigned, flit, in, out)
		}
	}
}

// nextAvailableVC picks the claimed VC of an output direction that comes
// after the one served last. It returns VC 0 if no VC is claimed.
func (a *fairArbiter) nextAvailableVC(c *Comp, dir int) int {
	var claimed []int
	for out := range c.info.FairOccupyTable {
		if out.Dir == dir {
			claimed = append(claimed, out.VC)
		}
	}

	switch len(claimed) {
	case 0:
		return 0
	case 1:
		return claimed[0]
	}

	sort.Ints(claimed)

	current, ok := a.currentVCs[dir]
	if !ok {
		return claimed[0]
	}

	for i, vc := range claimed {
		if vc == current {
			return claimed[(i+1)%len(claimed)]
		}
	}

	return claimed[0]
}

// withdrawClaims removes the claims of an input channel on all the output
// channels except keep. An input channel carries one packet at a time, so a
// claim that is not on keep was left by an earlier decision.
func (a *fairArbiter) withdrawClaims(c *Comp, in, keep routing.Channel) {
	for out, claimant := range c.info.FairOccupyTable {
		if claimant == in && out != keep {
			delete(c.info.FairOccupyTable, out)
		}
	}
}

func (a *fairArbiter) Release(c *Comp, pInfo *routing.PacketInformation) {
	a.withdrawClaims(c, pInfo.InputChannel, routing.InvalidChannel)
}
