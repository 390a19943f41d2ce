package messaging

import (
	"fmt"

	"github.com/sarchlab/vcnoc/noc/topology"
	"github.com/sarchlab/vcnoc/sim"
)

// FlitType tells the position of a flit in its packet.
type FlitType int

// The flit types. A packet has exactly one head and one tail. A single-flit
// packet is not supported, the smallest packet has a head and a tail.
const (
	Head FlitType = iota
	Body
	Tail
)

func (t FlitType) String() string {
	switch t {
	case Head:
		return "HEAD"
	case Body:
		return "BODY"
	case Tail:
		return "TAIL"
	default:
		return "UNKNOWN"
	}
}

// Flit is the smallest trasferring unit on a network.
type Flit struct {
	ID     string
	SeqID  int
	Type   FlitType
	Packet *Packet
}

func (f *Flit) String() string {
	return fmt.Sprintf("Flit[%s %s seq %d of %s]",
		f.ID, f.Type, f.SeqID, f.Packet.ID)
}

// A Packet is a sequence of flits routed as a unit.
type Packet struct {
	ID    string
	Src   *topology.Node
	Dst   *topology.Node
	Class int
	Flits []*Flit

	NumHops          int
	TraversedRouters []int
	RouterIDs        map[int]struct{}
}

// RecordHop adds a router to the path of the packet.
func (p *Packet) RecordHop(routerID int) {
	p.NumHops++
	p.TraversedRouters = append(p.TraversedRouters, routerID)

	if p.RouterIDs == nil {
		p.RouterIDs = make(map[int]struct{})
	}

	p.RouterIDs[routerID] = struct{}{}
}

// Visited checks if the packet has passed a router.
func (p *Packet) Visited(routerID int) bool {
	_, ok := p.RouterIDs[routerID]
	return ok
}

// PacketBuilder can build packets
type PacketBuilder struct {
	src, dst *topology.Node
	class    int
	numFlits int
}

// WithSrc sets the source node of the packet.
func (b PacketBuilder) WithSrc(src *topology.Node) PacketBuilder {
	b.src = src
	return b
}

// WithDst sets the destination node of the packet.
func (b PacketBuilder) WithDst(dst *topology.Node) PacketBuilder {
	b.dst = dst
	return b
}

// WithClass sets the routing class of the packet.
func (b PacketBuilder) WithClass(class int) PacketBuilder {
	b.class = class
	return b
}

// WithNumFlits sets the number of flits in the packet, including the head and
// the tail.
func (b PacketBuilder) WithNumFlits(n int) PacketBuilder {
	b.numFlits = n
	return b
}

// Build creates a new packet with its flits.
func (b PacketBuilder) Build() *Packet {
	if b.numFlits < 2 {
		panic("a packet needs at least a head and a tail flit")
	}

	idGen := sim.GetIDGenerator()
	p := &Packet{
		ID:        "pkt-" + idGen.Generate(),
		Src:       b.src,
		Dst:       b.dst,
		Class:     b.class,
		RouterIDs: make(map[int]struct{}),
	}

	for i := 0; i < b.numFlits; i++ {
		t := Body
		switch i {
		case 0:
			t = Head
		case b.numFlits - 1:
			t = Tail
		}

		p.Flits = append(p.Flits, &Flit{
			ID:     fmt.Sprintf("flit-%d-%s", i, p.ID),
			SeqID:  i,
			Type:   t,
			Packet: p,
		})
	}

	return p
}
