package routing

import (
	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/topology"
)

// Information is the routing state of one router. The router refreshes the
// input maps at the beginning of every cycle. Strategies read it to make
// decisions.
type Information struct {
	Node *topology.Node

	// FlowIn, TagIn and EmptyIn are what downstream neighbors report about
	// their input buffers, indexed by the output channel of this router.
	FlowIn  map[Channel]bool
	TagIn   map[Channel]int
	EmptyIn map[Channel]bool

	// TagOut is reported to upstream neighbors, indexed by input channel.
	TagOut map[Channel]int

	// OccupyTable reserves an output channel for one packet.
	OccupyTable map[Channel]*messaging.Packet

	// FairOccupyTable registers the input channel that claims an output
	// channel.
	FairOccupyTable map[Channel]Channel
}

// NewInformation creates the routing state for the router on a node.
func NewInformation(node *topology.Node) *Information {
	return &Information{
		Node:            node,
		FlowIn:          make(map[Channel]bool),
		TagIn:           make(map[Channel]int),
		EmptyIn:         make(map[Channel]bool),
		TagOut:          make(map[Channel]int),
		OccupyTable:     make(map[Channel]*messaging.Packet),
		FairOccupyTable: make(map[Channel]Channel),
	}
}

// Occupied checks if an output channel is reserved.
func (i *Information) Occupied(out Channel) bool {
	_, ok := i.OccupyTable[out]
	return ok
}

// PacketInformation is the routing state of a packet that enters the router
// through one input channel.
type PacketInformation struct {
	Packet       *messaging.Packet
	InputChannel Channel

	RoutedChannels   []Channel
	SelectedChannels []Channel
	OutputChannel    Channel

	DropFlag    bool
	RerouteFlag bool
	DelayFlag   bool
}

// NewPacketInformation creates the routing state of a packet arriving at an
// input channel.
func NewPacketInformation(
	p *messaging.Packet,
	in Channel,
) *PacketInformation {
	return &PacketInformation{
		Packet:        p,
		InputChannel:  in,
		OutputChannel: InvalidChannel,
	}
}
