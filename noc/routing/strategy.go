package routing

import (
	"fmt"

	"github.com/sarchlab/vcnoc/noc/topology"
)

// Routing computes the candidate output channels of a packet and finalizes
// the choice.
type Routing interface {
	// Route fills the routed channels of the packet. It leaves them empty if
	// the packet cannot be routed.
	Route(info *Information, pInfo *PacketInformation)

	// MakeDecision commits the output channel. It may set the drop, reroute
	// or delay flag instead.
	MakeDecision(info *Information, pInfo *PacketInformation)

	BeginCycle(info *Information)
	EndCycle(info *Information)
}

// Selection narrows the routed channels of a packet down to the selected
// channels. It leaves them empty if none is acceptable.
type Selection interface {
	Select(info *Information, pInfo *PacketInformation)
}

// The names of the routing algorithms.
const (
	RoutingXYZ   = "XYZ"
	RoutingTable = "Table"
)

// The names of the selection algorithms.
const (
	SelectionRoundRobin       = "RoundRobin"
	SelectionOutputRoundRobin = "OutputRoundRobin"
	SelectionEmptyFirst       = "EmptyFirst"
)

// NewRouting creates a routing algorithm by name for the router on a node.
func NewRouting(name string, node *topology.Node) (Routing, error) {
	switch name {
	case RoutingXYZ:
		return NewXYZRouting(node), nil
	case RoutingTable:
		return NewTableRouting(node), nil
	default:
		return nil, fmt.Errorf("unknown routing %q", name)
	}
}

// NewSelection creates a selection algorithm by name for the router on a
// node.
func NewSelection(name string, node *topology.Node) (Selection, error) {
	switch name {
	case SelectionRoundRobin:
		return NewRoundRobinSelection(), nil
	case SelectionOutputRoundRobin:
		return NewOutputRoundRobinSelection(), nil
	case SelectionEmptyFirst:
		return NewEmptyFirstSelection(), nil
	default:
		return nil, fmt.Errorf("unknown selection %q", name)
	}
}

// decisionBase commits the first selected channel.
type decisionBase struct{}

func (decisionBase) MakeDecision(_ *Information, pInfo *PacketInformation) {
	if len(pInfo.SelectedChannels) == 0 {
		pInfo.OutputChannel = InvalidChannel
		pInfo.DropFlag = true

		return
	}

	pInfo.OutputChannel = pInfo.SelectedChannels[0]
}

func (decisionBase) BeginCycle(*Information) {}

func (decisionBase) EndCycle(*Information) {}

// channelsOnPort lists all the output channels of a port.
func channelsOnPort(node *topology.Node, port int) []Channel {
	numVCs := node.Connections[port].Peer(node).VCCount
	channels := make([]Channel, 0, numVCs)

	for vc := 0; vc < numVCs; vc++ {
		channels = append(channels, Channel{Dir: port, VC: vc})
	}

	return channels
}
