package routing

import (
	"github.com/sarchlab/vcnoc/noc/topology"
)

// XYZRouting is dimension order routing. A packet first travels along X,
// then along Y, then along Z. It arrives at the local port when all the
// coordinates match.
type XYZRouting struct {
	decisionBase

	node *topology.Node
}

// NewXYZRouting creates a dimension order routing for the router on a node.
func NewXYZRouting(node *topology.Node) *XYZRouting {
	return &XYZRouting{node: node}
}

// Route sets all the VCs of the port in the next dimension as candidates.
func (r *XYZRouting) Route(_ *Information, pInfo *PacketInformation) {
	pInfo.RoutedChannels = nil

	dst := pInfo.Packet.Dst
	if dst == nil {
		return
	}

	dir := r.nextDirection(dst.Pos)

	port, ok := r.node.DirToPort(dir)
	if !ok {
		return
	}

	pInfo.RoutedChannels = channelsOnPort(r.node, port)
}

func (r *XYZRouting) nextDirection(dst topology.Vec3) topology.Direction {
	cur := r.node.Pos

	switch {
	case dst.X > cur.X:
		return topology.East
	case dst.X < cur.X:
		return topology.West
	case dst.Y > cur.Y:
		return topology.North
	case dst.Y < cur.Y:
		return topology.South
	case dst.Z > cur.Z:
		return topology.Up
	case dst.Z < cur.Z:
		return topology.Down
	default:
		return topology.Local
	}
}
