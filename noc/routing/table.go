package routing

import "github.com/sarchlab/vcnoc/noc/topology"

// Table is a routing table that can find the next-hop direction according to
// the final destination.
type Table interface {
	FindDirection(dstNodeID int) (topology.Direction, bool)
	DefineRoute(dstNodeID int, dir topology.Direction)
	DefineDefaultRoute(dir topology.Direction)
}

// NewTable creates a new Table.
func NewTable() Table {
	t := &table{}
	t.t = make(map[int]topology.Direction)

	return t
}

type table struct {
	t          map[int]topology.Direction
	defaultDir topology.Direction
	hasDefault bool
}

func (t table) FindDirection(dstNodeID int) (topology.Direction, bool) {
	out, found := t.t[dstNodeID]
	if found {
		return out, true
	}

	return t.defaultDir, t.hasDefault
}

func (t *table) DefineRoute(dstNodeID int, dir topology.Direction) {
	t.t[dstNodeID] = dir
}

func (t *table) DefineDefaultRoute(dir topology.Direction) {
	t.defaultDir = dir
	t.hasDefault = true
}

// TableRouting routes packets with a routing table. Packets whose destination
// has no entry and no default route cannot be routed.
type TableRouting struct {
	decisionBase
	Table

	node *topology.Node
}

// NewTableRouting creates a table routing with an empty table.
func NewTableRouting(node *topology.Node) *TableRouting {
	return &TableRouting{
		Table: NewTable(),
		node:  node,
	}
}

// Route sets all the VCs of the port found in the table as candidates.
func (r *TableRouting) Route(_ *Information, pInfo *PacketInformation) {
	pInfo.RoutedChannels = nil

	dst := pInfo.Packet.Dst
	if dst == nil {
		return
	}

	dir, found := r.FindDirection(dst.ID)
	if !found {
		return
	}

	port, ok := r.node.DirToPort(dir)
	if !ok {
		return
	}

	pInfo.RoutedChannels = channelsOnPort(r.node, port)
}
