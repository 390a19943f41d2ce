package topology

import (
	"fmt"
	"log"
)

// A ConnectionEnd is the side of a connection that belongs to one node. The
// VC count and buffer depth describe the input buffers of that node.
type ConnectionEnd struct {
	Node        *Node
	Dir         Direction
	VCCount     int
	BufferDepth int

	BufferUtilization   int
	BufferCongestion    float64
	VCBufferUtilization []int
	VCBufferCongestion  []float64
}

// A Connection is a bidirectional link between two nodes.
type Connection struct {
	ID   int
	Ends [2]*ConnectionEnd
}

// Connect creates a connection between the nodes of the two ends and
// attaches it to both nodes.
func Connect(id int, a, b ConnectionEnd) *Connection {
	c := &Connection{ID: id}

	for i, end := range []ConnectionEnd{a, b} {
		if end.Node == nil {
			log.Panicf("connection %d: node cannot be nil", id)
		}

		if end.VCCount <= 0 {
			log.Panicf("connection %d: %s must have at least one VC",
				id, end.Node.Name)
		}

		e := end
		e.VCBufferUtilization = make([]int, e.VCCount)
		e.VCBufferCongestion = make([]float64, e.VCCount)
		c.Ends[i] = &e
	}

	if a.Node == b.Node {
		log.Panicf("connection %d: cannot connect %s to itself", id, a.Node.Name)
	}

	a.Node.attach(c)
	b.Node.attach(c)

	return c
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection[%d](%s-%s)",
		c.ID, c.Ends[0].Node.Name, c.Ends[1].Node.Name)
}

// EndOf returns the end that belongs to the node.
func (c *Connection) EndOf(n *Node) *ConnectionEnd {
	for _, e := range c.Ends {
		if e.Node == n {
			return e
		}
	}

	log.Panicf("%s is not attached to %s", n.Name, c)

	return nil
}

// Peer returns the end on the other side of the node.
func (c *Connection) Peer(n *Node) *ConnectionEnd {
	for i, e := range c.Ends {
		if e.Node == n {
			return c.Ends[1-i]
		}
	}

	log.Panicf("%s is not attached to %s", n.Name, c)

	return nil
}

// VCCountForNode returns the number of VCs on the input side of the node.
func (c *Connection) VCCountForNode(n *Node) int {
	return c.EndOf(n).VCCount
}

// BufferDepthForNode returns the buffer depth on the input side of the node.
func (c *Connection) BufferDepthForNode(n *Node) int {
	return c.EndOf(n).BufferDepth
}
