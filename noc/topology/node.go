package topology

import (
	"fmt"
	"log"
)

// A Node is a vertex of the network. A router is placed on a node.
type Node struct {
	ID   int
	Name string
	Pos  Vec3

	// Connections are ordered by the order they are attached. The index of a
	// connection is the port number that the router uses for it.
	Connections []*Connection

	// Congestion is the fraction of the directions that carried a flit in the
	// last cycle.
	Congestion float64
}

// NewNode creates a new node.
func NewNode(id int, pos Vec3) *Node {
	return &Node{
		ID:   id,
		Name: fmt.Sprintf("Node[%d]", id),
		Pos:  pos,
	}
}

func (n *Node) String() string {
	return n.Name
}

// NumPorts returns the number of connections attached to the node.
func (n *Node) NumPorts() int {
	return len(n.Connections)
}

// PortOf returns the port number of a connection. It returns -1 if the
// connection is not attached to the node.
func (n *Node) PortOf(c *Connection) int {
	for i, con := range n.Connections {
		if con == c {
			return i
		}
	}

	return -1
}

// PortToDir returns the direction of a port.
func (n *Node) PortToDir(port int) Direction {
	if port < 0 || port >= len(n.Connections) {
		log.Panicf("%s: port %d does not exist", n.Name, port)
	}

	return n.Connections[port].EndOf(n).Dir
}

// DirToPort returns the port that connects to the given direction.
func (n *Node) DirToPort(d Direction) (int, bool) {
	for i, c := range n.Connections {
		if c.EndOf(n).Dir == d {
			return i, true
		}
	}

	return -1, false
}

// End returns the connection end that belongs to the node on a port.
func (n *Node) End(port int) *ConnectionEnd {
	if port < 0 || port >= len(n.Connections) {
		log.Panicf("%s: port %d does not exist", n.Name, port)
	}

	return n.Connections[port].EndOf(n)
}

func (n *Node) attach(c *Connection) {
	n.Connections = append(n.Connections, c)
}
