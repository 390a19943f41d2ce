package wiring

import (
	"fmt"
)

// A Wire is a link between two ports. Each port reads the signals that the
// other port drives.
type Wire struct {
	name  string
	port1 *Port
	port2 *Port
}

// ConnectWithWire links two ports.
func ConnectWithWire(port1 *Port, port2 *Port) *Wire {
	if port1 == nil || port2 == nil {
		panic("nil port")
	}

	if port1 == port2 {
		panic("cannot connect a port to itself")
	}

	w := new(Wire)
	w.name = fmt.Sprintf("%s-%s", port1.Name(), port2.Name())
	w.port1 = port1
	w.port2 = port2

	port1.plugIn(w, port2.Out)
	port2.plugIn(w, port1.Out)

	return w
}

// Name returns the name of the wire.
func (w *Wire) Name() string {
	return w.name
}

// Ports returns the two ports of the wire.
func (w *Wire) Ports() (*Port, *Port) {
	return w.port1, w.port2
}

// Update commits the signals driven by both ports. A clock calls it after
// every phase.
func (w *Wire) Update() {
	w.port1.Out.Update()
	w.port2.Out.Update()
}
