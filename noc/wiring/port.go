package wiring

import (
	"fmt"
)

// A Port is one side of a link. The owner drives Out and reads In. In is only
// available after the port is connected by a wire.
type Port struct {
	name   string
	numVCs int
	wire   *Wire

	In  *SignalGroup
	Out *SignalGroup
}

// NewPort creates a port for an owner that has numVCs input buffers behind
// the port.
func NewPort(name string, numVCs int) *Port {
	if numVCs <= 0 {
		panic(fmt.Sprintf("port %s must have at least one VC", name))
	}

	p := &Port{
		name:   name,
		numVCs: numVCs,
	}
	p.Out = NewSignalGroup(name+".Out", numVCs)

	return p
}

// Name returns the name of the port.
func (p *Port) Name() string {
	return p.name
}

// NumVCs returns the number of input VCs of the owner.
func (p *Port) NumVCs() int {
	return p.numVCs
}

// Connected checks if the port is plugged into a wire.
func (p *Port) Connected() bool {
	return p.wire != nil
}

// Wire returns the wire that the port is plugged into.
func (p *Port) Wire() *Wire {
	return p.wire
}

func (p *Port) plugIn(w *Wire, in *SignalGroup) {
	if p.wire != nil {
		panic(fmt.Sprintf(
			"port %s already connected to %s, now connecting to %s",
			p.name, p.wire.Name(), w.Name()))
	}

	p.wire = w
	p.In = in
}
