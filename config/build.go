package config

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/noc/topology"
	"github.com/sarchlab/vcnoc/sim"
)

// Build creates the testbench, with its routing table, injections and
// stalls in place.
func (c *Config) Build() (*standalone.Testbench, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}

	rb := router.MakeBuilder().
		WithRouting(c.Routing).
		WithSelection(c.Selection).
		WithArbiter(c.Arbiter).
		WithFlowControlThreshold(c.FlowControlThreshold).
		WithReservedSlots(*c.ReservedSlots)

	tbb := standalone.MakeTestbenchBuilder().
		WithFreq(sim.Freq(c.FreqMHz) * sim.MHz).
		WithPosition(topology.Vec3{
			X: c.Position.X, Y: c.Position.Y, Z: c.Position.Z,
		}).
		WithRouterBuilder(rb)

	for _, p := range c.Ports {
		dir, _ := topology.ParseDirection(p.Dir)
		tbb = tbb.WithPort(standalone.PortSpec{
			Dir:         dir,
			VCCount:     p.VCs,
			BufferDepth: p.Depth,
			PeerVCCount: p.PeerVCs,
		})
	}

	tb := tbb.Build(c.Name)

	err = c.defineRoutes(tb)
	if err != nil {
		return nil, err
	}

	c.inject(tb)
	c.stall(tb)

	return tb, nil
}

func (c *Config) defineRoutes(tb *standalone.Testbench) error {
	if c.Routing != routing.RoutingTable {
		return nil
	}

	table, ok := tb.Router.Routing().(*routing.TableRouting)
	if !ok {
		return errors.Errorf("router %s does not route with a table",
			tb.Router.Name())
	}

	for _, r := range c.Routes {
		dst, _ := topology.ParseDirection(r.Dst)
		via, _ := topology.ParseDirection(r.Via)
		table.DefineRoute(tb.Agent(dst).Node.ID, via)
	}

	if c.DefaultRoute != "" {
		dir, _ := topology.ParseDirection(c.DefaultRoute)
		table.DefineDefaultRoute(dir)
	}

	return nil
}

func (c *Config) inject(tb *standalone.Testbench) {
	for _, inj := range c.Injections {
		from, _ := topology.ParseDirection(inj.From)
		to, _ := topology.ParseDirection(inj.To)

		src := tb.Agent(from)
		pkt := messaging.PacketBuilder{}.
			WithSrc(src.Node).
			WithDst(tb.Agent(to).Node).
			WithClass(inj.Class).
			WithNumFlits(inj.Flits).
			Build()

		src.Inject(standalone.Injection{
			Cycle:  inj.Cycle,
			VC:     inj.VC,
			Packet: pkt,
		})
	}
}

func (c *Config) stall(tb *standalone.Testbench) {
	for _, s := range c.Stalls {
		dir, _ := topology.ParseDirection(s.Dir)
		tb.Agent(dir).AddStall(standalone.Stall{
			VC:    s.VC,
			Start: s.Start,
			End:   s.End,
		})
	}
}
