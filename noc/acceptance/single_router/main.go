package main

import (
	"flag"
	"log"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/vcnoc/noc/acceptance"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/noc/topology"
)

var (
	numPackets = flag.Int("packets", 2000, "The number of packets to send.")
	arbiter    = flag.String("arbiter", router.ArbiterRRVC, "rrVC or fair.")
	selection  = flag.String("selection", routing.SelectionRoundRobin,
		"RoundRobin, OutputRoundRobin or EmptyFirst.")
	seed = flag.Int64("seed", 1, "The random seed.")
)

func main() {
	flag.Parse()

	tb := createTestbench()
	t := acceptance.NewTest(tb, *seed)
	t.GeneratePackets(*numPackets, 8, uint64(*numPackets)*4)

	tb.StopWhenDrained()

	err := tb.Run(0)
	if err != nil {
		panic(err)
	}

	t.MustHaveReceivedAllPackets()
	t.ReportBandwidthAchieved()
	log.Printf("router stats: %+v", tb.Router.Stats().Snapshot())
	atexit.Exit(0)
}

func createTestbench() *standalone.Testbench {
	b := standalone.MakeTestbenchBuilder().
		WithPosition(topology.Vec3{X: 1, Y: 1}).
		WithRouterBuilder(router.MakeBuilder().
			WithRouting(routing.RoutingXYZ).
			WithSelection(*selection).
			WithArbiter(*arbiter))

	for _, d := range []topology.Direction{
		topology.Local, topology.East, topology.West,
		topology.North, topology.South,
	} {
		b = b.WithPort(standalone.PortSpec{
			Dir: d, VCCount: 2, BufferDepth: 4, PeerVCCount: 2,
		})
	}

	return b.Build("Single")
}
