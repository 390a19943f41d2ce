package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/noc/topology"
)

var _ = Describe("Tracing a router", func() {
	var tb *standalone.Testbench

	BeforeEach(func() {
		tb = standalone.MakeTestbenchBuilder().
			WithPosition(topology.Vec3{X: 1, Y: 1}).
			WithPort(standalone.PortSpec{
				Dir: topology.Local, VCCount: 2, BufferDepth: 4, PeerVCCount: 2,
			}).
			WithPort(standalone.PortSpec{
				Dir: topology.East, VCCount: 2, BufferDepth: 4, PeerVCCount: 2,
			}).
			Build("TB")
	})

	inject := func(numFlits int) *messaging.Packet {
		local := tb.Agent(topology.Local)
		pkt := messaging.PacketBuilder{}.
			WithSrc(local.Node).
			WithDst(tb.Agent(topology.East).Node).
			WithNumFlits(numFlits).
			Build()
		local.Inject(standalone.Injection{Packet: pkt})

		return pkt
	}

	It("should not accept the same tracer twice", func() {
		t := NewLatencyTracer(nil)
		CollectTrace(tb.Router, t)

		Expect(func() { CollectTrace(tb.Router, t) }).To(Panic())
	})

	It("should trace each packet from head arrival to tail departure", func() {
		latency := NewLatencyTracer(nil)
		busy := NewBusyTimeTracer(nil)
		backend := newMemoryRecorder()
		db := NewDBTracer(backend)

		CollectTrace(tb.Router, latency)
		CollectTrace(tb.Router, busy)
		CollectTrace(tb.Router, db)

		pkt := inject(4)
		inject(2)

		tb.StopWhenDrained()
		Expect(tb.Run(100)).To(Succeed())

		Expect(latency.Outcome(OutcomeSent).Count).To(Equal(uint64(2)))
		Expect(latency.Summary().Average()).To(BeNumerically(">", 0))
		Expect(busy.BusyCycles()).To(BeNumerically(">", 0))

		tasks := backend.tables[TaskTable]
		Expect(tasks).To(HaveLen(2))

		first := tasks[0].(TaskEntry)
		Expect(first.ID).To(Equal(pkt.ID + "@" + tb.Router.Name()))
		Expect(first.ParentID).To(Equal(pkt.ID))
		Expect(first.Outcome).To(Equal(OutcomeSent))
		Expect(first.EndCycle).To(BeNumerically(">", first.StartCycle))

		var steps []string
		for _, s := range backend.tables[StepTable] {
			if s.(StepEntry).TaskID == first.ID {
				steps = append(steps, s.(StepEntry).What)
			}
		}
		Expect(steps).To(ContainElements("assign_channel", "send_head"))
	})
})
