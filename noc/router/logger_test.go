package router

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vcnoc/noc/routing"
)

var _ = Describe("Logger", func() {
	var (
		mockCtrl *gomock.Controller
		buf      *bytes.Buffer
		r        *Comp
		b        *bench
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockRouting := NewMockRouting(mockCtrl)
		mockSelection := NewMockSelection(mockCtrl)
		expectStrategies(mockRouting, mockSelection,
			routeAllTo(routing.Channel{Dir: 1, VC: 0}))

		node := buildNode([]int{2, 2, 2}, []int{2, 2, 2}, 4)
		r = MakeBuilder().
			WithNode(node).
			WithRoutingStrategy(mockRouting).
			WithSelectionStrategy(mockSelection).
			Build("Router")
		b = newBench(r)
		buf = new(bytes.Buffer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should only write head flits if asked to", func() {
		r.AcceptHook(NewLogger(log.New(buf, "", 0),
			LogFlags{ReceiveHeadFlit: true}))
		packet := newPacket(2)
		b.inject(2, 1, packet.Flits...)

		b.run(6)

		Expect(buf.String()).To(ContainSubstring(
			"Router[West1]\t- Receive HEAD flit " + packet.Flits[0].String()))
		Expect(buf.String()).NotTo(ContainSubstring("TAIL"))
		Expect(buf.String()).NotTo(ContainSubstring("Send"))
	})

	It("should write every activity with all the flags", func() {
		r.AcceptHook(NewLogger(log.New(buf, "", 0), AllLogFlags()))
		packet := newPacket(2)
		b.inject(0, 0, packet.Flits...)
		b.setFlow(1, 0, false)

		b.run(4)
		b.setFlow(1, 0, true)
		b.run(4)

		out := buf.String()
		Expect(out).To(ContainSubstring("Receive TAIL flit"))
		Expect(out).To(ContainSubstring("Send HEAD flit"))
		Expect(out).To(ContainSubstring("Throttled by (1,0)"))
		Expect(out).To(ContainSubstring("Assign channel (1,0)"))
	})

	It("should always write protocol violations", func() {
		r.AcceptHook(NewLogger(log.New(buf, "", 0), LogFlags{}))
		packet := newPacket(3)
		b.inject(0, 0, packet.Flits[1])

		b.run(3)

		Expect(buf.String()).To(ContainSubstring("has no head, discarded"))
	})
})
