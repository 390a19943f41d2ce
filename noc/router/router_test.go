package router

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/noc/topology"
	"github.com/sarchlab/vcnoc/sim"
)

type routeFunc func(pInfo *routing.PacketInformation) []routing.Channel

func routeAllTo(out routing.Channel) routeFunc {
	return func(*routing.PacketInformation) []routing.Channel {
		return []routing.Channel{out}
	}
}

func routeNowhere(*routing.PacketInformation) []routing.Channel {
	return nil
}

// expectStrategies makes the mocked routing produce the channels given by
// route, the mocked selection accept all of them, and the decision commit
// the first one.
func expectStrategies(r *MockRouting, s *MockSelection, route routeFunc) {
	r.EXPECT().BeginCycle(gomock.Any()).AnyTimes()
	r.EXPECT().EndCycle(gomock.Any()).AnyTimes()
	r.EXPECT().
		Route(gomock.Any(), gomock.Any()).
		Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
			pInfo.RoutedChannels = route(pInfo)
		}).
		AnyTimes()
	r.EXPECT().
		MakeDecision(gomock.Any(), gomock.Any()).
		Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
			if len(pInfo.SelectedChannels) == 0 {
				pInfo.OutputChannel = routing.InvalidChannel
				pInfo.DropFlag = true

				return
			}

			pInfo.OutputChannel = pInfo.SelectedChannels[0]
		}).
		AnyTimes()
	s.EXPECT().
		Select(gomock.Any(), gomock.Any()).
		Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
			pInfo.SelectedChannels = append(
				[]routing.Channel(nil), pInfo.RoutedChannels...)
		}).
		AnyTimes()
}

func newPacket(numFlits int) *messaging.Packet {
	return messaging.PacketBuilder{}.WithNumFlits(numFlits).Build()
}

var _ = Describe("Router", func() {
	var (
		mockCtrl      *gomock.Controller
		mockRouting   *MockRouting
		mockSelection *MockSelection
		node          *topology.Node
		builder       Builder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockRouting = NewMockRouting(mockCtrl)
		mockSelection = NewMockSelection(mockCtrl)
		node = buildNode([]int{2, 2, 2}, []int{2, 2, 2}, 4)
		builder = MakeBuilder().
			WithNode(node).
			WithRoutingStrategy(mockRouting).
			WithSelectionStrategy(mockSelection)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when building", func() {
		It("should create one buffer per input VC", func() {
			r := builder.Build("Router")

			Expect(r.NumPorts()).To(Equal(3))
			Expect(r.Buffers()).To(HaveLen(6))
			Expect(r.Buffer(1, 1).Capacity()).To(Equal(3))
			Expect(r.Buffer(1, 1).Name()).To(Equal("Router.Buf[East][1]"))
			Expect(r.Port(2).Name()).To(Equal("Router.Port[West]"))
			Expect(r.Gauges()).To(HaveLen(6))
		})

		It("should panic without a node", func() {
			Expect(func() { MakeBuilder().Build("Router") }).To(Panic())
		})

		It("should panic with unknown strategy names", func() {
			b := MakeBuilder().WithNode(node)

			Expect(func() { b.WithRouting("DPR").Build("R") }).To(Panic())
			Expect(func() { b.WithSelection("MAFA").Build("R") }).To(Panic())
			Expect(func() { b.WithArbiter("wavefront").Build("R") }).To(Panic())
		})

		It("should panic if no slot is left in the buffers", func() {
			Expect(func() {
				builder.WithReservedSlots(4).Build("Router")
			}).To(Panic())
		})
	})

	Context("when forwarding a packet", func() {
		var (
			r      *Comp
			b      *bench
			packet *messaging.Packet
			out    routing.Channel
		)

		BeforeEach(func() {
			out = routing.Channel{Dir: 2, VC: 0}
			expectStrategies(mockRouting, mockSelection, routeAllTo(out))

			r = builder.Build("Router")
			b = newBench(r)
			packet = newPacket(2)
			b.inject(0, 0, packet.Flits...)
		})

		It("should reserve the output channel when the head wins", func() {
			b.run(3)

			Expect(packet.NumHops).To(Equal(1))
			Expect(packet.Visited(node.ID)).To(BeTrue())
			Expect(r.Info().OccupyTable).To(HaveKeyWithValue(out, packet))
			Expect(b.sent).To(BeEmpty())
		})

		It("should send the head in the cycle after arbitration", func() {
			b.run(4)

			Expect(b.sent).To(HaveLen(1))
			Expect(b.sent[0].cycle).To(Equal(uint64(3)))
			Expect(b.sent[0].dir).To(Equal(2))
			Expect(b.sent[0].vc).To(Equal(0))
			Expect(b.sent[0].flit).To(BeIdenticalTo(packet.Flits[0]))
		})

		It("should release everything after the tail is sent", func() {
			b.run(5)

			Expect(b.sentFlits()).To(Equal(packet.Flits))
			Expect(r.Info().OccupyTable).To(BeEmpty())
			Expect(r.NumTrackedPackets()).To(Equal(0))
			Expect(r.InFlightPackets(0, 0)).To(Equal(0))
			Expect(r.Stats().PacketsSent.Load()).To(Equal(uint64(1)))
			Expect(r.Stats().FlitsSent.Load()).To(Equal(uint64(2)))
			Expect(r.Stats().FlitsReceived.Load()).To(Equal(uint64(2)))
		})

		It("should count the packet as in flight until the tail leaves", func() {
			b.run(2)

			Expect(r.InFlightPackets(0, 0)).To(Equal(1))
			Expect(r.NumTrackedPackets()).To(Equal(1))

			pInfo, ok := r.PacketInformation(packet.ID, routing.Channel{})
			Expect(ok).To(BeTrue())
			Expect(pInfo.RoutedChannels).To(ConsistOf(out))
		})

		It("should set the tag of the input channel from the head", func() {
			packet = messaging.PacketBuilder{}.
				WithClass(3).WithNumFlits(2).Build()
			b.inject(1, 1, packet.Flits...)

			b.run(1)

			Expect(r.Info().TagOut).To(
				HaveKeyWithValue(routing.Channel{Dir: 1, VC: 1}, 3))
			Expect(b.peers[1].In.Tag.Read()).To(Equal([]int{0, 3}))
		})
	})

	Context("when the packet cannot be routed", func() {
		It("should drop the packet without sending anything", func() {
			expectStrategies(mockRouting, mockSelection, routeNowhere)

			r := builder.Build("Router")
			b := newBench(r)
			packet := newPacket(3)
			b.inject(0, 1, packet.Flits...)

			b.run(8)

			Expect(b.sent).To(BeEmpty())
			Expect(r.Info().OccupyTable).To(BeEmpty())
			Expect(r.Stats().RouteFailures.Load()).To(Equal(uint64(1)))
			Expect(r.Stats().DroppedPackets.Load()).To(Equal(uint64(1)))
			Expect(r.NumTrackedPackets()).To(Equal(0))
			Expect(r.InFlightPackets(0, 1)).To(Equal(0))
			Expect(r.HoldingFlit(0, 1)).To(BeNil())
			Expect(r.Buffer(0, 1).Empty()).To(BeTrue())
		})

		It("should report the drop with a hook", func() {
			expectStrategies(mockRouting, mockSelection, routeNowhere)

			r := builder.Build("Router")
			recorder := &hookRecorder{}
			r.AcceptHook(recorder)
			b := newBench(r)
			packet := newPacket(2)
			b.inject(0, 0, packet.Flits...)

			b.run(6)

			Expect(recorder.positions()).To(ContainElements(
				HookPosRouteFail, HookPosSelectFail,
				HookPosDecisionFail, HookPosPacketDropped))
			Expect(recorder.positions()).NotTo(ContainElement(HookPosFlitSent))
		})
	})

	Context("when a buffer overflows", func() {
		It("should keep the first flit and drop the second", func() {
			node = buildNode([]int{1, 1, 1}, []int{1, 1, 1}, 2)
			expectStrategies(mockRouting, mockSelection,
				routeAllTo(routing.Channel{Dir: 1, VC: 0}))

			r := builder.WithNode(node).Build("Router")
			recorder := &hookRecorder{}
			r.AcceptHook(recorder)
			packet := newPacket(2)

			r.receiveFlit(0, 0, packet.Flits[0])
			r.receiveFlit(0, 0, packet.Flits[1])

			Expect(r.Buffer(0, 0).Occupied()).To(Equal(1))
			Expect(r.Buffer(0, 0).Capacity()).To(Equal(1))
			Expect(r.Stats().BufferOverflows.Load()).To(Equal(uint64(1)))
			Expect(recorder.positions()).To(Equal([]*sim.HookPos{
				HookPosFlitReceived, HookPosFlitReceived, HookPosBufferOverflow,
			}))
		})
	})

	Context("when the downstream is not ready", func() {
		It("should hold the flit until flow control turns ready", func() {
			out := routing.Channel{Dir: 2, VC: 1}
			expectStrategies(mockRouting, mockSelection, routeAllTo(out))

			r := builder.Build("Router")
			b := newBench(r)
			packet := newPacket(2)
			b.inject(0, 0, packet.Flits...)
			b.setFlow(2, 1, false)

			b.run(5)

			Expect(b.sent).To(BeEmpty())
			Expect(r.Stats().FlowControlStalls.Load()).To(Equal(uint64(3)))
			Expect(r.HoldingFlit(0, 0)).To(BeIdenticalTo(packet.Flits[0]))
			Expect(packet.NumHops).To(Equal(1))

			b.setFlow(2, 1, true)
			b.run(2)

			Expect(b.sent).To(HaveLen(1))
			Expect(b.sent[0].cycle).To(Equal(uint64(6)))
			Expect(b.sent[0].vc).To(Equal(1))
			Expect(packet.NumHops).To(Equal(1))
		})
	})

	Context("when routing", func() {
		It("should route a packet once per input channel", func() {
			mockRouting.EXPECT().
				Route(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					pInfo.RoutedChannels = []routing.Channel{{Dir: 1, VC: 0}}
				}).
				Times(1)
			mockSelection.EXPECT().
				Select(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					pInfo.SelectedChannels = pInfo.RoutedChannels
				}).
				Times(1)

			r := builder.Build("Router")
			packet := newPacket(3)
			r.receiveFlit(0, 0, packet.Flits[0])
			r.receiveFlit(0, 0, packet.Flits[1])

			r.route()
			r.route()

			Expect(r.HoldingFlit(0, 0)).To(BeIdenticalTo(packet.Flits[0]))
			Expect(r.Buffer(0, 0).Occupied()).To(Equal(1))
			Expect(packet.NumHops).To(Equal(1))
		})

		It("should discard a body flit without a head", func() {
			r := builder.Build("Router")
			packet := newPacket(3)
			r.receiveFlit(1, 0, packet.Flits[1])

			r.route()

			Expect(r.Buffer(1, 0).Empty()).To(BeTrue())
			Expect(r.HoldingFlit(1, 0)).To(BeNil())
			Expect(r.Stats().ProtocolViolations.Load()).To(Equal(uint64(1)))
		})

		It("should panic if a packet enters a channel twice", func() {
			r := builder.Build("Router")
			packet := newPacket(2)
			r.receiveFlit(0, 0, packet.Flits[0])

			Expect(func() {
				r.receiveFlit(0, 0, packet.Flits[0])
			}).To(Panic())
		})

		It("should panic if a flit arrives at a nonexistent VC", func() {
			r := builder.Build("Router")
			packet := newPacket(2)

			Expect(func() { r.receiveFlit(0, 2, packet.Flits[0]) }).To(Panic())
		})
	})

	Context("when a decision asks for a reroute", func() {
		It("should route the packet again and arbitrate it later", func() {
			rerouted := false
			mockRouting.EXPECT().BeginCycle(gomock.Any()).AnyTimes()
			mockRouting.EXPECT().EndCycle(gomock.Any()).AnyTimes()
			mockRouting.EXPECT().
				Route(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					pInfo.RoutedChannels = []routing.Channel{{Dir: 1, VC: 0}}
				}).
				Times(2)
			mockRouting.EXPECT().
				MakeDecision(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					if !rerouted {
						rerouted = true
						pInfo.RerouteFlag = true

						return
					}

					pInfo.OutputChannel = pInfo.SelectedChannels[0]
				}).
				AnyTimes()
			mockSelection.EXPECT().
				Select(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					pInfo.SelectedChannels = pInfo.RoutedChannels
				}).
				Times(2)

			r := builder.Build("Router")
			b := newBench(r)
			packet := newPacket(2)
			b.inject(0, 0, packet.Flits...)

			b.run(6)

			Expect(r.Stats().Reroutes.Load()).To(Equal(uint64(1)))
			Expect(b.sentFlits()).To(Equal(packet.Flits))
			Expect(b.sent[0].cycle).To(Equal(uint64(4)))
		})
	})

	Context("when a decision cannot be carried out", func() {
		var decide func(pInfo *routing.PacketInformation)

		BeforeEach(func() {
			mockRouting.EXPECT().BeginCycle(gomock.Any()).AnyTimes()
			mockRouting.EXPECT().EndCycle(gomock.Any()).AnyTimes()
			mockRouting.EXPECT().
				Route(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					pInfo.RoutedChannels = []routing.Channel{{Dir: 2, VC: 0}}
				}).
				AnyTimes()
			mockRouting.EXPECT().
				MakeDecision(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					decide(pInfo)
				}).
				AnyTimes()
			mockSelection.EXPECT().
				Select(gomock.Any(), gomock.Any()).
				Do(func(_ *routing.Information, pInfo *routing.PacketInformation) {
					pInfo.SelectedChannels = pInfo.RoutedChannels
				}).
				AnyTimes()
		})

		for _, arbiter := range []string{ArbiterRRVC, ArbiterFair} {
			arbiter := arbiter

			It("should panic on a delay request with "+arbiter, func() {
				decide = func(pInfo *routing.PacketInformation) {
					pInfo.OutputChannel = pInfo.SelectedChannels[0]
					pInfo.DelayFlag = true
				}

				b := newBench(builder.WithArbiter(arbiter).Build("Router"))
				b.inject(0, 0, newPacket(2).Flits...)

				Expect(func() { b.run(4) }).To(Panic())
			})

			It("should panic on an invalid output channel with "+arbiter, func() {
				decide = func(pInfo *routing.PacketInformation) {
					pInfo.OutputChannel = routing.InvalidChannel
				}

				b := newBench(builder.WithArbiter(arbiter).Build("Router"))
				b.inject(0, 0, newPacket(2).Flits...)

				Expect(func() { b.run(4) }).To(Panic())
			})

			It("should panic on an output VC the neighbor lacks with "+arbiter,
				func() {
					decide = func(pInfo *routing.PacketInformation) {
						pInfo.OutputChannel = routing.Channel{Dir: 2, VC: 2}
					}

					b := newBench(builder.WithArbiter(arbiter).Build("Router"))
					b.inject(0, 0, newPacket(2).Flits...)

					Expect(func() { b.run(4) }).To(Panic())
				})
		}
	})

	Context("when reporting to the neighbors", func() {
		It("should withdraw flow control as the buffer fills", func() {
			out := routing.Channel{Dir: 2, VC: 0}
			expectStrategies(mockRouting, mockSelection, routeAllTo(out))

			r := builder.Build("Router")
			b := newBench(r)
			b.setFlow(2, 0, false)

			packet := newPacket(4)
			r.receiveFlit(1, 0, packet.Flits[0])
			r.receiveFlit(1, 0, packet.Flits[1])
			r.receiveFlit(1, 0, packet.Flits[2])
			b.run(1)

			Expect(b.peers[1].In.FlowControl.Read()).To(Equal([]bool{false, true}))
			Expect(b.peers[1].In.Empty.Read()).To(Equal([]bool{false, true}))
		})

		It("should update the congestion of the node", func() {
			out := routing.Channel{Dir: 2, VC: 0}
			expectStrategies(mockRouting, mockSelection, routeAllTo(out))

			r := builder.Build("Router")
			b := newBench(r)
			b.setFlow(2, 0, false)

			packet := newPacket(4)
			r.receiveFlit(1, 1, packet.Flits[0])
			r.receiveFlit(1, 1, packet.Flits[1])
			r.receiveFlit(1, 1, packet.Flits[2])
			b.run(1)

			end := node.End(1)
			Expect(end.VCBufferUtilization).To(Equal([]int{0, 2}))
			Expect(end.VCBufferCongestion).To(Equal([]float64{0, 0.5}))
			Expect(end.BufferUtilization).To(Equal(2))
			Expect(end.BufferCongestion).To(BeNumerically("~", 0.25))
			Expect(node.Congestion).To(BeNumerically("==", 0))
		})
	})
})
