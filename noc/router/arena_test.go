package router

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vcnoc/noc/routing"
)

var _ = Describe("packetArena", func() {
	var (
		arena *packetArena
		key   packetKey
		pInfo *routing.PacketInformation
	)

	BeforeEach(func() {
		arena = newPacketArena()
		key = packetKey{packetID: "pkt-1", in: routing.Channel{Dir: 1, VC: 0}}
		pInfo = routing.NewPacketInformation(newPacket(2), key.in)
	})

	It("should find inserted entries", func() {
		h, ok := arena.Insert(key, pInfo)

		Expect(ok).To(BeTrue())
		Expect(arena.Len()).To(Equal(1))

		got, ok := arena.Get(h)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(pInfo))

		got, ok = arena.Lookup(key)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(pInfo))
	})

	It("should reject a key in use", func() {
		arena.Insert(key, pInfo)

		_, ok := arena.Insert(key, pInfo)

		Expect(ok).To(BeFalse())
		Expect(arena.Len()).To(Equal(1))
	})

	It("should treat the same packet on another channel as another entry", func() {
		arena.Insert(key, pInfo)
		other := packetKey{packetID: key.packetID, in: routing.Channel{Dir: 2}}

		_, ok := arena.Insert(other, pInfo)

		Expect(ok).To(BeTrue())
		Expect(arena.Len()).To(Equal(2))
	})

	It("should invalidate handles of removed entries", func() {
		h, _ := arena.Insert(key, pInfo)

		Expect(arena.Remove(key)).To(BeTrue())
		Expect(arena.Remove(key)).To(BeFalse())

		_, ok := arena.Get(h)
		Expect(ok).To(BeFalse())
		_, ok = arena.Lookup(key)
		Expect(ok).To(BeFalse())
	})

	It("should reuse released slots without reviving old handles", func() {
		h1, _ := arena.Insert(key, pInfo)
		arena.Remove(key)

		other := packetKey{packetID: "pkt-2", in: key.in}
		h2, ok := arena.Insert(other, pInfo)

		Expect(ok).To(BeTrue())
		Expect(h2.index).To(Equal(h1.index))
		Expect(h2.generation).NotTo(Equal(h1.generation))

		_, ok = arena.Get(h1)
		Expect(ok).To(BeFalse())
	})
})
