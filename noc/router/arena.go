package router

import (
	"github.com/sarchlab/vcnoc/noc/routing"
)

// packetKey identifies a packet that enters the router through one input
// channel.
type packetKey struct {
	packetID string
	in       routing.Channel
}

// handle addresses a slot in the arena. A handle becomes stale once its slot
// is released, even if the slot is reused.
type handle struct {
	index      int
	generation uint32
}

type arenaSlot struct {
	generation uint32
	used       bool
	value      *routing.PacketInformation
}

// packetArena owns the routing state of all the packets in the router.
type packetArena struct {
	slots []arenaSlot
	free  []int
	index map[packetKey]handle
}

func newPacketArena() *packetArena {
	return &packetArena{
		index: make(map[packetKey]handle),
	}
}

// Insert stores the routing state of a packet. It returns false if the key
// is already in use.
func (a *packetArena) Insert(
	key packetKey,
	pInfo *routing.PacketInformation,
) (handle, bool) {
	if _, exists := a.index[key]; exists {
		return handle{}, false
	}

	var i int
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, arenaSlot{})
		i = len(a.slots) - 1
	}

	slot := &a.slots[i]
	slot.used = true
	slot.value = pInfo

	h := handle{index: i, generation: slot.generation}
	a.index[key] = h

	return h, true
}

// Get returns the value behind a handle if the handle is still live.
func (a *packetArena) Get(h handle) (*routing.PacketInformation, bool) {
	if h.index < 0 || h.index >= len(a.slots) {
		return nil, false
	}

	slot := &a.slots[h.index]
	if !slot.used || slot.generation != h.generation {
		return nil, false
	}

	return slot.value, true
}

// Lookup finds the routing state by key.
func (a *packetArena) Lookup(key packetKey) (*routing.PacketInformation, bool) {
	h, ok := a.index[key]
	if !ok {
		return nil, false
	}

	return a.Get(h)
}

// Remove releases the routing state of a packet. It returns false if the key
// is not in use.
func (a *packetArena) Remove(key packetKey) bool {
	h, ok := a.index[key]
	if !ok {
		return false
	}

	delete(a.index, key)

	slot := &a.slots[h.index]
	slot.used = false
	slot.value = nil
	slot.generation++
	a.free = append(a.free, h.index)

	return true
}

// Len returns the number of live entries.
func (a *packetArena) Len() int {
	return len(a.index)
}
