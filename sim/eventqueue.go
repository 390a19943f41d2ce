package sim

import "container/heap"

// eventQueue orders events by time, then by the order they were pushed.
// It is not safe for concurrent use.
type eventQueue struct {
	items   []queuedEvent
	nextSeq uint64
}

type queuedEvent struct {
	evt Event
	seq uint64
}

func (q *eventQueue) push(evt Event) {
	heap.Push((*eventHeap)(q), queuedEvent{evt: evt, seq: q.nextSeq})
	q.nextSeq++
}

func (q *eventQueue) pop() Event {
	return heap.Pop((*eventHeap)(q)).(queuedEvent).evt
}

func (q *eventQueue) peek() Event {
	return q.items[0].evt
}

func (q *eventQueue) len() int {
	return len(q.items)
}

type eventHeap eventQueue

func (h *eventHeap) Len() int {
	return len(h.items)
}

func (h *eventHeap) Less(i, j int) bool {
	ti, tj := h.items[i].evt.Time(), h.items[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h.items[i].seq < h.items[j].seq
}

func (h *eventHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *eventHeap) Push(x any) {
	h.items = append(h.items, x.(queuedEvent))
}

func (h *eventHeap) Pop() any {
	n := len(h.items)
	last := h.items[n-1]
	h.items[n-1] = queuedEvent{}
	h.items = h.items[:n-1]

	return last
}
