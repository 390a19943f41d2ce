package queueing

import (
	"log"

	"github.com/sarchlab/vcnoc/sim"
)

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &sim.HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when an element is popped from the buffer.
var HookPosBufPop = &sim.HookPos{Name: "Buffer Pop"}

// HookPosBufReject marks when an element cannot be pushed because the buffer
// is full.
var HookPosBufReject = &sim.HookPos{Name: "Buffer Reject"}

// A Gauge reports the level of a buffer.
type Gauge interface {
	sim.Named

	Occupied() int
	Capacity() int
}

// A Buffer is a bounded fifo queue.
type Buffer[T any] interface {
	Gauge
	sim.Hookable

	// Enqueue appends an element. It returns false and leaves the buffer
	// unchanged if the buffer is full.
	Enqueue(e T) bool

	// Dequeue removes the element in the front. It returns false if the
	// buffer is empty.
	Dequeue() (T, bool)

	// Front returns the element in the front without removing it.
	Front() (T, bool)

	Free() int
	Empty() bool
	Clear()
}

// NewBuffer creates a new Buffer that holds at most capacity elements.
func NewBuffer[T any](name string, capacity int) Buffer[T] {
	if capacity < 0 {
		log.Panicf("%s: capacity cannot be negative", name)
	}

	return &bufferImpl[T]{
		NamedBase: sim.MakeNamedBase(name),
		capacity:  capacity,
	}
}

type bufferImpl[T any] struct {
	sim.NamedBase
	sim.HookableBase

	capacity int
	elements []T
}

func (b *bufferImpl[T]) Enqueue(e T) bool {
	if len(b.elements) >= b.capacity {
		b.invoke(HookPosBufReject, e)
		return false
	}

	b.elements = append(b.elements, e)
	b.invoke(HookPosBufPush, e)

	return true
}

func (b *bufferImpl[T]) Dequeue() (T, bool) {
	var zero T

	if len(b.elements) == 0 {
		return zero, false
	}

	e := b.elements[0]
	b.elements[0] = zero
	b.elements = b.elements[1:]
	b.invoke(HookPosBufPop, e)

	return e, true
}

func (b *bufferImpl[T]) Front() (T, bool) {
	if len(b.elements) == 0 {
		var zero T
		return zero, false
	}

	return b.elements[0], true
}

func (b *bufferImpl[T]) Capacity() int {
	return b.capacity
}

func (b *bufferImpl[T]) Occupied() int {
	return len(b.elements)
}

func (b *bufferImpl[T]) Free() int {
	return b.capacity - len(b.elements)
}

func (b *bufferImpl[T]) Empty() bool {
	return len(b.elements) == 0
}

func (b *bufferImpl[T]) Clear() {
	b.elements = nil
}

func (b *bufferImpl[T]) invoke(pos *sim.HookPos, e T) {
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    pos,
		Item:   e,
	})
}
