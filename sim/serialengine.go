package sim

import (
	"log"
	"math"
	"reflect"
	"sync"
	"sync/atomic"
)

// HookPosBeforeEvent is invoked before an event is handled. The item is the
// event.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is invoked after an event is handled. The item is the
// event.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// A SerialEngine handles one event at a time on the goroutine that calls Run.
// CurrentTime, EventCount, Pause and Continue can be called from other
// goroutines.
type SerialEngine struct {
	HookableBase

	now     atomic.Uint64
	handled atomic.Uint64

	queueLock sync.Mutex
	queue     eventQueue

	running  sync.Mutex
	gate     sync.Mutex
	pauseMu  sync.Mutex
	isPaused bool
}

// NewSerialEngine creates a SerialEngine at time 0.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{}
}

// CurrentTime returns the time of the event being handled.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return VTimeInSec(math.Float64frombits(e.now.Load()))
}

// EventCount returns the number of events handled.
func (e *SerialEngine) EventCount() uint64 {
	return e.handled.Load()
}

// Schedule adds an event. Scheduling in the past is a bug in the caller.
func (e *SerialEngine) Schedule(evt Event) {
	now := e.CurrentTime()
	if evt.Time() < now {
		log.Panicf("cannot schedule %s at %.10f, now is %.10f",
			reflect.TypeOf(evt), evt.Time(), now)
	}

	e.queueLock.Lock()
	e.queue.push(evt)
	e.queueLock.Unlock()
}

func (e *SerialEngine) next() (Event, bool) {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	if e.queue.len() == 0 {
		return nil, false
	}

	return e.queue.pop(), true
}

// Run handles events until the queue is empty or a handler returns an error.
func (e *SerialEngine) Run() error {
	e.running.Lock()
	defer e.running.Unlock()

	for {
		e.gate.Lock()

		evt, ok := e.next()
		if !ok {
			e.gate.Unlock()
			return nil
		}

		err := e.handle(evt)

		e.gate.Unlock()

		if err != nil {
			return err
		}
	}
}

func (e *SerialEngine) handle(evt Event) error {
	e.now.Store(math.Float64bits(float64(evt.Time())))

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)
	if err != nil {
		return err
	}

	e.handled.Add(1)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	return nil
}

// Pause stops the engine before its next event.
func (e *SerialEngine) Pause() {
	e.pauseMu.Lock()
	defer e.pauseMu.Unlock()

	if e.isPaused {
		return
	}

	e.gate.Lock()
	e.isPaused = true
}

// Continue lets a paused engine go on.
func (e *SerialEngine) Continue() {
	e.pauseMu.Lock()
	defer e.pauseMu.Unlock()

	if !e.isPaused {
		return
	}

	e.isPaused = false
	e.gate.Unlock()
}
