package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type timedEvent struct {
	EventBase
	label string
}

func newTimedEvent(t VTimeInSec, label string) *timedEvent {
	return &timedEvent{EventBase: *NewEventBase(t, nil), label: label}
}

var _ = Describe("eventQueue", func() {
	var q *eventQueue

	BeforeEach(func() {
		q = &eventQueue{}
	})

	It("should pop in time order", func() {
		for _, t := range []VTimeInSec{5, 1, 4, 2, 3} {
			q.push(newTimedEvent(t, ""))
		}

		times := []VTimeInSec{}
		for q.len() > 0 {
			times = append(times, q.pop().Time())
		}

		Expect(times).To(Equal([]VTimeInSec{1, 2, 3, 4, 5}))
	})

	It("should keep the push order of events at the same time", func() {
		q.push(newTimedEvent(2, "late"))
		for _, l := range []string{"a", "b", "c", "d"} {
			q.push(newTimedEvent(1, l))
		}

		Expect(q.peek().(*timedEvent).label).To(Equal("a"))

		labels := []string{}
		for q.len() > 0 {
			labels = append(labels, q.pop().(*timedEvent).label)
		}

		Expect(labels).To(Equal([]string{"a", "b", "c", "d", "late"}))
	})
})
