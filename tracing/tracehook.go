// Package tracing follows packets through routers as tasks.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/sim"
)

// CollectTrace lets the tracer collect the packet traversals of a router.
func CollectTrace(c *router.Comp, tracer Tracer) {
	for _, hook := range c.Hooks {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"router %s already has tracer %s",
				c.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer}
	c.AcceptHook(&h)
}

// A traceHook turns router activities into tasks. A task starts when the
// head flit arrives and ends when the tail leaves or the packet is dropped.
type traceHook struct {
	t Tracer
}

func taskID(c *router.Comp, pkt *messaging.Packet) string {
	return pkt.ID + "@" + c.Name()
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx sim.HookCtx) {
	c, ok := ctx.Domain.(*router.Comp)
	if !ok {
		return
	}

	detail, _ := ctx.Detail.(router.FlitDetail)

	switch ctx.Pos {
	case router.HookPosFlitReceived:
		flit := ctx.Item.(*messaging.Flit)
		if flit.Type == messaging.Head {
			h.t.StartTask(Task{
				ID:         taskID(c, flit.Packet),
				ParentID:   flit.Packet.ID,
				Kind:       "packet",
				What:       "traverse",
				Where:      c.Name(),
				StartCycle: detail.Cycle,
				Detail:     flit.Packet,
			})
		}
	case router.HookPosChannelAssigned:
		h.step(c, ctx.Item, detail.Cycle, "assign_channel")
	case router.HookPosReroute:
		h.step(c, ctx.Item, detail.Cycle, "reroute")
	case router.HookPosFlitSent:
		flit := ctx.Item.(*messaging.Flit)
		switch flit.Type {
		case messaging.Head:
			h.step(c, flit, detail.Cycle, "send_head")
		case messaging.Tail:
			h.end(c, flit.Packet, detail.Cycle, OutcomeSent)
		}
	case router.HookPosPacketDropped:
		h.end(c, ctx.Item.(*messaging.Packet), detail.Cycle, OutcomeDropped)
	case router.HookPosBufferOverflow:
		flit := ctx.Item.(*messaging.Flit)
		if flit.Type == messaging.Head {
			h.end(c, flit.Packet, detail.Cycle, OutcomeLost)
		}
	}
}

func (h *traceHook) step(
	c *router.Comp,
	item interface{},
	cycle uint64,
	what string,
) {
	flit, ok := item.(*messaging.Flit)
	if !ok {
		return
	}

	h.t.StepTask(Task{
		ID:    taskID(c, flit.Packet),
		Steps: []TaskStep{{Cycle: cycle, What: what}},
	})
}

func (h *traceHook) end(
	c *router.Comp,
	pkt *messaging.Packet,
	cycle uint64,
	outcome string,
) {
	h.t.EndTask(Task{
		ID:       taskID(c, pkt),
		Outcome:  outcome,
		EndCycle: cycle,
	})
}
