package router

import (
	"log"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/sim"
)

// LogFlags selects the router activities that a Logger writes.
type LogFlags struct {
	ReceiveHeadFlit bool
	ReceiveFlit     bool
	SendHeadFlit    bool
	SendFlit        bool
	BufferOverflow  bool
	Throttle        bool
	AssignChannel   bool
	Drop            bool
	Reroute         bool
}

// AllLogFlags turns on every switch.
func AllLogFlags() LogFlags {
	return LogFlags{
		ReceiveHeadFlit: true,
		ReceiveFlit:     true,
		SendHeadFlit:    true,
		SendFlit:        true,
		BufferOverflow:  true,
		Throttle:        true,
		AssignChannel:   true,
		Drop:            true,
		Reroute:         true,
	}
}

// Logger is a hook that writes router activities into a logger. Routing
// failures and protocol violations are always written.
type Logger struct {
	sim.LogHookBase

	Flags LogFlags
}

// NewLogger creates a Logger that writes into the logger.
func NewLogger(logger *log.Logger, flags LogFlags) *Logger {
	h := new(Logger)
	h.Logger = logger
	h.Flags = flags

	return h
}

// Func writes the activity if it is selected.
func (h *Logger) Func(ctx sim.HookCtx) {
	router, ok := ctx.Domain.(*Comp)
	if !ok {
		return
	}

	detail, _ := ctx.Detail.(FlitDetail)

	switch ctx.Pos {
	case HookPosFlitReceived:
		h.logFlit(router, detail, ctx.Item,
			h.Flags.ReceiveFlit, h.Flags.ReceiveHeadFlit, "Receive")
	case HookPosFlitSent:
		h.logFlit(router, detail, ctx.Item,
			h.Flags.SendFlit, h.Flags.SendHeadFlit, "Send")
	case HookPosBufferOverflow:
		if h.Flags.BufferOverflow {
			h.write(router, detail, "Buffer overflow, flit %s lost", ctx.Item)
		}
	case HookPosFlowControlStall:
		if h.Flags.Throttle {
			h.write(router, detail, "Throttled by %s, flit %s",
				detail.Out, ctx.Item)
		}
	case HookPosChannelAssigned:
		if h.Flags.AssignChannel {
			h.write(router, detail, "Assign channel %s to %s",
				detail.Out, ctx.Item)
		}
	case HookPosPacketDropped:
		if h.Flags.Drop {
			h.write(router, detail, "Drop packet %s",
				ctx.Item.(*messaging.Packet).ID)
		}
	case HookPosReroute:
		if h.Flags.Reroute {
			h.write(router, detail, "Reroute flit %s", ctx.Item)
		}
	case HookPosRouteFail:
		h.write(router, detail, "Route failure, flit %s", ctx.Item)
	case HookPosSelectFail:
		h.write(router, detail, "Selection failure, flit %s", ctx.Item)
	case HookPosDecisionFail:
		h.write(router, detail, "Decision failure, flit %s", ctx.Item)
	case HookPosRerouteFail:
		h.write(router, detail, "Reroute failure, flit %s", ctx.Item)
	case HookPosProtocolViolation:
		h.write(router, detail, "Flit %s has no head, discarded", ctx.Item)
	}
}

func (h *Logger) logFlit(
	router *Comp,
	detail FlitDetail,
	item interface{},
	anyFlit, headFlit bool,
	action string,
) {
	flit, ok := item.(*messaging.Flit)
	if !ok {
		return
	}

	if anyFlit || (headFlit && flit.Type == messaging.Head) {
		h.write(router, detail, "%s %s flit %s", action, flit.Type, flit)
	}
}

func (h *Logger) write(
	router *Comp,
	detail FlitDetail,
	format string,
	args ...interface{},
) {
	dirName := "-"
	if detail.In.Valid() {
		dirName = router.node.PortToDir(detail.In.Dir).String()
	}

	prefix := []interface{}{detail.Cycle, router.Name(), dirName, detail.In.VC}
	h.Logger.Printf("%d,%s[%s%d]\t- "+format, append(prefix, args...)...)
}
