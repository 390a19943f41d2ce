package router

import (
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/sim"
)

// Hook positions of the router. The item is the flit involved, except for
// HookPosPacketDropped where it is the packet. The detail is a FlitDetail.
var (
	HookPosFlitReceived      = &sim.HookPos{Name: "router_receive_flit"}
	HookPosBufferOverflow    = &sim.HookPos{Name: "router_buffer_overflow"}
	HookPosProtocolViolation = &sim.HookPos{Name: "router_protocol_violation"}
	HookPosRouteFail         = &sim.HookPos{Name: "router_routefail"}
	HookPosSelectFail        = &sim.HookPos{Name: "router_selectfail"}
	HookPosDecisionFail      = &sim.HookPos{Name: "router_decisfail"}
	HookPosReroute           = &sim.HookPos{Name: "router_reroute"}
	HookPosRerouteFail       = &sim.HookPos{Name: "router_select2fail"}
	HookPosPacketDropped     = &sim.HookPos{Name: "pkg_dropped"}
	HookPosFlowControlStall  = &sim.HookPos{Name: "router_flow"}
	HookPosChannelAssigned   = &sim.HookPos{Name: "router_assigned"}
	HookPosFlitSent          = &sim.HookPos{Name: "router_send_flit"}
)

// FlitDetail tells where a flit is in the router when a hook is triggered.
type FlitDetail struct {
	Cycle uint64
	In    routing.Channel
	Out   routing.Channel
}

func (c *Comp) invoke(
	pos *sim.HookPos,
	item interface{},
	in, out routing.Channel,
) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
		Detail: FlitDetail{Cycle: c.cycle, In: in, Out: out},
	})
}
