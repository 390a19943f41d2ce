package router

import "sync/atomic"

// Statistics are the counters shared by all the routers of a simulation.
type Statistics struct {
	FlitsReceived      atomic.Uint64
	FlitsSent          atomic.Uint64
	PacketsSent        atomic.Uint64
	DroppedPackets     atomic.Uint64
	BufferOverflows    atomic.Uint64
	ProtocolViolations atomic.Uint64
	RouteFailures      atomic.Uint64
	SelectFailures     atomic.Uint64
	DecisionFailures   atomic.Uint64
	RerouteFailures    atomic.Uint64
	Reroutes           atomic.Uint64
	FlowControlStalls  atomic.Uint64
}

// NewStatistics creates a set of counters starting from 0.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// StatisticsSnapshot is a copy of the counters at a moment.
type StatisticsSnapshot struct {
	FlitsReceived      uint64 `json:"flits_received"`
	FlitsSent          uint64 `json:"flits_sent"`
	PacketsSent        uint64 `json:"packets_sent"`
	DroppedPackets     uint64 `json:"dropped_packets"`
	BufferOverflows    uint64 `json:"buffer_overflows"`
	ProtocolViolations uint64 `json:"protocol_violations"`
	RouteFailures      uint64 `json:"route_failures"`
	SelectFailures     uint64 `json:"select_failures"`
	DecisionFailures   uint64 `json:"decision_failures"`
	RerouteFailures    uint64 `json:"reroute_failures"`
	Reroutes           uint64 `json:"reroutes"`
	FlowControlStalls  uint64 `json:"flow_control_stalls"`
}

// Snapshot copies the counters.
func (s *Statistics) Snapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		FlitsReceived:      s.FlitsReceived.Load(),
		FlitsSent:          s.FlitsSent.Load(),
		PacketsSent:        s.PacketsSent.Load(),
		DroppedPackets:     s.DroppedPackets.Load(),
		BufferOverflows:    s.BufferOverflows.Load(),
		ProtocolViolations: s.ProtocolViolations.Load(),
		RouteFailures:      s.RouteFailures.Load(),
		SelectFailures:     s.SelectFailures.Load(),
		DecisionFailures:   s.DecisionFailures.Load(),
		RerouteFailures:    s.RerouteFailures.Load(),
		Reroutes:           s.Reroutes.Load(),
		FlowControlStalls:  s.FlowControlStalls.Load(),
	}
}
