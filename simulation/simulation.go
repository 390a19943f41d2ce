// Package simulation bundles a router testbench with the services that
// observe it.
package simulation

import (
	"github.com/sarchlab/vcnoc/datarecording"
	"github.com/sarchlab/vcnoc/monitoring"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/sim"
	"github.com/sarchlab/vcnoc/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	tb *standalone.Testbench

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	visTracer    *tracing.DBTracer
	latency      *tracing.LatencyTracer
	busy         *tracing.BusyTimeTracer

	components    []sim.Named
	compNameIndex map[string]int
}

// GetTestbench returns the testbench that is simulated.
func (s *Simulation) GetTestbench() *standalone.Testbench {
	return s.tb
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// if nothing is recorded.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil if
// monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetVisTracer returns the tracer that stores the packet traversals.
func (s *Simulation) GetVisTracer() *tracing.DBTracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Named) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// GetComponentByName returns the component with the given name.
func (s *Simulation) GetComponentByName(name string) sim.Named {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Run runs at most maxCycles cycles. Zero means no limit. Unless
// keepRunning is set, the simulation stops once every packet is delivered.
func (s *Simulation) Run(maxCycles uint64, keepRunning bool) error {
	if s.monitor != nil {
		s.monitor.TrackCycles(s.tb.Clock, maxCycles)

		pending := 0
		for _, a := range s.tb.Agents {
			pending += a.NumPending()
		}

		s.monitor.TrackPackets(s.tb.Router.Name()+".Packets",
			uint64(pending), s.tb.Agents...)
	}

	if !keepRunning {
		s.tb.StopWhenDrained()
	}

	err := s.tb.Run(maxCycles)
	if err != nil {
		return err
	}

	s.busy.TerminateAllTasks(s.tb.Clock.Cycle())

	return nil
}

// A Report summarizes a finished run.
type Report struct {
	Cycles     uint64
	Drained    bool
	Stats      router.StatisticsSnapshot
	Latency    tracing.LatencySummary
	BusyCycles uint64
}

// Report summarizes the run.
func (s *Simulation) Report() Report {
	return Report{
		Cycles:     s.tb.Clock.Cycle(),
		Drained:    s.tb.Drained(),
		Stats:      s.tb.Router.Stats().Snapshot(),
		Latency:    s.latency.Outcome(tracing.OutcomeSent),
		BusyCycles: s.busy.BusyCycles(),
	}
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	if s.dataRecorder != nil {
		_ = s.dataRecorder.Close()
	}
}
