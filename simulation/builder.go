package simulation

import (
	"strconv"

	"github.com/sarchlab/vcnoc/datarecording"
	"github.com/sarchlab/vcnoc/monitoring"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn    bool
	monitorPort  int
	openBrowser  bool
	dataRecorder datarecording.DataRecorder
}

// MakeBuilder creates a new builder. Monitoring and recording are off by
// default.
func MakeBuilder() Builder {
	return Builder{}
}

// WithMonitoring serves the monitoring API on the port. Zero picks a random
// port.
func (b Builder) WithMonitoring(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port

	return b
}

// WithBrowser opens the monitoring API in a browser.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithDataRecorder records the router events and the packet traversals.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.dataRecorder = r
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}
}

// Build builds the simulation around the testbench.
func (b Builder) Build(tb *standalone.Testbench) *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		tb:            tb,
		dataRecorder:  b.dataRecorder,
		compNameIndex: make(map[string]int),
	}

	if b.dataRecorder != nil {
		recordExecInfo(b.dataRecorder, tb)
		router.NewRecorder(b.dataRecorder).Attach(tb.Router)

		s.visTracer = tracing.NewDBTracer(b.dataRecorder)
		tracing.CollectTrace(tb.Router, s.visTracer)
	}

	s.latency = tracing.NewLatencyTracer(func(t tracing.Task) bool {
		return t.Kind == "packet"
	})
	s.busy = tracing.NewBusyTimeTracer(nil)
	tracing.CollectTrace(tb.Router, s.latency)
	tracing.CollectTrace(tb.Router, s.busy)

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().
			WithPortNumber(b.monitorPort).
			WithBrowser(b.openBrowser)
		s.monitor.RegisterEngine(tb.Engine)
		s.monitor.RegisterClock(tb.Clock)
	}

	s.RegisterComponent(tb.Router)

	for _, a := range tb.Agents {
		s.RegisterComponent(a)
	}

	if s.monitor != nil {
		s.monitor.StartServer()
	}

	return s
}

func recordExecInfo(r datarecording.DataRecorder, tb *standalone.Testbench) {
	info, ok := r.(datarecording.ExecInfoRecorder)
	if !ok {
		return
	}

	info.RecordExecInfo("Router", tb.Router.Name())
	info.RecordExecInfo("Frequency", tb.Clock.Freq().String())
	info.RecordExecInfo("Ports", strconv.Itoa(tb.Router.NumPorts()))
}
