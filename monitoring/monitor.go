// Package monitoring serves the state of a running router simulation over
// HTTP. It can pause the engine, show components and their fields, list the
// fullest buffers, and report the resource usage of the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"

	"github.com/sarchlab/vcnoc/sim"
	"github.com/sarchlab/vcnoc/sim/queueing"
)

// Monitor collects what a simulation exposes and serves it.
type Monitor struct {
	engine      sim.Engine
	clock       *sim.Clock
	components  []sim.Named
	buffers     []queueing.Gauge
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a Monitor that listens on a random port.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port to listen on. Ports below 1000 are reserved
// and fall back to a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		log.Printf("monitor cannot use reserved port %d, "+
			"using a random port", portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser opens the component list in a browser once the server starts.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterEngine sets the engine that /api/pause and /api/continue control.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterClock lets /api/now report the cycle.
func (m *Monitor) RegisterClock(c *sim.Clock) {
	m.clock = c
}

type gaugeOwner interface {
	Gauges() []queueing.Gauge
}

// RegisterComponent exposes a component. If it has buffers, the hang
// detector watches them.
func (m *Monitor) RegisterComponent(c sim.Named) {
	m.components = append(m.components, c)

	if owner, ok := c.(gaugeOwner); ok {
		m.buffers = append(m.buffers, owner.Gauges()...)
	}
}

func (m *Monitor) handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/pause", m.pauseEngine)
	api.HandleFunc("/continue", m.continueEngine)
	api.HandleFunc("/now", m.now)
	api.HandleFunc("/list_components", m.listComponents)
	api.HandleFunc("/component/{name}", m.listComponentDetails)
	api.HandleFunc("/field/{json}", m.listFieldValue)
	api.HandleFunc("/stats/{name}", m.reportStatistics)
	api.HandleFunc("/hangdetector/buffers", m.hangDetectorBuffers)
	api.HandleFunc("/progress", m.listProgressBars)
	api.HandleFunc("/resource", m.listResources)
	api.HandleFunc("/profile", m.collectProfile)

	return r
}

// StartServer serves the API in the background and returns the port.
func (m *Monitor) StartServer() int {
	addr := ":0"
	if m.portNumber > 1000 {
		addr = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", addr)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d/api/list_components", port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		dieOnErr(http.Serve(listener, m.handler()))
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	return port
}

type nowRsp struct {
	Now    sim.VTimeInSec `json:"now"`
	Cycle  *uint64        `json:"cycle,omitempty"`
	Events uint64         `json:"events"`
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	rsp := nowRsp{
		Now:    m.engine.CurrentTime(),
		Events: m.engine.EventCount(),
	}

	if m.clock != nil {
		cycle := m.clock.Cycle()
		rsp.Cycle = &cycle
	}

	writeJSON(w, rsp)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

func badRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "Error: %s", err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
