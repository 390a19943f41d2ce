// Package config describes a router testbench in a YAML file.
package config

import (
	"bytes"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/noc/topology"
)

// The environment variables that override the file.
const (
	EnvRecorderPath = "VCNOC_RECORDER_PATH"
	EnvRecorderDSN  = "VCNOC_RECORDER_DSN"
	EnvMonitorPort  = "VCNOC_MONITOR_PORT"
)

// Position is the coordinate of the router node.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// Port describes one connection of the router. PeerVCs defaults to VCs.
type Port struct {
	Dir     string `yaml:"dir"`
	VCs     int    `yaml:"vcs"`
	Depth   int    `yaml:"depth"`
	PeerVCs int    `yaml:"peer_vcs"`
}

// Log selects what the router logger writes.
type Log struct {
	Enabled         bool `yaml:"enabled"`
	ReceiveHeadFlit bool `yaml:"receive_head_flit"`
	ReceiveFlit     bool `yaml:"receive_flit"`
	SendHeadFlit    bool `yaml:"send_head_flit"`
	SendFlit        bool `yaml:"send_flit"`
	BufferOverflow  bool `yaml:"buffer_overflow"`
	Throttle        bool `yaml:"throttle"`
	AssignChannel   bool `yaml:"assign_channel"`
	Drop            bool `yaml:"drop"`
	Reroute         bool `yaml:"reroute"`
}

// Flags converts the switches to router log flags.
func (l Log) Flags() router.LogFlags {
	return router.LogFlags{
		ReceiveHeadFlit: l.ReceiveHeadFlit,
		ReceiveFlit:     l.ReceiveFlit,
		SendHeadFlit:    l.SendHeadFlit,
		SendFlit:        l.SendFlit,
		BufferOverflow:  l.BufferOverflow,
		Throttle:        l.Throttle,
		AssignChannel:   l.AssignChannel,
		Drop:            l.Drop,
		Reroute:         l.Reroute,
	}
}

// Injection sends a packet from the agent in From to the agent in To.
type Injection struct {
	Cycle uint64 `yaml:"cycle"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	VC    int    `yaml:"vc"`
	Flits int    `yaml:"flits"`
	Class int    `yaml:"class"`
}

// Stall withdraws the flow control of a VC of the agent in Dir during
// [Start, End).
type Stall struct {
	Dir   string `yaml:"dir"`
	VC    int    `yaml:"vc"`
	Start uint64 `yaml:"start"`
	End   uint64 `yaml:"end"`
}

// Route is a routing-table entry. Dst names the agent the packet goes to.
type Route struct {
	Dst string `yaml:"dst"`
	Via string `yaml:"via"`
}

// Config is a router testbench.
type Config struct {
	Name                 string      `yaml:"name"`
	FreqMHz              float64     `yaml:"freq_mhz"`
	Cycles               uint64      `yaml:"cycles"`
	Position             Position    `yaml:"position"`
	Ports                []Port      `yaml:"ports"`
	Routing              string      `yaml:"routing"`
	Selection            string      `yaml:"selection"`
	Arbiter              string      `yaml:"arbiter"`
	FlowControlThreshold int         `yaml:"flow_control_threshold"`
	ReservedSlots        *int        `yaml:"reserved_slots"`
	Log                  Log         `yaml:"log"`
	Injections           []Injection `yaml:"injections"`
	Stalls               []Stall     `yaml:"stalls"`
	Routes               []Route     `yaml:"routes"`
	DefaultRoute         string      `yaml:"default_route"`
	RecorderPath         string      `yaml:"recorder_path"`
	RecorderDSN          string      `yaml:"recorder_dsn"`
	MonitorPort          int         `yaml:"monitor_port"`
}

// Default returns a configuration with the default router parameters and no
// ports.
func Default() Config {
	reserved := 1

	return Config{
		Name:                 "VCNoC",
		FreqMHz:              1000,
		Cycles:               1000,
		Routing:              routing.RoutingXYZ,
		Selection:            routing.SelectionRoundRobin,
		Arbiter:              router.ArbiterRRVC,
		FlowControlThreshold: 2,
		ReservedSlots:        &reserved,
	}
}

// Parse reads a configuration from YAML. Fields that are not given keep
// their default values. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&c)
	if err != nil {
		return c, errors.Wrap(err, "cannot decode config")
	}

	for i := range c.Ports {
		if c.Ports[i].PeerVCs == 0 {
			c.Ports[i].PeerVCs = c.Ports[i].VCs
		}
	}

	if c.ReservedSlots == nil {
		reserved := 1
		c.ReservedSlots = &reserved
	}

	return c, nil
}

// Load reads and validates the configuration file at path. The values in the
// environment files, and then in the process environment, override the
// file.
func Load(path string, envFiles ...string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot read config %s", path)
	}

	c, err := Parse(data)
	if err != nil {
		return c, errors.Wrapf(err, "config %s", path)
	}

	env, err := ReadEnv(envFiles...)
	if err != nil {
		return c, err
	}

	err = c.ApplyEnv(env)
	if err != nil {
		return c, err
	}

	err = c.Validate()
	if err != nil {
		return c, errors.Wrapf(err, "config %s", path)
	}

	return c, nil
}

// ReadEnv collects the overriding variables. Files that do not exist are
// skipped. The process environment wins over the files.
func ReadEnv(files ...string) (map[string]string, error) {
	env := make(map[string]string)

	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}

		values, err := godotenv.Read(f)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read env file %s", f)
		}

		for k, v := range values {
			env[k] = v
		}
	}

	for _, k := range []string{EnvRecorderPath, EnvRecorderDSN, EnvMonitorPort} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}

	return env, nil
}

// ApplyEnv overrides the recorder destinations and the monitor port.
func (c *Config) ApplyEnv(env map[string]string) error {
	if v, ok := env[EnvRecorderPath]; ok {
		c.RecorderPath = v
	}

	if v, ok := env[EnvRecorderDSN]; ok {
		c.RecorderDSN = v
	}

	if v, ok := env[EnvMonitorPort]; ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvMonitorPort)
		}

		c.MonitorPort = port
	}

	return nil
}

// Validate checks that the configuration describes a testbench that can be
// built.
func (c *Config) Validate() error {
	if c.FreqMHz <= 0 {
		return errors.Errorf("frequency must be positive, got %g MHz", c.FreqMHz)
	}

	err := c.validateStrategies()
	if err != nil {
		return err
	}

	vcs, err := c.validatePorts()
	if err != nil {
		return err
	}

	err = c.validateInjections(vcs)
	if err != nil {
		return err
	}

	err = c.validateStalls(vcs)
	if err != nil {
		return err
	}

	return c.validateRoutes(vcs)
}

func (c *Config) validateStrategies() error {
	node := topology.NewNode(0, topology.Vec3{})

	if _, err := routing.NewRouting(c.Routing, node); err != nil {
		return errors.WithStack(err)
	}

	if _, err := routing.NewSelection(c.Selection, node); err != nil {
		return errors.WithStack(err)
	}

	if _, err := router.NewArbiter(c.Arbiter); err != nil {
		return errors.WithStack(err)
	}

	if c.FlowControlThreshold <= 0 {
		return errors.Errorf("flow control threshold must be positive, got %d",
			c.FlowControlThreshold)
	}

	if *c.ReservedSlots < 0 {
		return errors.Errorf("reserved slots cannot be negative, got %d",
			*c.ReservedSlots)
	}

	return nil
}

// validatePorts returns the number of peer VCs by direction.
func (c *Config) validatePorts() (map[topology.Direction]int, error) {
	if len(c.Ports) == 0 {
		return nil, errors.New("at least one port is required")
	}

	peerVCs := make(map[topology.Direction]int)

	for i, p := range c.Ports {
		dir, ok := topology.ParseDirection(p.Dir)
		if !ok {
			return nil, errors.Errorf("port %d: unknown direction %q", i, p.Dir)
		}

		if _, dup := peerVCs[dir]; dup {
			return nil, errors.Errorf("port %d: direction %s used twice", i, dir)
		}

		if p.VCs <= 0 || p.PeerVCs <= 0 {
			return nil, errors.Errorf("port %s: VC counts must be positive", dir)
		}

		if p.Depth <= *c.ReservedSlots {
			return nil, errors.Errorf(
				"port %s: depth %d leaves no slot after %d reserved",
				dir, p.Depth, *c.ReservedSlots)
		}

		// A buffer with fewer free slots than the threshold never reports
		// ready, so its upstream neighbor could never send.
		if p.Depth-*c.ReservedSlots < c.FlowControlThreshold {
			return nil, errors.Errorf(
				"port %s: depth %d minus %d reserved is below the flow control threshold %d",
				dir, p.Depth, *c.ReservedSlots, c.FlowControlThreshold)
		}

		peerVCs[dir] = p.PeerVCs
	}

	return peerVCs, nil
}

func (c *Config) validateInjections(vcs map[topology.Direction]int) error {
	for i, inj := range c.Injections {
		from, err := knownDir(vcs, inj.From)
		if err != nil {
			return errors.Wrapf(err, "injection %d", i)
		}

		if _, err := knownDir(vcs, inj.To); err != nil {
			return errors.Wrapf(err, "injection %d", i)
		}

		if inj.Flits < 2 {
			return errors.Errorf("injection %d: a packet needs at least 2 flits", i)
		}

		if inj.VC < 0 || inj.VC >= c.routerVCs(from) {
			return errors.Errorf("injection %d: no VC %d on port %s",
				i, inj.VC, from)
		}
	}

	return nil
}

func (c *Config) validateStalls(vcs map[topology.Direction]int) error {
	for i, s := range c.Stalls {
		dir, err := knownDir(vcs, s.Dir)
		if err != nil {
			return errors.Wrapf(err, "stall %d", i)
		}

		if s.VC < 0 || s.VC >= vcs[dir] {
			return errors.Errorf("stall %d: no VC %d on agent %s", i, s.VC, dir)
		}

		if s.End < s.Start {
			return errors.Errorf("stall %d: ends before it starts", i)
		}
	}

	return nil
}

func (c *Config) validateRoutes(vcs map[topology.Direction]int) error {
	if (len(c.Routes) > 0 || c.DefaultRoute != "") &&
		c.Routing != routing.RoutingTable {
		return errors.Errorf("routes require the %s routing",
			routing.RoutingTable)
	}

	for i, r := range c.Routes {
		if _, err := knownDir(vcs, r.Dst); err != nil {
			return errors.Wrapf(err, "route %d", i)
		}

		if _, err := knownDir(vcs, r.Via); err != nil {
			return errors.Wrapf(err, "route %d", i)
		}
	}

	if c.DefaultRoute != "" {
		if _, err := knownDir(vcs, c.DefaultRoute); err != nil {
			return errors.Wrap(err, "default route")
		}
	}

	return nil
}

func (c *Config) routerVCs(dir topology.Direction) int {
	for _, p := range c.Ports {
		d, _ := topology.ParseDirection(p.Dir)
		if d == dir {
			return p.VCs
		}
	}

	return 0
}

func knownDir(
	vcs map[topology.Direction]int,
	name string,
) (topology.Direction, error) {
	dir, ok := topology.ParseDirection(name)
	if !ok {
		return dir, errors.Errorf("unknown direction %q", name)
	}

	if _, ok := vcs[dir]; !ok {
		return dir, errors.Errorf("no port in direction %s", dir)
	}

	return dir, nil
}
