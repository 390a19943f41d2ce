package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vcnoc/config"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/routing"
	"github.com/sarchlab/vcnoc/noc/topology"
)

const threePorts = `
name: Bench
position: {x: 1, y: 1}
ports:
  - {dir: Local, vcs: 2, depth: 4}
  - {dir: East, vcs: 2, depth: 4}
  - {dir: West, vcs: 2, depth: 4, peer_vcs: 3}
`

func mustParse(text string) config.Config {
	c, err := config.Parse([]byte(text))
	Expect(err).NotTo(HaveOccurred())

	return c
}

var _ = Describe("Parse", func() {
	It("should keep the defaults", func() {
		c := mustParse(threePorts)

		Expect(c.Name).To(Equal("Bench"))
		Expect(c.FreqMHz).To(Equal(1000.0))
		Expect(c.Routing).To(Equal(routing.RoutingXYZ))
		Expect(c.Selection).To(Equal(routing.SelectionRoundRobin))
		Expect(c.Arbiter).To(Equal(router.ArbiterRRVC))
		Expect(c.FlowControlThreshold).To(Equal(2))
		Expect(*c.ReservedSlots).To(Equal(1))
		Expect(c.Validate()).To(Succeed())
	})

	It("should default the peer VCs to the VCs", func() {
		c := mustParse(threePorts)

		Expect(c.Ports[0].PeerVCs).To(Equal(2))
		Expect(c.Ports[2].PeerVCs).To(Equal(3))
	})

	It("should accept zero reserved slots", func() {
		c := mustParse(threePorts + "reserved_slots: 0\n")

		Expect(*c.ReservedSlots).To(Equal(0))
	})

	It("should reject unknown fields", func() {
		_, err := config.Parse([]byte(threePorts + "speed: 3\n"))

		Expect(err).To(HaveOccurred())
	})

	It("should convert the log switches", func() {
		c := mustParse(threePorts + "log: {enabled: true, drop: true}\n")

		Expect(c.Log.Flags()).To(Equal(router.LogFlags{Drop: true}))
	})
})

var _ = Describe("Validate", func() {
	DescribeTable("rejecting bad configurations",
		func(extra, message string) {
			c := mustParse(threePorts + extra)

			err := c.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(message))
		},
		Entry("routing", "routing: Zigzag\n", "unknown routing"),
		Entry("selection", "selection: Random\n", "unknown selection"),
		Entry("arbiter", "arbiter: lottery\n", "unknown arbiter"),
		Entry("threshold", "flow_control_threshold: 0\n", "threshold"),
		Entry("frequency", "freq_mhz: -1\n", "frequency"),
		Entry("no slot left", "reserved_slots: 4\n", "leaves no slot"),
		Entry("threshold above the free slots",
			"flow_control_threshold: 4\n", "below the flow control threshold"),
		Entry("reserved slots hide the threshold",
			"reserved_slots: 3\n", "below the flow control threshold"),
		Entry("injection port",
			"injections: [{from: North, to: East, flits: 2}]\n",
			"no port in direction North"),
		Entry("injection length",
			"injections: [{from: Local, to: East, flits: 1}]\n",
			"at least 2 flits"),
		Entry("injection VC",
			"injections: [{from: Local, to: East, vc: 2, flits: 2}]\n",
			"no VC 2"),
		Entry("stall VC", "stalls: [{dir: East, vc: 5}]\n", "no VC 5"),
		Entry("stall window",
			"stalls: [{dir: East, start: 4, end: 2}]\n", "ends before"),
		Entry("routes without table",
			"routes: [{dst: East, via: East}]\n", "require the Table"),
	)

	It("should reject a duplicated direction", func() {
		c := mustParse(threePorts + "")
		c.Ports = append(c.Ports, config.Port{Dir: "East", VCs: 1, Depth: 4, PeerVCs: 1})

		Expect(c.Validate()).To(MatchError(ContainSubstring("used twice")))
	})

	It("should reject a config without ports", func() {
		c := config.Default()

		Expect(c.Validate()).To(MatchError(ContainSubstring("at least one port")))
	})

	It("should allow stalls on the peer VCs", func() {
		c := mustParse(threePorts + "stalls: [{dir: West, vc: 2, end: 3}]\n")

		Expect(c.Validate()).To(Succeed())
	})
})

var _ = Describe("Environment", func() {
	It("should override the recorder path and monitor port", func() {
		c := mustParse(threePorts)

		Expect(c.ApplyEnv(map[string]string{
			config.EnvRecorderPath: "out/run",
			config.EnvRecorderDSN:  "clickhouse://localhost:9000/noc",
			config.EnvMonitorPort:  "32001",
		})).To(Succeed())

		Expect(c.RecorderPath).To(Equal("out/run"))
		Expect(c.RecorderDSN).To(Equal("clickhouse://localhost:9000/noc"))
		Expect(c.MonitorPort).To(Equal(32001))
	})

	It("should reject a bad port", func() {
		c := mustParse(threePorts)

		Expect(c.ApplyEnv(map[string]string{config.EnvMonitorPort: "x"})).
			NotTo(Succeed())
	})

	It("should load a file with an env file", func() {
		dir := GinkgoT().TempDir()
		cfgPath := filepath.Join(dir, "bench.yaml")
		envPath := filepath.Join(dir, ".env")

		Expect(os.WriteFile(cfgPath, []byte(threePorts), 0o600)).To(Succeed())
		Expect(os.WriteFile(envPath,
			[]byte(config.EnvRecorderPath+"=from_env\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv(config.EnvMonitorPort, "33000")

		c, err := config.Load(cfgPath, envPath, filepath.Join(dir, "missing.env"))

		Expect(err).NotTo(HaveOccurred())
		Expect(c.RecorderPath).To(Equal("from_env"))
		Expect(c.MonitorPort).To(Equal(33000))
	})

	It("should name the file in errors", func() {
		_, err := config.Load("does-not-exist.yaml")

		Expect(err).To(MatchError(ContainSubstring("does-not-exist.yaml")))
	})
})

var _ = Describe("Build", func() {
	It("should deliver the injected packets", func() {
		c := mustParse(threePorts + `
cycles: 200
injections:
  - {cycle: 0, from: Local, to: East, vc: 0, flits: 4}
  - {cycle: 2, from: West, to: East, vc: 1, flits: 3}
stalls:
  - {dir: East, vc: 0, start: 1, end: 6}
`)

		tb, err := c.Build()
		Expect(err).NotTo(HaveOccurred())

		tb.StopWhenDrained()
		Expect(tb.Run(c.Cycles)).To(Succeed())

		Expect(tb.Agent(topology.East).ReceivedPackets).To(HaveLen(2))
		Expect(tb.Router.Stats().DroppedPackets.Load()).To(BeZero())
	})

	It("should fill the routing table", func() {
		c := mustParse(threePorts + `
routing: Table
routes:
  - {dst: East, via: East}
default_route: Local
injections:
  - {cycle: 0, from: West, to: East, flits: 2}
  - {cycle: 0, from: East, to: West, flits: 2}
`)

		tb, err := c.Build()
		Expect(err).NotTo(HaveOccurred())

		tb.StopWhenDrained()
		Expect(tb.Run(200)).To(Succeed())

		Expect(tb.Agent(topology.East).ReceivedPackets).To(HaveLen(1))
		Expect(tb.Agent(topology.Local).Received).To(HaveLen(2))
	})
})
