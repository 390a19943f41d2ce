package cmd

import (
	"bytes"
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vcnoc/config"
	"github.com/sarchlab/vcnoc/datarecording"
	"github.com/sarchlab/vcnoc/noc/router"
)

const bench = `
name: Bench
position: {x: 1, y: 1}
cycles: 100
ports:
  - {dir: Local, vcs: 2, depth: 4}
  - {dir: East, vcs: 2, depth: 4}
injections:
  - {from: Local, to: East, flits: 3}
`

var _ = Describe("run", func() {
	It("should report the statistics", func() {
		c, err := config.Parse([]byte(bench))
		Expect(err).NotTo(HaveOccurred())

		out := new(bytes.Buffer)
		Expect(runTestbench(&c, runOptions{}, out)).To(Succeed())

		Expect(out.String()).To(ContainSubstring("drained: true"))
		Expect(out.String()).To(ContainSubstring("packets sent        1"))
		Expect(out.String()).
			To(ContainSubstring("Bench.Agent[East] sent 0 flits, received 1 packets"))
		Expect(out.String()).To(ContainSubstring("cycles over 1 packets"))
	})

	It("should log the clock edges", func() {
		c, err := config.Parse([]byte(bench))
		Expect(err).NotTo(HaveOccurred())

		logs := new(bytes.Buffer)
		opts := runOptions{logEdges: true, logOut: logs}
		Expect(runTestbench(&c, opts, new(bytes.Buffer))).To(Succeed())

		Expect(logs.String()).
			To(ContainSubstring("Bench.Clock, cycle 0, rising edge"))
		Expect(logs.String()).
			To(ContainSubstring("Bench.Clock, cycle 1, falling edge"))
	})

	It("should fail on an invalid configuration", func() {
		c, err := config.Parse([]byte(bench + "arbiter: lottery\n"))
		Expect(err).NotTo(HaveOccurred())

		Expect(runTestbench(&c, runOptions{}, new(bytes.Buffer))).
			NotTo(Succeed())
	})
})

var _ = Describe("report", func() {
	It("should count the events by kind", func() {
		db, err := sql.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		db.SetMaxOpenConns(1)

		w := datarecording.NewWithDB(db)
		w.CreateTable(router.EventTable, router.Event{})
		w.InsertData(router.EventTable, router.Event{Cycle: 3, Kind: "b"})
		w.InsertData(router.EventTable, router.Event{Cycle: 7, Kind: "a"})
		w.InsertData(router.EventTable, router.Event{Cycle: 5, Kind: "b"})
		w.Flush()

		out := new(bytes.Buffer)
		reader := datarecording.NewReaderWithDB(db)
		Expect(summarize(context.Background(), reader, out)).To(Succeed())

		Expect(out.String()).To(HavePrefix("3 events, last at cycle 7\n"))
		Expect(out.String()).To(MatchRegexp(`a\s+1\n\s+b\s+2`))
		Expect(out.String()).To(MatchRegexp(`router_event\s+3 rows`))
	})
})
