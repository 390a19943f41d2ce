package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/vcnoc/config"
	"github.com/sarchlab/vcnoc/datarecording"
	"github.com/sarchlab/vcnoc/noc/router"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/sim"
	"github.com/sarchlab/vcnoc/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run [config.yaml]",
	Short: "Run the testbench described in a configuration file.",
	Long: "`run` builds the router and its neighbors, runs until every " +
		"packet is delivered or the cycle limit is reached, and prints the " +
		"router statistics.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readRunOptions(cmd)
		if err != nil {
			return err
		}

		if opts.uniqueIDs {
			sim.UseUniqueIDs()
		}

		opts.logOut = cmd.ErrOrStderr()

		c, err := config.Load(args[0], opts.envFile)
		if err != nil {
			return err
		}

		err = runTestbench(&c, opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		atexit.Exit(0)

		return nil
	},
}

type runOptions struct {
	envFile     string
	record      bool
	monitor     bool
	openBrowser bool
	keepRunning bool
	logEdges    bool
	uniqueIDs   bool
	logOut      io.Writer
}

func readRunOptions(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	var err error

	flags := cmd.Flags()

	if opts.envFile, err = flags.GetString("env-file"); err != nil {
		return opts, err
	}

	if opts.record, err = flags.GetBool("record"); err != nil {
		return opts, err
	}

	if opts.monitor, err = flags.GetBool("monitor"); err != nil {
		return opts, err
	}

	if opts.openBrowser, err = flags.GetBool("open-browser"); err != nil {
		return opts, err
	}

	if opts.keepRunning, err = flags.GetBool("keep-running"); err != nil {
		return opts, err
	}

	if opts.logEdges, err = flags.GetBool("log-edges"); err != nil {
		return opts, err
	}

	if opts.uniqueIDs, err = flags.GetBool("unique-ids"); err != nil {
		return opts, err
	}

	return opts, nil
}

func runTestbench(c *config.Config, opts runOptions, out io.Writer) error {
	tb, err := c.Build()
	if err != nil {
		return err
	}

	logOut := opts.logOut
	if logOut == nil {
		logOut = os.Stderr
	}

	if c.Log.Enabled {
		logger := router.NewLogger(log.New(logOut, "", 0), c.Log.Flags())
		tb.Router.AcceptHook(logger)
	}

	if opts.logEdges {
		tb.Engine.AcceptHook(sim.NewEdgeLogger(log.New(logOut, "", 0)))
	}

	b := simulation.MakeBuilder()

	if opts.record || c.RecorderPath != "" || c.RecorderDSN != "" {
		b = b.WithDataRecorder(newDataRecorder(c))
	}

	if opts.monitor || c.MonitorPort != 0 {
		b = b.WithMonitoring(c.MonitorPort)
		if opts.openBrowser {
			b = b.WithBrowser()
		}
	}

	s := b.Build(tb)
	defer s.Terminate()

	err = s.Run(c.Cycles, opts.keepRunning)
	if err != nil {
		return err
	}

	report(out, tb.Router.Name(), tb.Agents, s.Report())

	return nil
}

func newDataRecorder(c *config.Config) datarecording.DataRecorder {
	if c.RecorderDSN != "" {
		return datarecording.NewClickHouse(c.RecorderDSN, 0)
	}

	return datarecording.New(c.RecorderPath)
}

func report(
	out io.Writer,
	routerName string,
	agents []*standalone.Agent,
	r simulation.Report,
) {
	s := r.Stats

	fmt.Fprintf(out, "%s finished after %d cycles, drained: %t\n",
		routerName, r.Cycles, r.Drained)
	fmt.Fprintf(out, "  flits received      %d\n", s.FlitsReceived)
	fmt.Fprintf(out, "  flits sent          %d\n", s.FlitsSent)
	fmt.Fprintf(out, "  packets sent        %d\n", s.PacketsSent)
	fmt.Fprintf(out, "  packets dropped     %d\n", s.DroppedPackets)
	fmt.Fprintf(out, "  buffer overflows    %d\n", s.BufferOverflows)
	fmt.Fprintf(out, "  protocol violations %d\n", s.ProtocolViolations)
	fmt.Fprintf(out, "  reroutes            %d\n", s.Reroutes)
	fmt.Fprintf(out, "  flow control stalls %d\n", s.FlowControlStalls)
	fmt.Fprintf(out, "  average latency     %.2f cycles over %d packets\n",
		r.Latency.Average(), r.Latency.Count)
	fmt.Fprintf(out, "  latency range       %d to %d cycles\n",
		r.Latency.MinCycles, r.Latency.MaxCycles)
	fmt.Fprintf(out, "  busy cycles         %d\n", r.BusyCycles)

	for _, a := range agents {
		fmt.Fprintf(out, "  %s sent %d flits, received %d packets\n",
			a.Name(), a.NumFlitsSent, len(a.ReceivedPackets))
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("env-file", ".env",
		"The file that overrides the recorder path and the monitor port.")
	runCmd.Flags().Bool("record", false,
		"Record router events into SQLite, or ClickHouse if a DSN is set.")
	runCmd.Flags().Bool("monitor", false,
		"Serve the monitoring API while the simulation runs.")
	runCmd.Flags().Bool("open-browser", false,
		"Open the monitoring API in a browser.")
	runCmd.Flags().Bool("keep-running", false,
		"Run all the cycles even after every packet is delivered.")
	runCmd.Flags().Bool("log-edges", false,
		"Write every clock edge to stderr.")
	runCmd.Flags().Bool("unique-ids", false,
		"Name packets with globally unique IDs instead of counting from 1.")
}
