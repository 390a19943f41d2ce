package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vcnoc/datarecording"
	"github.com/sarchlab/vcnoc/noc/router"
)

var reportCmd = &cobra.Command{
	Use:   "report [recording.sqlite3]",
	Short: "Summarize the router events of a recording.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := datarecording.NewReader(args[0])
		defer reader.Close()

		return summarize(cmd.Context(), reader, cmd.OutOrStdout())
	},
}

func summarize(
	ctx context.Context,
	reader datarecording.DataReader,
	out io.Writer,
) error {
	reader.MapTable(router.EventTable, router.Event{})

	events, total, err := reader.Query(ctx, router.EventTable,
		datarecording.QueryParams{OrderBy: "Cycle"})
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	lastCycle := uint64(0)

	for _, e := range events {
		evt := e.(*router.Event)
		counts[evt.Kind]++

		if evt.Cycle > lastCycle {
			lastCycle = evt.Cycle
		}
	}

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	fmt.Fprintf(out, "%d events, last at cycle %d\n", total, lastCycle)

	for _, k := range kinds {
		fmt.Fprintf(out, "  %-24s %d\n", k, counts[k])
	}

	return listTables(ctx, reader, out)
}

func listTables(
	ctx context.Context,
	reader datarecording.DataReader,
	out io.Writer,
) error {
	tables, err := reader.StoredTables(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "tables")

	for _, t := range tables {
		n, err := reader.Count(ctx, t, datarecording.QueryParams{})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "  %-24s %d rows\n", t, n)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
