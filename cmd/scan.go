package cmd

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file|-]",
	Short: "Print every row visible through the filter",
	Long: `Print the rows that pass --where, in order.

Examples:
  rowset scan orders.jsonl
  rowset scan orders.jsonl --where "qty > 0" --format json --pretty
  cat orders.json | rowset scan --where "status CONTAINS 'open'"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	rs, cur, err := openRowSet(fileArg(args))
	if err != nil {
		return err
	}
	defer cur.Close()

	rows, err := visibleRows(rs)
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), rows)
}
