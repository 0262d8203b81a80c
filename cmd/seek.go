package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	seekAbsolute int
	seekRelative int
)

var seekCmd = &cobra.Command{
	Use:   "seek [file|-]",
	Short: "Position the cursor on a visible row and print it",
	Long: `Move to a visible row and print it. --absolute counts visible rows from the
start (1 is the first) or from the end when negative (-1 is the last).
--relative moves from the position reached so far, which is before the first
row when --absolute is not given. Both may be combined.

Examples:
  rowset seek orders.jsonl --absolute 2 --where "qty > 0"
  rowset seek orders.jsonl --absolute -1 --relative -1
  rowset seek orders.jsonl --relative 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeek,
}

func init() {
	seekCmd.Flags().IntVarP(&seekAbsolute, "absolute", "a", 0, "Visible row to move to (negative counts from the end)")
	seekCmd.Flags().IntVarP(&seekRelative, "relative", "r", 0, "Visible rows to move by (negative moves backward)")
	seekCmd.MarkFlagsOneRequired("absolute", "relative")
}

func runSeek(cmd *cobra.Command, args []string) error {
	rs, cur, err := openRowSet(fileArg(args))
	if err != nil {
		return err
	}
	defer cur.Close()

	moved := false
	if cmd.Flags().Changed("absolute") {
		if moved, err = rs.Absolute(seekAbsolute); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("relative") {
		if moved, err = rs.Relative(seekRelative); err != nil {
			return err
		}
	}
	if !moved {
		return fmt.Errorf("no visible row there (%s)", position(cur))
	}

	row, err := cur.Current()
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), []interface{}{row.Primitive()})
}
