package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/rowset"
)

var insertOutput string

var insertCmd = &cobra.Command{
	Use:   "insert file column=value...",
	Short: "Stage and commit a new row",
	Long: `Stage a new row from column=value assignments and commit it. Values are read
as JSON literals (numbers, true, false, null, objects) or taken as plain text.
With --where every staged value is checked against the filter and a rejected
value aborts the insert. The visible rows are printed afterwards.

Examples:
  rowset insert orders.jsonl id=9 qty=4 status=open --where "qty > 0"
  rowset insert orders.jsonl id=10 qty=2 --output orders.jsonl`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInsert,
}

func init() {
	insertCmd.Flags().StringVarP(&insertOutput, "output", "o", "", "Write every row, including the new one, to this file")
}

func runInsert(cmd *cobra.Command, args []string) error {
	rs, cur, err := openRowSet(args[0])
	if err != nil {
		return err
	}
	defer cur.Close()

	if err := insertAssignments(rs, args[1:]); err != nil {
		return err
	}

	if insertOutput != "" {
		if err := saveRows(cur, insertOutput); err != nil {
			return err
		}
	}

	rows, err := visibleRows(rs)
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), rows)
}

func insertAssignments(rs *rowset.FilteredRowSet, assignments []string) error {
	if err := rs.MoveToInsertRow(); err != nil {
		return err
	}
	for _, arg := range assignments {
		name, value, err := parseAssignment(arg)
		if err == nil {
			err = stageByName(rs, name, value)
		}
		if err != nil {
			rs.MoveToCurrentRow()
			return fmt.Errorf("%s: %w", arg, err)
		}
	}
	return rs.InsertRow()
}

// saveRows writes every row of cur, ignoring any filter, to path.
func saveRows(cur *database.MemoryCursor, path string) error {
	it, err := cur.Iterate()
	if err != nil {
		return err
	}
	defer it.Close()

	var rows []interface{}
	for it.Next() {
		rows = append(rows, it.Row().Primitive())
	}
	if err := it.Error(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeRows(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
