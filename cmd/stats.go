package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/rowset"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file|-]",
	Short: "Show row and column statistics",
	Long: `Display the number of rows, how many of them the filter lets through, and
the value types found in each column of the visible rows.

Examples:
  rowset stats orders.jsonl
  rowset stats orders.jsonl --where "qty > 0"
  cat orders.json | rowset stats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

// Stats summarises a filtered row set.
type Stats struct {
	Total   int
	Visible int
	Columns []string
	// Types counts value types per column over the visible rows.
	Types map[string]map[string]int
}

func runStats(cmd *cobra.Command, args []string) error {
	filename := fileArg(args)
	rs, cur, err := openRowSet(filename)
	if err != nil {
		return err
	}
	defer cur.Close()

	stats, err := gatherStats(rs)
	if err != nil {
		return err
	}

	if filename == "-" {
		filename = "<stdin>"
	}
	printStats(cmd.OutOrStdout(), filename, stats)
	return nil
}

func gatherStats(rs *rowset.FilteredRowSet) (*Stats, error) {
	cur := rs.Cursor()
	stats := &Stats{
		Total:   cur.Size(),
		Columns: cur.Columns(),
		Types:   make(map[string]map[string]int),
	}
	for _, col := range stats.Columns {
		stats.Types[col] = make(map[string]int)
	}

	err := rs.Scan(func(row database.Row) error {
		stats.Visible++
		for _, col := range stats.Columns {
			value, err := row.Get(col)
			if err != nil {
				return err
			}
			stats.Types[col][getTypeName(value)]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func printStats(w io.Writer, filename string, stats *Stats) {
	fmt.Fprintf(w, "File: %s\n", filename)
	fmt.Fprintf(w, "Total rows: %d\n", stats.Total)
	fmt.Fprintf(w, "Visible rows: %d\n", stats.Visible)
	if stats.Visible == 0 {
		return
	}

	fmt.Fprintf(w, "\nColumns:\n")
	for i, col := range stats.Columns {
		fmt.Fprintf(w, "  %d %s:\n", i+1, col)
		types := stats.Types[col]
		names := make([]string, 0, len(types))
		for typ := range types {
			names = append(names, typ)
		}
		sort.Strings(names)
		for _, typ := range names {
			count := types[typ]
			fmt.Fprintf(w, "    %s: %d (%.1f%%)\n", typ, count, float64(count)/float64(stats.Visible)*100)
		}
	}
}

func getTypeName(v interface{}) string {
	if v == nil {
		return "null"
	}

	switch v.(type) {
	case bool:
		return "boolean"
	case float64, int, int64, float32:
		return "number"
	case string:
		return "string"
	case []interface{}, []byte:
		return "array"
	case map[string]interface{}, database.OrderedMap:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
