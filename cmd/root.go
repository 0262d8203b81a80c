package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/logging"
	"github.com/bisegni/rowset/pkg/query"
	"github.com/bisegni/rowset/pkg/rowset"
)

var (
	Where           string
	Pretty          bool
	ForwardOnly     bool
	OutputFormat    string
	InteractiveMode bool

	LogLevel  string
	LogFormat string
	LogFile   string
)

var rootCmd = &cobra.Command{
	Use:   "rowset [file|JSON|-]",
	Short: "Filtered cursor over JSON and JSONL rows",
	Long: `rowset loads JSON or JSONL records as the rows of a scrollable cursor and
navigates them through an optional WHERE filter. Rows failing the filter are
invisible to every movement, and values staged for insertion must satisfy it.

Supports:
  - File paths: rowset scan data.jsonl
  - Stdin: cat data.json | rowset scan  (or use "-" as filename)
  - Inline JSON: rowset scan '[{"qty":1},{"qty":0}]' --where 'qty > 0'

Examples:
  rowset scan orders.jsonl --where "status = 'open' AND qty > 0"
  rowset seek orders.jsonl --absolute -1 --where "qty > 0"
  rowset insert orders.jsonl id=9 qty=4 status=open --where "qty > 0"
  rowset -i orders.jsonl`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(logging.Config{
			Level:      logging.Level(LogLevel),
			OutputPath: LogFile,
			Format:     LogFormat,
		})
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !InteractiveMode {
			return cmd.Help()
		}
		filename := fileArg(args)
		if filename == "-" && !hasStdin() {
			return fmt.Errorf("interactive mode requires a file or stdin input")
		}
		return RunInteractive(filename)
	},
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&Where, "where", "w", "", "Filter expression rows must satisfy (e.g. \"qty > 0 AND status = 'open'\")")
	rootCmd.PersistentFlags().BoolVar(&Pretty, "pretty", false, "Pretty print output")
	rootCmd.PersistentFlags().BoolVar(&ForwardOnly, "forward-only", false, "Open the cursor forward-only")
	rootCmd.PersistentFlags().StringVar(&OutputFormat, "format", "jsonl", "Output format (json or jsonl)")
	rootCmd.PersistentFlags().BoolVarP(&InteractiveMode, "interactive", "i", false, "Interactive REPL mode")

	rootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&LogFormat, "log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().StringVar(&LogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(seekCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(statsCmd)
}

// openRowSet loads filename into a cursor and wraps it with the --where filter.
func openRowSet(filename string) (*rowset.FilteredRowSet, *database.MemoryCursor, error) {
	var opts []database.Option
	if ForwardOnly {
		opts = append(opts, database.WithScrollType(database.ForwardOnly))
	}

	cur, err := database.LoadFile(filename, opts...)
	if err != nil {
		return nil, nil, err
	}

	rs := rowset.New(cur)
	if Where != "" {
		p, err := query.Compile(Where, cur.Columns())
		if err != nil {
			cur.Close()
			return nil, nil, fmt.Errorf("invalid --where: %w", err)
		}
		rs.SetFilter(p)
	}
	return rs, cur, nil
}

func fileArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "-"
}

func hasStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
