package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/parser"
	"github.com/bisegni/rowset/pkg/rowset"
)

func writeRows(w io.Writer, rows []interface{}) error {
	switch strings.ToLower(OutputFormat) {
	case "jsonl", "":
		return parser.WriteJSONL(w, rows, Pretty)
	case "json":
		return parser.WriteJSON(w, rows, Pretty)
	default:
		return fmt.Errorf("unknown output format %q (use json or jsonl)", OutputFormat)
	}
}

// visibleRows scans rs from the start and collects the rows passing its filter.
func visibleRows(rs *rowset.FilteredRowSet) ([]interface{}, error) {
	var rows []interface{}
	err := rs.Scan(func(row database.Row) error {
		rows = append(rows, row.Primitive())
		return nil
	})
	return rows, err
}

// parseValue reads a command line value as a JSON literal, falling back to
// the raw text.
func parseValue(s string) interface{} {
	var val interface{}
	if err := json.Unmarshal([]byte(s), &val); err != nil {
		return s
	}
	return val
}

// parseAssignment splits "column=value".
func parseAssignment(arg string) (string, interface{}, error) {
	idx := strings.Index(arg, "=")
	if idx <= 0 {
		return "", nil, fmt.Errorf("invalid assignment %q (expected column=value)", arg)
	}
	return strings.TrimSpace(arg[:idx]), parseValue(arg[idx+1:]), nil
}

// stage writes value into the 1-based column through the typed update that matches it.
func stage(rs *rowset.FilteredRowSet, column int, value interface{}) error {
	switch v := value.(type) {
	case nil:
		return rs.UpdateNull(column)
	case bool:
		return rs.UpdateBool(column, v)
	case float64:
		if v == float64(int64(v)) {
			return rs.UpdateInt64(column, int64(v))
		}
		return rs.UpdateFloat64(column, v)
	case string:
		return rs.UpdateString(column, v)
	default:
		return rs.UpdateObject(column, v)
	}
}

func stageByName(rs *rowset.FilteredRowSet, name string, value interface{}) error {
	column, err := rs.Cursor().FindColumn(name)
	if err != nil {
		return err
	}
	return stage(rs, column, value)
}
