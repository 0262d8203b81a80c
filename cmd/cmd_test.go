package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/rowset/pkg/rowset"
)

const ordersJSONL = `{"id": 1, "qty": 3, "status": "open"}
{"id": 2, "qty": 0, "status": "closed"}
{"id": 3, "qty": 7, "status": "open"}
{"id": 4, "qty": 1, "status": "closed"}
`

func writeOrders(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(ordersJSONL), 0644))
	return path
}

// withFlags sets the persistent flags for one test and restores them afterwards.
func withFlags(t *testing.T, where string, forwardOnly bool) {
	t.Helper()
	oldWhere, oldForward, oldFormat, oldPretty := Where, ForwardOnly, OutputFormat, Pretty
	Where, ForwardOnly, OutputFormat, Pretty = where, forwardOnly, "jsonl", false
	t.Cleanup(func() {
		Where, ForwardOnly, OutputFormat, Pretty = oldWhere, oldForward, oldFormat, oldPretty
	})
}

func run(t *testing.T, c *cobra.Command, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c.SetOut(&buf)
	t.Cleanup(func() { c.SetOut(nil) })
	err := fn(c, args)
	return buf.String(), err
}

func TestScan(t *testing.T) {
	path := writeOrders(t)

	tests := []struct {
		name  string
		where string
		want  []string
	}{
		{"no filter", "", []string{`"id":1`, `"id":2`, `"id":3`, `"id":4`}},
		{"open with stock", "status = 'open' AND qty > 0", []string{`"id":1`, `"id":3`}},
		{"nothing", "qty > 100", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withFlags(t, tt.where, false)
			out, err := run(t, scanCmd, runScan, path)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(tt.want) == 0 {
				assert.Empty(t, strings.TrimSpace(out))
				return
			}
			require.Len(t, lines, len(tt.want))
			for i, w := range tt.want {
				assert.Contains(t, lines[i], w)
			}
		})
	}
}

func TestScanKeepsColumnOrder(t *testing.T) {
	withFlags(t, "", false)
	out, err := run(t, scanCmd, runScan, writeOrders(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"id":1,"qty":3,"status":"open"}`), out)
}

func TestScanInvalidWhere(t *testing.T) {
	withFlags(t, "qty >", false)
	_, err := run(t, scanCmd, runScan, writeOrders(t))
	assert.ErrorContains(t, err, "invalid --where")
}

func TestSeek(t *testing.T) {
	path := writeOrders(t)
	withFlags(t, "qty > 0", false)

	require.NoError(t, seekCmd.Flags().Set("absolute", "-1"))
	t.Cleanup(func() {
		seekCmd.Flags().Set("absolute", "0")
		seekCmd.Flags().Lookup("absolute").Changed = false
	})

	out, err := run(t, seekCmd, runSeek, path)
	require.NoError(t, err)
	assert.Contains(t, out, `"id":4`)

	require.NoError(t, seekCmd.Flags().Set("relative", "-2"))
	t.Cleanup(func() {
		seekCmd.Flags().Set("relative", "0")
		seekCmd.Flags().Lookup("relative").Changed = false
	})
	out, err = run(t, seekCmd, runSeek, path)
	require.NoError(t, err)
	assert.Contains(t, out, `"id":1`)

	require.NoError(t, seekCmd.Flags().Set("relative", "-5"))
	_, err = run(t, seekCmd, runSeek, path)
	assert.ErrorContains(t, err, "before first")
}

func TestSeekForwardOnly(t *testing.T) {
	withFlags(t, "", true)
	require.NoError(t, seekCmd.Flags().Set("absolute", "1"))
	t.Cleanup(func() {
		seekCmd.Flags().Set("absolute", "0")
		seekCmd.Flags().Lookup("absolute").Changed = false
	})

	_, err := run(t, seekCmd, runSeek, writeOrders(t))
	assert.ErrorIs(t, err, rowset.ErrInvalidOperation)
}

func TestInsert(t *testing.T) {
	path := writeOrders(t)
	withFlags(t, "qty > 0", false)

	out, err := run(t, insertCmd, runInsert, path, "id=5", "qty=2", "status=new")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `{"id":5,"qty":2,"status":"new"}`, lines[3])

	_, err = run(t, insertCmd, runInsert, path, "id=6", "qty=-1")
	assert.ErrorIs(t, err, rowset.ErrInvalidOperation)
	assert.ErrorContains(t, err, "qty=-1")

	_, err = run(t, insertCmd, runInsert, path, "nope=1")
	assert.Error(t, err)

	_, err = run(t, insertCmd, runInsert, path, "garbage")
	assert.ErrorContains(t, err, "expected column=value")
}

func TestInsertOutput(t *testing.T) {
	path := writeOrders(t)
	withFlags(t, "", false)
	target := filepath.Join(t.TempDir(), "out.jsonl")
	insertOutput = target
	t.Cleanup(func() { insertOutput = "" })

	_, err := run(t, insertCmd, runInsert, path, "id=5", "qty=2.5", "status=null")
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `{"id":5,"qty":2.5,"status":null}`, lines[4])
}

func TestStats(t *testing.T) {
	withFlags(t, "status = 'open'", false)
	out, err := run(t, statsCmd, runStats, writeOrders(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Total rows: 4")
	assert.Contains(t, out, "Visible rows: 2")
	assert.Contains(t, out, "number: 2 (100.0%)")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 3.0, parseValue("3"))
	assert.Equal(t, true, parseValue("true"))
	assert.Nil(t, parseValue("null"))
	assert.Equal(t, "open", parseValue("open"))
	assert.Equal(t, "open", parseValue(`"open"`))
	assert.Equal(t, map[string]interface{}{"a": 1.0}, parseValue(`{"a":1}`))
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "stdin", datasetName("-"))
	assert.Equal(t, "orders", datasetName("/tmp/orders.jsonl"))
	assert.Equal(t, "inline", datasetName(`{"a": 1}`))
}
