package rowset

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerRecordsSkipsAndRejections(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newNumbers(t)
	rs := New(c, WithFilter(even()), WithLogger(logger))

	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, buf.String(), "rows skipped by filter")
	assert.Contains(t, buf.String(), "op=Next")
	assert.Contains(t, buf.String(), "skipped=1")

	buf.Reset()
	require.NoError(t, rs.MoveToInsertRow())
	assert.ErrorIs(t, rs.UpdateInt(1, 3), ErrInvalidOperation)
	assert.Contains(t, buf.String(), "staged value rejected by filter")

	require.NoError(t, rs.UpdateInt(1, 8))
	require.NoError(t, rs.InsertRow())
	assert.Contains(t, buf.String(), "row inserted")
	assert.Contains(t, buf.String(), "size=7")
}
