package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
)

func TestTestLogger(t *testing.T) {
	logger := TestLogger(t)
	logger.Info("test logger writes through the test output")
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "note.txt", []byte("payload"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestSampleCSVParses(t *testing.T) {
	path := SampleCSV(t, t.TempDir(), "sample.csv", 3)

	tbl, err := table.ReadFile(path, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score", "active"}, tbl.Headers())
	require.Equal(t, 3, tbl.Len())
	assert.True(t, value.Int(0).Equal(tbl.CellAt(0, 0)))
	assert.True(t, value.Str("record_1").Equal(tbl.CellAt(1, 1)))
	assert.True(t, value.Float(2.5).Equal(tbl.CellAt(2, 2)))
	assert.True(t, value.Bool(false).Equal(tbl.CellAt(1, 3)))
}

func TestRequireTableEqual(t *testing.T) {
	a := table.New("x")
	require.NoError(t, a.AppendRow(value.Int(1)))
	b := table.New("x")
	require.NoError(t, b.AppendRow(value.Int(1)))

	RequireTableEqual(t, a, b)
}
