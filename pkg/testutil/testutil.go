// Package testutil provides testing utilities for stratum
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/stratumdata/stratum/pkg/render"
	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/view"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// IntegrationTest marks a test as an integration test
func IntegrationTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// WriteFile creates a file named name under dir with the given content
// and returns its path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// SampleCSV writes a delimited fixture with columns id, name, score and
// active plus rows data lines, returning its path. The values are
// deterministic so tests can assert on specific cells.
func SampleCSV(t *testing.T, dir, name string, rows int) string {
	t.Helper()

	file, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)

	_, err = file.WriteString("id,name,score,active\n")
	require.NoError(t, err)

	for i := 0; i < rows; i++ {
		line := fmt.Sprintf("%d,record_%d,%.1f,%t\n", i, i, float64(i)+0.5, i%2 == 0)
		_, err = file.WriteString(line)
		require.NoError(t, err)
	}

	require.NoError(t, file.Close())
	return file.Name()
}

// RequireTableEqual fails the test when the two tables differ,
// rendering both sides into the failure message.
func RequireTableEqual(t *testing.T, want, got *table.Table) {
	t.Helper()
	if want.Equal(got) {
		return
	}

	wv := view.New(want)
	defer wv.Release()
	gv := view.New(got)
	defer gv.Release()
	t.Fatalf("tables differ\nwant:\n%sgot:\n%s", render.Sprint(wv), render.Sprint(gv))
}
