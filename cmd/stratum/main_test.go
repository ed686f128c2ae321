package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdata/stratum/pkg/config"
	"github.com/stratumdata/stratum/pkg/formats"
	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/testutil"
)

func TestRunViewListsRows(t *testing.T) {
	path := testutil.SampleCSV(t, t.TempDir(), "sample.csv", 3)

	var buf bytes.Buffer
	require.NoError(t, runView(&buf, path, config.Default(), viewOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "id")
	assert.Contains(t, lines[0], "active")
	assert.Contains(t, lines[2], "record_1")
}

func TestRunViewSortReverseHead(t *testing.T) {
	path := testutil.SampleCSV(t, t.TempDir(), "sample.csv", 4)

	var buf bytes.Buffer
	opts := viewOptions{sortBy: "score", reverse: true, head: 1}
	require.NoError(t, runView(&buf, path, config.Default(), opts))

	out := buf.String()
	assert.Contains(t, out, "record_3", "highest score should survive the trim")
	assert.NotContains(t, out, "record_0")
}

func TestRunViewColumns(t *testing.T) {
	path := testutil.SampleCSV(t, t.TempDir(), "sample.csv", 2)

	var buf bytes.Buffer
	opts := viewOptions{columns: []string{"name"}}
	require.NoError(t, runView(&buf, path, config.Default(), opts))

	out := buf.String()
	assert.Contains(t, out, "record_0")
	assert.NotContains(t, out, "score")
	assert.NotContains(t, out, "active")
}

func TestRunViewUnknownColumn(t *testing.T) {
	path := testutil.SampleCSV(t, t.TempDir(), "sample.csv", 2)

	err := runView(&bytes.Buffer{}, path, config.Default(), viewOptions{sortBy: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no column named "missing"`)
}

func TestRunGroupListsBuckets(t *testing.T) {
	path := testutil.SampleCSV(t, t.TempDir(), "sample.csv", 4)

	var buf bytes.Buffer
	require.NoError(t, runGroup(&buf, path, config.Default(), "active", false))

	out := buf.String()
	assert.Contains(t, out, "true (2 rows)")
	assert.Contains(t, out, "false (2 rows)")
	assert.Less(t, strings.Index(out, "true ("), strings.Index(out, "false ("),
		"groups should print in first-occurrence order")
}

func TestRunGroupDistribution(t *testing.T) {
	path := testutil.SampleCSV(t, t.TempDir(), "sample.csv", 4)

	var buf bytes.Buffer
	require.NoError(t, runGroup(&buf, path, config.Default(), "active", true))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"#", "size", "count"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "2", "2"}, strings.Fields(lines[1]))
}

func TestRunStats(t *testing.T) {
	path := testutil.SampleCSV(t, t.TempDir(), "sample.csv", 3)

	var buf bytes.Buffer
	require.NoError(t, runStats(&buf, path, config.Default()))

	out := buf.String()
	assert.Contains(t, out, "rows: 3")
	assert.Contains(t, out, "columns: 4")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, []string{"1", "name", "string", "3"}, strings.Fields(lines[5]))
	assert.Equal(t, []string{"3", "active", "boolean", "2"}, strings.Fields(lines[7]))
}

func TestRunConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := testutil.SampleCSV(t, dir, "in.csv", 3)

	for _, name := range []string{"out.json", "out.arrow", "out.avro", "out.csv.gz"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(dir, name)
			require.NoError(t, runConvert(in, out, config.Default()))

			want, err := table.ReadFile(in, 0)
			require.NoError(t, err)
			got, err := formats.ReadFile(out)
			require.NoError(t, err)
			testutil.RequireTableEqual(t, want, got)
		})
	}
}

func TestRunConvertUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	in := testutil.SampleCSV(t, dir, "in.csv", 1)

	err := runConvert(in, filepath.Join(dir, "out.xyz"), config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot infer an output format")
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "ingest:\n  separator: \";\"\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadProfile(path, "", "")
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.Ingest.Separator)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Flags win over the profile.
	cfg, err = loadProfile(path, "|", "warn")
	require.NoError(t, err)
	assert.Equal(t, "|", cfg.Ingest.Separator)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Overrides still validate.
	_, err = loadProfile("", "ab", "")
	require.Error(t, err)
}

func TestReadInputFallsBackToDelimited(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "plain.txt", []byte("a,b\n1,x\n"))

	tbl, err := readInput(path, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Headers())
	assert.Equal(t, 1, tbl.Len())
}

func TestReadInputTSVImpliesTab(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cities.tsv", []byte("city\tnote\nberlin\tfirst, second\n"))

	tbl, err := readInput(path, config.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "note"}, tbl.Headers())
	require.Equal(t, 1, tbl.Len())
	cell := tbl.CellAt(0, 1)
	assert.Equal(t, "first, second", cell.MustStr(), "the comma is plain text under a tab separator")
}

func TestReadInputTSVProfileSeparatorWins(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "cities.tsv", []byte("city;note\nberlin;ok\n"))

	cfg := config.Default()
	cfg.Ingest.Separator = ";"
	tbl, err := readInput(path, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "note"}, tbl.Headers())
}
