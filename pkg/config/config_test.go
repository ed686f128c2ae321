package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdata/stratum/pkg/compression"
	"github.com/stratumdata/stratum/pkg/errors"
)

func TestLoadOverDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratum.yaml")
	content := `
ingest:
  separator: ";"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := Default()
	require.NoError(t, Load(path, cfg))

	assert.Equal(t, ";", cfg.Ingest.Separator)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "snappy", cfg.Export.AvroCodec)
	assert.Equal(t, 1024, cfg.Export.BatchSize)
	assert.Equal(t, "console", cfg.Logging.Encoding)

	require.NoError(t, cfg.Validate())
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("STRATUM_TEST_LEVEL", "warn")
	t.Setenv("STRATUM_TEST_SEP", "|")

	path := filepath.Join(t.TempDir(), "stratum.yaml")
	content := `
ingest:
  separator: "${STRATUM_TEST_SEP}"
logging:
  level: ${STRATUM_TEST_LEVEL}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := Default()
	require.NoError(t, Load(path, cfg))

	assert.Equal(t, "|", cfg.Ingest.Separator)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), Default())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ingest: [unclosed"), 0644))

	err := Load(path, Default())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"tab separator", func(c *Config) { c.Ingest.Separator = "\t" }, true},
		{"empty separator", func(c *Config) { c.Ingest.Separator = "" }, false},
		{"two-rune separator", func(c *Config) { c.Ingest.Separator = ",," }, false},
		{"unknown avro codec", func(c *Config) { c.Export.AvroCodec = "lzo" }, false},
		{"deflate avro codec", func(c *Config) { c.Export.AvroCodec = "deflate" }, true},
		{"zero batch size", func(c *Config) { c.Export.BatchSize = 0 }, false},
		{"unknown compression", func(c *Config) { c.Export.Compression = "turbo" }, false},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, false},
		{"unknown encoding", func(c *Config) { c.Logging.Encoding = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
			}
		})
	}
}

func TestSeparatorRune(t *testing.T) {
	ic := IngestConfig{Separator: ","}
	r, err := ic.SeparatorRune()
	require.NoError(t, err)
	assert.Equal(t, ',', r)

	// A multi-byte character is still a single rune.
	ic.Separator = "€"
	r, err = ic.SeparatorRune()
	require.NoError(t, err)
	assert.Equal(t, '€', r)

	ic.Separator = "ab"
	_, err = ic.SeparatorRune()
	require.Error(t, err)
}

func TestCompressionLevel(t *testing.T) {
	tests := []struct {
		name string
		want compression.Level
	}{
		{"", compression.Default},
		{"default", compression.Default},
		{"fastest", compression.Fastest},
		{"better", compression.Better},
		{"best", compression.Best},
	}
	for _, tt := range tests {
		ec := ExportConfig{Compression: tt.name}
		level, err := ec.Level()
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, level, tt.name)
	}

	ec := ExportConfig{Compression: "ultra"}
	_, err := ec.Level()
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Ingest.Separator = "\t"
	cfg.Export.Compression = "best"
	cfg.Logging.Development = true
	require.NoError(t, Save(path, cfg))

	loaded := Default()
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, cfg, loaded)
}

func TestLoggerConfigBridge(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Encoding: "json", Development: true}
	out := lc.LoggerConfig()
	assert.Equal(t, "debug", out.Level)
	assert.Equal(t, "json", out.Encoding)
	assert.True(t, out.Development)
}
