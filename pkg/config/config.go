// Package config provides the configuration profile for the stratum tools.
package config

import (
	"unicode/utf8"

	"github.com/stratumdata/stratum/pkg/compression"
	"github.com/stratumdata/stratum/pkg/errors"
	"github.com/stratumdata/stratum/pkg/logger"
	"github.com/stratumdata/stratum/pkg/table"
)

// Config is the profile the stratum command line tools run under.
// Sections cover the three concerns a tool invocation touches: how
// lines are split on ingest, how exports are encoded, and how the
// process logs.
type Config struct {
	// Ingest controls how delimited input is split into cells.
	Ingest IngestConfig `yaml:"ingest" json:"ingest"`

	// Export controls format-specific output encoding.
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging configures the process logger.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// IngestConfig contains line-splitting settings. The same separator is
// used when writing delimited output, so a table exported and re-read
// under one profile round-trips.
type IngestConfig struct {
	// Separator is the cell separator, exactly one character.
	Separator string `yaml:"separator" json:"separator"`
}

// ExportConfig contains output encoding settings.
type ExportConfig struct {
	// AvroCodec selects the Avro block codec: snappy, deflate or null.
	AvroCodec string `yaml:"avro_codec" json:"avro_codec"`
	// BatchSize sets the number of rows per Arrow record batch.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	// Compression sets the level for compressed output files:
	// fastest, default, better or best.
	Compression string `yaml:"compression" json:"compression"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	// Level sets logging verbosity (debug, info, warn, error).
	Level string `yaml:"level" json:"level"`
	// Encoding selects the output encoder: json or console.
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored levels and error stacktraces.
	Development bool `yaml:"development" json:"development"`
}

// Default returns a profile with working defaults for every section.
// Load a YAML file over it to override individual keys.
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			Separator: string(table.DefaultSeparator),
		},
		Export: ExportConfig{
			AvroCodec:   "snappy",
			BatchSize:   1024,
			Compression: "default",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Encoding:    "console",
			Development: false,
		},
	}
}

// Validate checks the profile for values the tools cannot run with.
// Call it after loading to catch mistakes before any file is touched.
func (c *Config) Validate() error {
	if _, err := c.Ingest.SeparatorRune(); err != nil {
		return err
	}
	switch c.Export.AvroCodec {
	case "snappy", "deflate", "null":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown avro codec: %q", c.Export.AvroCodec)
	}
	if c.Export.BatchSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "batch_size must be positive")
	}
	if _, err := c.Export.Level(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown log level: %q", c.Logging.Level)
	}
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown log encoding: %q", c.Logging.Encoding)
	}
	return nil
}

// SeparatorRune returns the separator as a rune.
func (ic *IngestConfig) SeparatorRune() (rune, error) {
	if utf8.RuneCountInString(ic.Separator) != 1 {
		return 0, errors.Newf(errors.ErrorTypeConfig,
			"separator must be exactly one character, got %q", ic.Separator)
	}
	r, _ := utf8.DecodeRuneInString(ic.Separator)
	return r, nil
}

// Level maps the configured compression level name onto the stream
// compression level. An empty name means the default level.
func (ec *ExportConfig) Level() (compression.Level, error) {
	switch ec.Compression {
	case "", "default":
		return compression.Default, nil
	case "fastest":
		return compression.Fastest, nil
	case "better":
		return compression.Better, nil
	case "best":
		return compression.Best, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeConfig, "unknown compression level: %q", ec.Compression)
	}
}

// LoggerConfig converts the logging section into the logger's own
// configuration type.
func (lc *LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       lc.Level,
		Encoding:    lc.Encoding,
		Development: lc.Development,
	}
}
