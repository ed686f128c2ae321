// Package config provides the configuration profile for the stratum
// command line tools.
//
// A profile is a YAML document with one section per concern:
//
//	ingest:
//	  separator: ","
//	export:
//	  avro_codec: snappy
//	  batch_size: 1024
//	  compression: default
//	logging:
//	  level: info
//	  encoding: console
//	  development: false
//
// # Loading
//
// Profiles load over Default(), so a file only needs the keys it
// changes:
//
//	cfg := config.Default()
//	if err := config.Load("stratum.yaml", cfg); err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Variable Substitution
//
// References written as ${VAR_NAME} anywhere in the file are replaced
// with environment variable values before parsing:
//
//	logging:
//	  level: ${STRATUM_LOG_LEVEL}
//
// # Bridging
//
// Sections convert into the types the engine packages consume:
// IngestConfig.SeparatorRune feeds the line scanner,
// ExportConfig.Level selects the stream compression level, and
// LoggingConfig.LoggerConfig initializes the process logger.
package config
