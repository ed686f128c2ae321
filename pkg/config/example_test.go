package config_test

import (
	"fmt"
	"log"

	"github.com/stratumdata/stratum/pkg/config"
)

// ExampleDefault demonstrates the working defaults a profile starts
// from.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Separator: %s\n", cfg.Ingest.Separator)
	fmt.Printf("Avro codec: %s\n", cfg.Export.AvroCodec)
	fmt.Printf("Batch size: %d\n", cfg.Export.BatchSize)
	fmt.Printf("Log level: %s\n", cfg.Logging.Level)

	// Output:
	// Separator: ,
	// Avro codec: snappy
	// Batch size: 1024
	// Log level: info
}

// ExampleConfig_Validate shows how to validate a profile before using
// it.
func ExampleConfig_Validate() {
	cfg := config.Default()

	// Switch to semicolon-separated input and tighter logs.
	cfg.Ingest.Separator = ";"
	cfg.Logging.Level = "warn"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("Configuration is valid!")

	// Output:
	// Configuration is valid!
}

// ExampleIngestConfig_SeparatorRune shows the bridge from the profile
// to the line scanner.
func ExampleIngestConfig_SeparatorRune() {
	cfg := config.Default()
	cfg.Ingest.Separator = "\t"

	sep, err := cfg.Ingest.SeparatorRune()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Separator rune: %U\n", sep)

	// Output:
	// Separator rune: U+0009
}
