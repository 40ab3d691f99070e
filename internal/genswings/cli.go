package genswings

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/swinglabs/fourb/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "genswings_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the swing generator tool.
func ShowHelp() {
	os.Stdout.WriteString(`Swing Import Test Tool
======================

Generates synthetic vendor swing CSVs and drives them through the scoring
service, then verifies the resulting session reports.

Usage:
  go run cmd/gen-swings/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of sessions to generate and import (default 100)
  -swings int
        Number of swings per session (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed int
        Seed for deterministic generation (default 1)
  -output string
        Output directory for generated CSVs (default: generated_swings_TIMESTAMP)
  -log string
        Log file for test output (default: genswings_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/gen-swings/main.go

  # Larger run against a different port
  go run cmd/gen-swings/main.go -sessions 1000 -workers 16 -url http://localhost:8080

  # Re-run the same data to exercise dedupe
  go run cmd/gen-swings/main.go -seed 42
  go run cmd/gen-swings/main.go -seed 42
`)
}
