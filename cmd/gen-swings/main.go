package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/swinglabs/fourb/internal/genswings"
)

// Default configuration constants.
const (
	defaultNumSessions = 100
	defaultSwingCount  = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultSeed        = 1
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numSessions = flag.Int("sessions", defaultNumSessions, "Number of sessions to generate and import")
		swingCount  = flag.Int("swings", defaultSwingCount, "Number of swings per session")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed        = flag.Int64("seed", defaultSeed, "Seed for deterministic generation")
		outputDir   = flag.String("output", "", "Output directory for generated CSVs (default: generated_swings_TIMESTAMP)")
		logFile     = flag.String("log", "", "Log file for test output (default: genswings_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		genswings.ShowHelp()
		return
	}

	// Setup logging
	if err := genswings.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &genswings.Config{
		BaseURL:     *baseURL,
		NumSessions: *numSessions,
		SwingCount:  *swingCount,
		Workers:     *workers,
		Timeout:     *timeout,
		Seed:        *seed,
		OutputDir:   *outputDir,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the test
	if err := genswings.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
