package genswings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/swinglabs/fourb/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	csvFilePermission   = 0600
)

// Run executes the complete swing import test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting swing import test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.NumSessions),
		logger.Int("swings", config.SwingCount),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("seed", config.Seed),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate sessions
	sessions, err := generateSessions(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("session generation failed: %w", err)
	}

	// Step 3: Submit imports concurrently
	if err := submitImports(ctx, config, sessions, stats); err != nil {
		return fmt.Errorf("import submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for imports to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Retrieve reports concurrently
	reports, err := retrieveReports(ctx, config, sessions, stats)
	if err != nil {
		return fmt.Errorf("report retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyReports(config, sessions, reports, stats); err != nil {
		return fmt.Errorf("report verification failed: %w", err)
	}

	// Step 7: Save generated CSVs to disk
	if err := saveSessionsToDir(ctx, config, sessions); err != nil {
		logger.Get().Warn(ctx, "failed to save sessions to disk", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSessionsToDir writes the generated vendor CSVs to the output directory.
func saveSessionsToDir(ctx context.Context, config *Config, sessions []Session) error {
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions to save")
	}

	dir := config.OutputDir
	if dir == "" {
		timestamp := time.Now().Format("20060102_150405")
		dir = "generated_swings_" + timestamp
	}

	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for _, session := range sessions {
		path := filepath.Join(dir, session.FileName)
		if err := os.WriteFile(path, []byte(session.CSV), csvFilePermission); err != nil {
			return fmt.Errorf("failed to write %s: %w", session.FileName, err)
		}
	}

	logger.Get().Info(ctx, "sessions saved to disk",
		logger.String("dir", dir),
		logger.Int("count", len(sessions)))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, importsPerSecond float64

	if stats.ImportsSubmitted > 0 {
		successRate = float64(stats.ImportsSuccessful) / float64(stats.ImportsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		importsPerSecond = float64(stats.ImportsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("sessionsGenerated", stats.SessionsGenerated),
		logger.Int("importsSubmitted", stats.ImportsSubmitted),
		logger.Int("importsSuccessful", stats.ImportsSuccessful),
		logger.Int("importsDuplicate", stats.ImportsDuplicate),
		logger.Int("importsFailed", stats.ImportsFailed),
		logger.Int("reportsRetrieved", stats.ReportsRetrieved),
		logger.Int("reportsWithBall", stats.ReportsWithBall),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("importsPerSecond", importsPerSecond))
}
