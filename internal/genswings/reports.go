package genswings

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveReports fetches the session report for every submitted session
// concurrently.
func retrieveReports(ctx context.Context, config *Config, sessions []Session, stats *Stats) ([]Report, error) {
	log.Printf("retrieving reports for %d sessions with %d workers...", len(sessions), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage, indexed by session position
	reports := make([]Report, len(sessions))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					sessionID := sessions[index].SessionID
					report, err := retrieveSingleReport(ctx, client, config.BaseURL, sessionID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get report for %s: %v", sessionID, err)
						}
					} else {
						reports[index] = report
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("report progress: %d/%d retrieved (success: %d, failed: %d)",
							total, len(sessions), ret, fail)
					}
				}
			}
		}()
	}

	// Send session indices to workers
	go func() {
		defer close(indexChan)
		for i := range sessions {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validReports := make([]Report, 0, len(reports))
	for _, report := range reports {
		if report.SessionID != "" { // Empty SessionID indicates failed retrieval
			validReports = append(validReports, report)
		}
	}

	// Update stats
	stats.ReportsRetrieved = len(validReports)

	log.Printf(`report retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validReports), int(atomic.LoadInt64(&failed)))

	return validReports, nil
}

// retrieveSingleReport fetches the report for a single session.
func retrieveSingleReport(ctx context.Context, client *HTTPClient, baseURL, sessionID string) (Report, error) {
	url := fmt.Sprintf("%s/v1/sessions/%s/report", baseURL, sessionID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Report{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Report{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var report Report
	if err := unmarshalJSON(body, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return report, nil
}
