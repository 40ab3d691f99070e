package genswings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON.
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct.
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitImports submits session imports concurrently using worker pools.
func submitImports(ctx context.Context, config *Config, sessions []Session, stats *Stats) error {
	log.Printf("submitting %d imports with %d workers...", len(sessions), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/v1/imports"

	// Counters for statistics
	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	sessionChan := make(chan Session, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for session := range sessionChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleImport(ctx, client, url, session)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
							total, len(sessions), succ, dup, fail)
					}
				}
			}
		}()
	}

	// Send sessions to workers
	go func() {
		defer close(sessionChan)
		for _, session := range sessions {
			select {
			case <-ctx.Done():
				return
			case sessionChan <- session:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Update stats
	stats.ImportsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ImportsSuccessful = int(atomic.LoadInt64(&successful))
	stats.ImportsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.ImportsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`import submission completed:
   Successful: %d
   Duplicate: %d
   Failed: %d
`, stats.ImportsSuccessful, stats.ImportsDuplicate, stats.ImportsFailed)

	return nil
}

// submitSingleImport submits a single session import and returns the result.
func submitSingleImport(ctx context.Context, client *HTTPClient, url string, session Session) string {
	req := importRequest{
		ImportID:  session.ImportID,
		SessionID: session.SessionID,
		Files: []importFile{
			{Name: session.FileName, Content: []byte(session.CSV)},
		},
	}

	resp, err := client.Post(ctx, url, req)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		// Accepted - new import
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Status == "accepted" {
			return "success"
		}
		return "success"
	case StatusOK:
		// OK - duplicate import
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
