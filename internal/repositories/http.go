package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"seasonal-anomaly/internal/metrics"
)

// getJSON performs a GET request and decodes a 200 response into out.
// Non-200 bodies are handed to describe for a provider-specific message.
func getJSON(ctx context.Context, client HTTPClient, repo, operation, url string, out any, describe func([]byte) string) (err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		metrics.UpstreamRequestDurationSeconds.
			WithLabelValues(repo, operation, outcome).
			Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if describe != nil {
			if msg := describe(body); msg != "" {
				return fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, msg)
			}
		}
		return fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}
