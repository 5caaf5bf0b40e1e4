// ABOUTME: HTTP retrieval of crossword PDFs with bounded retries.
// ABOUTME: Distinguishes unpublished puzzles (no retry) from transient failures (retried).
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389-research/gridsync/internal/catalog"
)

const (
	userAgent      = "gridsync/1.0 (+https://github.com/2389-research/gridsync)"
	maxAttempts    = 3
	retryDelay     = 2 * time.Second
	requestTimeout = 30 * time.Second
)

// ErrNotFound marks a candidate whose PDF is not published at its URL.
// The caller should move on to the next candidate without retrying.
var ErrNotFound = errors.New("puzzle not found")

// Fetcher downloads puzzle PDFs over a reusable HTTP client.
type Fetcher struct {
	baseURL string
	client  *http.Client
	delay   time.Duration
}

// New creates a fetcher targeting the Guardian crossword host.
func New() *Fetcher {
	return &Fetcher{
		baseURL: catalog.BaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		delay:   retryDelay,
	}
}

// Fetch downloads the PDF for a single candidate. A 404 returns ErrNotFound
// immediately; network errors, 5xx responses, and empty bodies are retried up
// to maxAttempts with a fixed delay before the candidate is given up on.
func (f *Fetcher) Fetch(ctx context.Context, cand catalog.Candidate) ([]byte, error) {
	url := f.baseURL + catalog.URLPath(cand.Variant, cand.Date)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.delay):
			}
		}

		data, err := f.attempt(ctx, url)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err
		slog.Debug("fetch attempt failed", "url", url, "attempt", attempt, "error", err)
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", maxAttempts, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("server returned an empty body")
	}
	return data, nil
}
