package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// StaticFetcher issues a single GET request. Any HTTP response counts as
// success, including error statuses: only transport faults are errors.
type StaticFetcher struct {
	client *http.Client
	log    *slog.Logger
}

func NewStaticFetcher(timeout time.Duration, log *slog.Logger) *StaticFetcher {
	return &StaticFetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (f *StaticFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req) //nolint:gosec // URL is validated before fetching
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", pageURL,
				"operation", "Fetch")
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		f.log.WarnContext(ctx, "Page responded with error status, using body anyway",
			"url", pageURL,
			"status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}
