// Package remote imports sensor logs published over HTTP, such as a
// gateway's CSV export endpoint.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/sensor-dashboard/internal/common"
)

var (
	// ErrTooLarge is returned when a remote file exceeds the size limit.
	ErrTooLarge = errors.New("remote file too large")
	// ErrNotCSV is returned when the server declares a non-tabular content type.
	ErrNotCSV = errors.New("remote file is not csv")
)

// acceptedTypes are substrings of content types treated as CSV.
var acceptedTypes = []string{"csv", "text/plain", "octet-stream", "excel"}

// Fetcher downloads CSV files with retries and a circuit breaker.
type Fetcher struct {
	client   *http.Client
	backoff  BackoffConfig
	circuit  *gobreaker.CircuitBreaker
	maxBytes int64
}

// NewFetcher creates a Fetcher. maxBytes <= 0 disables the size limit.
func NewFetcher(client *http.Client, backoff BackoffConfig, maxBytes int64) *Fetcher {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote-csv",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Fetcher{
		client:   client,
		backoff:  backoff,
		circuit:  cb,
		maxBytes: maxBytes,
	}
}

// Fetch downloads rawURL and returns its body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	resp, err := f.getWithRetry(ctx, u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || !common.HasAny(mt, acceptedTypes...) {
			return nil, fmt.Errorf("%w: %s", ErrNotCSV, ct)
		}
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}
