package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls how failed downloads are retried.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// delay returns the wait before retry number attempt (0-based), doubling
// from InitialInterval and capped at MaxInterval when set.
func (b BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval << uint(attempt)
	if d <= 0 || (b.MaxInterval > 0 && d > b.MaxInterval) {
		return b.MaxInterval
	}
	return d
}

func (b BackoffConfig) validate() error {
	if b.MaxRetries < 0 || b.InitialInterval <= 0 {
		return errInvalidBackoff
	}
	return nil
}

var (
	errRateLimited    = errors.New("rate limited")
	errServerError    = errors.New("server error")
	errUnexpected     = errors.New("unexpected status code")
	errCircuitOpen    = errors.New("circuit breaker open")
	errNoHTTPClient   = errors.New("http client not configured")
	errInvalidBackoff = errors.New("invalid backoff configuration")
)

// permanentError ends the retry loop. The breaker still counts it as a failure.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// checkStatus closes the body of any non-2xx response and classifies it.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	resp.Body.Close()
	switch {
	case code == http.StatusTooManyRequests:
		return errRateLimited
	case code >= 500:
		return fmt.Errorf("%w: %d", errServerError, code)
	default:
		return permanentError{fmt.Errorf("%w: %d", errUnexpected, code)}
	}
}

// get performs one download through the circuit breaker.
func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	out, err := f.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, permanentError{err}
		}
		req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

		resp, err := f.client.Do(req)
		if err != nil {
			if errors.Is(err, ErrPrivateAddress) {
				return nil, permanentError{err}
			}
			return nil, err
		}
		if err := checkStatus(resp); err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*http.Response), nil
}

// getWithRetry retries transport errors, 429 and 5xx responses with
// exponential backoff. It gives up at once when the breaker is open, the
// failure is permanent or ctx is done.
func (f *Fetcher) getWithRetry(ctx context.Context, rawURL string) (*http.Response, error) {
	if f.client == nil {
		return nil, errNoHTTPClient
	}
	if err := f.backoff.validate(); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := f.get(ctx, rawURL)
		if err == nil {
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		var perm permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}
		if attempt >= f.backoff.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(f.backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
