package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/cache"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/util"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/worker"
)

const fetchMaxRetries = 3

// ErrNotFound marks a permanent 404/410 from the source site; the caller
// skips the document instead of retrying
var ErrNotFound = errors.New("document not found")

// Fetcher downloads pages and files from the source sites. It is polite by
// construction: robots.txt is honored, requests are rate-limited per host,
// and successful fetches are cached so re-runs never hit the network.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	robots     *util.RobotsChecker
	limiter    *worker.HostLimiter

	// sleepFunc is injectable for tests
	sleepFunc func(time.Duration)
}

// NewFetcher creates a Fetcher. Cache, robots checker, and limiter are
// optional; nil disables the corresponding behavior.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64,
	fetchCache cache.Cache, robots *util.RobotsChecker, limiter *worker.HostLimiter,
	httpProxy, httpsProxy, noProxy string) *Fetcher {

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		cache:     fetchCache,
		robots:    robots,
		limiter:   limiter,
		sleepFunc: time.Sleep,
	}
}

// Fetch retrieves the body at rawURL, honoring cache, robots.txt, and rate
// limits. Transient failures (429, 5xx, network errors) are retried with
// exponential backoff; 404 returns ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.cache != nil {
		if body, found := f.cache.Get(cache.Key(rawURL)); found {
			return body, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}
		if f.limiter != nil {
			if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
				return nil, err
			}
		}
	} else if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	var body []byte
	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		body, lastErr = f.fetchOnce(ctx, rawURL)
		if lastErr == nil {
			break
		}
		if !isTransient(lastErr) || attempt == fetchMaxRetries-1 {
			return nil, lastErr
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			f.sleepFunc(backoff)
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	if f.cache != nil {
		_ = f.cache.Set(cache.Key(rawURL), body, 0)
	}

	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{fmt.Errorf("fetch %s: %w", rawURL, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &transientError{fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, &transientError{fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}

// transientError wraps failures worth retrying
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
