package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/asciiwipe/pkg/cache"
	"github.com/matzehuels/asciiwipe/pkg/errors"
)

const (
	// DefaultTTL is how long fetched resources stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// MaxBodySize caps the size of a fetched resource.
	MaxBodySize = 4 << 20

	defaultAttempts = 3
	defaultBackoff  = time.Second
	defaultTimeout  = 30 * time.Second
)

// Fetcher downloads resources by URL through a cache.
type Fetcher struct {
	Client   *http.Client
	Cache    cache.Cache
	TTL      time.Duration
	Attempts int
	Backoff  time.Duration
}

// NewFetcher returns a Fetcher storing downloads in c. A nil cache disables
// caching.
func NewFetcher(c cache.Cache) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: defaultTimeout},
		Cache:    c,
		TTL:      DefaultTTL,
		Attempts: defaultAttempts,
		Backoff:  defaultBackoff,
	}
}

// Fetch returns the body served at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := "url:" + cache.Hash([]byte(url))
	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	var body []byte
	err := cache.Retry(ctx, f.Attempts, f.Backoff, func() error {
		var err error
		body, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = f.Cache.Set(ctx, key, body, f.TTL)
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid URL %q", url)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, cache.Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: %s", url, resp.Status))
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "GET %s: %s", url, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url))
	}
	if len(body) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "GET %s: body exceeds %d bytes", url, MaxBodySize)
	}
	return body, nil
}
