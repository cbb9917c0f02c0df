// Package proxy maintains a rotating pool of outbound proxy endpoints.
package proxy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const refreshTTL = 1 * time.Hour

// Rotator hands out proxies from a periodically refreshed pool in
// round-robin order. A nil proxy is a valid outcome: it means the request
// should go out directly.
type Rotator struct {
	client  HTTPClient
	listURL string
	enabled bool
	log     *slog.Logger

	mu        sync.Mutex
	pool      []*url.URL
	fetchedAt time.Time
}

// New creates a Rotator. When enabled is false Next always returns nil and
// the list URL is never fetched.
func New(client HTTPClient, listURL string, enabled bool, log *slog.Logger) *Rotator {
	return &Rotator{
		client:  client,
		listURL: listURL,
		enabled: enabled,
		log:     log,
	}
}

// Next returns the next proxy in round-robin order, refreshing the pool
// first if it is more than an hour old. Returns nil when proxying is
// disabled or no proxies are available; callers proceed unproxied.
func (r *Rotator) Next(ctx context.Context) *url.URL {
	if !r.enabled {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if time.Since(r.fetchedAt) > refreshTTL {
		pool, err := r.fetchPool(ctx)
		if err != nil {
			// Keep whatever pool we had; a refresh failure must not
			// take requests down with it.
			r.log.Error("refresh proxy pool", "url", r.listURL, "error", err)
		} else {
			r.pool = pool
			r.log.Info("refreshed proxy pool", "count", len(pool))
		}
		r.fetchedAt = time.Now()
	}

	if len(r.pool) == 0 {
		return nil
	}

	p := r.pool[0]
	r.pool = append(r.pool[1:], p)
	return p
}

// fetchPool downloads the newline-separated host:port list.
func (r *Rotator) fetchPool(ctx context.Context) ([]*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var pool []*url.URL
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		u, err := url.Parse("http://" + line)
		if err != nil {
			r.log.Warn("skip malformed proxy entry", "entry", line, "error", err)
			continue
		}
		pool = append(pool, u)
	}
	return pool, nil
}
