// Package currency converts JPY prices using a cached exchange-rate table.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultRateURL is the rate source queried with JPY as the base currency.
const DefaultRateURL = "https://api.exchangerate-api.com/v4/latest/JPY"

const cacheTTL = 1 * time.Hour

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var priceRe = regexp.MustCompile(`([\d,]+(?:\.\d+)?)`)

// Converter caches a currency-rate table relative to JPY and formats
// converted amounts. Safe for concurrent use; the table is refreshed at
// most once per TTL, and at most one refresh runs at a time.
type Converter struct {
	client  HTTPClient
	rateURL string
	log     *slog.Logger

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
}

// New creates a Converter. rateURL defaults to DefaultRateURL when empty.
func New(client HTTPClient, rateURL string, log *slog.Logger) *Converter {
	if rateURL == "" {
		rateURL = DefaultRateURL
	}
	return &Converter{
		client:  client,
		rateURL: rateURL,
		log:     log,
	}
}

// Rates returns the current rate table, refreshing it first if it is more
// than an hour old. Never fails: on fetch error the table is cleared so
// conversions report unavailable instead of using stale rates, and the
// fetch is retried on the next call.
func (c *Converter) Rates(ctx context.Context) map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.fetchedAt) > cacheTTL {
		rates, err := c.fetchRates(ctx)
		if err != nil {
			c.log.Error("fetch conversion rates", "error", err)
			c.rates = nil
		} else {
			c.rates = rates
			c.fetchedAt = time.Now()
		}
	}
	return c.rates
}

// Convert converts a JPY amount into target currency and formats it with
// thousands separators and two decimal places. Returns false when the
// target currency is not in the table, which is an expected outcome for
// unsupported or temporarily unavailable currencies.
func (c *Converter) Convert(ctx context.Context, amount float64, target string) (string, bool) {
	rate, ok := c.Rates(ctx)[strings.ToUpper(target)]
	if !ok {
		return "", false
	}
	return humanize.FormatFloat("#,###.##", amount*rate), true
}

// ParsePrice extracts the first comma-grouped decimal run from free-form
// price text, e.g. "¥12,345" -> 12345.
func ParsePrice(text string) (float64, bool) {
	m := priceRe.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *Converter) fetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
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

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	return payload.Rates, nil
}
