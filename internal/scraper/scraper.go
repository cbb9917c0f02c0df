// Package scraper scans marketplace search-result pages for listings.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"buyee_bot/internal/currency"
	"buyee_bot/internal/model"
	"buyee_bot/internal/proxy"
	"buyee_bot/internal/translate"
)

// FetchTimeout bounds a single search-page request. A fetch that exceeds it
// is abandoned and counts as zero results for that source this cycle.
const FetchTimeout = 10 * time.Second

// Marketplaces block obvious bots; requests carry a desktop browser UA.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_11_5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/50.0.2661.102 Safari/537.36"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SeenList reports whether a listing URL has already been notified.
type SeenList interface {
	HasSeen(url string) bool
}

// Converter converts a JPY amount into a formatted target-currency string.
type Converter interface {
	Convert(ctx context.Context, amount float64, target string) (string, bool)
}

// NewHTTPClient builds the client used for live marketplace fetches: each
// request picks up the rotator's next proxy and is bounded by FetchTimeout.
func NewHTTPClient(rotator *proxy.Rotator) *http.Client {
	return &http.Client{
		Timeout: FetchTimeout,
		Transport: &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				return rotator.Next(req.Context()), nil
			},
		},
	}
}

// rawListing holds the fields extracted from one search-result row before
// enrichment.
type rawListing struct {
	url       string
	title     string
	price     string
	thumbnail string
}

// sourceSpec describes how to scan one marketplace: where to search and how
// to pull fields out of a result row.
type sourceSpec struct {
	source    model.Source
	searchURL func(keyword string, page int) string
	container string
	row       string
	extract   func(*goquery.Selection) (rawListing, error)
}

// Scanner scans a single marketplace source for listings matching an alert.
type Scanner struct {
	spec       sourceSpec
	client     HTTPClient
	seen       SeenList
	converter  Converter
	translator translate.Translator
	log        *slog.Logger
}

// Source returns the marketplace this scanner covers.
func (s *Scanner) Source() model.Source {
	return s.spec.source
}

// Scan fetches one search-result page for the alert's keyword and returns
// the enriched listings not yet seen, in page order. A missing result
// container is a normal no-results outcome. Row-level failures are logged
// and skipped; only the page fetch itself can return an error.
func (s *Scanner) Scan(ctx context.Context, alert model.Alert, page int) ([]model.Listing, error) {
	pageURL := s.spec.searchURL(alert.Name, page)

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	container := doc.Find(s.spec.container).First()
	if container.Length() == 0 {
		return nil, nil
	}

	var listings []model.Listing
	container.Find(s.spec.row).Each(func(_ int, sel *goquery.Selection) {
		raw, err := s.spec.extract(sel)
		if err != nil {
			s.log.Error("extract listing row", "source", s.spec.source, "error", err)
			return
		}
		if s.seen.HasSeen(raw.url) {
			return
		}

		listing, err := s.enrich(ctx, alert, raw)
		if err != nil {
			// Not marked seen, so the row is retried next cycle.
			s.log.Error("enrich listing", "source", s.spec.source, "url", raw.url, "error", err)
			return
		}
		listings = append(listings, listing)
	})

	return listings, nil
}

// enrich converts the price for non-JPY alerts and translates the title.
func (s *Scanner) enrich(ctx context.Context, alert model.Alert, raw rawListing) (model.Listing, error) {
	price := raw.price
	target := alert.Currency
	if target != "" && !strings.EqualFold(target, "JPY") {
		if amount, ok := currency.ParsePrice(raw.price); ok {
			if converted, ok := s.converter.Convert(ctx, amount, target); ok {
				price += fmt.Sprintf(" (≈ %s %s)", converted, strings.ToUpper(target))
			}
		}
	}

	translated, err := s.translator.Translate(ctx, raw.title)
	if err != nil {
		return model.Listing{}, fmt.Errorf("translate title: %w", err)
	}

	return model.Listing{
		Source:          s.spec.source,
		URL:             raw.url,
		Title:           raw.title,
		TitleTranslated: translated,
		Thumbnail:       raw.thumbnail,
		Price:           price,
	}, nil
}

func (s *Scanner) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
