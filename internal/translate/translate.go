// Package translate provides item-title translation via the Google
// translate web endpoint.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const endpoint = "https://translate.googleapis.com/translate_a/single"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Translator translates text between two fixed languages.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Google translates through the unauthenticated gtx web endpoint.
type Google struct {
	client HTTPClient
	source string
	target string
}

// NewGoogle creates a Google translator for the given language pair,
// e.g. NewGoogle(client, "ja", "en").
func NewGoogle(client HTTPClient, source, target string) *Google {
	return &Google{client: client, source: source, target: target}
}

// Translate returns text translated from the source to the target language.
func (g *Google) Translate(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", g.source)
	q.Set("tl", g.target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return parseResponse(body)
}

// parseResponse extracts the translated segments from the gtx payload,
// which is a nested array of the form [[["translated","original",...],...],...].
func parseResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("no translation in response")
	}
	return b.String(), nil
}
