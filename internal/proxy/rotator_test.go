package proxy

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
	calls      int
}

func (m *mockTransport) Do(_ *http.Request) (*http.Response, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNextRoundRobin(t *testing.T) {
	transport := &mockTransport{
		body:       "10.0.0.1:8080\n10.0.0.2:8080\n10.0.0.3:8080\n",
		statusCode: 200,
	}
	r := New(transport, "https://proxies.example.com/list.txt", true, discardLogger())

	var got []string
	for i := 0; i < 4; i++ {
		p := r.Next(context.Background())
		if p == nil {
			t.Fatalf("call %d: expected proxy, got nil", i)
		}
		got = append(got, p.Host)
	}

	want := []string{"10.0.0.1:8080", "10.0.0.2:8080", "10.0.0.3:8080", "10.0.0.1:8080"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rotation order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, transport.calls); diff != "" {
		t.Errorf("fetch count mismatch (-want +got):\n%s", diff)
	}
}

func TestNextDisabled(t *testing.T) {
	transport := &mockTransport{body: "10.0.0.1:8080\n", statusCode: 200}
	r := New(transport, "https://proxies.example.com/list.txt", false, discardLogger())

	if p := r.Next(context.Background()); p != nil {
		t.Errorf("expected nil proxy when disabled, got %v", p)
	}
	if diff := cmp.Diff(0, transport.calls); diff != "" {
		t.Errorf("expected no list fetch when disabled (-want +got):\n%s", diff)
	}
}

func TestNextFetchFailure(t *testing.T) {
	transport := &mockTransport{err: io.ErrUnexpectedEOF}
	r := New(transport, "https://proxies.example.com/list.txt", true, discardLogger())

	if p := r.Next(context.Background()); p != nil {
		t.Errorf("expected nil proxy after fetch failure, got %v", p)
	}

	// A failed refresh still stamps the pool: the next call within the TTL
	// must not retry the fetch.
	_ = r.Next(context.Background())
	if diff := cmp.Diff(1, transport.calls); diff != "" {
		t.Errorf("fetch count mismatch (-want +got):\n%s", diff)
	}
}

func TestNextKeepsPoolOnRefreshFailure(t *testing.T) {
	transport := &mockTransport{body: "10.0.0.1:8080\n", statusCode: 200}
	r := New(transport, "https://proxies.example.com/list.txt", true, discardLogger())

	if p := r.Next(context.Background()); p == nil {
		t.Fatal("expected proxy from initial pool")
	}

	// Expire the pool and make the next refresh fail.
	transport.err = io.ErrUnexpectedEOF
	r.mu.Lock()
	r.fetchedAt = time.Now().Add(-2 * time.Hour)
	r.mu.Unlock()

	p := r.Next(context.Background())
	if p == nil {
		t.Fatal("expected previous pool to be retained after refresh failure")
	}
	if diff := cmp.Diff("10.0.0.1:8080", p.Host); diff != "" {
		t.Errorf("proxy mismatch (-want +got):\n%s", diff)
	}
}

func TestNextRefreshAfterTTL(t *testing.T) {
	transport := &mockTransport{body: "10.0.0.1:8080\n", statusCode: 200}
	r := New(transport, "https://proxies.example.com/list.txt", true, discardLogger())

	_ = r.Next(context.Background())
	_ = r.Next(context.Background())
	if diff := cmp.Diff(1, transport.calls); diff != "" {
		t.Fatalf("expected single fetch within TTL (-want +got):\n%s", diff)
	}

	r.mu.Lock()
	r.fetchedAt = time.Now().Add(-2 * time.Hour)
	r.mu.Unlock()

	transport.body = "10.0.0.9:3128\n"
	p := r.Next(context.Background())
	if p == nil {
		t.Fatal("expected proxy after refresh")
	}
	if diff := cmp.Diff("10.0.0.9:3128", p.Host); diff != "" {
		t.Errorf("proxy mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(2, transport.calls); diff != "" {
		t.Errorf("fetch count mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPoolSkipsMalformedLines(t *testing.T) {
	transport := &mockTransport{
		body:       "10.0.0.1:8080\n\n   \n10.0.0.2:8080\n",
		statusCode: 200,
	}
	r := New(transport, "https://proxies.example.com/list.txt", true, discardLogger())

	pool, err := r.fetchPool(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(2, len(pool)); diff != "" {
		t.Errorf("pool size mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPoolHTTPError(t *testing.T) {
	transport := &mockTransport{body: "nope", statusCode: 503}
	r := New(transport, "https://proxies.example.com/list.txt", true, discardLogger())

	if _, err := r.fetchPool(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
