package translate

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
	lastURL    string
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.lastURL = req.URL.String()
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name      string
		transport *mockTransport
		want      string
		wantErr   bool
	}{
		{
			name: "single segment",
			transport: &mockTransport{
				body:       `[[["Pokemon card","ポケモンカード",null,null,10]],null,"ja"]`,
				statusCode: 200,
			},
			want: "Pokemon card",
		},
		{
			name: "multiple segments concatenated",
			transport: &mockTransport{
				body:       `[[["Vintage camera ","ヴィンテージカメラ",null,null,1],["with lens","レンズ付き",null,null,1]],null,"ja"]`,
				statusCode: 200,
			},
			want: "Vintage camera with lens",
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "blocked", statusCode: 429},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "malformed payload",
			transport: &mockTransport{body: `{"not":"an array"}`, statusCode: 200},
			wantErr:   true,
		},
		{
			name:      "empty payload",
			transport: &mockTransport{body: `[]`, statusCode: 200},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGoogle(tt.transport, "ja", "en")
			got, err := g.Translate(context.Background(), "テスト")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("translation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateRequestParams(t *testing.T) {
	transport := &mockTransport{
		body:       `[[["ok","ok",null,null,1]],null,"ja"]`,
		statusCode: 200,
	}
	g := NewGoogle(transport, "ja", "en")

	if _, err := g.Translate(context.Background(), "こんにちは"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := transport.lastURL
	for _, want := range []string{"client=gtx", "sl=ja", "tl=en", "dt=t"} {
		if !bytes.Contains([]byte(u), []byte(want)) {
			t.Errorf("request URL %q missing %q", u, want)
		}
	}
}
