// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/pubrank/pkg/types"
)

func testCfg() types.VerificationConfig {
	return types.VerificationConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "pubrank-test/0.1",
		},
		RequestsPerSecond: 100,
		MaxRetries:        1,
	}
}

// withServer points crossRefBase at an httptest server for the test's duration.
func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := crossRefBase
	crossRefBase = ts.URL
	t.Cleanup(func() {
		crossRefBase = old
		ts.Close()
	})
}

func TestVerifyFound(t *testing.T) {
	var gotQuery, gotRows string
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.title")
		gotRows = r.URL.Query().Get("rows")
		w.Write([]byte(`{"message":{"items":[{"DOI":"10.1/abc"}]}}`))
	})

	c := NewClient(testCfg())
	assert.True(t, c.Verify(context.Background(), "Attention Is All You Need"))
	assert.Equal(t, "Attention Is All You Need", gotQuery)
	assert.Equal(t, "1", gotRows)
}

func TestVerifyNoItems(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message":{"items":[]}}`))
	})

	c := NewClient(testCfg())
	assert.False(t, c.Verify(context.Background(), "Some Unfindable Paper"))
}

func TestVerifyShortOrEmptyTitle(t *testing.T) {
	called := false
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.Write([]byte(`{"message":{"items":[{}]}}`))
	})

	c := NewClient(testCfg())
	for _, title := range []string{"", "  ", "ab", " a "} {
		assert.False(t, c.Verify(context.Background(), title), "title %q", title)
	}
	assert.False(t, called, "short titles must not hit the network")
}

func TestVerifyDegradesOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"malformed payload", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"message": not json`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withServer(t, tt.handler)
			c := NewClient(testCfg())
			assert.False(t, c.Verify(context.Background(), "A Perfectly Fine Title"))
		})
	}
}

func TestVerifyMailtoForwarded(t *testing.T) {
	var gotMailto string
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMailto = r.URL.Query().Get("mailto")
		w.Write([]byte(`{"message":{"items":[{}]}}`))
	})

	cfg := testCfg()
	cfg.Mailto = "research@example.org"
	c := NewClient(cfg)
	assert.True(t, c.Verify(context.Background(), "Polite Pool Access Patterns"))
	assert.Equal(t, "research@example.org", gotMailto)
}

func TestVerifyCancelledContext(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message":{"items":[{}]}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(testCfg())
	assert.False(t, c.Verify(ctx, "A Perfectly Fine Title"))
}
