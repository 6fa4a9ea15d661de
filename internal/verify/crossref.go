// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks whether a title is independently findable in the
// CrossRef bibliographic index.
// Implements: prd004-verification (R1-R4);
//
//	docs/ARCHITECTURE § Verification.
package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pubrank/internal/httputil"
	"github.com/pdiddy/pubrank/pkg/types"
)

// crossRefBase is the CrossRef Works search endpoint. Declared as a var
// so tests can substitute an httptest server.
var crossRefBase = "https://api.crossref.org/works"

const (
	defaultTimeout    = 5 * time.Second
	defaultRate       = 5.0
	defaultMaxRetries = 2
	minTitleLen       = 3
)

// Client queries CrossRef for title existence. Lookups are rate limited
// with a shared token bucket so batch analysis stays inside CrossRef's
// polite-pool expectations.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	mailto     string
	userAgent  string
	maxRetries int
}

// NewClient builds a Client from config, applying defaults for unset fields.
func NewClient(cfg types.VerificationConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRate
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
		mailto:     cfg.Mailto,
		userAgent:  cfg.UserAgent,
		maxRetries: maxRetries,
	}
}

// crossRefResponse mirrors the slice of the CrossRef Works payload we read.
type crossRefResponse struct {
	Message struct {
		Items []json.RawMessage `json:"items"`
	} `json:"message"`
}

// Verify reports whether at least one CrossRef work matches the title.
// Titles shorter than 3 characters after trimming are never verified.
// Verification is best effort: any network failure, non-200 status, or
// malformed payload reads as false and never raises to the caller (R2.1).
func (c *Client) Verify(ctx context.Context, title string) bool {
	title = strings.TrimSpace(title)
	if len(title) < minTitleLen {
		return false
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return false
	}

	params := url.Values{
		"query.title": {title},
		"rows":        {"1"},
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossRefBase+"?"+params.Encode(), nil)
	if err != nil {
		return false
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res := httputil.Call(ctx, c.http, req, c.maxRetries)
	if res.Outcome != httputil.OutcomeOK {
		return false
	}

	var cr crossRefResponse
	if err := json.Unmarshal(res.Body, &cr); err != nil {
		return false
	}
	return len(cr.Message.Items) > 0
}
