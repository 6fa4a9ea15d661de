// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
//
// Call wraps request execution in an explicit result type so callers
// pattern-match on the outcome (ok, quota, unauthorized, transient) to
// pick their degrade policy instead of suppressing errors broadly.
// Implements: prd004-verification R2.3; prd002-llm-eval R3.1-R3.4.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// Outcome classifies the result of an external HTTP call.
type Outcome int

const (
	// OutcomeOK means HTTP 200 with the body fully read.
	OutcomeOK Outcome = iota

	// OutcomeQuota means HTTP 402 or 429 (after exhausting retries):
	// credits or rate quota exhausted at the remote service.
	OutcomeQuota

	// OutcomeUnauthorized means HTTP 401: the credential was rejected.
	OutcomeUnauthorized

	// OutcomeTransient covers network errors, timeouts, and every other
	// non-200 status.
	OutcomeTransient
)

// String returns the outcome name for log lines.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeQuota:
		return "quota"
	case OutcomeUnauthorized:
		return "unauthorized"
	default:
		return "transient"
	}
}

// CallResult is the explicit success/failure variant returned by Call.
// Exactly one of the failure conditions applies; on OutcomeOK the Body
// holds the full response payload.
type CallResult struct {
	Outcome Outcome
	Status  int
	Body    []byte
	Err     error
}

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// Call executes the request and classifies the response. HTTP 429 is
// retried up to maxRetries times with exponential backoff (base
// RetryBaseDelay, doubling per attempt); pass 0 to disable retries so a
// 429 is reported as OutcomeQuota immediately. A context cancellation
// during backoff surfaces as OutcomeTransient with Err set to ctx.Err().
//
// Call never panics and never returns a partial result: every path yields
// a CallResult the caller can switch on.
func Call(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) CallResult {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return CallResult{Outcome: OutcomeTransient, Err: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
			select {
			case <-ctx.Done():
				return CallResult{Outcome: OutcomeTransient, Err: ctx.Err()}
			case <-time.After(backoff):
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK && readErr == nil:
			return CallResult{Outcome: OutcomeOK, Status: resp.StatusCode, Body: body}
		case resp.StatusCode == http.StatusOK:
			return CallResult{Outcome: OutcomeTransient, Status: resp.StatusCode, Err: readErr}
		case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusTooManyRequests:
			return CallResult{Outcome: OutcomeQuota, Status: resp.StatusCode, Body: body}
		case resp.StatusCode == http.StatusUnauthorized:
			return CallResult{Outcome: OutcomeUnauthorized, Status: resp.StatusCode, Body: body}
		default:
			return CallResult{Outcome: OutcomeTransient, Status: resp.StatusCode, Body: body}
		}
	}
}
