package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/Houeta/employee-gateway/internal/metrics"
)

const (
	// DefaultMaxRetries is the number of additional attempts made after a non-200 response.
	DefaultMaxRetries = 10

	drainLimit = 64 << 10
)

// RetryPolicy defines how many times and how often a request is re-issued.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultRetryPolicy returns ten back-to-back retries.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		Delay:      0,
	}
}

// RetryTransport is an http.RoundTripper which re-issues a request while the
// upstream answers with anything but 200 OK, up to MaxRetries additional times.
// It returns the first 200 response or redirect, or the outcome of the last attempt.
type RetryTransport struct {
	next    http.RoundTripper
	log     *slog.Logger
	metrics *metrics.Metrics
	policy  RetryPolicy
	limiter *rate.Limiter
}

// NewRetryTransport wraps next with the retry loop. A nil limiter disables rate limiting.
func NewRetryTransport(
	next http.RoundTripper,
	log *slog.Logger,
	metrics *metrics.Metrics,
	policy RetryPolicy,
	limiter *rate.Limiter,
) *RetryTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	return &RetryTransport{next: next, log: log, metrics: metrics, policy: policy, limiter: limiter}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	resp, err := t.attempt(req, 0)
	for retry := 1; retry <= t.policy.MaxRetries && !succeeded(resp, err); retry++ {
		status := statusLabel(resp, err)
		discard(resp)

		if req.Body != nil && req.GetBody == nil {
			return nil, fmt.Errorf("request body of %s %s cannot be replayed", req.Method, req.URL.Redacted())
		}

		t.log.InfoContext(ctx, "Upstream request is not successful, retrying",
			"method", req.Method, "url", req.URL.Redacted(), "status", status, "retry", retry, "of", t.policy.MaxRetries)
		if t.metrics != nil {
			t.metrics.UpstreamRetries.WithLabelValues(req.Method).Inc()
		}

		if waitErr := t.pause(ctx); waitErr != nil {
			return nil, waitErr
		}

		next, cloneErr := rewind(req)
		if cloneErr != nil {
			return nil, cloneErr
		}
		resp, err = t.attempt(next, retry)
	}

	return resp, err
}

func (t *RetryTransport) attempt(req *http.Request, attempt int) (*http.Response, error) {
	ctx := req.Context()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			if req.Body != nil {
				req.Body.Close()
			}
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	t.log.DebugContext(ctx, "Requesting upstream", "method", req.Method, "url", req.URL.Redacted(), "attempt", attempt)

	resp, err := t.next.RoundTrip(req)
	if t.metrics != nil {
		t.metrics.UpstreamAttempts.WithLabelValues(req.Method, statusLabel(resp, err)).Inc()
	}
	if err != nil {
		t.log.DebugContext(ctx, "Upstream attempt failed", "attempt", attempt, sl.Err(err))
		return nil, err
	}

	t.log.DebugContext(ctx, "Received upstream response", "url", req.URL.Redacted(), "status", resp.StatusCode)

	return resp, nil
}

func (t *RetryTransport) pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.policy.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(t.policy.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// rewind builds an equivalent request with a fresh body.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.GetBody == nil {
		return next, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild request body: %w", err)
	}
	next.Body = body

	return next, nil
}

// succeeded also accepts redirects, they are followed by the http.Client and the
// retry decision is made on the final hop.
func succeeded(resp *http.Response, err error) bool {
	if err != nil || resp == nil {
		return false
	}

	return resp.StatusCode == http.StatusOK || isRedirect(resp)
}

func isRedirect(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return resp.Header.Get("Location") != ""
	default:
		return false
	}
}

// discard drains and closes a response that will not be returned to the caller,
// so the connection can be reused.
func discard(resp *http.Response) {
	if resp == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	resp.Body.Close()
}

func statusLabel(resp *http.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}

	return strconv.Itoa(resp.StatusCode)
}

// newLimiter converts a requests-per-second budget into a token bucket, nil when disabled.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}

	maxBurst := 10
	burst := min(max(int(perSecond), 1), maxBurst)

	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
