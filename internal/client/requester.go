package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/Houeta/employee-gateway/internal/metrics"
	"github.com/Houeta/employee-gateway/internal/models"
)

var (
	// ErrRequest is returned when a request cannot be built or sent.
	ErrRequest = errors.New("upstream request failed")
	// ErrRetriesExhausted is returned when every attempt ended with a non-200 status.
	ErrRetriesExhausted = errors.New("upstream retries exhausted")
)

// StatusError carries the status code of the last attempt.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d", e.Method, e.URL, e.StatusCode)
}

// Requester sends a request to the upstream API and returns the raw response body.
type Requester interface {
	Send(ctx context.Context, method, rawURL string, body []byte) ([]byte, error)
}

// Client is the Requester backed by a shared *http.Client.
type Client struct {
	http    *http.Client
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New returns a Client. The httpClient is expected to come from CreateHTTPClient,
// whose transport performs the retries.
func New(log *slog.Logger, httpClient *http.Client, metrics *metrics.Metrics) *Client {
	return &Client{http: httpClient, log: log, metrics: metrics}
}

// Send performs method on rawURL. GET and DELETE never carry a body, POST and PUT require one.
func (c *Client) Send(ctx context.Context, method, rawURL string, body []byte) ([]byte, error) {
	method = strings.ToUpper(strings.TrimSpace(method))

	req, err := newRequest(ctx, method, rawURL, body)
	if err != nil {
		c.log.ErrorContext(ctx, "Unable to prepare request", "url", rawURL, "method", method, sl.Err(err))
		return nil, err
	}

	startTime := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.UpstreamDuration.WithLabelValues(method).Observe(time.Since(startTime).Seconds())
		}
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "Error occurred while retrieving data", "url", rawURL, "method", method, sl.Err(err))
		return nil, fmt.Errorf("%w: unable to process request %s %s: %w", ErrRequest, method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{Method: method, URL: rawURL, StatusCode: resp.StatusCode}
		c.log.WarnContext(ctx, "Upstream did not succeed after retries", "url", rawURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w", ErrRetriesExhausted, statusErr)
	}

	c.log.DebugContext(ctx, "Received response from upstream", "url", rawURL, "status", resp.StatusCode)

	return data, nil
}

func newRequest(ctx context.Context, method, rawURL string, body []byte) (*http.Request, error) {
	var reader io.Reader

	switch method {
	case http.MethodGet, http.MethodDelete:
	case http.MethodPost, http.MethodPut:
		if body == nil {
			return nil, fmt.Errorf("%w: method %s requires a body", ErrRequest, method)
		}
		reader = bytes.NewReader(body)
	default:
		return nil, fmt.Errorf("%w: invalid method type %q", ErrRequest, method)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create new request %s: %w", ErrRequest, rawURL, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", models.UserAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	return req, nil
}
