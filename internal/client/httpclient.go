package client

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Houeta/employee-gateway/internal/metrics"
)

// Options configures the shared upstream HTTP client.
type Options struct {
	Timeout   time.Duration // Timeout of a single attempt, also the basis of the whole-call deadline.
	Retry     RetryPolicy
	RateLimit float64 // RateLimit in requests per second, 0 disables it.
}

// CreateHTTPClient initializes the HTTP client shared by every upstream call:
// a pooled transport wrapped in the retry loop, with a custom cookie jar.
func CreateHTTPClient(log *slog.Logger, metrics *metrics.Metrics, opts Options) *http.Client {
	jar := NewCookieJar(log)

	return &http.Client{
		Timeout:   callTimeout(opts),
		Jar:       jar,
		Transport: NewRetryTransport(newTransport(opts.Timeout), log, metrics, opts.Retry, newLimiter(opts.RateLimit)),
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}

// callTimeout bounds a whole Send: every attempt, the pauses between them and the
// body read. Zero when no per-attempt timeout is configured.
func callTimeout(opts Options) time.Duration {
	if opts.Timeout <= 0 {
		return 0
	}

	attempts := time.Duration(max(opts.Retry.MaxRetries, 0) + 1)

	return opts.Timeout*attempts + max(opts.Retry.Delay, 0)*(attempts-1)
}

func newTransport(timeout time.Duration) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
}
