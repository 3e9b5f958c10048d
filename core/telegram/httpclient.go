package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/finvik/finbot/core/telegram/netutil"
)

// BuildHTTPClient returns the client used for Bot API calls: a pooled
// transport with a retry layer for transient network failures. The overall
// timeout leaves room for a full long-poll cycle.
func BuildHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &retryTransport{
			base: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          64,
				MaxIdleConnsPerHost:   8,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
			},
			attempts: 3,
			backoff:  time.Second,
		},
	}
}

// retryTransport retries requests that fail with a transient network error,
// backing off linearly between attempts. Requests with a non-replayable body
// are never retried.
type retryTransport struct {
	base     http.RoundTripper
	attempts int
	backoff  time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	for attempt := 0; attempt < t.attempts; attempt++ {
		if attempt > 0 {
			if req.Body != nil && req.GetBody == nil {
				return nil, lastErr
			}
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(t.backoff * time.Duration(attempt)):
			}
			clone := req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				clone.Body = body
			}
			req = clone
		}

		resp, err := base.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) {
			break
		}
	}
	return nil, lastErr
}
