package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/finvik/finbot/core/config"
)

func TestBuildPollerLongpoll(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeLongpoll

	lp, ok := BuildPoller(cfg).(*tele.LongPoller)
	if !ok {
		t.Fatal("expected a long poller")
	}
	if lp.Timeout != defaultLongPollTimeout {
		t.Fatalf("timeout = %v, want %v", lp.Timeout, defaultLongPollTimeout)
	}

	cfg.Telegram.LongPollTimeoutSeconds = 25
	lp = BuildPoller(cfg).(*tele.LongPoller)
	if lp.Timeout != 25*time.Second {
		t.Fatalf("timeout = %v, want 25s", lp.Timeout)
	}
}

func TestBuildPollerWebhook(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeWebhook
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	cfg.Webhook.URL = "https://bot.example.com/hook"

	wh, ok := BuildPoller(cfg).(*tele.Webhook)
	if !ok {
		t.Fatal("expected a webhook poller")
	}
	if wh.Listen != "0.0.0.0:8443" {
		t.Fatalf("listen = %q", wh.Listen)
	}
	if wh.Endpoint.PublicURL != cfg.Webhook.URL {
		t.Fatalf("public url = %q", wh.Endpoint.PublicURL)
	}
}

type fakeRoundTripper struct {
	calls int
	errs  []error
}

func (f *fakeRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= len(f.errs) && f.errs[f.calls-1] != nil {
		return nil, f.errs[f.calls-1]
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

func dialErr() error {
	return &net.OpError{Op: "dial", Err: errors.New("connection refused")}
}

func TestRetryTransportRetriesTransientErrors(t *testing.T) {
	fake := &fakeRoundTripper{errs: []error{dialErr(), dialErr()}}
	rt := &retryTransport{base: fake, attempts: 3}

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	defer resp.Body.Close()
	if fake.calls != 3 {
		t.Fatalf("calls = %d, want 3", fake.calls)
	}
}

func TestRetryTransportStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("certificate invalid")
	fake := &fakeRoundTripper{errs: []error{permanent, permanent, permanent}}
	rt := &retryTransport{base: fake, attempts: 3}

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, err := rt.RoundTrip(req); !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want the permanent error", err)
	}
	if fake.calls != 1 {
		t.Fatalf("calls = %d, permanent errors must not be retried", fake.calls)
	}
}

func TestRetryTransportSkipsNonReplayableBody(t *testing.T) {
	fake := &fakeRoundTripper{errs: []error{dialErr(), dialErr()}}
	rt := &retryTransport{base: fake, attempts: 3}

	// Hide the body type so NewRequest cannot set GetBody.
	body := io.Reader(struct{ io.Reader }{strings.NewReader("payload")})
	req, _ := http.NewRequest(http.MethodPost, "http://example.com", body)
	if req.GetBody != nil {
		t.Fatal("test setup: GetBody must be nil")
	}

	if _, err := rt.RoundTrip(req); err == nil {
		t.Fatal("expected the dial error back")
	}
	if fake.calls != 1 {
		t.Fatalf("calls = %d, non-replayable bodies must not be retried", fake.calls)
	}
}
