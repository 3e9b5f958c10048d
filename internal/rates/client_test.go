package rates

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Base:    "USD",
		Timeout: 2 * time.Second,
	}, srv.Client())
	return c, srv
}

func TestQuoteComputesCrossRate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-key/latest/USD" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":"success","conversion_rates":{"RUB":90.0,"EUR":0.9}}`))
	})

	q, err := c.Quote(context.Background(), "RUB", "EUR")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.TargetRate != 90.0 {
		t.Fatalf("target rate = %v, want 90", q.TargetRate)
	}
	if math.Abs(q.CrossRate-100.0) > 1e-9 {
		t.Fatalf("cross rate = %v, want 100", q.CrossRate)
	}
}

func TestQuoteServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Quote(context.Background(), "RUB", "EUR")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, expected ErrUnavailable", err)
	}
}

func TestQuoteMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success"}`))
	})

	_, err := c.Quote(context.Background(), "RUB", "EUR")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, expected ErrUnavailable", err)
	}
}

func TestQuoteMissingCurrency(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"conversion_rates":{"RUB":90.0}}`))
	})

	_, err := c.Quote(context.Background(), "RUB", "EUR")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, expected ErrUnavailable", err)
	}
}

func TestQuoteTimeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"conversion_rates":{"RUB":90.0,"EUR":0.9}}`))
	})
	c.cfg.Timeout = 20 * time.Millisecond

	_, err := c.Quote(context.Background(), "RUB", "EUR")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, expected ErrUnavailable", err)
	}
}
