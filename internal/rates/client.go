// Package rates fetches currency conversion rates from the exchange-rate
// provider and derives the user-facing quotes.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// ErrUnavailable covers every provider failure mode: transport errors,
// timeouts, non-200 responses, and malformed or incomplete payloads. Callers
// show one generic message and never retry.
var ErrUnavailable = errors.New("exchange rate provider unavailable")

// Config describes the provider endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	// Base is the currency all provider rates are quoted against.
	Base    string
	Timeout time.Duration
}

// Quote is a pair of rates expressed in the target currency.
type Quote struct {
	Base       string
	Target     string
	Cross      string
	TargetRate float64
	CrossRate  float64
}

// Client calls the exchange-rate provider over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a Client. A nil httpClient falls back to a default one;
// the configured timeout bounds every request either way.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

type latestResponse struct {
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Latest fetches the provider's rate table quoted against the base currency.
func (c *Client) Latest(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.cfg.BaseURL, c.cfg.APIKey, c.cfg.Base)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if len(body.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: missing conversion_rates", ErrUnavailable)
	}
	return body.ConversionRates, nil
}

// Quote fetches the latest table and derives target and cross rates:
// TargetRate is target-per-base, CrossRate is target-per-cross
// ((target/base) / (cross/base)).
func (c *Client) Quote(ctx context.Context, target, cross string) (Quote, error) {
	table, err := c.Latest(ctx)
	if err != nil {
		return Quote{}, err
	}

	targetRate, ok := table[target]
	if !ok {
		return Quote{}, fmt.Errorf("%w: missing rate for %s", ErrUnavailable, target)
	}
	crossPerBase, ok := table[cross]
	if !ok {
		return Quote{}, fmt.Errorf("%w: missing rate for %s", ErrUnavailable, cross)
	}
	if crossPerBase == 0 || math.IsNaN(crossPerBase) || math.IsInf(crossPerBase, 0) {
		return Quote{}, fmt.Errorf("%w: malformed rate for %s", ErrUnavailable, cross)
	}

	return Quote{
		Base:       c.cfg.Base,
		Target:     target,
		Cross:      cross,
		TargetRate: targetRate,
		CrossRate:  targetRate / crossPerBase,
	}, nil
}
