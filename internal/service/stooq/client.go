package stooq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
)

// Client fetches daily OHLCV history from the Stooq CSV endpoint
// (https://stooq.com/q/d/l/?s=<symbol>&i=d).
type Client struct {
	http *resty.Client
	l    *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

// NewClient creates a Stooq client. baseURL is typically "https://stooq.com".
func NewClient(baseURL string, opts ...Option) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	c := &Client{http: http}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DailyHistory downloads the full daily history for a symbol, oldest first.
// Stooq answers unknown symbols with an empty or "No data" body; that maps
// to an empty slice, not an error, so thin-history semantics apply upstream.
func (c *Client) DailyHistory(ctx context.Context, symbol string) ([]models.DailyBar, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"s": symbol,
			"i": "d",
		}).
		Get("/q/d/l/")
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("stooq status %d for %s", resp.StatusCode(), symbol)
	}

	bars, err := ParseDailyCSV(strings.ToUpper(symbol), resp.Body())
	if err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", symbol, err)
	}

	if c.l != nil {
		c.l.Debug("stooq history fetched",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return bars, nil
}
