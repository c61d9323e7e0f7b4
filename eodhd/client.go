// Package eodhd provides market data from the EODHD HTTP API
// (https://eodhd.com/financial-apis).
package eodhd

import (
	"net/http"
	"strings"
	"time"

	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/date"
	"github.com/etnz/stocklog/logging"
	gocache "github.com/patrickmn/go-cache"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the EODHD API endpoint.
	DefaultBaseURL = "https://eodhd.com"
	// DefaultExchange is appended to tickers given without an exchange.
	DefaultExchange = "US"
	// DemoKey is the public EODHD key, limited to a handful of tickers (AAPL.US, MCD.US, ...).
	DemoKey = "demo"
)

// Client is a stocklog.Provider backed by EODHD.
type Client struct {
	apiKey   string
	baseURL  string
	exchange string
	client   *http.Client
	limiter  *rate.Limiter
	quotes   *gocache.Cache // nil when quotes are not memoized
	logger   *log.Logger
	today    func() date.Date
	cacheDir string
}

var _ stocklog.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithExchange sets the exchange code of tickers given without one.
func WithExchange(code string) Option { return func(c *Client) { c.exchange = code } }

// WithHTTPClient sets the http client used for requests.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.client = h } }

// WithTimeout sets the timeout of each request.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.client.Timeout = d } }

// WithRateLimit limits requests to r per second with bursts of burst.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(r), burst) }
}

// WithQuoteTTL memoizes quotes for ttl. Zero, the default, disables
// memoization; ttl must stay below the refresh interval for refreshes to see
// new prices.
func WithQuoteTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.quotes = nil
		if ttl > 0 {
			c.quotes = gocache.New(ttl, 2*ttl)
		}
	}
}

// WithDiskCache keeps successful responses in dir for the rest of the day.
// Real time quotes are never kept.
func WithDiskCache(dir string) Option { return func(c *Client) { c.cacheDir = dir } }

// WithLogger sets the logger receiving request and enrichment failures.
func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// WithToday sets the clock resolving relative windows.
func WithToday(today func() date.Date) Option { return func(c *Client) { c.today = today } }

// New returns a Client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		exchange: DefaultExchange,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Inf, 0),
		today:    date.Today,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	if c.cacheDir != "" {
		base := c.client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		h := *c.client
		h.Transport = &diskCache{base: base, dir: c.cacheDir, today: c.today, logger: c.logger}
		c.client = &h
	}
	return c
}

// symbol returns the EODHD symbol of ticker, "SYMBOL.EXCHANGE".
func (c *Client) symbol(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if strings.Contains(ticker, ".") || c.exchange == "" {
		return ticker
	}
	return ticker + "." + c.exchange
}
