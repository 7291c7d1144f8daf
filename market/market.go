// Package market provides current prices and symbol validation for equities
// and crypto-currencies.
//
// Equities are quoted by Yahoo Finance, crypto-currencies by CoinMarketCap.
// Both are queried over HTTP, through a throttled client with an optional
// disk cache.
package market

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/cryptostock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/etnz/cryptostock/market")

// Config holds the settings of the market data sources.
type Config struct {
	YahooURL         string `yaml:"yahoo_url"`
	CoinMarketCapURL string `yaml:"coinmarketcap_url"`
	// CoinMarketCapKey is the CoinMarketCap API key. Crypto lookups fail with
	// ErrMissingAPIKey without it.
	CoinMarketCapKey string `yaml:"coinmarketcap_api_key"`
	// CacheDir is where responses are cached, CacheTTL how long. A zero TTL
	// disables the cache.
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// RequestsPerMinute limits the rate of requests to each source, 0 is unlimited.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		YahooURL:          DefaultYahooURL,
		CoinMarketCapURL:  DefaultCoinMarketCapURL,
		CacheDir:          filepath.Join(os.TempDir(), "cst-cache"),
		CacheTTL:          time.Minute,
		RequestsPerMinute: 30,
	}
}

// Market implements cryptostock.PriceOracle and cryptostock.SymbolValidator.
type Market struct {
	yahoo  *yahoo
	cmc    *coinMarketCap
	logger *zap.Logger
}

// Option configures a Market.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	logger    *zap.Logger
}

// WithTransport sets the transport used for HTTP requests.
func WithTransport(t http.RoundTripper) Option {
	return func(o *options) { o.transport = t }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Market from cfg.
func New(cfg Config, opts ...Option) *Market {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	def := DefaultConfig()
	if cfg.YahooURL == "" {
		cfg.YahooURL = def.YahooURL
	}
	if cfg.CoinMarketCapURL == "" {
		cfg.CoinMarketCapURL = def.CoinMarketCapURL
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = def.CacheDir
	}
	logger := o.logger.Named("market")
	return &Market{
		yahoo: &yahoo{
			client: newClient(o.transport, cfg.RequestsPerMinute, cfg.CacheDir, cfg.CacheTTL, logger),
			base:   cfg.YahooURL,
		},
		cmc: &coinMarketCap{
			client: newClient(o.transport, cfg.RequestsPerMinute, cfg.CacheDir, cfg.CacheTTL, logger),
			base:   cfg.CoinMarketCapURL,
			apiKey: cfg.CoinMarketCapKey,
		},
		logger: logger,
	}
}

func (m *Market) quote(ctx context.Context, op string, class cryptostock.AssetClass, symbol string) (q quote, err error) {
	symbol = cryptostock.NormalizeSymbol(symbol)
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("asset.class", class.String()),
		attribute.String("asset.symbol", symbol),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("asset.price", q.Price.String()))
		}
		span.End()
	}()

	if class == cryptostock.Crypto {
		q, err = m.cmc.quote(ctx, symbol)
	} else {
		q, err = m.yahoo.quote(ctx, symbol)
	}
	if err == nil && !q.Price.IsPositive() {
		err = fmt.Errorf("%s %q quoted at %v: %w", class, symbol, q.Price, cryptostock.ErrPriceUnavailable)
	}
	return q, err
}

// Price returns the current price of symbol in USD.
func (m *Market) Price(ctx context.Context, class cryptostock.AssetClass, symbol string) (cryptostock.Money, error) {
	q, err := m.quote(ctx, "market.Price", class, symbol)
	if err != nil {
		m.logger.Debug("price lookup failed", zap.Stringer("class", class), zap.String("symbol", symbol), zap.Error(err))
		return cryptostock.Money{}, err
	}
	return cryptostock.M(q.Price), nil
}

// ValidateSymbol checks that symbol exists and returns its display name.
func (m *Market) ValidateSymbol(ctx context.Context, class cryptostock.AssetClass, symbol string) (string, error) {
	q, err := m.quote(ctx, "market.ValidateSymbol", class, symbol)
	if err != nil && q.Name == "" {
		return "", err
	}
	// a known symbol without a price is still a valid symbol
	if q.Name == "" {
		q.Name = cryptostock.NormalizeSymbol(symbol)
	}
	return q.Name, nil
}

// EquityPrice returns the current price of an equity.
func (m *Market) EquityPrice(ctx context.Context, ticker string) (cryptostock.Money, error) {
	return m.Price(ctx, cryptostock.Equity, ticker)
}

// CryptoPrice returns the current price of a crypto-currency in USD.
func (m *Market) CryptoPrice(ctx context.Context, symbol string) (cryptostock.Money, error) {
	return m.Price(ctx, cryptostock.Crypto, symbol)
}
