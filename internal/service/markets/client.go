package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"StrikeScope/internal/domain/models"
	icache "StrikeScope/internal/service/cache"
	pkgcache "StrikeScope/pkg/cache"
	xhttp "StrikeScope/pkg/http"
	applogger "StrikeScope/pkg/logger"
)

// Client fetches binary-market quotes and spot prices from the markets REST API.
// Responses are cached in-process for the configured TTL; a shared cache can be
// attached for cross-instance reuse.
type Client struct {
	http     *xhttp.Client
	baseURL  string
	apiKey   string
	cacheTTL time.Duration
	local    *icache.TTLCache
	shared   pkgcache.Service
	logger   *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithSharedCache attaches a shared cache (Redis) in front of the API.
func WithSharedCache(c pkgcache.Service) Option {
	return func(mc *Client) { mc.shared = c }
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(mc *Client) { mc.logger = l }
}

// NewClient creates a markets API client.
func NewClient(baseURL, apiKey string, timeout, cacheTTL time.Duration, opts ...Option) *Client {
	mc := &Client{
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:  baseURL,
		apiKey:   apiKey,
		cacheTTL: cacheTTL,
		local:    icache.NewTTLCache(),
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

type quotesResponse struct {
	Data []quotePayload `json:"data"`
}

type quotePayload struct {
	MarketID      string  `json:"market_id"`
	Symbol        string  `json:"symbol"`
	Strike        float64 `json:"strike"`
	YesPrice      float64 `json:"yes_price"`
	ExpirySeconds int64   `json:"expiry_seconds"`
}

type spotResponse struct {
	Data struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"price"`
	} `json:"data"`
}

// Quotes returns the open binary markets for a symbol.
func (mc *Client) Quotes(ctx context.Context, symbol string) ([]models.MarketQuote, error) {
	key := "quotes:" + symbol

	if v, ok := mc.local.Get(key); ok {
		if quotes, ok2 := v.([]models.MarketQuote); ok2 {
			return quotes, nil
		}
	}
	if quotes, ok := mc.sharedGet(ctx, key); ok {
		mc.local.Set(key, quotes, mc.cacheTTL)
		return quotes, nil
	}

	var resp quotesResponse
	err := mc.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         mc.baseURL + "/v1/markets",
		Headers:     mc.headers(),
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes for %s: %w", symbol, err)
	}

	quotes := make([]models.MarketQuote, 0, len(resp.Data))
	for _, q := range resp.Data {
		quotes = append(quotes, models.MarketQuote{
			MarketID:      q.MarketID,
			Symbol:        q.Symbol,
			Strike:        q.Strike,
			YesPrice:      q.YesPrice,
			ExpirySeconds: q.ExpirySeconds,
		})
	}

	mc.local.Set(key, quotes, mc.cacheTTL)
	mc.sharedSet(ctx, key, quotes)
	return quotes, nil
}

// Spot returns the current spot price from the markets API. Used as a
// fallback when the live stream has no price for the symbol yet.
func (mc *Client) Spot(ctx context.Context, symbol string) (float64, error) {
	var resp spotResponse
	err := mc.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         mc.baseURL + "/v1/spot",
		Headers:     mc.headers(),
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("fetch spot for %s: %w", symbol, err)
	}
	if resp.Data.Price <= 0 {
		return 0, fmt.Errorf("no spot price for %s", symbol)
	}
	return resp.Data.Price, nil
}

func (mc *Client) headers() map[string]string {
	h := map[string]string{}
	if mc.apiKey != "" {
		h["Authorization"] = "Bearer " + mc.apiKey
	}
	return h
}

func (mc *Client) sharedGet(ctx context.Context, key string) ([]models.MarketQuote, bool) {
	if mc.shared == nil {
		return nil, false
	}
	b, err := mc.shared.Get(ctx, key)
	if err != nil {
		if err != pkgcache.ErrCacheMiss && mc.logger != nil {
			mc.logger.Warn("shared cache get failed", applogger.String("key", key), applogger.Error(err))
		}
		return nil, false
	}
	var quotes []models.MarketQuote
	if err := json.Unmarshal(b, &quotes); err != nil {
		return nil, false
	}
	return quotes, true
}

func (mc *Client) sharedSet(ctx context.Context, key string, quotes []models.MarketQuote) {
	if mc.shared == nil {
		return
	}
	b, err := json.Marshal(quotes)
	if err != nil {
		return
	}
	if err := mc.shared.Set(ctx, key, b, mc.cacheTTL); err != nil && mc.logger != nil {
		mc.logger.Warn("shared cache set failed", applogger.String("key", key), applogger.Error(err))
	}
}
