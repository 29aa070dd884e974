package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/plakshaa/xrplwallet/config"
	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// oracleIDs maps internal asset identifiers to the price source's own ids.
var oracleIDs = map[domain.AssetType]string{
	domain.AssetXRP: "ripple",
	domain.AssetSOL: "solana",
	domain.AssetBTC: "bitcoin",
}

// Client implements ports.RateOracle against a CoinGecko-compatible
// simple-price API. An optional Redis-backed cache bounds how often the
// upstream is hit; cached entries expire within the configured staleness
// window so conversions never see an old rate.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      ports.RateCache // nil = no caching
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// New creates a rate oracle client. cache may be nil to disable caching.
func New(cfg config.OracleConfig, cache ports.RateCache, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		log:        log.With().Str("component", "rate_oracle").Logger(),
	}
}

// SpotPrice returns the price of one unit of asset in the quote currency.
func (c *Client) SpotPrice(ctx context.Context, asset domain.AssetType, quote string) (decimal.Decimal, error) {
	oracleID, ok := oracleIDs[asset]
	if !ok {
		return decimal.Zero, apperror.ErrUnsupportedAsset(string(asset))
	}
	quote = strings.ToLower(quote)

	cacheKey := oracleID + ":" + quote
	if c.cache != nil {
		rate, hit, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("rate cache read failed, querying upstream")
		} else if hit {
			return rate, nil
		}
	}

	rate, err := c.fetchPrice(ctx, oracleID, quote)
	if err != nil {
		return decimal.Zero, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, rate, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("rate cache write failed")
		}
	}
	return rate, nil
}

// Convert quotes an asset-to-asset conversion. The price source exposes only
// asset-to-fiat pairs, so cross rates go through a common quote currency:
// rate = price(from)/price(to).
func (c *Client) Convert(ctx context.Context, from, to domain.AssetType, amount decimal.Decimal) (*ports.Conversion, error) {
	if from == to {
		return &ports.Conversion{
			FromAsset:       from,
			ToAsset:         to,
			Amount:          amount,
			Rate:            decimal.NewFromInt(1),
			ConvertedAmount: amount,
		}, nil
	}

	const crossQuote = "usd"

	fromPrice, err := c.SpotPrice(ctx, from, crossQuote)
	if err != nil {
		return nil, err
	}
	toPrice, err := c.SpotPrice(ctx, to, crossQuote)
	if err != nil {
		return nil, err
	}
	if toPrice.IsZero() {
		return nil, apperror.ErrRateUnavailable(fmt.Errorf("zero %s price for %s", crossQuote, to))
	}

	rate := fromPrice.Div(toPrice)
	return &ports.Conversion{
		FromAsset:       from,
		ToAsset:         to,
		Amount:          amount,
		Rate:            rate,
		ConvertedAmount: amount.Mul(rate),
	}, nil
}

// fetchPrice queries GET /simple/price?ids=<id>&vs_currencies=<quote>.
func (c *Client) fetchPrice(ctx context.Context, oracleID, quote string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.baseURL, url.QueryEscape(oracleID), url.QueryEscape(quote))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, apperror.ErrRateUnavailable(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, apperror.ErrRateUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, apperror.ErrRateUnavailable(fmt.Errorf("price source returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return decimal.Zero, apperror.ErrRateUnavailable(err)
	}

	var prices map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(body, &prices); err != nil {
		return decimal.Zero, apperror.ErrRateUnavailable(fmt.Errorf("malformed price response: %w", err))
	}

	rate, ok := prices[oracleID][quote]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, apperror.ErrRateUnavailable(fmt.Errorf("no %s price for %s in response", quote, oracleID))
	}
	return rate, nil
}
