// =============================
// File: internal/jupiter/price.go
// =============================
package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// USDCMint is the canonical USDC mint, used as the pricing denominator.
var USDCMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

const usdcDecimals = 6

// PriceUSDC returns the token's USDC price from the price API.
func (c *Client) PriceUSDC(ctx context.Context, mint solana.PublicKey) (decimal.Decimal, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("ids", mint.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.priceURL+"?"+params.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return decimal.Zero, &ProviderError{Endpoint: "price", Detail: err.Error()}
	}

	entry := decoded.Data[mint.String()]
	if entry == nil || entry.Price == "" {
		return decimal.Zero, &ProviderError{Endpoint: "price", Detail: "no direct price data for " + mint.String()}
	}

	price, err := decimal.NewFromString(entry.Price)
	if err != nil {
		return decimal.Zero, &ProviderError{Endpoint: "price", Detail: fmt.Sprintf("malformed price %q: %v", entry.Price, err)}
	}

	c.logger.Debug("Price fetched",
		zap.String("mint", mint.String()),
		zap.String("price_usdc", price.String()),
		zap.Duration("elapsed", time.Since(start)))

	return price, nil
}

// PriceFromQuote derives a USDC price by quoting a small probe swap into
// USDC. Fallback for tokens the price API does not cover directly.
func (c *Client) PriceFromQuote(ctx context.Context, mint solana.PublicKey) (decimal.Decimal, error) {
	const probeAmount = 1_000_000

	quote, err := c.GetQuote(ctx, mint, USDCMint, probeAmount, 0)
	if err != nil {
		return decimal.Zero, err
	}
	if len(quote.RoutePlan) == 0 || quote.RoutePlan[0].OutAmount == 0 {
		return decimal.Zero, ErrNoRoute
	}

	out := decimal.NewFromUint64(quote.RoutePlan[0].OutAmount)
	return out.Shift(-usdcDecimals), nil
}
