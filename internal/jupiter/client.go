// =============================
// File: internal/jupiter/client.go
// =============================
package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public lite endpoint of the swap API.
	DefaultBaseURL = "https://lite-api.jup.ag/swap/v1"

	// DefaultPriceURL is the public price API endpoint.
	DefaultPriceURL = "https://lite-api.jup.ag/price/v2"
)

// Client talks to the Jupiter aggregator. It owns no connection state;
// the HTTP client is the process-wide shared session.
type Client struct {
	baseURL  string
	priceURL string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a Jupiter client. Empty URLs fall back to the public
// lite endpoints.
func NewClient(baseURL, priceURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if priceURL == "" {
		priceURL = DefaultPriceURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:  baseURL,
		priceURL: priceURL,
		http:     httpClient,
		logger:   logger.Named("jupiter"),
	}
}

// GetQuote requests a route for swapping amount base units of inputMint
// into outputMint within the given slippage tolerance. It performs exactly
// one outbound call and never retries; retry policy belongs to the caller.
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint solana.PublicKey, amount uint64, slippageBps uint64) (*Quote, error) {
	params := url.Values{}
	params.Set("inputMint", inputMint.String())
	params.Set("outputMint", outputMint.String())
	params.Set("amount", strconv.FormatUint(amount, 10))
	params.Set("slippageBps", strconv.FormatUint(slippageBps, 10))

	quoteURL := c.baseURL + "/quote?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, quoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to read quote response: %w", err)
	}

	var decoded quoteResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ProviderError{Endpoint: "quote", Detail: err.Error()}
	}
	if decoded.Error != "" {
		return nil, &ProviderError{Endpoint: "quote", Detail: decoded.Error}
	}
	if len(decoded.RoutePlan) == 0 {
		return nil, ErrNoRoute
	}

	quote, err := quoteFromResponse(&decoded, raw)
	if err != nil {
		return nil, &ProviderError{Endpoint: "quote", Detail: err.Error()}
	}

	c.logger.Debug("Quote received",
		zap.String("input_mint", quote.InputMint.String()),
		zap.String("output_mint", quote.OutputMint.String()),
		zap.Uint64("in_amount", quote.InAmount),
		zap.Uint64("out_amount", quote.OutAmount),
		zap.Int("route_legs", len(quote.RoutePlan)))

	return quote, nil
}

// quoteFromResponse converts the loosely typed provider payload into a
// Quote, failing on any missing or malformed field.
func quoteFromResponse(decoded *quoteResponse, raw json.RawMessage) (*Quote, error) {
	inputMint, err := solana.PublicKeyFromBase58(decoded.InputMint)
	if err != nil {
		return nil, fmt.Errorf("invalid inputMint %q: %w", decoded.InputMint, err)
	}
	outputMint, err := solana.PublicKeyFromBase58(decoded.OutputMint)
	if err != nil {
		return nil, fmt.Errorf("invalid outputMint %q: %w", decoded.OutputMint, err)
	}
	inAmount, err := strconv.ParseUint(decoded.InAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid inAmount %q: %w", decoded.InAmount, err)
	}
	outAmount, err := strconv.ParseUint(decoded.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid outAmount %q: %w", decoded.OutAmount, err)
	}

	legs := make([]RouteLeg, 0, len(decoded.RoutePlan))
	for i, entry := range decoded.RoutePlan {
		legIn, err := strconv.ParseUint(entry.SwapInfo.InAmount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("route leg %d: invalid inAmount %q: %w", i, entry.SwapInfo.InAmount, err)
		}
		legOut, err := strconv.ParseUint(entry.SwapInfo.OutAmount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("route leg %d: invalid outAmount %q: %w", i, entry.SwapInfo.OutAmount, err)
		}
		legs = append(legs, RouteLeg{
			AmmKey:     entry.SwapInfo.AmmKey,
			Label:      entry.SwapInfo.Label,
			InputMint:  entry.SwapInfo.InputMint,
			OutputMint: entry.SwapInfo.OutputMint,
			InAmount:   legIn,
			OutAmount:  legOut,
			Percent:    entry.Percent,
		})
	}

	return &Quote{
		InputMint:  inputMint,
		OutputMint: outputMint,
		InAmount:   inAmount,
		OutAmount:  outAmount,
		RoutePlan:  legs,
		raw:        raw,
	}, nil
}
