// =============================
// File: internal/market/summary.go
// =============================

// Package market builds the human-facing token summary shown around a
// swap: balances, price, market cap. Display only; the swap pipeline
// never depends on it.
package market

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quickswap-labs/jitoswap/internal/jupiter"
	"github.com/quickswap-labs/jitoswap/internal/solbc"
)

// Summary is a snapshot of one token for display.
type Summary struct {
	Name          string
	Symbol        string
	Mint          solana.PublicKey
	Balance       decimal.Decimal // ui units
	PriceUSDC     decimal.Decimal
	MarketCapUSDC decimal.Decimal
	SOLBalance    decimal.Decimal
}

// Service aggregates market data for display.
type Service struct {
	chain    *solbc.Client
	jupiter  *jupiter.Client
	metadata *MetadataCache
	logger   *zap.Logger
}

// NewService creates a market data service.
func NewService(chain *solbc.Client, jup *jupiter.Client, logger *zap.Logger) *Service {
	return &Service{
		chain:    chain,
		jupiter:  jup,
		metadata: NewMetadataCache(chain, logger),
		logger:   logger.Named("market"),
	}
}

// TokenSummary fetches balance, price, supply and metadata concurrently.
// Price failures degrade to zero rather than failing the summary; the
// summary decorates a swap result, it must not mask one.
func (s *Service) TokenSummary(ctx context.Context, owner, mint solana.PublicKey) (*Summary, error) {
	summary := &Summary{Mint: mint}

	var (
		supplyAmount   uint64
		supplyDecimals uint8
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		balance, err := s.chain.GetTokenBalance(gCtx, owner, mint)
		if err != nil {
			return fmt.Errorf("token balance: %w", err)
		}
		summary.Balance = decimal.NewFromUint64(balance.Amount).Shift(-int32(balance.Decimals))
		return nil
	})

	g.Go(func() error {
		lamports, err := s.chain.GetBalance(gCtx, owner)
		if err != nil {
			return fmt.Errorf("sol balance: %w", err)
		}
		summary.SOLBalance = decimal.NewFromUint64(lamports).Shift(-9)
		return nil
	})

	g.Go(func() error {
		price, err := s.price(gCtx, mint)
		if err != nil {
			s.logger.Debug("Price unavailable", zap.String("mint", mint.String()), zap.Error(err))
			price = decimal.Zero
		}
		summary.PriceUSDC = price
		return nil
	})

	g.Go(func() error {
		amount, decimals, err := s.chain.GetTokenSupply(gCtx, mint)
		if err != nil {
			s.logger.Debug("Supply unavailable", zap.String("mint", mint.String()), zap.Error(err))
			return nil
		}
		supplyAmount, supplyDecimals = amount, decimals
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if supplyAmount > 0 {
		supply := decimal.NewFromUint64(supplyAmount).Shift(-int32(supplyDecimals))
		summary.MarketCapUSDC = summary.PriceUSDC.Mul(supply)
	}

	md, err := s.metadata.Get(ctx, mint)
	if err != nil {
		// Fall back to the truncated mint, matching the UI convention.
		short := mint.String()
		if len(short) > 8 {
			short = short[:8]
		}
		summary.Name, summary.Symbol = short, short
		s.logger.Debug("Metadata unavailable", zap.String("mint", mint.String()), zap.Error(err))
		return summary, nil
	}
	summary.Name, summary.Symbol = md.Name, md.Symbol
	return summary, nil
}

// price prefers the direct price feed and falls back to a probe quote.
func (s *Service) price(ctx context.Context, mint solana.PublicKey) (decimal.Decimal, error) {
	price, err := s.jupiter.PriceUSDC(ctx, mint)
	if err == nil {
		return price, nil
	}
	return s.jupiter.PriceFromQuote(ctx, mint)
}

// FormatMarketCap renders a compact market cap, e.g. "1.25M".
func FormatMarketCap(mc decimal.Decimal) string {
	million := decimal.NewFromInt(1_000_000)
	thousand := decimal.NewFromInt(1_000)
	switch {
	case mc.GreaterThanOrEqual(million):
		return mc.Div(million).StringFixed(2) + "M"
	case mc.GreaterThanOrEqual(thousand):
		return mc.Div(thousand).StringFixed(2) + "K"
	default:
		return mc.StringFixed(2)
	}
}
