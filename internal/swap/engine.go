// =============================
// File: internal/swap/engine.go
// =============================
package swap

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/jupiter"
	"github.com/quickswap-labs/jitoswap/internal/solbc"
	"github.com/quickswap-labs/jitoswap/internal/wallet"
)

// QuoteProvider is the aggregator surface the engine depends on.
type QuoteProvider interface {
	GetQuote(ctx context.Context, inputMint, outputMint solana.PublicKey, amount uint64, slippageBps uint64) (*jupiter.Quote, error)
	SwapInstructions(ctx context.Context, quote *jupiter.Quote, user solana.PublicKey, tipLamports uint64) (*jupiter.InstructionSet, error)
}

// BalanceReader provides the fresh token balance read for sell sizing.
type BalanceReader interface {
	GetTokenBalance(ctx context.Context, owner, mint solana.PublicKey) (*solbc.TokenBalance, error)
}

// TransactionSubmitter delivers a signed transaction to the network.
type TransactionSubmitter interface {
	Submit(ctx context.Context, tx *solana.Transaction, side Side) (solana.Signature, error)
}

// ConfirmationWaiter blocks until a signature reaches a terminal status.
type ConfirmationWaiter interface {
	Await(ctx context.Context, sig solana.Signature) (ConfirmationStatus, error)
}

// Order is the caller-facing description of one swap. Buys spend a SOL
// amount; sells liquidate a percentage of the current token balance.
type Order struct {
	Side        Side
	TokenMint   solana.PublicKey
	AmountSol   float64 // buy only
	SellPercent float64 // sell only, 0-100
	SlippageBps uint64
	TipLamports uint64
}

// Engine runs the swap pipeline: quote, instruction assembly, signing,
// submission, confirmation. Strictly sequential; one order maps to at
// most one quote, one signed transaction and one confirmation wait, and
// no step is retried across the pipeline.
type Engine struct {
	quotes    QuoteProvider
	balances  BalanceReader
	submitter TransactionSubmitter
	tracker   ConfirmationWaiter
	wallet    *wallet.Wallet
	logger    *zap.Logger
}

// NewEngine wires the pipeline components.
func NewEngine(quotes QuoteProvider, balances BalanceReader, submitter TransactionSubmitter, tracker ConfirmationWaiter, w *wallet.Wallet, logger *zap.Logger) *Engine {
	return &Engine{
		quotes:    quotes,
		balances:  balances,
		submitter: submitter,
		tracker:   tracker,
		wallet:    w,
		logger:    logger.Named("engine"),
	}
}

// Execute runs one swap attempt end to end and returns the confirmed
// signature, or the first classified failure. There is no partial
// success: either the signature confirmed, or the attempt failed with
// one classified error.
func (e *Engine) Execute(ctx context.Context, order *Order) (*Result, error) {
	start := time.Now()

	req, err := e.resolveRequest(ctx, order)
	if err != nil {
		return nil, err
	}

	log := e.logger.With(
		zap.String("side", string(req.Side)),
		zap.String("input_mint", req.InputMint.String()),
		zap.String("output_mint", req.OutputMint.String()),
		zap.Uint64("amount", req.Amount))

	quote, err := e.quotes.GetQuote(ctx, req.InputMint, req.OutputMint, req.Amount, req.SlippageBps)
	if err != nil {
		return nil, err
	}

	set, err := e.quotes.SwapInstructions(ctx, quote, e.wallet.PublicKey, req.TipLamports)
	if err != nil {
		return nil, err
	}

	tx, err := BuildSignedTransaction(set, e.wallet)
	if err != nil {
		return nil, err
	}

	sig, err := e.submitter.Submit(ctx, tx, req.Side)
	if err != nil {
		return nil, err
	}
	log.Info("Transaction submitted", zap.String("signature", sig.String()))

	status, err := e.tracker.Await(ctx, sig)
	if err != nil {
		return &Result{Signature: sig, Status: status, OutAmount: quote.OutAmount}, err
	}

	log.Info("Swap confirmed",
		zap.String("signature", sig.String()),
		zap.Uint64("out_amount", quote.OutAmount),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{Signature: sig, Status: status, OutAmount: quote.OutAmount}, nil
}

// resolveRequest turns an order into an immutable request. Sell amounts
// are sized from a balance read taken at this moment; nothing reserves
// the balance, so concurrent sells from one account can race on it (see
// README, known limitations).
func (e *Engine) resolveRequest(ctx context.Context, order *Order) (*Request, error) {
	req := &Request{
		Side:        order.Side,
		SlippageBps: order.SlippageBps,
		TipLamports: order.TipLamports,
	}

	switch order.Side {
	case SideBuy:
		req.InputMint = WSOLMint
		req.OutputMint = order.TokenMint
		req.Amount = uint64(order.AmountSol * LamportsPerSOL)

	case SideSell:
		if order.SellPercent <= 0 || order.SellPercent > 100 {
			return nil, fmt.Errorf("sell percent %.2f out of range (0-100]", order.SellPercent)
		}
		balance, err := e.balances.GetTokenBalance(ctx, e.wallet.PublicKey, order.TokenMint)
		if err != nil {
			return nil, &TransportError{Op: "sell sizing balance read", Err: err}
		}
		req.InputMint = order.TokenMint
		req.OutputMint = WSOLMint
		req.Amount = uint64(float64(balance.Amount) * order.SellPercent / 100)

	default:
		return nil, fmt.Errorf("invalid side: %q", order.Side)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
