// =============================================
// File: internal/task/task.go
// =============================================
package task

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/quickswap-labs/jitoswap/internal/swap"
)

// Default trade parameters, applied when a task leaves a column empty.
const (
	DefaultBuySlippageBps  = 500
	DefaultSellSlippageBps = 200
	DefaultTipSol          = 0.00001
)

// Task is one trading instruction from the tasks file.
type Task struct {
	TaskName    string
	Side        swap.Side
	TokenMint   string
	AmountSol   float64 // buy: SOL to spend
	SellPercent float64 // sell: percentage of the current balance
	SlippageBps uint64
	TipSol      float64 // bundler tip
	CreatedAt   time.Time
}

// Validate checks the task before it reaches the engine.
func (t *Task) Validate() error {
	if t.TaskName == "" {
		return fmt.Errorf("task name cannot be empty")
	}
	if t.TokenMint == "" {
		return fmt.Errorf("token mint cannot be empty")
	}
	if _, err := solana.PublicKeyFromBase58(t.TokenMint); err != nil {
		return fmt.Errorf("invalid token mint %q: %w", t.TokenMint, err)
	}

	switch t.Side {
	case swap.SideBuy:
		if t.AmountSol <= 0 {
			return fmt.Errorf("buy amount must be greater than zero")
		}
	case swap.SideSell:
		if t.SellPercent <= 0 || t.SellPercent > 100 {
			return fmt.Errorf("sell percent must be in (0, 100]")
		}
	default:
		return fmt.Errorf("invalid side: %s", t.Side)
	}

	if t.SlippageBps > 10_000 {
		return fmt.Errorf("slippage must be between 0 and 10000 bps")
	}
	if t.TipSol < 0 {
		return fmt.Errorf("tip cannot be negative")
	}
	return nil
}

// ToOrder converts the task into an engine order.
func (t *Task) ToOrder() (*swap.Order, error) {
	mint, err := solana.PublicKeyFromBase58(t.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint %q: %w", t.TokenMint, err)
	}

	slippage := t.SlippageBps
	if slippage == 0 {
		if t.Side == swap.SideBuy {
			slippage = DefaultBuySlippageBps
		} else {
			slippage = DefaultSellSlippageBps
		}
	}

	tip := t.TipSol
	if tip == 0 {
		tip = DefaultTipSol
	}

	return &swap.Order{
		Side:        t.Side,
		TokenMint:   mint,
		AmountSol:   t.AmountSol,
		SellPercent: t.SellPercent,
		SlippageBps: slippage,
		TipLamports: uint64(tip * swap.LamportsPerSOL),
	}, nil
}
