// =============================
// File: internal/swap/types.go
// =============================

// Package swap is the execution pipeline for one token swap: quote,
// instruction assembly, signing, dual-path submission and confirmation.
package swap

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// WSOLMint is wrapped SOL, the native side of every pair this bot trades.
var WSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// LamportsPerSOL is the number of base units in one SOL.
const LamportsPerSOL = 1_000_000_000

// Side is the direction of a swap relative to the traded token.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether the side is one of the two supported directions.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Request is the fully resolved input of one swap attempt. It is built
// fresh per attempt and never mutated, so concurrent attempts cannot leak
// fields into each other.
type Request struct {
	Side        Side
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
	Amount      uint64 // smallest units of InputMint
	SlippageBps uint64
	TipLamports uint64
}

// Validate checks request bounds before the pipeline starts.
func (r *Request) Validate() error {
	if !r.Side.Valid() {
		return fmt.Errorf("invalid side: %q", r.Side)
	}
	if r.Amount == 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if r.SlippageBps > 10_000 {
		return fmt.Errorf("slippage %d bps out of range (0-10000)", r.SlippageBps)
	}
	if r.InputMint.IsZero() || r.OutputMint.IsZero() {
		return fmt.Errorf("input and output mints are required")
	}
	return nil
}

// ConfirmationStatus is the terminal state of one submitted signature.
// Exactly one terminal status is reached per attempt.
type ConfirmationStatus string

const (
	StatusPending      ConfirmationStatus = "pending"
	StatusConfirmed    ConfirmationStatus = "confirmed"
	StatusOnChainError ConfirmationStatus = "on_chain_error"
	StatusTimedOut     ConfirmationStatus = "timed_out"
)

// Result is the outcome of a completed swap attempt.
type Result struct {
	Signature solana.Signature
	Status    ConfirmationStatus
	OutAmount uint64 // quoted aggregate output, smallest units of OutputMint
}
