// =============================
// File: internal/swap/submitter.go
// =============================
package swap

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/quickswap-labs/jitoswap/internal/jito"
)

// DefaultSellRaceBudget is the initial wait given to a sell-side relay
// call before the submitter falls back to an unbounded wait on the same
// call.
const DefaultSellRaceBudget = 1 * time.Second

// TransactionSender is either submission path.
type TransactionSender interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Submitter sends a signed transaction through the bundler relay, or
// through the standard RPC path when no relay is configured. The two
// paths are never raced against each other for the same attempt.
type Submitter struct {
	relay      TransactionSender
	standard   TransactionSender
	raceBudget time.Duration
	logger     *zap.Logger
}

// NewSubmitter creates a submitter. relay may be nil, in which case every
// submission takes the standard path. A zero raceBudget falls back to the
// default.
func NewSubmitter(relay, standard TransactionSender, raceBudget time.Duration, logger *zap.Logger) *Submitter {
	if raceBudget <= 0 {
		raceBudget = DefaultSellRaceBudget
	}
	return &Submitter{
		relay:      relay,
		standard:   standard,
		raceBudget: raceBudget,
		logger:     logger.Named("submitter"),
	}
}

type sendOutcome struct {
	sig solana.Signature
	err error
}

// Submit sends tx exactly once and returns its signature.
//
// Sells race the relay call against a short budget: if the call has not
// completed when the budget lapses, the submitter keeps waiting on the
// same in-flight call instead of issuing a second one, so at most one
// relay submission ever happens per attempt. Buys await the relay call
// directly; opening a position favors certainty over latency.
func (s *Submitter) Submit(ctx context.Context, tx *solana.Transaction, side Side) (solana.Signature, error) {
	if s.relay == nil {
		sig, err := s.standard.SendTransaction(ctx, tx)
		if err != nil {
			return solana.Signature{}, &TransportError{Op: "standard submission", Err: err}
		}
		return sig, nil
	}

	if side == SideSell {
		return s.submitRaced(ctx, tx)
	}

	sig, err := s.relay.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, classifyRelayError(err)
	}
	return sig, nil
}

// classifyRelayError leaves relay-reported rejections untouched and
// wraps everything else as a transport failure, so both submission
// paths report network trouble uniformly.
func classifyRelayError(err error) error {
	var re *jito.RelayError
	if errors.As(err, &re) || errors.Is(err, jito.ErrEmptyResult) {
		return err
	}
	return &TransportError{Op: "relay submission", Err: err}
}

// submitRaced spawns the relay call as an independently owned task. The
// first wait is bounded; once the budget lapses the submitter re-attaches
// to the same pending call without cancelling it.
func (s *Submitter) submitRaced(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	done := make(chan sendOutcome, 1)
	go func() {
		sig, err := s.relay.SendTransaction(ctx, tx)
		done <- sendOutcome{sig: sig, err: err}
	}()

	timer := time.NewTimer(s.raceBudget)
	defer timer.Stop()

	select {
	case outcome := <-done:
		if outcome.err != nil {
			return solana.Signature{}, classifyRelayError(outcome.err)
		}
		return outcome.sig, nil
	case <-timer.C:
		s.logger.Debug("Relay call exceeded race budget, re-awaiting the same call",
			zap.Duration("budget", s.raceBudget))
	}

	select {
	case outcome := <-done:
		if outcome.err != nil {
			return solana.Signature{}, classifyRelayError(outcome.err)
		}
		return outcome.sig, nil
	case <-ctx.Done():
		// The in-flight call is not recalled; the transaction may still
		// reach the relay.
		return solana.Signature{}, &TransportError{Op: "relay submission", Err: ctx.Err()}
	}
}
