// =============================
// File: internal/swap/confirm.go
// =============================
package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

// DefaultConfirmationTimeout bounds the wait for a signature notification.
const DefaultConfirmationTimeout = 12 * time.Second

// SignatureSubscription is one open signature subscription.
type SignatureSubscription interface {
	Recv(ctx context.Context) (*ws.SignatureResult, error)
	Unsubscribe()
}

// SubscriptionOpener opens signature subscriptions at a commitment level.
type SubscriptionOpener interface {
	SignatureSubscribe(sig solana.Signature, commitment rpc.CommitmentType) (SignatureSubscription, error)
}

// WSOpener adapts a solana ws client to SubscriptionOpener.
type WSOpener struct {
	Client *ws.Client
}

func (o *WSOpener) SignatureSubscribe(sig solana.Signature, commitment rpc.CommitmentType) (SignatureSubscription, error) {
	return o.Client.SignatureSubscribe(sig, commitment)
}

// Tracker waits for the terminal status of a submitted signature.
//
// Per signature the state machine is pending -> confirmed, on-chain error
// or timed out, and exactly one of those is ever reported. After a
// timeout the tracker does not poll further; whether the transaction
// eventually lands stays unresolved.
type Tracker struct {
	subs    SubscriptionOpener
	timeout time.Duration
	logger  *zap.Logger
}

// NewTracker creates a confirmation tracker. A zero timeout falls back
// to the default.
func NewTracker(subs SubscriptionOpener, timeout time.Duration, logger *zap.Logger) *Tracker {
	if timeout <= 0 {
		timeout = DefaultConfirmationTimeout
	}
	return &Tracker{
		subs:    subs,
		timeout: timeout,
		logger:  logger.Named("confirm"),
	}
}

// Await subscribes for the signature at confirmed commitment and blocks
// until the first notification or the timeout. The subscription is
// released on every exit path.
func (t *Tracker) Await(ctx context.Context, sig solana.Signature) (ConfirmationStatus, error) {
	sub, err := t.subs.SignatureSubscribe(sig, rpc.CommitmentConfirmed)
	if err != nil {
		return StatusPending, &TransportError{Op: "signature subscribe", Err: err}
	}
	defer sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	notif, err := sub.Recv(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			t.logger.Warn("Confirmation timed out",
				zap.String("signature", sig.String()),
				zap.Duration("timeout", t.timeout))
			return StatusTimedOut, ErrConfirmationTimeout
		}
		return StatusPending, &TransportError{Op: "signature notification", Err: err}
	}
	if notif == nil {
		return StatusPending, &TransportError{Op: "signature notification", Err: errors.New("subscription closed without a notification")}
	}

	if notif.Value.Err != nil {
		detail := fmt.Sprintf("%v", notif.Value.Err)
		t.logger.Warn("Transaction reverted on-chain",
			zap.String("signature", sig.String()),
			zap.String("detail", detail))
		return StatusOnChainError, &OnChainError{Detail: detail}
	}

	t.logger.Debug("Transaction confirmed", zap.String("signature", sig.String()))
	return StatusConfirmed, nil
}
