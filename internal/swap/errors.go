// =============================
// File: internal/swap/errors.go
// =============================
package swap

import (
	"errors"
	"fmt"
)

// ErrConfirmationTimeout means no notification arrived within the
// confirmation window. The transaction may still land on-chain.
var ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")

// OnChainError means the network executed the transaction and it reverted.
// Detail carries the on-chain error verbatim for display.
type OnChainError struct {
	Detail string
}

func (e *OnChainError) Error() string {
	return fmt.Sprintf("on-chain error: %s", e.Detail)
}

// TransportError wraps a lower-level network or connection failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsOnChainError reports whether err carries an on-chain revert.
func IsOnChainError(err error) bool {
	var oce *OnChainError
	return errors.As(err, &oce)
}
