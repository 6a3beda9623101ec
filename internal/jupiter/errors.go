// =============================
// File: internal/jupiter/errors.go
// =============================
package jupiter

import (
	"errors"
	"fmt"
)

// ErrNoRoute means the aggregator returned an empty route plan for the
// requested pair and amount. Terminal for the attempt.
var ErrNoRoute = errors.New("no swap route found for the given parameters")

// ProviderError is an explicit error reported by the aggregator, or a
// response missing a mandatory field.
type ProviderError struct {
	Endpoint string
	Detail   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("jupiter %s error: %s", e.Endpoint, e.Detail)
}

// IsProviderError reports whether err originates from the aggregator
// rather than from transport.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
