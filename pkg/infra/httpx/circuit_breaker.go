package httpx

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// halfOpenProbes is how many calls may go through while the breaker is
// half-open before it settles back to closed or re-opens.
const halfOpenProbes = 5

// CircuitBreaker shields the moderation pipeline from a misbehaving remote
// classifier. After maxFailures consecutive failures the breaker opens and
// calls fail fast until the cool-down expires, so a dead backend does not
// hold every analysis request for its full timeout.
type CircuitBreaker interface {
	Execute(fn func() error) error
}

type classifierBreaker struct {
	inner *gobreaker.CircuitBreaker
}

// NewCircuitBreaker builds a breaker named after the backend it protects.
// timeout is the open-state cool-down before half-open probing starts.
func NewCircuitBreaker(name string, timeout time.Duration, maxFailures uint32) CircuitBreaker {
	return &classifierBreaker{
		inner: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: halfOpenProbes,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		}),
	}
}

// Execute runs fn under the breaker. Errors keep their chain so callers can
// still distinguish a provider refusal from a transport failure.
func (b *classifierBreaker) Execute(fn func() error) error {
	if _, err := b.inner.Execute(func() (interface{}, error) {
		return nil, fn()
	}); err != nil {
		return fmt.Errorf("breaker (%s): %w", b.inner.Name(), err)
	}
	return nil
}
