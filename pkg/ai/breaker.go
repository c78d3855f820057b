package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// BreakerCompleter stops calling a failing backend for a while so a
// triage batch does not wait on every message for the same outage.
type BreakerCompleter struct {
	next Completer
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerCompleter wraps next with a circuit breaker
func NewBreakerCompleter(name string, next Completer, log zerolog.Logger) *BreakerCompleter {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,                // requests allowed while half-open
		Interval:    60 * time.Second, // closed-state counter reset
		Timeout:     30 * time.Second, // open-state duration
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		IsSuccessful: func(err error) bool {
			// a cancelled request says nothing about the backend
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &BreakerCompleter{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, prompt)
	})
	if err != nil {
		// a rejected call never reached a model
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%s: %w: %w", b.cb.Name(), ErrNoModel, err)
		}
		return "", err
	}
	return out.(string), nil
}
