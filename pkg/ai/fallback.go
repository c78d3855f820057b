package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// FallbackService implements AI provider routing with fallback.
// The primary backend (hosted) is tried first, the secondary (local Ollama)
// takes over when it fails.
type FallbackService struct {
	primary   Completer
	secondary Completer
	log       zerolog.Logger
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(primary, secondary Completer) *FallbackService {
	return &FallbackService{
		primary:   primary,
		secondary: secondary,
		log:       zerolog.Nop(),
	}
}

// WithLogger sets the logger used to report fallbacks
func (f *FallbackService) WithLogger(log zerolog.Logger) *FallbackService {
	f.log = log
	return f
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// Complete tries the primary backend, falls back to the secondary on any error
func (f *FallbackService) Complete(ctx context.Context, prompt string) (string, error) {
	var primaryErr error
	if f.primary != nil {
		result, err := f.primary.Complete(ctx, prompt)
		if err == nil {
			return result, nil
		}
		primaryErr = err

		switch {
		case isQuotaError(err):
			f.log.Warn().Err(err).Msg("primary model quota exhausted, falling back")
		case isConnectionError(err):
			f.log.Warn().Err(err).Msg("primary model unreachable, falling back")
		default:
			f.log.Warn().Err(err).Msg("primary model error, falling back")
		}
	}

	if f.secondary == nil {
		if primaryErr != nil {
			return "", primaryErr
		}
		return "", ErrNoModel
	}

	// Caller gave up while the primary was running
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	result, err := f.secondary.Complete(ctx, prompt)
	if err != nil {
		if primaryErr != nil {
			return "", fmt.Errorf("all models failed: %w", errors.Join(primaryErr, err))
		}
		return "", err
	}
	return result, nil
}

// Close closes the wrapped backends that hold resources
func (f *FallbackService) Close() error {
	var errs []error
	for _, c := range []Completer{f.primary, f.secondary} {
		if closer, ok := c.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
