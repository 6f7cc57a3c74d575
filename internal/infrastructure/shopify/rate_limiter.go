package shopify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Shopify's REST Admin API allows 2 requests per second per shop on the
// standard plan.
const defaultMinInterval = 500 * time.Millisecond

// RateLimiter spaces outgoing Shopify API calls so bulk enumeration stays
// under the API's request budget.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
	logger      zerolog.Logger
}

// NewRateLimiter creates a rate limiter with the default Shopify interval
func NewRateLimiter(logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		minInterval: defaultMinInterval,
		logger:      logger,
	}
}

// Wait blocks until the next request is allowed or the context is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	wait := l.minInterval - now.Sub(l.lastRequest)
	if wait < 0 {
		wait = 0
	}
	l.lastRequest = now.Add(wait)
	l.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryConfig controls retry behavior for Shopify API calls
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the retry settings used in production
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	}
}

// isRetryable reports whether an API error is worth retrying. The go-shopify
// library wraps HTTP errors, so status codes are matched on the message.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused")
}

// withRetry runs fn with exponential backoff on retryable failures.
func withRetry(ctx context.Context, config RetryConfig, logger zerolog.Logger, fn func() error) error {
	backoff := config.InitialBackoff
	var err error

	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt >= config.MaxRetries || !isRetryable(err) {
			return err
		}

		logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Retrying Shopify API call")

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}

		backoff *= 2
		if config.MaxBackoff > 0 && backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}
}
