// Package retry re-runs API calls that failed for transient reasons.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	"nathanbeddoewebdev/covidash/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Predicate determines whether an error should be retried.
type Predicate func(error) bool

// Config controls retry behavior.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultConfig returns a single-attempt configuration. The dashboard does
// not retry unless the user opts in with the retry-attempts setting.
func DefaultConfig() Config {
	return WithAttempts(1)
}

// WithAttempts returns the default backoff timings with the given attempt cap.
func WithAttempts(n int) Config {
	if n < 1 {
		n = 1
	}
	return Config{
		MaxAttempts: n,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempt budget in cfg is spent. A nil predicate means IsRetryable.
// Waiting between attempts stops early when ctx is done.
func Do(ctx context.Context, cfg Config, shouldRetry Predicate, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)
	if shouldRetry == nil {
		shouldRetry = IsRetryable
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts || !shouldRetry(err) {
			return err
		}

		delay := backoffDelay(cfg.BaseDelay, cfg.MaxDelay, attempt)
		log.WithFields(log.Fields{
			"attempt": attempt,
			"of":      attempts,
			"delay":   delay.Round(time.Millisecond),
			"err":     err,
		}).Debug("retrying after transient failure")
		if delay > 0 && !sleep(ctx, delay) {
			return ctx.Err()
		}
	}

	return err
}

// IsRetryable determines whether an error is likely transient: timeouts,
// throttling and upstream 5xx responses.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUnavailable) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base << (attempt - 1)
	if max > 0 && delay > max {
		delay = max
	}

	jitterMax := int64(delay)
	if jitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(jitterMax + 1))
}

func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
