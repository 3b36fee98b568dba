package ghclient

import (
	"context"
	"math/rand"
	"time"

	"github.com/devflowhq/devflow/internal/log"
)

// retryPolicy controls exponential backoff on transient failures.
// Defaults are deliberately conservative: the platform APIs we call
// are rate limited and hammering them makes things worse.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
	}
}

// backoffDelay computes the delay before the given (1-based) attempt:
// exponential doubling with full jitter.
func (p retryPolicy) backoffDelay(attempt int) time.Duration {
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return time.Duration(rand.Int63n(int64(delay) + 1))
}

// withRetry runs op, retrying transient failures with backoff. The
// final error is classified into the core's taxonomy before returning.
func (c *Client) withRetry(ctx context.Context, name string, op func() error) error {
	var err error
	for attempt := 1; attempt <= c.retry.maxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt == c.retry.maxAttempts {
			break
		}

		delay := c.retry.backoffDelay(attempt)
		log.Debug("transient failure, backing off", "op", name, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return classifyError(err)
}
