// Package retrier wraps cenkalti/backoff with the bounded retry policy shared
// by the auto-stop and auto-start triggers.
package retrier

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Policy is a bounded exponential backoff. MaxAttempts counts the first call,
// so MaxAttempts=3 means at most two retries.
type Policy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var Default = Policy{
	MaxAttempts:     3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

// Do runs fn under the policy. Errors for which retryable returns false abort
// immediately; everything else is retried until the attempts are exhausted or
// ctx is done. Each retry is logged with the operation name.
func (p Policy) Do(ctx context.Context, logger *zap.Logger, op string, retryable func(error) bool, fn func() error) error {
	wrapped := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.InitialInterval
	expo.MaxInterval = p.MaxInterval

	var policy backoff.BackOff = expo
	if p.MaxAttempts > 0 {
		policy = backoff.WithMaxRetries(policy, p.MaxAttempts-1)
	}
	policy = backoff.WithContext(policy, ctx)

	return backoff.RetryNotify(wrapped, policy, func(err error, wait time.Duration) {
		logger.Warn("Retrying operation",
			zap.String("op", op),
			zap.Duration("backoff", wait),
			zap.Error(err))
	})
}
