package objectstore

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

const maxRetries = 4

// newBackOff builds the bounded exponential backoff policy used for all
// store operations
var newBackOff = func(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 30 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx)
}

// withRetry runs op, retrying transient failures with exponential backoff.
// Exhausting the retry budget yields a TransientStoreError; non-transient
// failures propagate unwrapped on the first attempt.
func withRetry(ctx context.Context, logCtx util.LogContext, opName string, op func() error) error {
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		util.LogAlert(logCtx, fmt.Sprintf("Transient store error on %s (attempt %d): %v", opName, attempt, err))
		return err
	}, newBackOff(ctx))

	if err != nil && isTransient(err) {
		return model.Classify(err, model.TransientStoreError, "", "")
	}
	return err
}
