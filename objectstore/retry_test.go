package objectstore

import (
	"context"
	"errors"
	"testing"

	backoff "github.com/cenkalti/backoff/v4"
	minio "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

// useFastBackOff removes the retry delays for the duration of a test
func useFastBackOff(t *testing.T) {
	t.Helper()
	original := newBackOff
	newBackOff = func(ctx context.Context) backoff.BackOff {
		return backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxRetries), ctx)
	}
	t.Cleanup(func() { newBackOff = original })
}

func TestWithRetrySucceedsFirstAttempt(t *testing.T) {
	useFastBackOff(t)

	attempts := 0
	err := withRetry(context.Background(), &(util.BasicLogContext{}), "test op", func() error {
		attempts++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryRecoversFromTransientFailures(t *testing.T) {
	useFastBackOff(t)

	attempts := 0
	err := withRetry(context.Background(), &(util.BasicLogContext{}), "test op", func() error {
		attempts++
		if attempts < 3 {
			return minio.ErrorResponse{Code: "SlowDown", StatusCode: 503}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsBudget(t *testing.T) {
	useFastBackOff(t)

	attempts := 0
	err := withRetry(context.Background(), &(util.BasicLogContext{}), "test op", func() error {
		attempts++
		return minio.ErrorResponse{Code: "InternalError", StatusCode: 500}
	})
	assert.Equal(t, model.TransientStoreError, model.KindOf(err))
	assert.Equal(t, maxRetries+1, attempts)
}

func TestWithRetryDoesNotRetryConclusiveFailures(t *testing.T) {
	useFastBackOff(t)

	conclusive := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	attempts := 0
	err := withRetry(context.Background(), &(util.BasicLogContext{}), "test op", func() error {
		attempts++
		return conclusive
	})
	assert.Equal(t, 1, attempts)
	assert.Equal(t, model.ErrorKind(""), model.KindOf(err))
	assert.True(t, errors.Is(err, error(conclusive)))
}

func TestWithRetryStopsOnCanceledContext(t *testing.T) {
	useFastBackOff(t)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := withRetry(ctx, &(util.BasicLogContext{}), "test op", func() error {
		attempts++
		cancel()
		return minio.ErrorResponse{Code: "SlowDown", StatusCode: 503}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
