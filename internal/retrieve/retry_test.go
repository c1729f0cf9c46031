package retrieve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbel/evolution-du-droit/internal/domain"
)

func fastRetrier(maxRetries int) *Retrier {
	return NewRetrier(RetrierOptions{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	})
}

// TestRetrier_Retry tests retry behavior per error class
func TestRetrier_Retry(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := fastRetrier(3).Retry(context.Background(), func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		calls := 0
		err := fastRetrier(3).Retry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &domain.RetryableError{Err: errors.New("temporairement indisponible")}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent failure aborts immediately", func(t *testing.T) {
		calls := 0
		err := fastRetrier(3).Retry(context.Background(), func() error {
			calls++
			return domain.ErrCommitNotFound
		})
		assert.ErrorIs(t, err, domain.ErrCommitNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := fastRetrier(2).Retry(context.Background(), func() error {
			calls++
			return &domain.RetryableError{Err: errors.New("toujours en panne")}
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := fastRetrier(10).Retry(ctx, func() error {
			calls++
			cancel()
			return &domain.RetryableError{Err: errors.New("annulé")}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

// TestRetryWithValue tests the value-returning variant
func TestRetryWithValue(t *testing.T) {
	t.Run("returns value on success", func(t *testing.T) {
		calls := 0
		got, err := RetryWithValue(context.Background(), fastRetrier(3), func() (string, error) {
			calls++
			if calls < 2 {
				return "", &domain.RetryableError{Err: errors.New("réessayer")}
			}
			return "résultat", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "résultat", got)
		assert.Equal(t, 2, calls)
	})

	t.Run("returns last operation error after exhaustion", func(t *testing.T) {
		opErr := &domain.RetryableError{Err: errors.New("échec persistant")}
		_, err := RetryWithValue(context.Background(), fastRetrier(1), func() (int, error) {
			return 0, opErr
		})
		assert.Equal(t, opErr, err)
	})

	t.Run("does not retry terminal errors", func(t *testing.T) {
		calls := 0
		_, err := RetryWithValue(context.Background(), fastRetrier(3), func() (int, error) {
			calls++
			return 0, domain.ErrCommitNotFound
		})
		assert.ErrorIs(t, err, domain.ErrCommitNotFound)
		assert.Equal(t, 1, calls)
	})
}
