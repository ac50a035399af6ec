package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryOptions настройки для механизма повторных попыток.
// Используется только при старте сервиса (подключение к БД); запросы не повторяются.
type RetryOptions struct {
	MaxRetries      int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffFactor   float64
	Jitter          float64
	RetryableErrors []error
}

// DefaultRetryOptions возвращает настройки по умолчанию
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.2,
	}
}

// WithRetry выполняет функцию с повторными попытками при ошибках
func WithRetry(ctx context.Context, logger *zap.Logger, operation string, options RetryOptions, fn func(context.Context) error) error {
	var err error

	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			if attempt > 0 {
				logger.Info("Operation succeeded after retries",
					zap.String("operation", operation),
					zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if attempt >= options.MaxRetries {
			logger.Warn("All retry attempts failed",
				zap.String("operation", operation),
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return err
		}

		if !isRetryable(err, options.RetryableErrors) {
			logger.Warn("Non-retryable error occurred",
				zap.String("operation", operation),
				zap.Error(err))
			return err
		}

		backoff := calculateBackoff(attempt, options)
		logger.Info("Retrying operation after error",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.Warn("Context cancelled during retry",
				zap.String("operation", operation),
				zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}
}

// isRetryable проверяет, нужно ли повторять операцию для данной ошибки
func isRetryable(err error, retryableErrors []error) bool {
	// Пустой список означает, что повторяются все ошибки
	if len(retryableErrors) == 0 {
		return true
	}

	for _, retryableErr := range retryableErrors {
		if errors.Is(err, retryableErr) {
			return true
		}
	}

	return false
}

// calculateBackoff вычисляет время ожидания с экспоненциальной задержкой и jitter
func calculateBackoff(attempt int, options RetryOptions) time.Duration {
	backoff := float64(options.InitialBackoff) * math.Pow(options.BackoffFactor, float64(attempt))

	if options.Jitter > 0 {
		jitter := (rand.Float64()*2 - 1) * options.Jitter
		backoff *= 1 + jitter
	}

	if backoff > float64(options.MaxBackoff) {
		backoff = float64(options.MaxBackoff)
	}

	return time.Duration(backoff)
}
