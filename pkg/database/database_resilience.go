package database

import (
	"context"
	"errors"
	"time"

	"GlobetrotterService/config"
	"GlobetrotterService/pkg/apperrors"
	"GlobetrotterService/pkg/resilience"
	"GlobetrotterService/pkg/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthChecker проверяет состояние хранилищ и защищает обращения к ним circuit breaker'ами.
// Создается один раз при старте и передается всем репозиториям.
type HealthChecker struct {
	db           *gorm.DB
	redisClient  *redis.Client
	logger       *zap.Logger
	cfg          config.ResilienceConfig
	pgCircuit    *resilience.CircuitBreaker
	redisCircuit *resilience.CircuitBreaker
}

// NewDatabaseHealthChecker создает новый экземпляр проверки состояния баз данных
func NewDatabaseHealthChecker(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger, cfg config.ResilienceConfig) *HealthChecker {
	threshold := cfg.CircuitBreaker.FailureThreshold
	resetTimeout := cfg.CircuitBreaker.ResetTimeout

	c := &HealthChecker{
		db:           db,
		redisClient:  redisClient,
		logger:       logger,
		cfg:          cfg,
		pgCircuit:    resilience.NewCircuitBreaker("postgres", threshold, resetTimeout, logger, apperrors.IgnoredErrors...),
		redisCircuit: resilience.NewCircuitBreaker("redis", threshold, resetTimeout, logger, apperrors.IgnoredErrors...),
	}

	for _, cb := range []*resilience.CircuitBreaker{c.pgCircuit, c.redisCircuit} {
		server.RecordCircuitBreakerStateChange(cb.Name(), int(resilience.CircuitClosed))
		cb.OnStateChange(func(name string, state resilience.CircuitState) {
			server.RecordCircuitBreakerStateChange(name, int(state))
		})
	}

	return c
}

// IsDatabaseHealthy проверяет здоровье PostgreSQL
func (c *HealthChecker) IsDatabaseHealthy(ctx context.Context) bool {
	var result int
	err := c.pgCircuit.Execute(ctx, "postgres_health_check", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		sqlDB, err := c.db.DB()
		if err != nil {
			return err
		}

		return sqlDB.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	})

	return err == nil && result == 1
}

// IsRedisHealthy проверяет здоровье Redis
func (c *HealthChecker) IsRedisHealthy(ctx context.Context) bool {
	if c.redisClient == nil {
		return false
	}

	err := c.redisCircuit.Execute(ctx, "redis_health_check", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.Redis.CommandTimeout)
		defer cancel()

		return c.redisClient.Ping(ctx).Err()
	})

	return err == nil
}

// WithDatabaseResilience выполняет чтение из базы данных с таймаутом, circuit breaker'ом и метриками
func (c *HealthChecker) WithDatabaseResilience(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return c.withDatabase(ctx, operation, c.cfg.Database.QueryTimeout, fn)
}

// WithDatabaseWriteResilience то же, что WithDatabaseResilience, но с таймаутом записи
func (c *HealthChecker) WithDatabaseWriteResilience(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return c.withDatabase(ctx, operation, c.cfg.Database.WriteTimeout, fn)
}

func (c *HealthChecker) withDatabase(ctx context.Context, operation string, timeout time.Duration, fn func(ctx context.Context) error) error {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := c.pgCircuit.Execute(ctx, operation, fn)
	server.RecordDBOperation(operation, time.Since(startTime), metricError(err))

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, apperrors.ErrNotFound):
		c.logger.Debug("Record not found", zap.String("operation", operation))
	case errors.Is(err, resilience.ErrCircuitOpen):
		c.logger.Warn("PostgreSQL circuit is open", zap.String("operation", operation))
	default:
		c.logger.Error("Database operation failed",
			zap.String("operation", operation),
			zap.Error(err))
	}

	return err
}

// WithRedisResilience выполняет операцию в Redis с таймаутом и circuit breaker'ом
func (c *HealthChecker) WithRedisResilience(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if c.redisClient == nil {
		return redis.ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Redis.CommandTimeout)
	defer cancel()

	return c.redisCircuit.Execute(ctx, operation, fn)
}

// metricError отделяет ожидаемые исходы от отказов хранилища
func metricError(err error) error {
	for _, ignored := range apperrors.IgnoredErrors {
		if errors.Is(err, ignored) {
			return nil
		}
	}
	return err
}
