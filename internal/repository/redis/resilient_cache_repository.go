package redis

import (
	"context"
	"errors"
	"strconv"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/database"
	"GlobetrotterService/pkg/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResilientCacheRepository добавляет circuit breaker и таймауты к кэшу.
// Ошибки Redis никогда не возвращаются: кэш необязателен, и при отказе чтение идет в базу.
type ResilientCacheRepository struct {
	repo          *CacheRepository
	logger        *zap.Logger
	healthChecker *database.HealthChecker
}

// NewResilientCacheRepository создает новый экземпляр отказоустойчивого кэш-репозитория
func NewResilientCacheRepository(repo *CacheRepository, healthChecker *database.HealthChecker, logger *zap.Logger) *ResilientCacheRepository {
	return &ResilientCacheRepository{
		repo:          repo,
		logger:        logger,
		healthChecker: healthChecker,
	}
}

// SetDestination кэширует направление; ошибки только логируются
func (r *ResilientCacheRepository) SetDestination(ctx context.Context, destination *models.Destination) {
	err := r.healthChecker.WithRedisResilience(ctx, "set_destination_cache", func(ctx context.Context) error {
		return r.repo.SetDestination(ctx, destination)
	})
	if err != nil {
		server.RecordCacheOperation("set_destination", "error")
		r.logger.Warn("Failed to cache destination, continuing without caching",
			zap.Uint("destination_id", destination.ID),
			zap.Error(err))
		return
	}
	server.RecordCacheOperation("set_destination", "success")
}

// GetDestinationByID возвращает направление из кэша; false означает промах или недоступность Redis
func (r *ResilientCacheRepository) GetDestinationByID(ctx context.Context, id uint) (*models.Destination, bool) {
	return r.get(ctx, "get_destination_by_id", strconv.FormatUint(uint64(id), 10), func(ctx context.Context) (*models.Destination, error) {
		return r.repo.GetDestinationByID(ctx, id)
	})
}

// GetDestinationByCity возвращает направление из кэша по городу
func (r *ResilientCacheRepository) GetDestinationByCity(ctx context.Context, city string) (*models.Destination, bool) {
	return r.get(ctx, "get_destination_by_city", city, func(ctx context.Context) (*models.Destination, error) {
		return r.repo.GetDestinationByCity(ctx, city)
	})
}

func (r *ResilientCacheRepository) get(ctx context.Context, operation, key string, fn func(context.Context) (*models.Destination, error)) (*models.Destination, bool) {
	var destination *models.Destination
	err := r.healthChecker.WithRedisResilience(ctx, operation, func(ctx context.Context) error {
		var err error
		destination, err = fn(ctx)
		return err
	})

	switch {
	case err == nil:
		server.RecordCacheOperation(operation, "hit")
		return destination, true
	case errors.Is(err, redis.Nil):
		server.RecordCacheOperation(operation, "miss")
	default:
		server.RecordCacheOperation(operation, "error")
		r.logger.Warn("Cache read failed, falling back to database",
			zap.String("operation", operation),
			zap.String("key", key),
			zap.Error(err))
	}

	return nil, false
}
