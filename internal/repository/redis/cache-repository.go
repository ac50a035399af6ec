package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"GlobetrotterService/internal/models"

	"github.com/redis/go-redis/v9"
)

// Направления не изменяются после вставки, поэтому TTL ограничивает только объем кэша
const destinationTTL = time.Hour

// CacheRepository представляет репозиторий для работы с кэшем в Redis
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository создает новый экземпляр CacheRepository
func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{
		client: client,
	}
}

func destinationIDKey(id uint) string {
	return fmt.Sprintf("destination:id:%d", id)
}

func destinationCityKey(city string) string {
	return "destination:city:" + city
}

// SetDestination кэширует направление под ключами по ID и по городу
func (r *CacheRepository) SetDestination(ctx context.Context, destination *models.Destination) error {
	data, err := json.Marshal(destination)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, destinationIDKey(destination.ID), data, destinationTTL)
		pipe.Set(ctx, destinationCityKey(destination.City), data, destinationTTL)
		return nil
	})
	return err
}

// GetDestinationByID получает направление из кэша по ID; при промахе возвращает redis.Nil
func (r *CacheRepository) GetDestinationByID(ctx context.Context, id uint) (*models.Destination, error) {
	return r.get(ctx, destinationIDKey(id))
}

// GetDestinationByCity получает направление из кэша по городу; при промахе возвращает redis.Nil
func (r *CacheRepository) GetDestinationByCity(ctx context.Context, city string) (*models.Destination, error) {
	return r.get(ctx, destinationCityKey(city))
}

func (r *CacheRepository) get(ctx context.Context, key string) (*models.Destination, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var destination models.Destination
	if err := json.Unmarshal(data, &destination); err != nil {
		return nil, err
	}

	return &destination, nil
}
