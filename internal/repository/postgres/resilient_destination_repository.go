package postgres

import (
	"context"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/database"
)

// ResilientDestinationRepository добавляет таймауты, circuit breaker и метрики к репозиторию направлений
type ResilientDestinationRepository struct {
	repo          *DestinationRepository
	healthChecker *database.HealthChecker
}

// NewResilientDestinationRepository создает новый экземпляр отказоустойчивого репозитория
func NewResilientDestinationRepository(repo *DestinationRepository, healthChecker *database.HealthChecker) *ResilientDestinationRepository {
	return &ResilientDestinationRepository{
		repo:          repo,
		healthChecker: healthChecker,
	}
}

// Random возвращает случайное направление
func (r *ResilientDestinationRepository) Random(ctx context.Context) (*models.Destination, error) {
	return readOne(ctx, r.healthChecker, "get_random_destination", func(ctx context.Context) (*models.Destination, error) {
		return r.repo.Random(ctx)
	})
}

// GetByCity ищет направление по городу
func (r *ResilientDestinationRepository) GetByCity(ctx context.Context, city string) (*models.Destination, error) {
	return readOne(ctx, r.healthChecker, "get_destination_by_city", func(ctx context.Context) (*models.Destination, error) {
		return r.repo.GetByCity(ctx, city)
	})
}

// GetByID получает направление по ID
func (r *ResilientDestinationRepository) GetByID(ctx context.Context, id uint) (*models.Destination, error) {
	return readOne(ctx, r.healthChecker, "get_destination_by_id", func(ctx context.Context) (*models.Destination, error) {
		return r.repo.GetByID(ctx, id)
	})
}

// ListAll возвращает все направления
func (r *ResilientDestinationRepository) ListAll(ctx context.Context) ([]models.Destination, error) {
	var destinations []models.Destination
	err := r.healthChecker.WithDatabaseResilience(ctx, "list_destinations", func(ctx context.Context) error {
		var err error
		destinations, err = r.repo.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return destinations, nil
}

// Count возвращает количество направлений
func (r *ResilientDestinationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.healthChecker.WithDatabaseResilience(ctx, "count_destinations", func(ctx context.Context) error {
		var err error
		count, err = r.repo.Count(ctx)
		return err
	})
	return count, err
}

// Create добавляет одно направление
func (r *ResilientDestinationRepository) Create(ctx context.Context, destination *models.Destination) error {
	return r.healthChecker.WithDatabaseWriteResilience(ctx, "create_destination", func(ctx context.Context) error {
		return r.repo.Create(ctx, destination)
	})
}

// BulkCreate добавляет направления одной транзакцией
func (r *ResilientDestinationRepository) BulkCreate(ctx context.Context, destinations []models.Destination) (int, error) {
	var count int
	err := r.healthChecker.WithDatabaseWriteResilience(ctx, "bulk_create_destinations", func(ctx context.Context) error {
		var err error
		count, err = r.repo.BulkCreate(ctx, destinations)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func readOne(ctx context.Context, hc *database.HealthChecker, operation string, fn func(context.Context) (*models.Destination, error)) (*models.Destination, error) {
	var destination *models.Destination
	err := hc.WithDatabaseResilience(ctx, operation, func(ctx context.Context) error {
		var err error
		destination, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return destination, nil
}
