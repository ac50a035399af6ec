package postgres

import (
	"context"
	"errors"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/apperrors"

	"gorm.io/gorm"
)

const bulkInsertBatchSize = 100

// DestinationRepository представляет репозиторий для работы с направлениями
type DestinationRepository struct {
	db *gorm.DB
}

// NewDestinationRepository создает новый экземпляр DestinationRepository
func NewDestinationRepository(db *gorm.DB) *DestinationRepository {
	return &DestinationRepository{
		db: db,
	}
}

// Random возвращает случайное направление, выбранное на стороне базы данных
func (r *DestinationRepository) Random(ctx context.Context) (*models.Destination, error) {
	var destination models.Destination
	err := r.db.WithContext(ctx).Order("RANDOM()").Limit(1).Take(&destination).Error
	if err != nil {
		return nil, translateError(err, "No destinations found")
	}
	return &destination, nil
}

// GetByCity ищет направление по точному названию города
func (r *DestinationRepository) GetByCity(ctx context.Context, city string) (*models.Destination, error) {
	var destination models.Destination
	err := r.db.WithContext(ctx).Where("city = ?", city).Take(&destination).Error
	if err != nil {
		return nil, translateError(err, "Destination not found")
	}
	return &destination, nil
}

// GetByID получает направление по ID
func (r *DestinationRepository) GetByID(ctx context.Context, id uint) (*models.Destination, error) {
	var destination models.Destination
	err := r.db.WithContext(ctx).Take(&destination, id).Error
	if err != nil {
		return nil, translateError(err, "Destination not found")
	}
	return &destination, nil
}

// ListAll возвращает все направления в порядке добавления
func (r *DestinationRepository) ListAll(ctx context.Context) ([]models.Destination, error) {
	var destinations []models.Destination
	if err := r.db.WithContext(ctx).Order("id").Find(&destinations).Error; err != nil {
		return nil, err
	}
	return destinations, nil
}

// Count возвращает количество направлений
func (r *DestinationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Destination{}).Count(&count).Error
	return count, err
}

// Create добавляет одно направление
func (r *DestinationRepository) Create(ctx context.Context, destination *models.Destination) error {
	if err := r.db.WithContext(ctx).Create(destination).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("Destination already exists", err)
		}
		return err
	}
	return nil
}

// BulkCreate добавляет все направления в одной транзакции: либо все, либо ни одного
func (r *DestinationRepository) BulkCreate(ctx context.Context, destinations []models.Destination) (int, error) {
	if len(destinations) == 0 {
		return 0, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&destinations, bulkInsertBatchSize).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperrors.Conflict("Destination already exists", err)
		}
		return 0, err
	}

	return len(destinations), nil
}

// translateError переводит "не найдено" в ошибку сервиса, остальные ошибки возвращает как есть
func translateError(err error, notFoundDetail string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(notFoundDetail)
	}
	return err
}
