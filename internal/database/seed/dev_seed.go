package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"GlobetrotterService/internal/models"

	"go.uber.org/zap"
)

// DevelopmentEnv значение APP_ENV, при котором выполняется заполнение
const DevelopmentEnv = "development"

// DestinationCounter возвращает число направлений в хранилище
type DestinationCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DestinationImporter добавляет направления пачкой
type DestinationImporter interface {
	BulkInsert(ctx context.Context, reqs []models.DestinationCreate) (*models.BulkInsertResult, error)
}

// DevEnvironmentSeeder обрабатывает заполнение тестовыми данными среды разработки
type DevEnvironmentSeeder struct {
	counter  DestinationCounter
	importer DestinationImporter
	logger   *zap.Logger
}

// NewDevEnvironmentSeeder создает новый объект для заполнения тестовыми данными
func NewDevEnvironmentSeeder(counter DestinationCounter, importer DestinationImporter, logger *zap.Logger) *DevEnvironmentSeeder {
	return &DevEnvironmentSeeder{
		counter:  counter,
		importer: importer,
		logger:   logger,
	}
}

// SeedDestinations загружает направления из JSON файла, если хранилище пустое.
// Вне режима разработки ничего не делает.
func (s *DevEnvironmentSeeder) SeedDestinations(ctx context.Context, appEnv, path string) error {
	if appEnv != DevelopmentEnv {
		s.logger.Debug("Not in development mode, skipping destination seed")
		return nil
	}

	count, err := s.counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("count destinations: %w", err)
	}
	if count > 0 {
		s.logger.Info("Destinations already present, skipping seed", zap.Int64("count", count))
		return nil
	}

	reqs, err := loadDestinations(path)
	if err != nil {
		return err
	}

	result, err := s.importer.BulkInsert(ctx, reqs)
	if err != nil {
		s.logger.Error("Failed to seed destinations", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("seed destinations: %w", err)
	}

	s.logger.Info("Seeded destinations", zap.String("path", path), zap.Int("count", result.Count))
	return nil
}

func loadDestinations(path string) ([]models.DestinationCreate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var reqs []models.DestinationCreate
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return reqs, nil
}
