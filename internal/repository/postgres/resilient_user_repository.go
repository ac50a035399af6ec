package postgres

import (
	"context"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/database"
)

// ResilientUserRepository добавляет таймауты, circuit breaker и метрики к репозиторию пользователей.
// Повторных попыток нет: регистрация не идемпотентна.
type ResilientUserRepository struct {
	repo          *UserRepository
	healthChecker *database.HealthChecker
}

// NewResilientUserRepository создает новый экземпляр отказоустойчивого репозитория
func NewResilientUserRepository(repo *UserRepository, healthChecker *database.HealthChecker) *ResilientUserRepository {
	return &ResilientUserRepository{
		repo:          repo,
		healthChecker: healthChecker,
	}
}

// Register создает пользователя
func (r *ResilientUserRepository) Register(ctx context.Context, user *models.User) error {
	return r.healthChecker.WithDatabaseWriteResilience(ctx, "register_user", func(ctx context.Context) error {
		return r.repo.Register(ctx, user)
	})
}

// GetByUsername ищет пользователя по имени без учета регистра
func (r *ResilientUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := r.healthChecker.WithDatabaseResilience(ctx, "get_user_by_username", func(ctx context.Context) error {
		var err error
		user, err = r.repo.GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
