package postgres

import (
	"context"
	"errors"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/apperrors"

	"gorm.io/gorm"
)

// UserRepository представляет репозиторий для работы с пользователями
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Register создает пользователя, если имя (без учета регистра) еще свободно
func (r *UserRepository) Register(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Select("id").Where("username_key = ?", user.UsernameKey).Take(&existing).Error
		if err == nil {
			return apperrors.Conflict("Username already taken", nil)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if user.ReferrerID != nil {
			var referrer models.User
			err := tx.Select("id").Where("id = ?", *user.ReferrerID).Take(&referrer).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Invalid("referrer_id: referrer not found", nil)
			} else if err != nil {
				return err
			}
		}

		if err := tx.Create(user).Error; err != nil {
			// Параллельная регистрация того же имени упирается в уникальный индекс
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("Username already taken", err)
			}
			return err
		}

		return nil
	})
}

// GetByUsername ищет пользователя по имени без учета регистра
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username_key = ?", models.FoldKey(username)).Take(&user).Error
	if err != nil {
		return nil, translateError(err, "User not found")
	}
	return &user, nil
}
