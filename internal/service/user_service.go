package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/apperrors"
	"GlobetrotterService/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserServiceInterface определяет интерфейс для сервиса пользователей
type UserServiceInterface interface {
	Register(ctx context.Context, req models.UserCreate) (*models.RegisterResult, error)
	Invite(ctx context.Context, username string) (*models.InviteResult, error)
	GetScore(ctx context.Context, username string) (*models.ScoreResult, error)
}

// UserRepositoryInterface описывает интерфейс для работы с репозиторием пользователей
type UserRepositoryInterface interface {
	Register(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserService представляет сервис для работы с пользователями
type UserService struct {
	userRepo      UserRepositoryInterface
	validator     *validation.Validator
	logger        *zap.Logger
	inviteBaseURL string
}

// NewUserService создает новый экземпляр UserService
func NewUserService(userRepo UserRepositoryInterface, v *validation.Validator, logger *zap.Logger, inviteBaseURL string) *UserService {
	return &UserService{
		userRepo:      userRepo,
		validator:     v,
		logger:        logger,
		inviteBaseURL: strings.TrimRight(inviteBaseURL, "/"),
	}
}

// Register создает пользователя. Имя сравнивается без учета регистра.
func (s *UserService) Register(ctx context.Context, req models.UserCreate) (*models.RegisterResult, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          uuid.NewString(),
		Username:    req.Username,
		UsernameKey: models.FoldKey(req.Username),
		Score:       req.Score,
		ReferrerID:  req.ReferrerID,
	}

	if err := s.userRepo.Register(ctx, user); err != nil {
		if apperrors.IsConflict(err) {
			s.logger.Debug("Username already taken", zap.String("username", req.Username))
		}
		return nil, wrapStorageError(err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	return &models.RegisterResult{
		Message:  "User registered successfully",
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// Invite возвращает счет пользователя и ссылку-приглашение
func (s *UserService) Invite(ctx context.Context, username string) (*models.InviteResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, wrapStorageError(err)
	}

	return &models.InviteResult{
		Message:    fmt.Sprintf("%s has invited you to play Globetrotter!", user.Username),
		Score:      user.Score,
		InviteLink: s.inviteLink(user.Username),
	}, nil
}

// GetScore возвращает счет пользователя; поиск без учета регистра, как при регистрации
func (s *UserService) GetScore(ctx context.Context, username string) (*models.ScoreResult, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.Invalid("username: field required", nil)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, wrapStorageError(err)
	}

	return &models.ScoreResult{Score: user.Score}, nil
}

func (s *UserService) inviteLink(username string) string {
	return s.inviteBaseURL + "/play?inviter=" + url.QueryEscape(username)
}
