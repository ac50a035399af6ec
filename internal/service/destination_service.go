package service

import (
	"context"
	"fmt"
	"math/rand"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/apperrors"
	"GlobetrotterService/pkg/server"
	"GlobetrotterService/pkg/validation"

	"go.uber.org/zap"
)

// maxDistractors число неверных вариантов ответа в вопросе
const maxDistractors = 3

// DestinationServiceInterface определяет интерфейс игрового сервиса
type DestinationServiceInterface interface {
	GetRandom(ctx context.Context) (*models.Destination, error)
	GetByCity(ctx context.Context, city string) (*models.Destination, error)
	GenerateQuestion(ctx context.Context) (*models.GameQuestion, error)
	VerifyAnswer(ctx context.Context, req models.AnswerRequest) (*models.AnswerResult, error)
	Create(ctx context.Context, req models.DestinationCreate) (*models.Destination, error)
	BulkInsert(ctx context.Context, reqs []models.DestinationCreate) (*models.BulkInsertResult, error)
}

// DestinationRepositoryInterface описывает интерфейс для работы с репозиторием направлений
type DestinationRepositoryInterface interface {
	Random(ctx context.Context) (*models.Destination, error)
	GetByCity(ctx context.Context, city string) (*models.Destination, error)
	GetByID(ctx context.Context, id uint) (*models.Destination, error)
	ListAll(ctx context.Context) ([]models.Destination, error)
	Create(ctx context.Context, destination *models.Destination) error
	BulkCreate(ctx context.Context, destinations []models.Destination) (int, error)
}

// DestinationCacheInterface описывает кэш направлений. Ошибки кэша не возвращаются.
type DestinationCacheInterface interface {
	SetDestination(ctx context.Context, destination *models.Destination)
	GetDestinationByID(ctx context.Context, id uint) (*models.Destination, bool)
	GetDestinationByCity(ctx context.Context, city string) (*models.Destination, bool)
}

// DestinationService реализует выбор направлений, генерацию вопросов и проверку ответов
type DestinationService struct {
	repo      DestinationRepositoryInterface
	cache     DestinationCacheInterface
	validator *validation.Validator
	logger    *zap.Logger
	intn      func(n int) int
}

// DestinationOption настраивает DestinationService
type DestinationOption func(*DestinationService)

// WithRandom подменяет источник случайных чисел; intn должна возвращать значение из [0, n)
func WithRandom(intn func(n int) int) DestinationOption {
	return func(s *DestinationService) {
		s.intn = intn
	}
}

// NewDestinationService создает новый экземпляр DestinationService
func NewDestinationService(repo DestinationRepositoryInterface, cache DestinationCacheInterface, v *validation.Validator, logger *zap.Logger, opts ...DestinationOption) *DestinationService {
	s := &DestinationService{
		repo:      repo,
		cache:     cache,
		validator: v,
		logger:    logger,
		intn:      rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRandom возвращает случайное направление
func (s *DestinationService) GetRandom(ctx context.Context) (*models.Destination, error) {
	destination, err := s.repo.Random(ctx)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	return destination, nil
}

// GetByCity возвращает направление по точному названию города
func (s *DestinationService) GetByCity(ctx context.Context, city string) (*models.Destination, error) {
	if destination, ok := s.cache.GetDestinationByCity(ctx, city); ok {
		return destination, nil
	}

	destination, err := s.repo.GetByCity(ctx, city)
	if err != nil {
		return nil, wrapStorageError(err)
	}

	s.cache.SetDestination(ctx, destination)
	return destination, nil
}

// GenerateQuestion строит вопрос: подсказка, до четырех вариантов ответа и ID направления.
// ID направления выдает правильный ответ; клиент, знающий ID, может получить город через кэш или базу.
func (s *DestinationService) GenerateQuestion(ctx context.Context) (*models.GameQuestion, error) {
	destinations, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	if len(destinations) == 0 {
		return nil, apperrors.NotFound("No destinations found")
	}

	answerIdx := s.intn(len(destinations))
	answer := destinations[answerIdx]

	pool := make([]string, 0, len(destinations)-1)
	for i := range destinations {
		if i != answerIdx {
			pool = append(pool, destinations[i].City)
		}
	}

	// Частичный Фишер-Йетс: первые k элементов pool становятся выборкой без повторений
	k := min(maxDistractors, len(pool))
	for i := 0; i < k; i++ {
		j := i + s.intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	options := make([]string, 0, k+1)
	options = append(options, pool[:k]...)
	options = append(options, answer.City)
	for i := len(options) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}

	s.cache.SetDestination(ctx, &answer)
	server.RecordQuestionGenerated()

	return &models.GameQuestion{
		Clue:       s.pick(answer.Clues),
		Options:    options,
		QuestionID: answer.ID,
	}, nil
}

// VerifyAnswer сравнивает ответ с городом без учета регистра и пробелов по краям.
// Факт возвращается при любом исходе; правильный город не раскрывается.
func (s *DestinationService) VerifyAnswer(ctx context.Context, req models.AnswerRequest) (*models.AnswerResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	// ID 0 не выдается хранилищем
	if req.QuestionID == 0 {
		return nil, apperrors.NotFound("Destination not found")
	}

	destination, err := s.getByID(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	correct := models.FoldKey(destination.City) == models.FoldKey(req.UserAnswer)
	server.RecordAnswerVerified(correct)

	return &models.AnswerResult{
		IsCorrect: correct,
		FunFact:   s.pick(destination.FunFact),
	}, nil
}

// Create добавляет одно направление
func (s *DestinationService) Create(ctx context.Context, req models.DestinationCreate) (*models.Destination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	destination := req.ToModel()
	if err := s.repo.Create(ctx, destination); err != nil {
		return nil, wrapStorageError(err)
	}

	s.logger.Info("Destination created",
		zap.Uint("destination_id", destination.ID),
		zap.String("city", destination.City))
	s.cache.SetDestination(ctx, destination)

	return destination, nil
}

// BulkInsert добавляет все направления одной транзакцией.
// Любая ошибка хранилища, включая повтор города, отменяет всю пачку.
func (s *DestinationService) BulkInsert(ctx context.Context, reqs []models.DestinationCreate) (*models.BulkInsertResult, error) {
	if err := validation.Slice(s.validator, reqs); err != nil {
		return nil, err
	}

	destinations := make([]models.Destination, len(reqs))
	for i := range reqs {
		destinations[i] = *reqs[i].ToModel()
	}

	count, err := s.repo.BulkCreate(ctx, destinations)
	if err != nil {
		s.logger.Error("Bulk insert failed",
			zap.Int("batch_size", len(reqs)),
			zap.Error(err))
		return nil, apperrors.Internal(databaseErrorDetail, err)
	}

	s.logger.Info("Destinations inserted", zap.Int("count", count))

	return &models.BulkInsertResult{
		Status:  "success",
		Message: fmt.Sprintf("%d destinations inserted successfully", count),
		Count:   count,
	}, nil
}

func (s *DestinationService) getByID(ctx context.Context, id uint) (*models.Destination, error) {
	if destination, ok := s.cache.GetDestinationByID(ctx, id); ok {
		return destination, nil
	}

	destination, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStorageError(err)
	}

	s.cache.SetDestination(ctx, destination)
	return destination, nil
}

// pick возвращает случайный элемент или пустую строку
func (s *DestinationService) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[s.intn(len(items))]
}
