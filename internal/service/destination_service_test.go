package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/apperrors"
	"GlobetrotterService/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDestinationService(repo *MockDestinationRepository, opts ...DestinationOption) *DestinationService {
	return NewDestinationService(repo, NewMockDestinationCache(), validation.New(), zap.NewNop(), opts...)
}

func createReq(city, country string) models.DestinationCreate {
	return models.DestinationCreate{
		City:    city,
		Country: country,
		Clues:   []string{city + " clue"},
		FunFact: []string{city + " fact"},
	}
}

func TestDestinationService_ParisTokyoScenario(t *testing.T) {
	repo := NewMockDestinationRepository()
	svc := newDestinationService(repo)
	ctx := context.Background()

	result, err := svc.BulkInsert(ctx, []models.DestinationCreate{
		createReq("Paris", "France"),
		createReq("Tokyo", "Japan"),
	})
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 2, result.Count)

	q, err := svc.GenerateQuestion(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Paris", "Tokyo"}, q.Options)

	paris, err := svc.GetByCity(ctx, "Paris")
	require.NoError(t, err)

	res, err := svc.VerifyAnswer(ctx, models.AnswerRequest{QuestionID: paris.ID, UserAnswer: " paris "})
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, "Paris fact", res.FunFact)
}

func TestDestinationService_GetRandom(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		_, err := newDestinationService(NewMockDestinationRepository()).GetRandom(ctx)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.Equal(t, "No destinations found", apperrors.Detail(err))
	})

	t.Run("Member", func(t *testing.T) {
		d, err := newDestinationService(NewMockDestinationRepository("Paris", "Tokyo")).GetRandom(ctx)
		require.NoError(t, err)
		assert.Contains(t, []string{"Paris", "Tokyo"}, d.City)
	})
}

func TestDestinationService_GetByCity(t *testing.T) {
	repo := NewMockDestinationRepository("Paris")
	svc := newDestinationService(repo)
	ctx := context.Background()

	d, err := svc.GetByCity(ctx, "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Parisland", d.Country)

	// Второе чтение обслуживается кэшем
	_, err = svc.GetByCity(ctx, "Paris")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.readCount())

	_, err = svc.GetByCity(ctx, "paris")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDestinationService_GenerateQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		_, err := newDestinationService(NewMockDestinationRepository()).GenerateQuestion(ctx)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("SingleDestination", func(t *testing.T) {
		q, err := newDestinationService(NewMockDestinationRepository("Paris")).GenerateQuestion(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Paris"}, q.Options)
		assert.Equal(t, uint(1), q.QuestionID)
	})

	t.Run("Deterministic", func(t *testing.T) {
		repo := NewMockDestinationRepository("A", "B", "C", "D", "E")
		svc := newDestinationService(repo, WithRandom(sequence(0)))

		q, err := svc.GenerateQuestion(ctx)
		require.NoError(t, err)
		assert.Equal(t, "C,D,A,B", cities(q.Options))
		assert.Equal(t, "A clue A", q.Clue)
		assert.Equal(t, uint(1), q.QuestionID)
	})

	t.Run("OptionsProperties", func(t *testing.T) {
		for total := 1; total <= 7; total++ {
			names := make([]string, total)
			for i := range names {
				names[i] = fmt.Sprintf("City%d", i)
			}
			svc := newDestinationService(NewMockDestinationRepository(names...))

			for run := 0; run < 50; run++ {
				q, err := svc.GenerateQuestion(ctx)
				require.NoError(t, err)
				require.Len(t, q.Options, min(4, total))

				answer := names[q.QuestionID-1]
				seen := map[string]int{}
				for _, o := range q.Options {
					seen[o]++
					assert.Contains(t, names, o)
				}
				assert.Equal(t, 1, seen[answer], "answer must appear exactly once")
				assert.Len(t, seen, len(q.Options), "options must be distinct")
				assert.Contains(t, []string{answer + " clue A", answer + " clue B"}, q.Clue)
			}
		}
	})

	t.Run("QuestionIDRevealsAnswer", func(t *testing.T) {
		// Известная слабость: question_id равен ID направления, и по нему можно узнать город
		repo := NewMockDestinationRepository("Paris", "Tokyo", "Cairo", "Lima", "Oslo")
		svc := newDestinationService(repo)

		q, err := svc.GenerateQuestion(ctx)
		require.NoError(t, err)

		leaked, err := repo.GetByID(ctx, q.QuestionID)
		require.NoError(t, err)
		assert.Contains(t, q.Options, leaked.City)
		assert.Contains(t, leaked.Clues, q.Clue)
	})

	t.Run("StorageFailureIsHidden", func(t *testing.T) {
		repo := NewMockDestinationRepository("Paris")
		repo.err = errors.New("pq: connection refused")

		_, err := newDestinationService(repo).GenerateQuestion(ctx)
		assert.True(t, errors.Is(err, apperrors.ErrInternal))
		assert.Equal(t, "Database error, please try again", apperrors.Detail(err))
		assert.NotContains(t, apperrors.Detail(err), "pq")
	})
}

func TestDestinationService_VerifyAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("IgnoresCaseAndWhitespace", func(t *testing.T) {
		svc := newDestinationService(NewMockDestinationRepository("Paris"))
		for _, answer := range []string{"Paris", "paris", " PARIS ", "\tpArIs\n"} {
			res, err := svc.VerifyAnswer(ctx, models.AnswerRequest{QuestionID: 1, UserAnswer: answer})
			require.NoError(t, err)
			assert.True(t, res.IsCorrect, answer)
		}
	})

	t.Run("WrongAnswerStillGetsFunFact", func(t *testing.T) {
		svc := newDestinationService(NewMockDestinationRepository("Paris"), WithRandom(sequence(1)))
		res, err := svc.VerifyAnswer(ctx, models.AnswerRequest{QuestionID: 1, UserAnswer: "Tokyo"})
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, "Paris fact B", res.FunFact)
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		svc := newDestinationService(NewMockDestinationRepository("Paris"))
		_, err := svc.VerifyAnswer(ctx, models.AnswerRequest{QuestionID: 42, UserAnswer: "Paris"})
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("ZeroQuestionIDIsNotFound", func(t *testing.T) {
		repo := NewMockDestinationRepository("Paris")
		svc := newDestinationService(repo)

		_, err := svc.VerifyAnswer(ctx, models.AnswerRequest{UserAnswer: "Paris"})
		assert.Equal(t, apperrors.ErrNotFound, apperrors.KindOf(err))
		assert.Zero(t, repo.readCount())
	})

	t.Run("InvalidRequestSkipsStorage", func(t *testing.T) {
		repo := NewMockDestinationRepository("Paris")
		svc := newDestinationService(repo)

		_, err := svc.VerifyAnswer(ctx, models.AnswerRequest{QuestionID: 1, UserAnswer: "  "})
		assert.True(t, errors.Is(err, apperrors.ErrInvalid))
		assert.Zero(t, repo.readCount())
	})

	t.Run("UsesCache", func(t *testing.T) {
		repo := NewMockDestinationRepository("Paris")
		svc := newDestinationService(repo)

		for i := 0; i < 3; i++ {
			_, err := svc.VerifyAnswer(ctx, models.AnswerRequest{QuestionID: 1, UserAnswer: "Paris"})
			require.NoError(t, err)
		}
		assert.Equal(t, 1, repo.readCount())
	})
}

func TestDestinationService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newDestinationService(NewMockDestinationRepository())

	d, err := svc.Create(ctx, createReq("Paris", "France"))
	require.NoError(t, err)
	assert.NotZero(t, d.ID)
	assert.Equal(t, []string{}, d.Trivia)

	_, err = svc.Create(ctx, createReq("Paris", "France"))
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "Destination already exists", apperrors.Detail(err))

	bad := createReq("Rome", "Italy")
	bad.Clues = nil
	_, err = svc.Create(ctx, bad)
	assert.True(t, errors.Is(err, apperrors.ErrInvalid))
}

func TestDestinationService_BulkInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		res, err := newDestinationService(NewMockDestinationRepository()).BulkInsert(ctx, []models.DestinationCreate{})
		require.NoError(t, err)
		assert.Zero(t, res.Count)
	})

	t.Run("DuplicateIsInternalAndAtomic", func(t *testing.T) {
		repo := NewMockDestinationRepository("Paris")
		svc := newDestinationService(repo)

		_, err := svc.BulkInsert(ctx, []models.DestinationCreate{
			createReq("Rome", "Italy"),
			createReq("Paris", "France"),
		})
		assert.True(t, errors.Is(err, apperrors.ErrInternal))
		assert.Equal(t, "Database error, please try again", apperrors.Detail(err))

		all, _ := repo.ListAll(ctx)
		assert.Len(t, all, 1)
	})

	t.Run("InvalidItemRejectsBatch", func(t *testing.T) {
		repo := NewMockDestinationRepository()
		svc := newDestinationService(repo)

		bad := createReq("Rome", "Italy")
		bad.FunFact = []string{}
		_, err := svc.BulkInsert(ctx, []models.DestinationCreate{createReq("Paris", "France"), bad})
		assert.True(t, errors.Is(err, apperrors.ErrInvalid))
		assert.Equal(t, "[1].fun_fact: must contain at least 1 item(s)", apperrors.Detail(err))

		all, _ := repo.ListAll(ctx)
		assert.Empty(t, all)
	})
}
