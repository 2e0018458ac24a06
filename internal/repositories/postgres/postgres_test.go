package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type countingCache struct {
	cache.CacheService
	store map[string]*models.Question
	hits  int
}

func newCountingCache() *countingCache {
	return &countingCache{CacheService: cache.NewNoopCache(), store: map[string]*models.Question{}}
}

func (c *countingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if q, ok := value.(*models.Question); ok {
		c.store[key] = q.Clone()
	}
	return nil
}

func (c *countingCache) Get(_ context.Context, key string, dest interface{}) error {
	q, ok := c.store[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	c.hits++
	*dest.(*models.Question) = *q.Clone()
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func seedQuestion(t *testing.T, repo repositories.QuestionRepository, id string) *models.Question {
	t.Helper()
	q := &models.Question{
		ID:            models.QuestionID(id),
		Text:          "What is " + id + "?",
		Options:       datatypes.JSONSlice[models.Option]{"1", "2", "3", "4"},
		CorrectAnswer: "2",
	}
	require.NoError(t, repo.Create(context.Background(), q))
	return q
}

func TestQuestionPostgreSQL(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	repo := NewRepository(setupDB(t), c)

	seedQuestion(t, repo.Question(), "q1")
	seedQuestion(t, repo.Question(), "q2")

	got, err := repo.Question().GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "What is q1?", got.Text)
	assert.Equal(t, datatypes.JSONSlice[models.Option]{"1", "2", "3", "4"}, got.Options)
	assert.Equal(t, 0, c.hits)

	// Second read is served from the cache
	_, err = repo.Question().GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)

	_, err = repo.Question().GetByID(ctx, "missing")
	assert.True(t, repositories.IsNotFoundError(err))

	list, err := repo.Question().GetByIDs(ctx, []models.QuestionID{"q1", "q2", "q3"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Question().Delete(ctx, "q1"))
	_, err = repo.Question().GetByID(ctx, "q1")
	assert.True(t, repositories.IsNotFoundError(err))
	assert.True(t, repositories.IsNotFoundError(repo.Question().Delete(ctx, "q1")))
}

func TestQuestionPostgreSQL_GetByIDsReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	repo := NewRepository(setupDB(t), c)

	seedQuestion(t, repo.Question(), "q1")
	seedQuestion(t, repo.Question(), "q2")

	list, err := repo.Question().GetByIDs(ctx, []models.QuestionID{"q1", "q2", "q3"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 0, c.hits)
	assert.Contains(t, c.store, questionCacheKey("q1"))
	assert.Contains(t, c.store, questionCacheKey("q2"))
	assert.NotContains(t, c.store, questionCacheKey("q3"))

	// Cached questions are served without the database
	require.NoError(t, repo.db.Exec("DELETE FROM questions WHERE id = ?", "q2").Error)
	list, err = repo.Question().GetByIDs(ctx, []models.QuestionID{"q1", "q2"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, c.hits)

	// Deleting through the repository drops the cached copy
	require.NoError(t, repo.Question().Delete(ctx, "q1"))
	list, err = repo.Question().GetByIDs(ctx, []models.QuestionID{"q1"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExamPostgreSQL(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupDB(t), nil)

	exam := &models.Exam{
		ID:          "math-1",
		Title:       "Algebra",
		ClassID:     "10A",
		QuestionIDs: datatypes.JSONSlice[models.QuestionID]{"q2", "q1"},
	}
	require.NoError(t, repo.Exam().Create(ctx, exam))
	require.NoError(t, repo.Exam().Create(ctx, &models.Exam{ID: "math-2", Title: "Geometry", ClassID: "10B"}))

	got, err := repo.Exam().GetByID(ctx, "math-1")
	require.NoError(t, err)
	assert.Equal(t, datatypes.JSONSlice[models.QuestionID]{"q2", "q1"}, got.QuestionIDs)

	class := "10B"
	exams, total, err := repo.Exam().List(ctx, repositories.ExamFilters{ClassID: &class})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, exams, 1)
	assert.Equal(t, models.ExamID("math-2"), exams[0].ID)

	_, err = repo.Exam().GetByID(ctx, "nope")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestSubmissionPostgreSQL(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupDB(t), nil)
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	first := &models.Submission{
		AttemptToken:   "tok-1",
		StudentID:      "s1",
		ExamID:         "e1",
		Answers:        datatypes.NewJSONType(models.AnswerMap{"q1": "2", "q2": "3"}),
		Score:          1,
		TotalQuestions: 3,
		SubmittedAt:    base,
	}
	require.NoError(t, repo.Submission().Append(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &models.Submission{
		AttemptToken:   "tok-2",
		StudentID:      "s1",
		ExamID:         "e1",
		Answers:        datatypes.NewJSONType(models.AnswerMap{}),
		TotalQuestions: 3,
		SubmittedAt:    base.Add(time.Hour),
	}
	require.NoError(t, repo.Submission().Append(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)

	dup := *first
	dup.ID = ""
	assert.ErrorIs(t, repo.Submission().Append(ctx, &dup), repositories.ErrDuplicateAttemptToken)

	got, err := repo.Submission().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnswerMap{"q1": "2", "q2": "3"}, got.AnswerMap())
	assert.Equal(t, 1, got.Score)

	byToken, err := repo.Submission().GetByAttemptToken(ctx, "tok-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, byToken.ID)

	list, total, err := repo.Submission().List(ctx, repositories.SubmissionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "tok-2", list[0].AttemptToken)

	count, err := repo.Submission().CountByStudentAndExam(ctx, "s1", "e1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = repo.Submission().GetByID(ctx, "unknown")
	assert.True(t, repositories.IsNotFoundError(err))

	require.NoError(t, repo.Ping(ctx))
}
