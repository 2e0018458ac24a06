package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db    *gorm.DB
	cache cache.CacheService
	ttl   time.Duration
}

func NewQuestionPostgreSQL(db *gorm.DB, cacheService cache.CacheService) *QuestionPostgreSQL {
	return &QuestionPostgreSQL{
		db:    db,
		cache: cacheService,
		ttl:   QuestionCacheTTL,
	}
}

func questionCacheKey(id models.QuestionID) string {
	return fmt.Sprintf("question:%s", id)
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateID
		}
		return err
	}
	return nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id models.QuestionID) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	_ = q.cache.Delete(ctx, questionCacheKey(id))
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id models.QuestionID) (*models.Question, error) {
	var question models.Question

	err := cache.CacheOrExecute(ctx, q.cache, questionCacheKey(id), &question, q.ttl, func() (interface{}, error) {
		var dbQuestion models.Question
		if err := q.db.WithContext(ctx).Where("id = ?", id).First(&dbQuestion).Error; err != nil {
			return nil, fmt.Errorf("failed to get question: %w", err)
		}
		return &dbQuestion, nil
	})
	if err != nil {
		return nil, err
	}

	return &question, nil
}

// GetByIDs serves cached questions first and loads only the misses in one
// query. Unknown ids are absent from the result and never cached.
func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []models.QuestionID) ([]*models.Question, error) {
	var questions []*models.Question
	if len(ids) == 0 {
		return questions, nil
	}

	var misses []models.QuestionID
	for _, id := range ids {
		var cached models.Question
		if q.cache.Get(ctx, questionCacheKey(id), &cached) == nil {
			questions = append(questions, &cached)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return questions, nil
	}

	var loaded []*models.Question
	if err := q.db.WithContext(ctx).Where("id IN ?", misses).Find(&loaded).Error; err != nil {
		return nil, err
	}
	for _, question := range loaded {
		_ = q.cache.Set(ctx, questionCacheKey(question.ID), question, q.ttl)
	}
	return append(questions, loaded...), nil
}
