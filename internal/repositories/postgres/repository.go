package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

// QuestionCacheTTL is the default for how long a cached question may be
// served after an out-of-band edit.
const QuestionCacheTTL = 10 * time.Minute

type Repository struct {
	db         *gorm.DB
	question   *QuestionPostgreSQL
	exam       *ExamPostgreSQL
	submission *SubmissionPostgreSQL
}

// NewRepository wires the gorm-backed stores. A nil cache disables question caching.
func NewRepository(db *gorm.DB, cacheService cache.CacheService) *Repository {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &Repository{
		db:         db,
		question:   NewQuestionPostgreSQL(db, cacheService),
		exam:       NewExamPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
	}
}

// SetQuestionCacheTTL overrides QuestionCacheTTL. Non-positive values are ignored.
func (r *Repository) SetQuestionCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		r.question.ttl = ttl
	}
}

func (r *Repository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *Repository) Exam() repositories.ExamRepository {
	return r.exam
}

func (r *Repository) Submission() repositories.SubmissionRepository {
	return r.submission
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the exam engine tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Question{}, &models.Exam{}, &models.Submission{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

var _ repositories.Repository = (*Repository)(nil)
