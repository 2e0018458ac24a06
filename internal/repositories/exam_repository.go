package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// ExamRepository interface for exam definition lookups
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id models.ExamID) (*models.Exam, error)
	List(ctx context.Context, filters ExamFilters) ([]*models.Exam, int64, error)
}
