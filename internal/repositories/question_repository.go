package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// QuestionRepository interface for question bank operations
type QuestionRepository interface {
	// Authoring side: used by seeding and import only
	Create(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id models.QuestionID) error

	GetByID(ctx context.Context, id models.QuestionID) (*models.Question, error)

	// GetByIDs returns the questions that exist, in no particular order.
	// Unknown ids are skipped, not reported.
	GetByIDs(ctx context.Context, ids []models.QuestionID) ([]*models.Question, error)
}
