package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// SubmissionRepository is an append-only store. There is no update or delete.
type SubmissionRepository interface {
	// Append assigns a fresh SubmissionID, stores the record and writes the
	// id back into submission. Appends are serialized by the backend.
	Append(ctx context.Context, submission *models.Submission) error

	GetByID(ctx context.Context, id models.SubmissionID) (*models.Submission, error)
	GetByAttemptToken(ctx context.Context, token string) (*models.Submission, error)

	// Query operations
	List(ctx context.Context, filters SubmissionFilters) ([]*models.Submission, int64, error)
	CountByStudentAndExam(ctx context.Context, studentID models.StudentID, examID models.ExamID) (int, error)
}
