package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound is returned by non-SQL backends on a lookup miss.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateAttemptToken is returned by SubmissionRepository.Append when
	// a submission for the same attempt token already exists.
	ErrDuplicateAttemptToken = errors.New("submission already exists for attempt token")

	ErrDuplicateID = errors.New("record with the same id already exists")
)

// IsNotFoundError reports whether err is a lookup miss from any backend.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// Repository aggregates the stores the exam engine depends on.
type Repository interface {
	Question() QuestionRepository
	Exam() ExamRepository
	Submission() SubmissionRepository

	Ping(ctx context.Context) error
	Close() error
}

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	ClassID   *string `json:"class_id"`
	SubjectID *string `json:"subject_id"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

type SubmissionFilters struct {
	StudentID *models.StudentID `json:"student_id"`
	ExamID    *models.ExamID    `json:"exam_id"`
	DateFrom  *time.Time        `json:"date_from"`
	DateTo    *time.Time        `json:"date_to"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
	SortOrder string            `json:"sort_order"` // "asc", "desc" by submitted_at
}
