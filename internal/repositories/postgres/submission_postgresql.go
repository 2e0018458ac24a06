package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxIDAttempts = 3

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) *SubmissionPostgreSQL {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) Append(ctx context.Context, submission *models.Submission) error {
	for i := 0; i < maxIDAttempts; i++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.appendTx(tx, submission)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		// Primary key or token collided. A token collision is final.
		if _, lookupErr := s.GetByAttemptToken(ctx, submission.AttemptToken); lookupErr == nil {
			return repositories.ErrDuplicateAttemptToken
		}
	}
	return fmt.Errorf("failed to allocate submission id after %d attempts", maxIDAttempts)
}

func (s *SubmissionPostgreSQL) appendTx(tx *gorm.DB, submission *models.Submission) error {
	var existing int64
	if err := tx.Model(&models.Submission{}).
		Where("attempt_token = ?", submission.AttemptToken).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return repositories.ErrDuplicateAttemptToken
	}

	record := submission.Clone()
	record.ID = models.SubmissionID(uuid.NewString())
	if err := tx.Create(record).Error; err != nil {
		return err
	}
	submission.ID = record.ID
	return nil
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id models.SubmissionID) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) GetByAttemptToken(ctx context.Context, token string) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).Where("attempt_token = ?", token).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	// apply filter first
	query := s.applyFilters(s.db.WithContext(ctx).Model(&models.Submission{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	order := "submitted_at DESC"
	if filters.SortOrder == "asc" {
		order = "submitted_at ASC"
	}
	query = applyPagination(query.Order(order), filters.Limit, filters.Offset)

	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (s *SubmissionPostgreSQL) CountByStudentAndExam(ctx context.Context, studentID models.StudentID, examID models.ExamID) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *SubmissionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.ExamID != nil {
		query = query.Where("exam_id = ?", *filters.ExamID)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}
