package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type examService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExamService(repo repositories.Repository, logger *slog.Logger) ExamService {
	return &examService{
		repo:   repo,
		logger: logger,
	}
}

func (s *examService) GetExam(ctx context.Context, id models.ExamID) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

func (s *examService) ListExams(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	exams, total, err := s.repo.Exam().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, total, nil
}

func (s *examService) ResolveQuestions(ctx context.Context, exam *models.Exam) ([]*models.Question, error) {
	ids := uniqueQuestionIDs(exam.QuestionIDs)
	if len(ids) == 0 {
		return []*models.Question{}, nil
	}

	found, err := s.repo.Question().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam questions: %w", err)
	}

	byID := make(map[models.QuestionID]*models.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}

	questions := make([]*models.Question, 0, len(ids))
	var missing []models.QuestionID
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		questions = append(questions, q)
	}

	if len(missing) > 0 {
		s.logger.Warn("Exam references missing questions",
			"exam_id", exam.ID,
			"missing_count", len(missing))
		return nil, &MissingQuestionError{ExamID: exam.ID, MissingIDs: missing}
	}

	return questions, nil
}

// uniqueQuestionIDs keeps the first occurrence of every id, preserving order.
func uniqueQuestionIDs(ids []models.QuestionID) []models.QuestionID {
	seen := make(map[models.QuestionID]struct{}, len(ids))
	out := make([]models.QuestionID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
