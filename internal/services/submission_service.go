package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type submissionService struct {
	repo   repositories.Repository
	exams  ExamService
	logger *slog.Logger
	ops    *ServiceLogger
}

func NewSubmissionService(repo repositories.Repository, exams ExamService, logger *slog.Logger) SubmissionService {
	return &submissionService{
		repo:   repo,
		exams:  exams,
		logger: logger,
		ops:    NewServiceLogger(logger, LogConfig{Service: "exam-service", Component: "submission"}),
	}
}

// Append stores a new submission and writes the assigned id back.
func (s *submissionService) Append(ctx context.Context, submission *models.Submission) error {
	if submission.AttemptToken == "" {
		return ValidationErrors{*NewValidationError("attempt_token", "is required", "")}
	}
	if submission.Score < 0 || submission.Score > submission.TotalQuestions {
		return NewBusinessRuleError("score_within_total",
			"score must be between 0 and the number of questions",
			map[string]interface{}{"score": submission.Score, "total": submission.TotalQuestions})
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}

	if err := s.repo.Submission().Append(ctx, submission); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAttemptToken) {
			return err
		}
		return fmt.Errorf("failed to append submission: %w", err)
	}

	s.logger.Info("Submission stored",
		"submission_id", submission.ID,
		"exam_id", submission.ExamID,
		"student_id", submission.StudentID)
	return nil
}

func (s *submissionService) Find(ctx context.Context, id models.SubmissionID) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

func (s *submissionService) FindByAttemptToken(ctx context.Context, token string) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByAttemptToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

func (s *submissionService) ListByStudent(ctx context.Context, studentID models.StudentID, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	filters.StudentID = &studentID
	return s.list(ctx, filters)
}

func (s *submissionService) ListByExam(ctx context.Context, examID models.ExamID, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	filters.ExamID = &examID
	return s.list(ctx, filters)
}

func (s *submissionService) list(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	submissions, total, err := s.repo.Submission().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, total, nil
}

func (s *submissionService) Review(ctx context.Context, id models.SubmissionID) (review *models.SubmissionReview, err error) {
	op := s.ops.WithOperation(ctx, "review_submission", "")
	defer func() { op.LogResult(string(id), "submission", err) }()

	submission, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	exam, err := s.exams.GetExam(ctx, submission.ExamID)
	if err != nil {
		return nil, err
	}

	questions, err := s.exams.ResolveQuestions(ctx, exam)
	if err != nil {
		return nil, err
	}

	items, correct := GradeAnswers(questions, submission.AnswerMap())
	if correct != submission.Score {
		// Expected only when the bank changed after submission
		s.logger.Info("Review score differs from stored score",
			"submission_id", submission.ID,
			"stored_score", submission.Score,
			"review_score", correct)
	}

	return &models.SubmissionReview{
		Submission:   submission,
		Items:        items,
		CorrectCount: correct,
	}, nil
}
