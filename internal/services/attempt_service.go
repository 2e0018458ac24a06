package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/google/uuid"
)

type StartAttemptRequest struct {
	ExamID    models.ExamID    `json:"exam_id" validate:"required,question_id"`
	StudentID models.StudentID `json:"student_id" validate:"required,max=255"`
}

type AttemptConfig struct {
	// MaxAttemptsPerExam caps submissions per student and exam. Zero means unlimited.
	MaxAttemptsPerExam int
}

type attemptService struct {
	repo        repositories.Repository
	exams       ExamService
	submissions SubmissionService
	events      AttemptEventService
	logger      *ServiceLogger
	validator   *validator.Validator
	config      AttemptConfig
}

func NewAttemptService(repo repositories.Repository, exams ExamService, submissions SubmissionService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, config AttemptConfig) AttemptService {
	if logger == nil {
		logger = slog.Default()
	}
	return &attemptService{
		repo:        repo,
		exams:       exams,
		submissions: submissions,
		events:      NewAttemptEventService(publisher, logger),
		logger:      NewServiceLogger(logger, LogConfig{Service: "exam-service", Component: "attempt"}),
		validator:   validator,
		config:      config,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) StartByExamID(ctx context.Context, req *StartAttemptRequest) (*AttemptSession, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.exams.GetExam(ctx, req.ExamID)
	if err != nil {
		return nil, err
	}

	return s.Start(ctx, req.StudentID, exam)
}

func (s *attemptService) Start(ctx context.Context, studentID models.StudentID, exam *models.Exam) (session *AttemptSession, err error) {
	if exam == nil {
		return nil, ErrExamNotFound
	}

	op := s.logger.WithOperation(ctx, "start_attempt", string(studentID))
	defer func() { op.LogResult(string(exam.ID), "exam", err) }()

	if studentID == "" {
		return nil, ValidationErrors{*NewValidationError("student_id", "is required", "")}
	}

	if err := s.checkAttemptLimit(ctx, studentID, exam.ID); err != nil {
		return nil, err
	}

	if len(exam.QuestionIDs) == 0 {
		return nil, ErrEmptyExam
	}

	questions, err := s.exams.ResolveQuestions(ctx, exam)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrEmptyExam
	}

	session = newAttemptSession(uuid.NewString(), studentID, exam, questions, s.submissions)
	session.onSubmitted = s.publishSubmitted

	if err := s.events.NotifyAttemptStarted(ctx, session); err != nil {
		s.logPublishFailure(events.EventAttemptStarted, err)
	}

	return session, nil
}

// Restore rebuilds a session from a snapshot. The question list is taken from
// the snapshot, not re-resolved, so a running attempt never sees bank edits.
func (s *attemptService) Restore(ctx context.Context, snapshot *AttemptSnapshot) (*AttemptSession, error) {
	if err := s.validator.ValidateStruct(snapshot); err != nil {
		return nil, fmt.Errorf("invalid attempt snapshot: %w", err)
	}
	if len(snapshot.Questions) == 0 {
		return nil, fmt.Errorf("invalid attempt snapshot: %w", ErrEmptyExam)
	}

	questions := make([]*models.Question, len(snapshot.Questions))
	for i := range snapshot.Questions {
		questions[i] = snapshot.Questions[i].Clone()
	}

	session := newAttemptSession(snapshot.Token, snapshot.StudentID, &snapshot.Exam, questions, s.submissions)
	session.onSubmitted = s.publishSubmitted
	session.startedAt = snapshot.StartedAt
	session.answers = snapshot.Answers.Clone()
	session.current = clampIndex(snapshot.CurrentIndex, len(questions))

	switch snapshot.State {
	case models.AttemptSubmitted:
		submission, err := s.submissions.FindByAttemptToken(ctx, snapshot.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to restore submitted attempt: %w", err)
		}
		session.state = models.AttemptSubmitted
		session.submission = submission
	case models.AttemptFinalizing:
		// Interrupted mid-finalize; a retry adopts whatever that finalize stored
		session.state = models.AttemptInProgress
		session.resumed = true
	case models.AttemptInProgress:
		session.state = models.AttemptInProgress
	default:
		return nil, fmt.Errorf("invalid attempt snapshot: %w: state %q", ErrAttemptNotActive, snapshot.State)
	}

	return session, nil
}

// ===== HELPERS =====

func (s *attemptService) checkAttemptLimit(ctx context.Context, studentID models.StudentID, examID models.ExamID) error {
	if s.config.MaxAttemptsPerExam <= 0 {
		return nil
	}

	count, err := s.repo.Submission().CountByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return fmt.Errorf("failed to count attempts: %w", err)
	}
	if count >= s.config.MaxAttemptsPerExam {
		return fmt.Errorf("%w: %d of %d used", ErrAttemptLimitExceeded, count, s.config.MaxAttemptsPerExam)
	}
	return nil
}

func (s *attemptService) publishSubmitted(ctx context.Context, submission *models.Submission) {
	s.logger.Logger().Info("Attempt submitted",
		"submission_id", submission.ID,
		"exam_id", submission.ExamID,
		"student_id", submission.StudentID,
		"score", submission.Score,
		"total", submission.TotalQuestions)

	if err := s.events.NotifyAttemptSubmitted(ctx, submission); err != nil {
		s.logPublishFailure(events.EventAttemptSubmitted, err)
	}
}

// Event delivery is best-effort; a broker outage never fails an attempt.
func (s *attemptService) logPublishFailure(eventType events.EventType, err error) {
	s.logger.Logger().Warn("Failed to publish exam event",
		"event_type", eventType,
		"error", err)
}

func clampIndex(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
