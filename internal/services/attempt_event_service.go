package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
)

const publishTimeout = 5 * time.Second

// AttemptEventService publishes attempt lifecycle events.
type AttemptEventService interface {
	NotifyAttemptStarted(ctx context.Context, session *AttemptSession) error
	NotifyAttemptSubmitted(ctx context.Context, submission *models.Submission) error
}

type attemptEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewAttemptEventService(eventPublisher events.EventPublisher, logger *slog.Logger) AttemptEventService {
	return &attemptEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *attemptEventService) NotifyAttemptStarted(ctx context.Context, session *AttemptSession) error {
	s.logger.Debug("Publishing attempt started event", "attempt_token", session.Token())

	event := events.NewAttemptStartedEvent(
		session.Token(),
		session.exam,
		session.StudentID(),
		session.QuestionCount(),
		session.StartedAt(),
	)

	return s.publish(ctx, event)
}

func (s *attemptEventService) NotifyAttemptSubmitted(ctx context.Context, submission *models.Submission) error {
	s.logger.Debug("Publishing attempt submitted event", "submission_id", submission.ID)

	return s.publish(ctx, events.NewAttemptSubmittedEvent(submission))
}

// publish detaches from the caller's cancellation so a finished request does
// not abort an in-flight publish.
func (s *attemptEventService) publish(ctx context.Context, event *events.ExamEvent) error {
	if s.eventPublisher == nil {
		return nil
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	return s.eventPublisher.PublishExamEvent(pubCtx, event)
}
