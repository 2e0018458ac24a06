package events

import (
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/google/uuid"
)

const (
	eventSource  = "exam-service"
	eventVersion = "1.0"
)

// EventType represents the attempt lifecycle events the engine emits
type EventType string

const (
	EventAttemptStarted   EventType = "attempt.started"
	EventAttemptSubmitted EventType = "attempt.submitted"
)

// ExamEvent is the envelope for every published event
type ExamEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AttemptStartedEvent struct {
	AttemptToken  string           `json:"attempt_token"`
	ExamID        models.ExamID    `json:"exam_id"`
	ExamTitle     string           `json:"exam_title"`
	StudentID     models.StudentID `json:"student_id"`
	QuestionCount int              `json:"question_count"`
	StartedAt     time.Time        `json:"started_at"`
}

type AttemptSubmittedEvent struct {
	AttemptToken   string              `json:"attempt_token"`
	SubmissionID   models.SubmissionID `json:"submission_id"`
	ExamID         models.ExamID       `json:"exam_id"`
	StudentID      models.StudentID    `json:"student_id"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	SubmittedAt    time.Time           `json:"submitted_at"`
}

// Event factory functions

func NewAttemptStartedEvent(token string, exam *models.Exam, studentID models.StudentID, questionCount int, startedAt time.Time) *ExamEvent {
	return &ExamEvent{
		ID:        GenerateEventID(),
		Type:      EventAttemptStarted,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data: AttemptStartedEvent{
			AttemptToken:  token,
			ExamID:        exam.ID,
			ExamTitle:     exam.Title,
			StudentID:     studentID,
			QuestionCount: questionCount,
			StartedAt:     startedAt,
		},
	}
}

func NewAttemptSubmittedEvent(submission *models.Submission) *ExamEvent {
	return &ExamEvent{
		ID:        GenerateEventID(),
		Type:      EventAttemptSubmitted,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data: AttemptSubmittedEvent{
			AttemptToken:   submission.AttemptToken,
			SubmissionID:   submission.ID,
			ExamID:         submission.ExamID,
			StudentID:      submission.StudentID,
			Score:          submission.Score,
			TotalQuestions: submission.TotalQuestions,
			SubmittedAt:    submission.SubmittedAt,
		},
	}
}

// GenerateEventID returns a random UUID for event envelopes
func GenerateEventID() string {
	return uuid.NewString()
}
