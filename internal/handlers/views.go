package handlers

import (
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
)

// QuestionView is a question as a student sees it: no answer key.
type QuestionView struct {
	ID      models.QuestionID `json:"id"`
	Text    string            `json:"question_text"`
	Options []models.Option   `json:"options"`
}

func newQuestionView(q *models.Question) *QuestionView {
	if q == nil {
		return nil
	}
	return &QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		Options: append([]models.Option(nil), q.Options...),
	}
}

type AttemptView struct {
	Token           string              `json:"token"`
	ExamID          models.ExamID       `json:"exam_id"`
	ExamTitle       string              `json:"exam_title"`
	StudentID       models.StudentID    `json:"student_id"`
	State           models.AttemptState `json:"state"`
	CurrentIndex    int                 `json:"current_index"`
	QuestionCount   int                 `json:"question_count"`
	CurrentQuestion *QuestionView       `json:"current_question,omitempty"`
	Answers         models.AnswerMap    `json:"answers"`
	StartedAt       time.Time           `json:"started_at"`
	SubmissionID    models.SubmissionID `json:"submission_id,omitempty"`
}

func newAttemptView(s *services.AttemptSession) *AttemptView {
	view := &AttemptView{
		Token:         s.Token(),
		ExamID:        s.Exam().ID,
		ExamTitle:     s.Exam().Title,
		StudentID:     s.StudentID(),
		State:         s.State(),
		CurrentIndex:  s.CurrentIndex(),
		QuestionCount: s.QuestionCount(),
		Answers:       s.Answers(),
		StartedAt:     s.StartedAt(),
	}
	if s.State() != models.AttemptSubmitted {
		view.CurrentQuestion = newQuestionView(s.CurrentQuestion())
	}
	if sub := s.Submission(); sub != nil {
		view.SubmissionID = sub.ID
	}
	return view
}

type ExamView struct {
	ID            models.ExamID `json:"id"`
	Title         string        `json:"title"`
	ClassID       string        `json:"class_id,omitempty"`
	SubjectID     string        `json:"subject_id,omitempty"`
	QuestionCount int           `json:"question_count"`
}

func newExamView(e *models.Exam) *ExamView {
	return &ExamView{
		ID:            e.ID,
		Title:         e.Title,
		ClassID:       e.ClassID,
		SubjectID:     e.SubjectID,
		QuestionCount: len(e.QuestionIDs),
	}
}

type SubmissionView struct {
	ID             models.SubmissionID `json:"id"`
	AttemptToken   string              `json:"attempt_token"`
	StudentID      models.StudentID    `json:"student_id"`
	ExamID         models.ExamID       `json:"exam_id"`
	Answers        models.AnswerMap    `json:"answers"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	SubmittedAt    time.Time           `json:"submitted_at"`
}

func newSubmissionView(s *models.Submission) *SubmissionView {
	return &SubmissionView{
		ID:             s.ID,
		AttemptToken:   s.AttemptToken,
		StudentID:      s.StudentID,
		ExamID:         s.ExamID,
		Answers:        s.AnswerMap(),
		Score:          s.Score,
		TotalQuestions: s.TotalQuestions,
		SubmittedAt:    s.SubmittedAt,
	}
}
