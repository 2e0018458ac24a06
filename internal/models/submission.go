package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is the scored, immutable record of a finalized attempt.
type Submission struct {
	ID             SubmissionID                  `json:"id" gorm:"primaryKey;size:36"`
	AttemptToken   string                        `json:"attempt_token" gorm:"size:64;uniqueIndex;not null"`
	StudentID      StudentID                     `json:"student_id" gorm:"size:255;not null;index:idx_submission_student_exam"`
	ExamID         ExamID                        `json:"exam_id" gorm:"size:64;not null;index:idx_submission_student_exam"`
	Answers        datatypes.JSONType[AnswerMap] `json:"answers"`
	Score          int                           `json:"score" gorm:"not null"`
	TotalQuestions int                           `json:"total_questions" gorm:"not null"`
	SubmittedAt    time.Time                     `json:"submitted_at" gorm:"not null;index"`
}

func (Submission) TableName() string {
	return "submissions"
}

// AnswerMap returns a copy of the stored answers.
func (s *Submission) AnswerMap() AnswerMap {
	return s.Answers.Data().Clone()
}

// Clone returns a deep copy so callers can never mutate a stored record.
func (s *Submission) Clone() *Submission {
	out := *s
	out.Answers = datatypes.NewJSONType(s.AnswerMap())
	return &out
}
