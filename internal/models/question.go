package models

import (
	"time"

	"gorm.io/datatypes"
)

// OptionsPerQuestion is the fixed number of options on every question.
const OptionsPerQuestion = 4

type Question struct {
	ID            QuestionID                  `json:"id" gorm:"primaryKey;size:64" validate:"required,question_id"`
	Text          string                      `json:"question_text" gorm:"type:text;not null" validate:"required,max=2000"`
	Options       datatypes.JSONSlice[Option] `json:"options" gorm:"not null" validate:"len=4,unique,dive,required,max=500"`
	CorrectAnswer Option                      `json:"correct_answer" gorm:"not null;size:500" validate:"required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// HasOption reports whether o is one of the question's options. Comparison is
// exact: case and whitespace matter.
func (q *Question) HasOption(o Option) bool {
	for _, opt := range q.Options {
		if opt == o {
			return true
		}
	}
	return false
}

// IsCorrect reports whether o matches the answer key.
func (q *Question) IsCorrect(o Option) bool {
	return o == q.CorrectAnswer
}

func (q *Question) Clone() *Question {
	out := *q
	out.Options = append(datatypes.JSONSlice[Option](nil), q.Options...)
	return &out
}
