package models

import (
	"time"

	"gorm.io/datatypes"
)

type Exam struct {
	ID          ExamID                          `json:"id" gorm:"primaryKey;size:64" validate:"required,question_id"`
	Title       string                          `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	ClassID     string                          `json:"class_id" gorm:"size:64;index" validate:"max=64"`
	SubjectID   string                          `json:"subject_id" gorm:"size:64;index" validate:"max=64"`
	QuestionIDs datatypes.JSONSlice[QuestionID] `json:"question_ids" validate:"dive,required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Exam) TableName() string {
	return "exams"
}

func (e *Exam) Clone() *Exam {
	out := *e
	out.QuestionIDs = append(datatypes.JSONSlice[QuestionID](nil), e.QuestionIDs...)
	return &out
}
