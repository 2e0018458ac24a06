package validator

import (
	"github.com/SAP-F-2025/exam-service/internal/errors"
	"github.com/SAP-F-2025/exam-service/internal/models"
)

// BusinessValidator checks rules that struct tags cannot express.
type BusinessValidator struct {
	questions *QuestionValidator
}

func NewBusinessValidator(questions *QuestionValidator) *BusinessValidator {
	return &BusinessValidator{questions: questions}
}

// Validate dispatches on the concrete type. Types without business rules pass.
func (b *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch v := s.(type) {
	case *models.Question:
		return b.questions.ValidateQuestion(v)
	case models.Question:
		return b.questions.ValidateQuestion(&v)
	case *models.Exam:
		return b.ValidateExam(v)
	case models.Exam:
		return b.ValidateExam(&v)
	default:
		return nil
	}
}

// ValidateExam rejects blank question ids. Duplicates are tolerated and
// collapsed when the exam is resolved.
func (b *BusinessValidator) ValidateExam(exam *models.Exam) ValidationErrors {
	var errs ValidationErrors
	for i, id := range exam.QuestionIDs {
		if id == "" {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				"question_ids", "must not contain blank ids", "question_id", i))
		}
	}
	return errs
}
