package validator

import (
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/errors"
	"github.com/SAP-F-2025/exam-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks the answer-key invariants: exactly four distinct
// options and a correct answer that is one of them.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) ValidationErrors {
	var errs ValidationErrors

	if len(question.Options) != models.OptionsPerQuestion {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"options", fmt.Sprintf("must contain exactly %d items", models.OptionsPerQuestion), "len", len(question.Options)))
	}

	seen := make(map[models.Option]struct{}, len(question.Options))
	for _, opt := range question.Options {
		if _, dup := seen[opt]; dup {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				"options", "must contain distinct options", "distinct_options", string(opt)))
			break
		}
		seen[opt] = struct{}{}
	}

	if !question.HasOption(question.CorrectAnswer) {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"correct_answer", "must be one of the question options", "correct_answer_in_options", string(question.CorrectAnswer)))
	}

	return errs
}
