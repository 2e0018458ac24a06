package validator

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	businessValidator *BusinessValidator
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New(validator.WithRequiredStructEnabled())

	// Register all custom validators once
	registerCustomValidators(structValidator)

	questionValidator := NewQuestionValidator()

	return &Validator{
		structValidator:   structValidator,
		businessValidator: NewBusinessValidator(questionValidator),
		questionValidator: questionValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateBusiness validates business rules only
func (v *Validator) ValidateBusiness(s interface{}) ValidationErrors {
	return v.businessValidator.Validate(s)
}

// Validate performs complete validation (struct + business rules).
// Struct tag failures are returned as ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	if errors := v.ValidateBusiness(s); len(errors) > 0 {
		return errors
	}

	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// Business returns the business validator
func (v *Validator) Business() *BusinessValidator {
	return v.businessValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_id", validateIdentifier)
	validate.RegisterValidation("attempt_state", validateAttemptState)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateIdentifier accepts opaque ids: non-blank, no whitespace, at most 64 runes.
func validateIdentifier(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" || len([]rune(value)) > 64 {
		return false
	}
	for _, r := range value {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func validateAttemptState(fl validator.FieldLevel) bool {
	validStates := []models.AttemptState{
		models.AttemptNotStarted,
		models.AttemptInProgress,
		models.AttemptFinalizing,
		models.AttemptSubmitted,
	}

	value := fl.Field().String()
	for _, validState := range validStates {
		if string(validState) == value {
			return true
		}
	}
	return false
}
