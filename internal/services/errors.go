package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/exam-service/internal/errors"
	"github.com/SAP-F-2025/exam-service/internal/models"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Question bank and exam definition errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrExamNotFound     = errors.New("exam not found")
	ErrEmptyExam        = errors.New("exam has no questions")
	ErrMissingQuestion  = errors.New("exam references a question that does not exist")

	// Attempt specific errors
	ErrAttemptNotActive     = errors.New("attempt is not active")
	ErrAlreadySubmitted     = errors.New("attempt already submitted")
	ErrAttemptLimitExceeded = errors.New("maximum attempts exceeded")
	ErrAttemptAccessDenied  = errors.New("access denied to attempt")
	ErrQuestionNotInExam    = errors.New("question is not part of this exam")
	ErrInvalidOption        = errors.New("selected option is not one of the question's options")
	ErrSessionNotFound      = errors.New("attempt session not found or expired")

	// Submission errors
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrSubmissionAccessDenied = errors.New("access denied to submission")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// MissingQuestionError lists every question id an exam references that the
// bank cannot resolve.
type MissingQuestionError struct {
	ExamID     models.ExamID       `json:"exam_id"`
	MissingIDs []models.QuestionID `json:"missing_ids"`
}

func (e *MissingQuestionError) Error() string {
	ids := make([]string, len(e.MissingIDs))
	for i, id := range e.MissingIDs {
		ids[i] = string(id)
	}
	return fmt.Sprintf("exam %s references missing questions: %s", e.ExamID, strings.Join(ids, ", "))
}

func (e *MissingQuestionError) Is(target error) bool {
	return target == ErrMissingQuestion
}

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// PermissionError wraps ErrAttemptAccessDenied or ErrSubmissionAccessDenied
// with the caller and resource involved.
type PermissionError struct {
	Err        error  `json:"-"`
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return pe.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// NewAttemptAccessError reports a student touching another student's attempt.
func NewAttemptAccessError(userID, token, action string) *PermissionError {
	return &PermissionError{
		Err:        ErrAttemptAccessDenied,
		UserID:     userID,
		ResourceID: token,
		Resource:   "attempt",
		Action:     action,
		Reason:     "attempt belongs to another student",
	}
}

// NewSubmissionAccessError reports a student reading another student's submission.
func NewSubmissionAccessError(userID, submissionID, action string) *PermissionError {
	return &PermissionError{
		Err:        ErrSubmissionAccessDenied,
		UserID:     userID,
		ResourceID: submissionID,
		Resource:   "submission",
		Action:     action,
		Reason:     "submission belongs to another student",
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrAttemptAccessDenied) ||
		errors.Is(err, ErrSubmissionAccessDenied)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsInvalidExam checks if the exam definition itself cannot be taken
func IsInvalidExam(err error) bool {
	return errors.Is(err, ErrEmptyExam) || errors.Is(err, ErrMissingQuestion)
}

// IsInvalidAnswer checks if an answer selection was rejected
func IsInvalidAnswer(err error) bool {
	return errors.Is(err, ErrInvalidOption) || errors.Is(err, ErrQuestionNotInExam)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrAttemptNotActive) ||
		errors.Is(err, ErrAttemptLimitExceeded)
}
