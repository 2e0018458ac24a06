package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

// QuestionBankService is the read side of the question bank.
type QuestionBankService interface {
	GetQuestion(ctx context.Context, id models.QuestionID) (*models.Question, error)
}

// ExamService loads exam definitions and resolves their question lists.
type ExamService interface {
	GetExam(ctx context.Context, id models.ExamID) (*models.Exam, error)
	ListExams(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error)

	// ResolveQuestions returns the exam's questions in order, collapsing
	// duplicate ids. Any unresolved id fails the call with *MissingQuestionError.
	ResolveQuestions(ctx context.Context, exam *models.Exam) ([]*models.Question, error)
}

// AttemptService creates and restores attempt sessions.
type AttemptService interface {
	Start(ctx context.Context, studentID models.StudentID, exam *models.Exam) (*AttemptSession, error)
	StartByExamID(ctx context.Context, req *StartAttemptRequest) (*AttemptSession, error)
	Restore(ctx context.Context, snapshot *AttemptSnapshot) (*AttemptSession, error)
}

// SubmissionService is the append-only submission store plus review.
type SubmissionService interface {
	Append(ctx context.Context, submission *models.Submission) error
	Find(ctx context.Context, id models.SubmissionID) (*models.Submission, error)
	FindByAttemptToken(ctx context.Context, token string) (*models.Submission, error)
	ListByStudent(ctx context.Context, studentID models.StudentID, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error)
	ListByExam(ctx context.Context, examID models.ExamID, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error)

	// Review recomputes correctness from the exam's current questions.
	Review(ctx context.Context, id models.SubmissionID) (*models.SubmissionReview, error)
}

// ImportExportService handles spreadsheet import of questions and export of results
type ImportExportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)

	ExportExamResults(ctx context.Context, examID models.ExamID) ([]byte, error)
}
