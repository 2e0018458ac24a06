package services

import (
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// ServiceManager hands out the service layer to the transport.
type ServiceManager interface {
	QuestionBank() QuestionBankService
	Exam() ExamService
	Attempt() AttemptService
	Submission() SubmissionService
	ImportExport() ImportExportService
	Sessions() SessionRegistry
}

type ServiceManagerConfig struct {
	Attempt AttemptConfig

	// Sessions builds the registry once the attempt service exists. Nil keeps
	// sessions in process memory without expiry.
	Sessions func(attempts AttemptService) SessionRegistry
}

type serviceManager struct {
	questionBank QuestionBankService
	exam         ExamService
	attempt      AttemptService
	submission   SubmissionService
	importExport ImportExportService
	sessions     SessionRegistry
}

func NewServiceManager(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	if logger == nil {
		logger = slog.Default()
	}

	exam := NewExamService(repo, logger)
	submission := NewSubmissionService(repo, exam, logger)
	attempt := NewAttemptService(repo, exam, submission, publisher, logger, validator, config.Attempt)

	var sessions SessionRegistry
	if config.Sessions != nil {
		sessions = config.Sessions(attempt)
	} else {
		sessions = NewMemorySessionRegistry(0)
	}

	return &serviceManager{
		questionBank: NewQuestionBankService(repo, logger),
		exam:         exam,
		attempt:      attempt,
		submission:   submission,
		importExport: NewImportExportService(repo, exam, submission, logger, validator),
		sessions:     sessions,
	}
}

func (m *serviceManager) QuestionBank() QuestionBankService {
	return m.questionBank
}

func (m *serviceManager) Exam() ExamService {
	return m.exam
}

func (m *serviceManager) Attempt() AttemptService {
	return m.attempt
}

func (m *serviceManager) Submission() SubmissionService {
	return m.submission
}

func (m *serviceManager) ImportExport() ImportExportService {
	return m.importExport
}

func (m *serviceManager) Sessions() SessionRegistry {
	return m.sessions
}
