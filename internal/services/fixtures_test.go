package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories/memory"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fixture struct {
	repo      *memory.Repository
	publisher *events.MockEventPublisher
	manager   ServiceManager
	exam      *models.Exam
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func geographyQuestion() *models.Question {
	return &models.Question{
		ID:            "Q1",
		Text:          "Capital of France?",
		Options:       datatypes.JSONSlice[models.Option]{"Paris", "London", "Berlin", "Madrid"},
		CorrectAnswer: "Paris",
	}
}

func arithmeticQuestion() *models.Question {
	return &models.Question{
		ID:            "Q2",
		Text:          "6 x 7?",
		Options:       datatypes.JSONSlice[models.Option]{"40", "41", "42", "43"},
		CorrectAnswer: "42",
	}
}

// newFixture seeds Q1 and Q2 and an exam E1 = [Q1, Q2].
func newFixture(t *testing.T, cfg ServiceManagerConfig) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := memory.NewRepository()
	require.NoError(t, repo.Question().Create(ctx, geographyQuestion()))
	require.NoError(t, repo.Question().Create(ctx, arithmeticQuestion()))

	exam := &models.Exam{
		ID:          "E1",
		Title:       "General knowledge",
		ClassID:     "10A",
		SubjectID:   "mixed",
		QuestionIDs: datatypes.JSONSlice[models.QuestionID]{"Q1", "Q2"},
	}
	require.NoError(t, repo.Exam().Create(ctx, exam))

	publisher := events.NewMockEventPublisher(testLogger())
	manager := NewServiceManager(repo, publisher, testLogger(), validator.New(), cfg)

	return &fixture{
		repo:      repo,
		publisher: publisher,
		manager:   manager,
		exam:      exam,
	}
}

func (f *fixture) start(t *testing.T, studentID models.StudentID) *AttemptSession {
	t.Helper()
	session, err := f.manager.Attempt().Start(context.Background(), studentID, f.exam)
	require.NoError(t, err)
	return session
}
