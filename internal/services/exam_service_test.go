package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id models.QuestionID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id models.QuestionID) (*models.Question, error) {
	args := m.Called(ctx, id)
	if q := args.Get(0); q != nil {
		return q.(*models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []models.QuestionID) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	if qs := args.Get(0); qs != nil {
		return qs.([]*models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockRepository routes Question() to a testify mock and the rest to nil stores.
type mockRepository struct {
	repositories.Repository
	questions *MockQuestionRepository
}

func (m *mockRepository) Question() repositories.QuestionRepository {
	return m.questions
}

func TestQuestionBankService_GetQuestion(t *testing.T) {
	ctx := context.Background()
	questions := new(MockQuestionRepository)
	service := NewQuestionBankService(&mockRepository{questions: questions}, testLogger())

	questions.On("GetByID", ctx, models.QuestionID("Q1")).Return(geographyQuestion(), nil)
	questions.On("GetByID", ctx, models.QuestionID("nope")).Return(nil, repositories.ErrRecordNotFound)
	questions.On("GetByID", ctx, models.QuestionID("broken")).Return(nil, errors.New("connection reset"))

	q, err := service.GetQuestion(ctx, "Q1")
	require.NoError(t, err)
	assert.Equal(t, models.Option("Paris"), q.CorrectAnswer)

	_, err = service.GetQuestion(ctx, "nope")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.True(t, IsNotFound(err))

	_, err = service.GetQuestion(ctx, "broken")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))

	questions.AssertExpectations(t)
}

func TestExamService_ResolveQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves exam order", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		service := NewExamService(&mockRepository{questions: questions}, testLogger())
		exam := &models.Exam{ID: "E1", QuestionIDs: datatypes.JSONSlice[models.QuestionID]{"Q2", "Q1"}}

		// Store returns them in a different order
		questions.On("GetByIDs", ctx, []models.QuestionID{"Q2", "Q1"}).
			Return([]*models.Question{geographyQuestion(), arithmeticQuestion()}, nil)

		resolved, err := service.ResolveQuestions(ctx, exam)
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		assert.Equal(t, models.QuestionID("Q2"), resolved[0].ID)
		assert.Equal(t, models.QuestionID("Q1"), resolved[1].ID)
		questions.AssertExpectations(t)
	})

	t.Run("collapses duplicate ids", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		service := NewExamService(&mockRepository{questions: questions}, testLogger())
		exam := &models.Exam{ID: "E1", QuestionIDs: datatypes.JSONSlice[models.QuestionID]{"Q1", "Q2", "Q1"}}

		questions.On("GetByIDs", ctx, []models.QuestionID{"Q1", "Q2"}).
			Return([]*models.Question{geographyQuestion(), arithmeticQuestion()}, nil)

		resolved, err := service.ResolveQuestions(ctx, exam)
		require.NoError(t, err)
		assert.Len(t, resolved, 2)
	})

	t.Run("reports every missing id", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		service := NewExamService(&mockRepository{questions: questions}, testLogger())
		exam := &models.Exam{ID: "E1", QuestionIDs: datatypes.JSONSlice[models.QuestionID]{"Q1", "Q7", "Q8"}}

		questions.On("GetByIDs", ctx, mock.Anything).Return([]*models.Question{geographyQuestion()}, nil)

		_, err := service.ResolveQuestions(ctx, exam)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingQuestion)

		var missing *MissingQuestionError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []models.QuestionID{"Q7", "Q8"}, missing.MissingIDs)
		assert.Equal(t, models.ExamID("E1"), missing.ExamID)
	})

	t.Run("empty exam resolves to nothing", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		service := NewExamService(&mockRepository{questions: questions}, testLogger())

		resolved, err := service.ResolveQuestions(ctx, &models.Exam{ID: "E0"})
		require.NoError(t, err)
		assert.Empty(t, resolved)
		questions.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		service := NewExamService(&mockRepository{questions: questions}, testLogger())
		boom := errors.New("boom")

		questions.On("GetByIDs", ctx, mock.Anything).Return(nil, boom)

		_, err := service.ResolveQuestions(ctx, &models.Exam{ID: "E1", QuestionIDs: datatypes.JSONSlice[models.QuestionID]{"Q1"}})
		assert.ErrorIs(t, err, boom)
	})
}

func TestExamService_ResolveIsStable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})

	first, err := f.manager.Exam().ResolveQuestions(ctx, f.exam)
	require.NoError(t, err)
	second, err := f.manager.Exam().ResolveQuestions(ctx, f.exam)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExamService_GetExam(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})

	exam, err := f.manager.Exam().GetExam(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "General knowledge", exam.Title)

	_, err = f.manager.Exam().GetExam(ctx, "missing")
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestAttemptService_StartWithMissingQuestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	exam := &models.Exam{ID: "E2", Title: "Broken", QuestionIDs: datatypes.JSONSlice[models.QuestionID]{"Q1", "Q404"}}

	_, err := f.manager.Attempt().Start(ctx, "student-1", exam)
	assert.ErrorIs(t, err, ErrMissingQuestion)
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestAttemptService_StartByExamID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})

	session, err := f.manager.Attempt().StartByExamID(ctx, &StartAttemptRequest{ExamID: "E1", StudentID: "student-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, session.QuestionCount())
	assert.Equal(t, models.AttemptInProgress, session.State())
	assert.NotEmpty(t, session.Token())

	_, err = f.manager.Attempt().StartByExamID(ctx, &StartAttemptRequest{ExamID: "nope", StudentID: "student-1"})
	assert.ErrorIs(t, err, ErrExamNotFound)

	_, err = f.manager.Attempt().StartByExamID(ctx, &StartAttemptRequest{ExamID: "E1"})
	assert.True(t, IsValidation(err))
}

func TestAttemptService_AttemptLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{Attempt: AttemptConfig{MaxAttemptsPerExam: 1}})

	session := f.start(t, "student-1")
	_, err := session.Finalize(ctx)
	require.NoError(t, err)

	_, err = f.manager.Attempt().Start(ctx, "student-1", f.exam)
	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
	assert.True(t, IsConflict(err))

	// Other students are unaffected
	_, err = f.manager.Attempt().Start(ctx, "student-2", f.exam)
	assert.NoError(t, err)
}

func TestAttemptService_UnlimitedByDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})

	for i := 0; i < 3; i++ {
		session := f.start(t, "student-1")
		_, err := session.Finalize(ctx)
		require.NoError(t, err)
	}

	count, err := f.repo.Submission().CountByStudentAndExam(ctx, "student-1", "E1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
