package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSubmissionService_Review(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	session := f.start(t, "student-1")

	require.NoError(t, session.SelectAnswer("Q1", "Paris"))
	require.NoError(t, session.SelectAnswer("Q2", "41"))
	submission, err := session.Finalize(ctx)
	require.NoError(t, err)

	review, err := f.manager.Submission().Review(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.Score, review.CorrectCount)
	assert.Equal(t, submission.ID, review.Submission.ID)
	require.Len(t, review.Items, 2)

	assert.Equal(t, models.QuestionID("Q1"), review.Items[0].QuestionID)
	assert.Equal(t, "Capital of France?", review.Items[0].QuestionText)
	assert.True(t, review.Items[0].IsCorrect)

	require.NotNil(t, review.Items[1].StudentAnswer)
	assert.Equal(t, models.Option("41"), *review.Items[1].StudentAnswer)
	assert.Equal(t, models.Option("42"), review.Items[1].CorrectAnswer)
	assert.False(t, review.Items[1].IsCorrect)
}

func TestSubmissionService_ReviewUnansweredQuestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	session := f.start(t, "student-1")

	submission, err := session.Finalize(ctx)
	require.NoError(t, err)

	review, err := f.manager.Submission().Review(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, review.CorrectCount)
	for _, item := range review.Items {
		assert.Nil(t, item.StudentAnswer)
		assert.False(t, item.IsCorrect)
	}
}

func TestSubmissionService_ReviewAfterQuestionRemoved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	session := f.start(t, "student-1")
	submission, err := session.Finalize(ctx)
	require.NoError(t, err)

	require.NoError(t, f.repo.Question().Delete(ctx, "Q2"))

	_, err = f.manager.Submission().Review(ctx, submission.ID)
	assert.ErrorIs(t, err, ErrMissingQuestion)
}

func TestSubmissionService_ReviewUnknownSubmission(t *testing.T) {
	f := newFixture(t, ServiceManagerConfig{})

	_, err := f.manager.Submission().Review(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionService_Append(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	service := f.manager.Submission()

	tests := []struct {
		name       string
		submission *models.Submission
		check      func(t *testing.T, err error)
	}{
		{
			name: "valid submission gets id",
			submission: &models.Submission{
				AttemptToken: "tok-1", StudentID: "s1", ExamID: "E1",
				Answers: datatypes.NewJSONType(models.AnswerMap{}), Score: 1, TotalQuestions: 2,
			},
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "score above total",
			submission: &models.Submission{
				AttemptToken: "tok-2", StudentID: "s1", ExamID: "E1", Score: 3, TotalQuestions: 2,
			},
			check: func(t *testing.T, err error) { assert.True(t, IsBusinessRule(err)) },
		},
		{
			name: "negative score",
			submission: &models.Submission{
				AttemptToken: "tok-3", StudentID: "s1", ExamID: "E1", Score: -1, TotalQuestions: 2,
			},
			check: func(t *testing.T, err error) { assert.True(t, IsBusinessRule(err)) },
		},
		{
			name:       "missing token",
			submission: &models.Submission{StudentID: "s1", ExamID: "E1"},
			check:      func(t *testing.T, err error) { assert.True(t, IsValidation(err)) },
		},
		{
			name: "reused token",
			submission: &models.Submission{
				AttemptToken: "tok-1", StudentID: "s1", ExamID: "E1", TotalQuestions: 2,
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, repositories.ErrDuplicateAttemptToken) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Append(ctx, tt.submission)
			tt.check(t, err)
			if err == nil {
				assert.NotEmpty(t, tt.submission.ID)
				assert.False(t, tt.submission.SubmittedAt.IsZero())
			}
		})
	}
}

func TestSubmissionService_Lists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	service := f.manager.Submission()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, entry := range []struct {
		student models.StudentID
		exam    models.ExamID
	}{{"s1", "E1"}, {"s2", "E1"}, {"s1", "E2"}} {
		require.NoError(t, service.Append(ctx, &models.Submission{
			AttemptToken:   string(entry.student) + string(entry.exam),
			StudentID:      entry.student,
			ExamID:         entry.exam,
			Answers:        datatypes.NewJSONType(models.AnswerMap{}),
			TotalQuestions: 2,
			SubmittedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	byStudent, total, err := service.ListByStudent(ctx, "s1", repositories.SubmissionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byStudent, 2)

	byExam, total, err := service.ListByExam(ctx, "E1", repositories.SubmissionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byExam, 2)

	found, err := service.FindByAttemptToken(ctx, "s2E1")
	require.NoError(t, err)
	assert.Equal(t, models.StudentID("s2"), found.StudentID)

	_, err = service.FindByAttemptToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}
