package services

import (
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAnswers(t *testing.T) {
	questions := []*models.Question{geographyQuestion(), arithmeticQuestion()}

	tests := []struct {
		name      string
		answers   models.AnswerMap
		wantScore int
	}{
		{name: "one right one wrong", answers: models.AnswerMap{"Q1": "Paris", "Q2": "41"}, wantScore: 1},
		{name: "all correct", answers: models.AnswerMap{"Q1": "Paris", "Q2": "42"}, wantScore: 2},
		{name: "nothing answered", answers: models.AnswerMap{}, wantScore: 0},
		{name: "nil answers", answers: nil, wantScore: 0},
		{name: "case sensitive", answers: models.AnswerMap{"Q1": "paris"}, wantScore: 0},
		{name: "whitespace sensitive", answers: models.AnswerMap{"Q1": "Paris "}, wantScore: 0},
		{name: "answers outside exam ignored", answers: models.AnswerMap{"Q9": "Paris", "Q2": "42"}, wantScore: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := ScoreAnswers(questions, tt.answers)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, 2, total)
		})
	}
}

func TestScoreAnswers_NoQuestions(t *testing.T) {
	score, total := ScoreAnswers(nil, models.AnswerMap{"Q1": "Paris"})
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, total)
}

func TestGradeAnswers(t *testing.T) {
	questions := []*models.Question{geographyQuestion(), arithmeticQuestion()}
	answers := models.AnswerMap{"Q1": "Paris"}

	items, correct := GradeAnswers(questions, answers)
	require.Len(t, items, 2)
	assert.Equal(t, 1, correct)

	assert.Equal(t, models.QuestionID("Q1"), items[0].QuestionID)
	require.NotNil(t, items[0].StudentAnswer)
	assert.Equal(t, models.Option("Paris"), *items[0].StudentAnswer)
	assert.True(t, items[0].IsCorrect)

	assert.Nil(t, items[1].StudentAnswer)
	assert.False(t, items[1].IsCorrect)
	assert.Equal(t, models.Option("42"), items[1].CorrectAnswer)

	score, _ := ScoreAnswers(questions, answers)
	assert.Equal(t, score, correct)
}
