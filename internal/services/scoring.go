package services

import "github.com/SAP-F-2025/exam-service/internal/models"

// ScoreAnswers counts the questions whose selected option exactly matches the
// answer key. Unanswered questions count as incorrect. total is len(questions).
func ScoreAnswers(questions []*models.Question, answers models.AnswerMap) (score, total int) {
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && q.IsCorrect(selected) {
			score++
		}
	}
	return score, len(questions)
}

// GradeAnswers builds one review row per question, in question order.
func GradeAnswers(questions []*models.Question, answers models.AnswerMap) ([]models.ReviewItem, int) {
	items := make([]models.ReviewItem, 0, len(questions))
	correct := 0

	for _, q := range questions {
		item := models.ReviewItem{
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			CorrectAnswer: q.CorrectAnswer,
		}
		if selected, ok := answers[q.ID]; ok {
			selected := selected
			item.StudentAnswer = &selected
			item.IsCorrect = q.IsCorrect(selected)
		}
		if item.IsCorrect {
			correct++
		}
		items = append(items, item)
	}

	return items, correct
}
