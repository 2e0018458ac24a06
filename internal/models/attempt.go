package models

type AttemptState string

const (
	AttemptNotStarted AttemptState = "not_started"
	AttemptInProgress AttemptState = "in_progress"
	AttemptFinalizing AttemptState = "finalizing"
	AttemptSubmitted  AttemptState = "submitted"
)

// ReviewItem is one row of a submission review. StudentAnswer is nil when the
// question was left unanswered.
type ReviewItem struct {
	QuestionID    QuestionID `json:"question_id"`
	QuestionText  string     `json:"question_text"`
	StudentAnswer *Option    `json:"student_answer"`
	CorrectAnswer Option     `json:"correct_answer"`
	IsCorrect     bool       `json:"is_correct"`
}

type SubmissionReview struct {
	Submission   *Submission  `json:"submission"`
	Items        []ReviewItem `json:"items"`
	CorrectCount int          `json:"correct_count"`
}
