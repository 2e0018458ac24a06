package models

// Identifier newtypes keep question, exam, student and submission keys from
// being mixed up in maps and function arguments.
type (
	QuestionID   string
	ExamID       string
	StudentID    string
	SubmissionID string
)

// Option is the text of a single multiple-choice option.
type Option string

// AnswerMap holds at most one selected option per question.
type AnswerMap map[QuestionID]Option

// Clone returns an independent copy of the map. A nil map clones to an empty one.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
