// Package memory holds in-process repository implementations guarded by
// read/write mutexes. It backs tests and single-node deployments without a
// database.
package memory

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type Repository struct {
	questions   *QuestionStore
	exams       *ExamStore
	submissions *SubmissionStore
}

func NewRepository() *Repository {
	return &Repository{
		questions:   NewQuestionStore(),
		exams:       NewExamStore(),
		submissions: NewSubmissionStore(),
	}
}

func (r *Repository) Question() repositories.QuestionRepository { return r.questions }
func (r *Repository) Exam() repositories.ExamRepository { return r.exams }
func (r *Repository) Submission() repositories.SubmissionRepository { return r.submissions }

func (r *Repository) Ping(context.Context) error { return nil }
func (r *Repository) Close() error { return nil }

var _ repositories.Repository = (*Repository)(nil)
