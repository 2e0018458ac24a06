package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type QuestionStore struct {
	mu        sync.RWMutex
	questions map[models.QuestionID]*models.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[models.QuestionID]*models.Question)}
}

func (s *QuestionStore) Create(_ context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[question.ID]; ok {
		return repositories.ErrDuplicateID
	}
	now := time.Now().UTC()
	question.CreatedAt, question.UpdatedAt = now, now
	s.questions[question.ID] = question.Clone()
	return nil
}

func (s *QuestionStore) Delete(_ context.Context, id models.QuestionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *QuestionStore) GetByID(_ context.Context, id models.QuestionID) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return q.Clone(), nil
}

func (s *QuestionStore) GetByIDs(_ context.Context, ids []models.QuestionID) ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := s.questions[id]; ok {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}
