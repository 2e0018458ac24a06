package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type ExamStore struct {
	mu    sync.RWMutex
	exams map[models.ExamID]*models.Exam
}

func NewExamStore() *ExamStore {
	return &ExamStore{exams: make(map[models.ExamID]*models.Exam)}
}

func (s *ExamStore) Create(_ context.Context, exam *models.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exams[exam.ID]; ok {
		return repositories.ErrDuplicateID
	}
	now := time.Now().UTC()
	exam.CreatedAt, exam.UpdatedAt = now, now
	s.exams[exam.ID] = exam.Clone()
	return nil
}

func (s *ExamStore) GetByID(_ context.Context, id models.ExamID) (*models.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exams[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return e.Clone(), nil
}

func (s *ExamStore) List(_ context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Exam
	for _, e := range s.exams {
		if filters.ClassID != nil && e.ClassID != *filters.ClassID {
			continue
		}
		if filters.SubjectID != nil && e.SubjectID != *filters.SubjectID {
			continue
		}
		matched = append(matched, e.Clone())
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	return paginate(matched, filters.Offset, filters.Limit), total, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
