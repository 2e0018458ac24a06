package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/google/uuid"
)

// SubmissionStore is an append-only log. Records are cloned on the way in and
// out so stored submissions can never be mutated by callers.
type SubmissionStore struct {
	mu      sync.RWMutex
	records []*models.Submission
	byID    map[models.SubmissionID]int
	byToken map[string]int
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		byID:    make(map[models.SubmissionID]int),
		byToken: make(map[string]int),
	}
}

func (s *SubmissionStore) Append(_ context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byToken[submission.AttemptToken]; ok {
		return repositories.ErrDuplicateAttemptToken
	}

	id := models.SubmissionID(uuid.NewString())
	for {
		if _, taken := s.byID[id]; !taken {
			break
		}
		id = models.SubmissionID(uuid.NewString())
	}
	submission.ID = id

	s.records = append(s.records, submission.Clone())
	idx := len(s.records) - 1
	s.byID[id] = idx
	s.byToken[submission.AttemptToken] = idx
	return nil
}

func (s *SubmissionStore) GetByID(_ context.Context, id models.SubmissionID) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return s.records[idx].Clone(), nil
}

func (s *SubmissionStore) GetByAttemptToken(_ context.Context, token string) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byToken[token]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return s.records[idx].Clone(), nil
}

func (s *SubmissionStore) List(_ context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Submission
	for _, rec := range s.records {
		if !matches(rec, filters) {
			continue
		}
		matched = append(matched, rec.Clone())
	}

	desc := filters.SortOrder != "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
		}
		return matched[i].SubmittedAt.Before(matched[j].SubmittedAt)
	})

	total := int64(len(matched))
	return paginate(matched, filters.Offset, filters.Limit), total, nil
}

func (s *SubmissionStore) CountByStudentAndExam(_ context.Context, studentID models.StudentID, examID models.ExamID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.records {
		if rec.StudentID == studentID && rec.ExamID == examID {
			count++
		}
	}
	return count, nil
}

func matches(rec *models.Submission, f repositories.SubmissionFilters) bool {
	if f.StudentID != nil && rec.StudentID != *f.StudentID {
		return false
	}
	if f.ExamID != nil && rec.ExamID != *f.ExamID {
		return false
	}
	if f.DateFrom != nil && rec.SubmittedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && rec.SubmittedAt.After(*f.DateTo) {
		return false
	}
	return true
}
