package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/datatypes"
)

// submissionRecorder is the slice of SubmissionService a session needs to finalize.
type submissionRecorder interface {
	Append(ctx context.Context, submission *models.Submission) error
	FindByAttemptToken(ctx context.Context, token string) (*models.Submission, error)
}

// AttemptSession is one student's pass through one exam. It is safe for
// concurrent use; every operation is serialized on the session.
//
// State moves in_progress -> finalizing -> submitted. A failed store write
// moves finalizing back to in_progress so Finalize can be retried.
type AttemptSession struct {
	mu sync.Mutex

	token     string
	studentID models.StudentID
	exam      *models.Exam
	questions []*models.Question
	position  map[models.QuestionID]int

	answers    models.AnswerMap
	current    int
	state      models.AttemptState
	startedAt  time.Time
	submission *models.Submission
	// resumed is set when the session was restored from a finalizing
	// snapshot, the only case where an earlier reply can have been lost.
	resumed bool

	recorder    submissionRecorder
	onSubmitted func(ctx context.Context, submission *models.Submission)
	now         func() time.Time
}

func newAttemptSession(token string, studentID models.StudentID, exam *models.Exam, questions []*models.Question, recorder submissionRecorder) *AttemptSession {
	position := make(map[models.QuestionID]int, len(questions))
	for i, q := range questions {
		position[q.ID] = i
	}

	return &AttemptSession{
		token:     token,
		studentID: studentID,
		exam:      exam.Clone(),
		questions: questions,
		position:  position,
		answers:   make(models.AnswerMap),
		state:     models.AttemptInProgress,
		startedAt: time.Now().UTC(),
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ===== READ ACCESSORS =====

func (s *AttemptSession) Token() string {
	return s.token
}

func (s *AttemptSession) StudentID() models.StudentID {
	return s.studentID
}

func (s *AttemptSession) Exam() *models.Exam {
	return s.exam.Clone()
}

func (s *AttemptSession) StartedAt() time.Time {
	return s.startedAt
}

// Questions returns the question list resolved when the attempt started.
func (s *AttemptSession) Questions() []*models.Question {
	out := make([]*models.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.Clone()
	}
	return out
}

func (s *AttemptSession) QuestionCount() int {
	return len(s.questions)
}

func (s *AttemptSession) State() models.AttemptState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *AttemptSession) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *AttemptSession) CurrentQuestion() *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.current].Clone()
}

func (s *AttemptSession) Answers() models.AnswerMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Submission returns the stored submission once the attempt is submitted, else nil.
func (s *AttemptSession) Submission() *models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submission == nil {
		return nil
	}
	return s.submission.Clone()
}

// ===== STATE TRANSITIONS =====

// activeLocked reports why the session cannot be modified. Callers hold mu.
func (s *AttemptSession) activeLocked() error {
	switch s.state {
	case models.AttemptInProgress:
		return nil
	case models.AttemptSubmitted:
		return ErrAlreadySubmitted
	default:
		return ErrAttemptNotActive
	}
}

// SelectAnswer records option for questionID, replacing any earlier choice.
// The cursor does not move.
func (s *AttemptSession) SelectAnswer(questionID models.QuestionID, option models.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return err
	}

	idx, ok := s.position[questionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrQuestionNotInExam, questionID)
	}
	if !s.questions[idx].HasOption(option) {
		return fmt.Errorf("%w: question %s", ErrInvalidOption, questionID)
	}

	s.answers[questionID] = option
	return nil
}

// Next advances the cursor, staying on the last question at the end.
func (s *AttemptSession) Next() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return s.current, err
	}
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return s.current, nil
}

// Previous moves the cursor back, staying on the first question at the start.
func (s *AttemptSession) Previous() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return s.current, err
	}
	if s.current > 0 {
		s.current--
	}
	return s.current, nil
}

// Finalize scores the answers, stores the submission and returns it. It
// succeeds at most once per session.
func (s *AttemptSession) Finalize(ctx context.Context) (*models.Submission, error) {
	s.mu.Lock()
	switch s.state {
	case models.AttemptSubmitted, models.AttemptFinalizing:
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	case models.AttemptInProgress:
	default:
		s.mu.Unlock()
		return nil, ErrAttemptNotActive
	}
	s.state = models.AttemptFinalizing
	answers := s.answers.Clone()
	s.mu.Unlock()

	score, total := ScoreAnswers(s.questions, answers)
	submission := &models.Submission{
		AttemptToken:   s.token,
		StudentID:      s.studentID,
		ExamID:         s.exam.ID,
		Answers:        datatypes.NewJSONType(answers),
		Score:          score,
		TotalQuestions: total,
		SubmittedAt:    s.now(),
	}

	stored, err := s.store(ctx, submission)

	s.mu.Lock()
	switch {
	case err == nil:
	case stored != nil:
		// Another copy of this attempt already finalized
		s.state = models.AttemptSubmitted
		s.submission = stored
		s.mu.Unlock()
		return nil, err
	default:
		s.state = models.AttemptInProgress
		s.mu.Unlock()
		return nil, err
	}
	s.state = models.AttemptSubmitted
	s.submission = stored
	s.mu.Unlock()

	if s.onSubmitted != nil {
		s.onSubmitted(ctx, stored.Clone())
	}

	return stored.Clone(), nil
}

// store appends the submission. When a submission is already stored under
// this session's token, a resumed session adopts it as its own result; any
// other session returns it together with ErrAlreadySubmitted.
func (s *AttemptSession) store(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	err := s.recorder.Append(ctx, submission)
	if err == nil {
		return submission, nil
	}
	if !errors.Is(err, repositories.ErrDuplicateAttemptToken) {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	existing, lookupErr := s.recorder.FindByAttemptToken(ctx, s.token)
	if lookupErr != nil {
		return nil, fmt.Errorf("failed to load existing submission: %w", lookupErr)
	}
	if !s.resumed {
		return existing, ErrAlreadySubmitted
	}
	return existing, nil
}

// ===== SNAPSHOTS =====

// AttemptSnapshot is the serializable form of a session, used to persist it
// between requests.
type AttemptSnapshot struct {
	Token        string              `json:"token"`
	StudentID    models.StudentID    `json:"student_id"`
	Exam         models.Exam         `json:"exam"`
	Questions    []models.Question   `json:"questions"`
	Answers      models.AnswerMap    `json:"answers"`
	CurrentIndex int                 `json:"current_index"`
	State        models.AttemptState `json:"state" validate:"required,attempt_state"`
	StartedAt    time.Time           `json:"started_at"`
}

func (s *AttemptSession) Snapshot() *AttemptSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := make([]models.Question, len(s.questions))
	for i, q := range s.questions {
		questions[i] = *q.Clone()
	}

	return &AttemptSnapshot{
		Token:        s.token,
		StudentID:    s.studentID,
		Exam:         *s.exam.Clone(),
		Questions:    questions,
		Answers:      s.answers.Clone(),
		CurrentIndex: s.current,
		State:        s.state,
		StartedAt:    s.startedAt,
	}
}
