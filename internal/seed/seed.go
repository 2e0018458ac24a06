// Package seed loads question and exam definitions from YAML at startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

type Bundle struct {
	Questions []QuestionInput `yaml:"questions"`
	Exams     []ExamInput     `yaml:"exams"`
}

type QuestionInput struct {
	ID            string   `yaml:"id"`
	Text          string   `yaml:"text"`
	Options       []string `yaml:"options"`
	CorrectAnswer string   `yaml:"correct_answer"`
}

type ExamInput struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	ClassID     string   `yaml:"class_id"`
	SubjectID   string   `yaml:"subject_id"`
	QuestionIDs []string `yaml:"questions"`
}

// Result counts what Apply stored. Records whose id already exists are
// skipped so a restart can re-apply the same file.
type Result struct {
	QuestionsCreated int
	ExamsCreated     int
	Skipped          int
}

func Load(r io.Reader) (*Bundle, error) {
	bundle := &Bundle{}
	if err := yaml.NewDecoder(r).Decode(bundle); err != nil {
		if errors.Is(err, io.EOF) {
			return bundle, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return bundle, nil
}

func LoadFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Apply validates every record before storing any, so a bad file leaves the
// repository untouched.
func Apply(ctx context.Context, repo repositories.Repository, v *validator.Validator, bundle *Bundle) (*Result, error) {
	questions := make([]*models.Question, 0, len(bundle.Questions))
	for i, in := range bundle.Questions {
		q := in.toModel()
		if err := v.Validate(q); err != nil {
			return nil, fmt.Errorf("question %d (%s): %w", i+1, in.ID, err)
		}
		questions = append(questions, q)
	}

	exams := make([]*models.Exam, 0, len(bundle.Exams))
	for i, in := range bundle.Exams {
		e := in.toModel()
		if err := v.Validate(e); err != nil {
			return nil, fmt.Errorf("exam %d (%s): %w", i+1, in.ID, err)
		}
		exams = append(exams, e)
	}

	result := &Result{}
	for _, q := range questions {
		switch err := repo.Question().Create(ctx, q); {
		case errors.Is(err, repositories.ErrDuplicateID):
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("failed to store question %s: %w", q.ID, err)
		default:
			result.QuestionsCreated++
		}
	}
	for _, e := range exams {
		switch err := repo.Exam().Create(ctx, e); {
		case errors.Is(err, repositories.ErrDuplicateID):
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("failed to store exam %s: %w", e.ID, err)
		default:
			result.ExamsCreated++
		}
	}
	return result, nil
}

func (in QuestionInput) toModel() *models.Question {
	options := make(datatypes.JSONSlice[models.Option], len(in.Options))
	for i, o := range in.Options {
		options[i] = models.Option(o)
	}
	return &models.Question{
		ID:            models.QuestionID(in.ID),
		Text:          in.Text,
		Options:       options,
		CorrectAnswer: models.Option(in.CorrectAnswer),
	}
}

func (in ExamInput) toModel() *models.Exam {
	ids := make(datatypes.JSONSlice[models.QuestionID], len(in.QuestionIDs))
	for i, id := range in.QuestionIDs {
		ids[i] = models.QuestionID(id)
	}
	return &models.Exam{
		ID:          models.ExamID(in.ID),
		Title:       in.Title,
		ClassID:     in.ClassID,
		SubjectID:   in.SubjectID,
		QuestionIDs: ids,
	}
}
