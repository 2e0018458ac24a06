package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type questionBankService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewQuestionBankService(repo repositories.Repository, logger *slog.Logger) QuestionBankService {
	return &questionBankService{
		repo:   repo,
		logger: logger,
	}
}

func (s *questionBankService) GetQuestion(ctx context.Context, id models.QuestionID) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}
