package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

var optionColumns = []string{"option_a", "option_b", "option_c", "option_d"}

type importExportService struct {
	repo        repositories.Repository
	exams       ExamService
	submissions SubmissionService
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewImportExportService(repo repositories.Repository, exams ExamService, submissions SubmissionService, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:        repo,
		exams:       exams,
		submissions: submissions,
		logger:      logger,
		validator:   validator,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportResult struct {
	TotalRows     int                            `json:"total_rows"`
	ProcessedRows int                            `json:"processed_rows"`
	SuccessCount  int                            `json:"success_count"`
	ErrorCount    int                            `json:"error_count"`
	Errors        []models.ImportValidationError `json:"errors"`
	Questions     []*models.Question             `json:"questions,omitempty"`
}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error) {
	s.logger.Info("Starting file import", "filename", filename)

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader)
	case ".xlsx":
		return s.ImportQuestionsFromExcel(ctx, reader)
	default:
		return nil, ValidationErrors{*NewValidationError("file", "unsupported file format", ext)}
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.importRows(ctx, records, "CSV")
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ValidationErrors{*NewValidationError("file", "Excel file has no sheets", nil)}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.importRows(ctx, rows, "Excel")
}

// importRows parses a header row plus data rows, validates every row and
// stores the valid questions. Invalid rows are reported, not fatal.
func (s *importExportService) importRows(ctx context.Context, rows [][]string, format string) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, ValidationErrors{*NewValidationError("file",
			fmt.Sprintf("%s must have header row and at least one data row", format), len(rows))}
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	requiredColumns := append([]string{"id", "question_text", "correct_answer"}, optionColumns...)
	for _, col := range requiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, ValidationErrors{*NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)}
		}
	}

	result := &ImportResult{
		TotalRows: len(rows) - 1,
	}

	for rowIndex, record := range rows[1:] {
		rowNum := rowIndex + 2
		result.ProcessedRows++

		question, rowErrors := s.parseRow(record, headerMap, rowNum)
		if len(rowErrors) == 0 {
			rowErrors = s.saveQuestion(ctx, question, rowNum)
		}
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}

		result.Questions = append(result.Questions, question)
		result.SuccessCount++
	}

	s.logger.Info(format+" import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportValidationError) {
	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	options := make(datatypes.JSONSlice[models.Option], 0, len(optionColumns))
	for _, col := range optionColumns {
		options = append(options, models.Option(getColumn(col)))
	}

	// Correct answer is given as the option letter A-D
	letter := strings.ToUpper(getColumn("correct_answer"))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'D' {
		return nil, []models.ImportValidationError{{
			Row: rowNum, Column: "correct_answer", Message: "must be one of A, B, C or D", Value: letter, Code: "correct_answer",
		}}
	}

	question := &models.Question{
		ID:            models.QuestionID(getColumn("id")),
		Text:          getColumn("question_text"),
		Options:       options,
		CorrectAnswer: options[letter[0]-'A'],
	}

	if err := s.validator.Validate(question); err != nil {
		return nil, toImportErrors(err, rowNum)
	}

	return question, nil
}

func (s *importExportService) saveQuestion(ctx context.Context, question *models.Question, rowNum int) []models.ImportValidationError {
	err := s.repo.Question().Create(ctx, question)
	if err == nil {
		return nil
	}

	message := "failed to store question"
	if errors.Is(err, repositories.ErrDuplicateID) {
		message = "question id already exists"
	} else {
		s.logger.Error("Failed to store imported question", "question_id", question.ID, "error", err)
	}
	return []models.ImportValidationError{{
		Row: rowNum, Column: "id", Message: message, Value: string(question.ID), Code: "store",
	}}
}

func toImportErrors(err error, rowNum int) []models.ImportValidationError {
	var validationErrs ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []models.ImportValidationError{{Row: rowNum, Message: err.Error()}}
	}

	out := make([]models.ImportValidationError, 0, len(validationErrs))
	for _, ve := range validationErrs {
		out = append(out, models.ImportValidationError{
			Row:     rowNum,
			Column:  ve.Field,
			Message: ve.Message,
			Value:   fmt.Sprintf("%v", ve.Value),
			Code:    ve.Rule,
		})
	}
	return out
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportExamResults(ctx context.Context, examID models.ExamID) ([]byte, error) {
	exam, err := s.exams.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	submissions, _, err := s.submissions.ListByExam(ctx, examID, repositories.SubmissionFilters{SortOrder: "asc"})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Results"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Submission ID", "Student ID", "Exam", "Submitted At", "Score", "Total Questions", "Percentage"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, submission := range submissions {
		percentage := 0.0
		if submission.TotalQuestions > 0 {
			percentage = float64(submission.Score) * 100 / float64(submission.TotalQuestions)
		}

		row := []interface{}{
			string(submission.ID),
			string(submission.StudentID),
			exam.Title,
			submission.SubmittedAt.Format("2006-01-02 15:04:05"),
			submission.Score,
			submission.TotalQuestions,
			percentage,
		}

		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}
