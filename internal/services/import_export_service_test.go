package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const questionsCSV = `id,question_text,option_a,option_b,option_c,option_d,correct_answer
Q10,Largest planet?,Mars,Jupiter,Venus,Earth,B
Q11,Duplicate options,Yes,Yes,No,Maybe,A
Q12,Bad letter,1,2,3,4,E
Q1,Already exists,a,b,c,d,A
`

func TestImportExportService_ImportQuestionsFromCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})

	result, err := f.manager.ImportExport().ImportQuestionsFromCSV(ctx, strings.NewReader(questionsCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 4, result.ProcessedRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 3, result.ErrorCount)

	rows := map[int]bool{}
	for _, e := range result.Errors {
		rows[e.Row] = true
	}
	assert.Equal(t, map[int]bool{3: true, 4: true, 5: true}, rows)

	q, err := f.manager.QuestionBank().GetQuestion(ctx, "Q10")
	require.NoError(t, err)
	assert.Equal(t, models.Option("Jupiter"), q.CorrectAnswer)
	assert.Len(t, q.Options, models.OptionsPerQuestion)
}

func TestImportExportService_ImportRejectsMissingColumns(t *testing.T) {
	f := newFixture(t, ServiceManagerConfig{})

	_, err := f.manager.ImportExport().ImportQuestionsFromCSV(context.Background(),
		strings.NewReader("id,question_text,correct_answer\nQ1,x,A\n"))
	assert.True(t, IsValidation(err))
}

func TestImportExportService_ImportQuestionsFromExcel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})

	wb := excelize.NewFile()
	rows := [][]interface{}{
		{"ID", "Question_Text", "Option_A", "Option_B", "Option_C", "Option_D", "Correct_Answer"},
		{"Q20", "Boiling point of water (C)?", "90", "100", "110", "120", "b"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	result, err := f.manager.ImportExport().ImportQuestionsFromFile(ctx, &buf, "questions.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	q, err := f.manager.QuestionBank().GetQuestion(ctx, "Q20")
	require.NoError(t, err)
	assert.Equal(t, models.Option("100"), q.CorrectAnswer)
}

func TestImportExportService_UnsupportedFormat(t *testing.T) {
	f := newFixture(t, ServiceManagerConfig{})

	_, err := f.manager.ImportExport().ImportQuestionsFromFile(context.Background(), strings.NewReader(""), "questions.txt")
	assert.True(t, IsValidation(err))
}

func TestImportExportService_ExportExamResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})

	session := f.start(t, "student-1")
	require.NoError(t, session.SelectAnswer("Q1", "Paris"))
	_, err := session.Finalize(ctx)
	require.NoError(t, err)

	data, err := f.manager.ImportExport().ExportExamResults(ctx, "E1")
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Student ID", rows[0][1])
	assert.Equal(t, "student-1", rows[1][1])
	assert.Equal(t, "General knowledge", rows[1][2])
	assert.Equal(t, "1", rows[1][4])
	assert.Equal(t, "2", rows[1][5])

	_, err = f.manager.ImportExport().ExportExamResults(ctx, "missing")
	assert.ErrorIs(t, err, ErrExamNotFound)
}
