package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExamHandler struct {
	BaseHandler
	examService         services.ExamService
	importExportService services.ImportExportService
}

func NewExamHandler(examService services.ExamService, importExportService services.ImportExportService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler:         NewBaseHandler(logger),
		examService:         examService,
		importExportService: importExportService,
	}
}

// ListExams lists exam definitions, optionally filtered by class or subject
// @Router /exams [get]
func (h *ExamHandler) ListExams(c *gin.Context) {
	limit, offset := parsePagination(c)
	filters := repositories.ExamFilters{Limit: limit, Offset: offset}
	if classID := c.Query("class_id"); classID != "" {
		filters.ClassID = &classID
	}
	if subjectID := c.Query("subject_id"); subjectID != "" {
		filters.SubjectID = &subjectID
	}

	exams, total, err := h.examService.ListExams(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	views := make([]*ExamView, len(exams))
	for i, e := range exams {
		views[i] = newExamView(e)
	}
	c.JSON(http.StatusOK, ListResponse{Items: views, Total: total, Limit: limit, Offset: offset})
}

// GetExam returns an exam definition
// @Router /exams/{id} [get]
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}

	exam, err := h.examService.GetExam(c.Request.Context(), models.ExamID(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newExamView(exam))
}

// ExportResults downloads every submission for the exam as an xlsx workbook
// @Router /exams/{id}/results/export [get]
func (h *ExamHandler) ExportResults(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting exam results", "exam_id", id)

	data, err := h.importExportService.ExportExamResults(c.Request.Context(), models.ExamID(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-results.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}
