package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
	}
}

// ListMySubmissions lists the caller's submissions, newest first
// @Router /submissions [get]
func (h *SubmissionHandler) ListMySubmissions(c *gin.Context) {
	limit, offset := parsePagination(c)
	filters := repositories.SubmissionFilters{
		Limit:     limit,
		Offset:    offset,
		SortOrder: c.Query("sort"),
	}
	if examID := c.Query("exam_id"); examID != "" {
		id := models.ExamID(examID)
		filters.ExamID = &id
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filters.DateFrom = &from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filters.DateTo = &to
	}

	submissions, total, err := h.submissionService.ListByStudent(c.Request.Context(), models.StudentID(h.extractUserID(c)), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	views := make([]*SubmissionView, len(submissions))
	for i, s := range submissions {
		views[i] = newSubmissionView(s)
	}
	c.JSON(http.StatusOK, ListResponse{Items: views, Total: total, Limit: limit, Offset: offset})
}

// GetSubmission returns one of the caller's submissions
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submission, ok := h.loadOwnedSubmission(c, "view")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSubmissionView(submission))
}

// ReviewSubmission recomputes per-question correctness for a submission
// @Router /submissions/{id}/review [get]
func (h *SubmissionHandler) ReviewSubmission(c *gin.Context) {
	submission, ok := h.loadOwnedSubmission(c, "review")
	if !ok {
		return
	}

	review, err := h.submissionService.Review(c.Request.Context(), submission.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *SubmissionHandler) loadOwnedSubmission(c *gin.Context, action string) (*models.Submission, bool) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return nil, false
	}

	submission, err := h.submissionService.Find(c.Request.Context(), models.SubmissionID(id))
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}

	userID := h.extractUserID(c)
	if string(submission.StudentID) != userID {
		h.handleServiceError(c, services.NewSubmissionAccessError(userID, id, action))
		return nil, false
	}
	return submission, true
}

func parseTimeQuery(c *gin.Context, key string) (time.Time, bool) {
	value := c.Query(key)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
