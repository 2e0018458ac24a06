package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type StartAttemptBody struct {
	ExamID models.ExamID `json:"exam_id" validate:"required,question_id"`
}

type SelectAnswerBody struct {
	QuestionID models.QuestionID `json:"question_id" validate:"required"`
	Option     models.Option     `json:"option" validate:"required"`
}

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	sessions       services.SessionRegistry
	validator      *validator.Validator
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	sessions services.SessionRegistry,
	validator *validator.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		sessions:       sessions,
		validator:      validator,
	}
}

// StartAttempt starts a new attempt on an exam for the caller
// @Router /attempts [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var body StartAttemptBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.ValidateStruct(&body); err != nil {
		h.handleServiceError(c, validator.ToValidationErrors(err))
		return
	}

	h.LogRequest(c, "Starting attempt", "exam_id", body.ExamID)

	session, err := h.attemptService.StartByExamID(c.Request.Context(), &services.StartAttemptRequest{
		ExamID:    body.ExamID,
		StudentID: models.StudentID(h.extractUserID(c)),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAttemptView(session))
}

// GetAttempt returns the caller's attempt without answer keys
// @Router /attempts/{token} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	session, ok := h.loadOwnedSession(c, "view")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newAttemptView(session))
}

// SelectAnswer records or replaces the answer to one question
// @Router /attempts/{token}/answers [put]
func (h *AttemptHandler) SelectAnswer(c *gin.Context) {
	var body SelectAnswerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.ValidateStruct(&body); err != nil {
		h.handleServiceError(c, validator.ToValidationErrors(err))
		return
	}

	h.mutate(c, "answer", func(session *services.AttemptSession) error {
		return session.SelectAnswer(body.QuestionID, body.Option)
	})
}

// NextQuestion moves to the next question, staying put on the last one
// @Router /attempts/{token}/next [post]
func (h *AttemptHandler) NextQuestion(c *gin.Context) {
	h.mutate(c, "navigate", func(session *services.AttemptSession) error {
		_, err := session.Next()
		return err
	})
}

// PreviousQuestion moves to the previous question, staying put on the first one
// @Router /attempts/{token}/previous [post]
func (h *AttemptHandler) PreviousQuestion(c *gin.Context) {
	h.mutate(c, "navigate", func(session *services.AttemptSession) error {
		_, err := session.Previous()
		return err
	})
}

// FinalizeAttempt scores and stores the attempt. A second call is rejected
// with 409.
// @Router /attempts/{token}/finalize [post]
func (h *AttemptHandler) FinalizeAttempt(c *gin.Context) {
	session, ok := h.loadOwnedSession(c, "submit")
	if !ok {
		return
	}

	submission, err := session.Finalize(c.Request.Context())
	if err != nil {
		if session.State() == models.AttemptSubmitted {
			// Another request stored this attempt; keep the live view in step
			if saveErr := h.sessions.Save(c.Request.Context(), session); saveErr != nil {
				h.LogError(c, saveErr, "Failed to save submitted session", "token", session.Token())
			}
		}
		h.handleServiceError(c, err)
		return
	}

	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		// The submission is already durable; only the live view is stale.
		h.LogError(c, err, "Failed to save submitted session", "token", session.Token())
	}

	h.LogRequest(c, "Attempt submitted",
		"token", session.Token(),
		"submission_id", submission.ID,
		"score", submission.Score,
		"total", submission.TotalQuestions,
	)

	c.JSON(http.StatusOK, newSubmissionView(submission))
}

func (h *AttemptHandler) mutate(c *gin.Context, action string, op func(*services.AttemptSession) error) {
	session, ok := h.loadOwnedSession(c, action)
	if !ok {
		return
	}

	if err := op(session); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAttemptView(session))
}

func (h *AttemptHandler) loadOwnedSession(c *gin.Context, action string) (*services.AttemptSession, bool) {
	token, ok := parseStringParam(c, "token")
	if !ok {
		return nil, false
	}

	session, err := h.sessions.Load(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}

	userID := h.extractUserID(c)
	if string(session.StudentID()) != userID {
		h.handleServiceError(c, services.NewAttemptAccessError(userID, token, action))
		return nil, false
	}
	return session, true
}
