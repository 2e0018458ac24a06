package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	AllowedOrigins []string
	// TokenParser enables bearer token auth. Nil falls back to X-User-ID.
	TokenParser TokenParser
	Health      Pinger
	// StaffUserIDs gates question import and results export.
	StaffUserIDs []string
}

type HandlerManager struct {
	attemptHandler    *AttemptHandler
	submissionHandler *SubmissionHandler
	examHandler       *ExamHandler
	questionHandler   *QuestionHandler
	logger            utils.Logger
	config            RouterConfig
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	config RouterConfig,
) *HandlerManager {
	return &HandlerManager{
		attemptHandler:    NewAttemptHandler(serviceManager.Attempt(), serviceManager.Sessions(), validator, logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), logger),
		examHandler:       NewExamHandler(serviceManager.Exam(), serviceManager.ImportExport(), logger),
		questionHandler:   NewQuestionHandler(serviceManager.QuestionBank(), serviceManager.ImportExport(), logger),
		logger:            logger,
		config:            config,
	}
}

// NewRouter builds a gin engine with the middleware chain and all routes.
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		requestContext(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
		cors.New(corsConfig(hm.config.AllowedOrigins)),
	)
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(hm.config.TokenParser))
	staffOnly := RequireStaff(hm.config.StaffUserIDs)
	{
		attempts := v1.Group("/attempts")
		{
			attempts.POST("", hm.attemptHandler.StartAttempt)
			attempts.GET("/:token", hm.attemptHandler.GetAttempt)
			attempts.PUT("/:token/answers", hm.attemptHandler.SelectAnswer)
			attempts.POST("/:token/next", hm.attemptHandler.NextQuestion)
			attempts.POST("/:token/previous", hm.attemptHandler.PreviousQuestion)
			attempts.POST("/:token/finalize", hm.attemptHandler.FinalizeAttempt)
		}

		submissions := v1.Group("/submissions")
		{
			submissions.GET("", hm.submissionHandler.ListMySubmissions)
			submissions.GET("/:id", hm.submissionHandler.GetSubmission)
			submissions.GET("/:id/review", hm.submissionHandler.ReviewSubmission)
		}

		exams := v1.Group("/exams")
		{
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.GET("/:id/results/export", staffOnly, hm.examHandler.ExportResults)
		}

		questions := v1.Group("/questions")
		{
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.POST("/import", staffOnly, hm.questionHandler.ImportQuestions)
		}
	}
}

// HealthCheck reports service status and, when configured, storage reachability
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if hm.config.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := hm.config.Health.Ping(ctx); err != nil {
			hm.logger.LogError(err, "Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "exam-service",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-service",
	})
}

// requestContext carries the request id into the context services log with.
func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := services.WithRequestID(c.Request.Context(), utils.GetRequestID(c))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", userIDHeader, utils.RequestIDHeader},
		ExposeHeaders: []string{utils.RequestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}
