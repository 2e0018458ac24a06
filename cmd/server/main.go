package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/handlers"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/repositories/memory"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/seed"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/SAP-F-2025/exam-service/pkg"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Environment, os.Stdout)
	slogger := logger.Slog()
	slog.SetDefault(slogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// Storage

	var cacheService cache.CacheService
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		cacheService = cache.NewRedisCache(client, "exam-service", slogger)
		logger.Info("Redis cache enabled")
	}

	repo, err := openRepository(cfg, cacheService)
	if err != nil {
		return err
	}
	defer repo.Close()

	v := validator.New()

	if cfg.SeedFile != "" {
		bundle, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		result, err := seed.Apply(ctx, repo, v, bundle)
		if err != nil {
			return err
		}
		logger.Info("Seed applied",
			"file", cfg.SeedFile,
			"questions", result.QuestionsCreated,
			"exams", result.ExamsCreated,
			"skipped", result.Skipped)
	}

	// =========================================================================
	// Services

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	managerConfig := services.ServiceManagerConfig{
		Attempt: services.AttemptConfig{MaxAttemptsPerExam: cfg.MaxAttemptsPerExam},
		Sessions: func(attempts services.AttemptService) services.SessionRegistry {
			if cacheService != nil {
				return services.NewCacheSessionRegistry(cacheService, attempts, cfg.SessionTTL)
			}
			return services.NewMemorySessionRegistry(cfg.SessionTTL)
		},
	}
	serviceManager := services.NewServiceManager(repo, publisher, slogger, v, managerConfig)

	// =========================================================================
	// HTTP

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	routerConfig := handlers.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Health:         repo,
		StaffUserIDs:   cfg.StaffUserIDs,
	}
	if cfg.Casdoor.Enabled() {
		routerConfig.TokenParser = handlers.NewCasdoorTokenParser(cfg.Casdoor)
	} else {
		logger.Warn("Casdoor not configured, trusting X-User-ID header")
	}
	if len(cfg.StaffUserIDs) == 0 {
		logger.Warn("STAFF_USER_IDS is empty, question import and results export are disabled")
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, v, logger, routerConfig)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlerManager.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Exam service listening", "addr", server.Addr, "environment", cfg.Environment, "driver", cfg.DatabaseDriver)
		serverErrors <- server.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Start shutdown...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "could not stop server gracefully")
		return server.Close()
	}
	return nil
}

func openRepository(cfg *config.Config, cacheService cache.CacheService) (repositories.Repository, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		return memory.NewRepository(), nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.AutoMigrate(db); err != nil {
		return nil, err
	}

	repo := postgres.NewRepository(db, cacheService)
	repo.SetQuestionCacheTTL(cfg.QuestionCacheTTL)
	return repo, nil
}
