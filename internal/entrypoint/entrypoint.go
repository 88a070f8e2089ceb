package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/hanzi/internal/audit"
	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/database"
	auditrepo "github.com/mrlokans/hanzi/internal/database/audit"
	"github.com/mrlokans/hanzi/internal/database/users"
	"github.com/mrlokans/hanzi/internal/database/vocabulary"
	http_controllers "github.com/mrlokans/hanzi/internal/http"
	"github.com/mrlokans/hanzi/internal/importers"
	"github.com/mrlokans/hanzi/internal/logging"
	"github.com/mrlokans/hanzi/internal/scheduler"
	"github.com/mrlokans/hanzi/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests first so running imports can finish
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting hanzi", zap.String("version", version))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database", zap.Error(err))
		}
	}()

	vocabRepo := vocabulary.NewRepository(db.DB)
	importer := importers.NewImporter(vocabRepo, logger.Named("importer"))
	validator, err := importers.NewValidator(vocabRepo)
	if err != nil {
		logger.Fatal("failed to load entry schema", zap.Error(err))
	}

	var auditor *audit.Auditor
	if cfg.Audit.Dir != "" {
		auditor = audit.NewAuditor(cfg.Audit.Dir)
		logger.Info("import logs will be written to disk", zap.String("dir", cfg.Audit.Dir))
	}
	auditService := audit.NewService(auditrepo.NewRepository(db.DB), auditor, logger.Named("audit"))

	// Task queue for retried background work
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromAppConfig(cfg.Tasks), logger)
		if err != nil {
			logger.Fatal("failed to initialize task queue", zap.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService, logger.Named("tasks")))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var enqueuer scheduler.CleanupEnqueuer
	if taskClient != nil {
		enqueuer = taskClient
	}
	cleanupScheduler := scheduler.NewAuditCleanupScheduler(enqueuer, auditService, cfg.Audit, logger)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := cleanupScheduler.Start(schedulerCtx); err != nil {
		logger.Fatal("failed to start audit cleanup scheduler", zap.Error(err))
	}

	var tokens *auth.TokenManager
	var authenticator http_controllers.Authenticator
	if cfg.Auth.Mode == config.AuthModeJWT {
		logger.Info("authentication mode: jwt")
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenExpiry)
		authenticator = auth.NewService(users.NewRepository(db.DB), tokens, cfg.Auth)
	} else {
		logger.Warn("authentication mode: none, every request acts as admin")
	}

	limiter := auth.NewUploadLimiter(auth.UploadLimitConfig{
		MaxUploads: cfg.RateLimit.MaxUploads,
		Window:     cfg.RateLimit.Window,
	})

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Importer:        importer,
		Validator:       validator,
		VocabularyStore: vocabRepo,
		Database:        db,
		AuditLogger:     auditService,
		AuditReader:     auditService,
		AuthMiddleware:  auth.NewMiddleware(tokens, cfg.Auth),
		Authenticator:   authenticator,
		UploadLimiter:   limiter,
		Upload:          cfg.Upload,
		Logger:          logger,
		Version:         version,
	})

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		limiter.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Wait()
	}

	Serve(router, cfg, logger, onShutdown)
}
