package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/entities"
	"github.com/mrlokans/hanzi/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(logging.GinMiddleware(logger.Named("http")))
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	authMiddleware := cfg.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(nil, config.Auth{Mode: config.AuthModeNone})
	}
	router.Use(authMiddleware.Handler())
	requireAdmin := authMiddleware.RequireRole(entities.UserRoleAdmin)
	requireUser := authMiddleware.RequireRole(entities.UserRoleUser)

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	if cfg.Authenticator != nil {
		authController := NewAuthController(cfg.Authenticator, cfg.AuditLogger)
		api.POST("/auth/login", authController.Login)
		api.GET("/auth/me", requireUser, authController.Me)
	}

	if cfg.Importer != nil {
		imports := NewCedictImportController(cfg.Importer, cfg.Validator, cfg.AuditLogger, cfg.UploadLimiter, cfg.Upload, logger)

		uploads := api.Group("/vocabulary/import/cedict", requireAdmin)
		if cfg.UploadLimiter != nil {
			uploads.Use(cfg.UploadLimiter.Middleware())
		}
		uploads.POST("", imports.ImportSingle)
		uploads.POST("/multiple", imports.ImportMultiple)
		if cfg.Validator != nil {
			uploads.POST("/validate", imports.Validate)
		}
	}

	if cfg.VocabularyStore != nil {
		vocab := NewVocabularyController(cfg.VocabularyStore, cfg.AuditLogger)
		api.GET("/vocabulary", requireUser, vocab.List)
		api.GET("/vocabulary/search", requireUser, vocab.Search)
		api.GET("/vocabulary/stats", requireUser, vocab.Stats)
		api.GET("/vocabulary/:id", requireUser, vocab.Get)
		api.DELETE("/vocabulary/:id", requireAdmin, vocab.Delete)
	}

	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		api.GET("/audit/imports", requireAdmin, auditController.ListImports)
	}

	return router
}
