package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Importer        VocabularyImporter
	Validator       BatchValidator
	VocabularyStore VocabularyStore
	Database        Pinger

	// Audit trail
	AuditLogger AuditLogger
	AuditReader AuditReader

	// Authentication. Authenticator is nil when auth is disabled.
	AuthMiddleware *auth.Middleware
	Authenticator  Authenticator

	// Upload limits
	UploadLimiter *auth.UploadLimiter
	Upload        config.Upload

	Logger  *zap.Logger
	Version string
}
