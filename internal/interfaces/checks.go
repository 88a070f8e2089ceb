package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/hanzi/internal/audit"
	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/database"
	"github.com/mrlokans/hanzi/internal/database/users"
	"github.com/mrlokans/hanzi/internal/database/vocabulary"
	"github.com/mrlokans/hanzi/internal/http"
	"github.com/mrlokans/hanzi/internal/importers"
	"github.com/mrlokans/hanzi/internal/scheduler"
	"github.com/mrlokans/hanzi/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Vocabulary store implementations
var _ importers.Store = (*vocabulary.Repository)(nil)
var _ importers.ExistenceChecker = (*vocabulary.Repository)(nil)
var _ http.VocabularyStore = (*vocabulary.Repository)(nil)

// UserStore implementations
var _ auth.UserStore = (*users.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ http.VocabularyImporter = (*importers.Importer)(nil)
var _ http.BatchValidator = (*importers.Validator)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.AuditLogger = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Auth and Background Work
// =============================================================================

var _ http.Authenticator = (*auth.Service)(nil)
var _ http.UploadCounter = (*auth.UploadLimiter)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
