// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── vocabulary/      # Vocabulary records, upsert by headword
//	├── audit/           # Audit events
//	└── users/           # User accounts
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./hanzi.db", "warn")
//
//	// Create domain-specific repositories
//	vocabRepo := vocabulary.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	// Use repositories
//	res, err := vocabRepo.Upsert(ctx, record)
//
// # Interface Implementations
//
//   - vocabulary.Repository: implements importers.Store, importers.ExistenceChecker and http.VocabularyStore
//   - audit.Repository: backs audit.Service
//   - users.Repository: implements auth.UserStore
//   - users.Repository: implements auth.UserStore
//
// The connection is opened with gorm's TranslateError so that unique index
// violations surface as gorm.ErrDuplicatedKey.
package database
