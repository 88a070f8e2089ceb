// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - importers.Store: Upsert of normalized vocabulary (internal/importers/batch.go)
//   - importers.ExistenceChecker: Headword lookups for dry runs (internal/importers/validator.go)
//   - VocabularyStore: Browse and delete vocabulary (internal/http/stores.go)
//   - UserStore: Account persistence (internal/auth/service.go)
//
// ## Import Interfaces
//
//   - VocabularyImporter: Single and multi-file imports (internal/http/stores.go)
//   - BatchValidator: Schema checks without writes (internal/http/stores.go)
//
// ## Audit and Background Work
//
//   - AuditLogger / AuditReader: Audit trail (internal/http/stores.go)
//   - AuditEventCleaner: Retention cleanup (internal/tasks/cleanup_audit.go)
//   - CleanupEnqueuer: Scheduled cleanup jobs (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Import Format
//
//  1. Parse the upload into []importers.RawEntry in internal/importers/
//
//  2. Reuse importers.Importer.RunBatch so items keep their independent
//     failure semantics and the result shape stays the same
//
//  3. Add a handler in internal/http/ and register the route in router.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
