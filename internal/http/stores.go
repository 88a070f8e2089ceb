package http

import (
	"context"

	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/database/audit"
	"github.com/mrlokans/hanzi/internal/database/vocabulary"
	"github.com/mrlokans/hanzi/internal/entities"
	"github.com/mrlokans/hanzi/internal/importers"
)

// This file consolidates the collaborator interfaces used by HTTP controllers.

// VocabularyImporter runs CC-CEDICT imports.
type VocabularyImporter interface {
	Import(ctx context.Context, data []byte) (importers.ImportResult, error)
	RunFiles(ctx context.Context, files []importers.File) (importers.MultiFileResult, error)
}

// BatchValidator checks an upload without writing anything.
type BatchValidator interface {
	ValidateBatch(ctx context.Context, data []byte) (importers.ImportResult, error)
}

// VocabularyStore provides read and delete access to vocabulary records.
type VocabularyStore interface {
	GetByID(ctx context.Context, id uint) (*entities.Vocabulary, error)
	List(ctx context.Context, filter vocabulary.ListFilter, limit, offset int) ([]entities.Vocabulary, int64, error)
	Search(ctx context.Context, query string, limit int) ([]entities.Vocabulary, error)
	CountByCategory(ctx context.Context) ([]vocabulary.CategoryCount, error)
	Delete(ctx context.Context, id uint) error
}

// AuditLogger records audit events. Calls never block the request.
type AuditLogger interface {
	LogImport(userID uint, ipAddr string, log importers.ImportLog, err error)
	LogDelete(userID uint, entityType string, entityID uint, entityName string)
	LogAuth(userID uint, action string, ipAddr string, success bool)
}

// AuditReader lists recorded audit events.
type AuditReader interface {
	ListEvents(ctx context.Context, filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// UploadCounter is the part of the upload limiter the import handlers drive.
type UploadCounter interface {
	Reset(key string)
}

// Authenticator logs users in.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
}

// Pinger checks a dependency's health.
type Pinger interface {
	Ping() error
}
