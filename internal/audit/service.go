package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mrlokans/hanzi/internal/database/audit"
	"github.com/mrlokans/hanzi/internal/entities"
	"github.com/mrlokans/hanzi/internal/importers"
)

const ActionCedictImport = "cedict_import"

// Service provides high-level audit logging functionality. Writes happen in
// the background; Wait blocks until they are done.
type Service struct {
	repo    *audit.Repository
	auditor *Auditor
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewService creates a new audit service. auditor may be nil, in which case
// import logs are only stored in the database.
func NewService(repo *audit.Repository, auditor *Auditor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, auditor: auditor, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			s.logger.Error("failed to log audit event", zap.String("action", event.Action), zap.Error(err))
		}
	}()
}

// Wait blocks until background writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogImport records a completed import request. err is the request-level
// failure, if any; item and file failures only change the status to partial.
func (s *Service) LogImport(userID uint, ipAddr string, log importers.ImportLog, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventImport,
		Action:      ActionCedictImport,
		Description: fmt.Sprintf("CC-CEDICT %s import: %d of %d entries imported from %d file(s)", log.Kind, log.Success, log.Total, len(log.Files)),
		EntityType:  "vocabulary",
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
		DurationMs:  log.DurationMs,
	}

	if log.Failed > 0 {
		event.Status = entities.AuditStatusPartial
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	if mdBytes, e := json.Marshal(log); e == nil {
		event.Metadata = string(mdBytes)
	}

	if s.auditor != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			name, e := s.auditor.SaveImportLog(log)
			if e != nil {
				s.logger.Error("failed to write import log file", zap.Error(e))
				return
			}
			s.logger.Debug("import log file written", zap.String("file", name))
		}()
	}

	s.LogAsync(event)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(userID uint, entityType string, entityID uint, entityName string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: "Deleted " + entityType + ": " + entityName,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action string, ipAddr string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// ListEvents retrieves paginated audit events.
func (s *Service) ListEvents(ctx context.Context, filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.ListEvents(ctx, filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
