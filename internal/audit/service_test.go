package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/hanzi/internal/database/audit"
	"github.com/mrlokans/hanzi/internal/entities"
	"github.com/mrlokans/hanzi/internal/importers"
)

func setupTestService(t *testing.T, auditor *Auditor) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewService(auditRepo.NewRepository(db), auditor, zap.NewNop()), db
}

func sampleLog(failed int) importers.ImportLog {
	return importers.ImportLog{
		Kind:       importers.ImportKindMulti,
		Files:      []importers.LoggedFile{{Name: "a.json"}, {Name: "b.json"}},
		Total:      10,
		Success:    10 - failed,
		Failed:     failed,
		Errors:     make([]importers.ItemError, 0),
		Successes:  make([]importers.ItemSuccess, 0),
		StartedAt:  time.Now(),
		DurationMs: 250,
	}
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t, nil)

	event := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventImport,
		Action:    "test_import",
		Status:    entities.AuditStatusSuccess,
	}

	require.NoError(t, svc.Log(context.Background(), event))

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "test_import", saved.Action)
}

func TestService_LogImport(t *testing.T) {
	tests := []struct {
		name   string
		failed int
		err    error
		status entities.AuditStatus
	}{
		{"all imported", 0, nil, entities.AuditStatusSuccess},
		{"some failed", 3, nil, entities.AuditStatusPartial},
		{"request failed", 0, errors.New("expected a JSON array of entries"), entities.AuditStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setupTestService(t, nil)

			svc.LogImport(7, "10.0.0.1", sampleLog(tt.failed), tt.err)
			svc.Wait()

			var event entities.AuditEvent
			require.NoError(t, db.Where("action = ?", ActionCedictImport).First(&event).Error)
			assert.Equal(t, uint(7), event.UserID)
			assert.Equal(t, tt.status, event.Status)
			assert.Equal(t, "10.0.0.1", event.IPAddress)
			assert.Equal(t, int64(250), event.DurationMs)
			assert.Contains(t, event.Description, "2 file(s)")

			var meta importers.ImportLog
			require.NoError(t, json.Unmarshal([]byte(event.Metadata), &meta))
			assert.Equal(t, tt.failed, meta.Failed)

			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), event.ErrorMsg)
			}
		})
	}
}

func TestService_LogImport_WritesAuditFile(t *testing.T) {
	dir := t.TempDir()
	svc, _ := setupTestService(t, NewAuditor(dir))

	svc.LogImport(1, "", sampleLog(0), nil)
	svc.Wait()

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestService_LogDeleteAndAuth(t *testing.T) {
	svc, db := setupTestService(t, nil)

	svc.LogDelete(1, "vocabulary", 42, "你好")
	svc.LogAuth(1, "login", "127.0.0.1", false)
	svc.Wait()

	var deleteEvent entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventDelete).First(&deleteEvent).Error)
	assert.Equal(t, "vocabulary_delete", deleteEvent.Action)
	require.NotNil(t, deleteEvent.EntityID)
	assert.Equal(t, uint(42), *deleteEvent.EntityID)

	var authEvent entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventAuth).First(&authEvent).Error)
	assert.Equal(t, entities.AuditStatusFailed, authEvent.Status)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{EventType: entities.AuditEventImport, CreatedAt: time.Now().Add(-72 * time.Hour)}))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{EventType: entities.AuditEventImport}))

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := svc.ListEvents(ctx, auditRepo.EventFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, events, 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghijk", 7))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "你...", truncate("你好世界", 8))

	msg := "item 12 (" + strings.Repeat("汉", 200) + "): headword too long"
	got := truncate(msg, 500)
	assert.LessOrEqual(t, len(got), 500)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
