package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCleaner struct {
	retention chan time.Duration
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.retention <- retention
	return 3, nil
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{RetentionDays: 7}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{retention: make(chan time.Duration, 1)}
		err := CleanupAuditEventsProcessor(cleaner, zaptest.NewLogger(t))(ctx, CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, <-cleaner.retention)
	})

	t.Run("defaults retention", func(t *testing.T) {
		cleaner := &fakeCleaner{retention: make(chan time.Duration, 1)}
		err := CleanupAuditEventsProcessor(cleaner, nil)(ctx, CleanupAuditEventsTask{})
		require.NoError(t, err)
		assert.Equal(t, DefaultAuditRetentionDays*24*time.Hour, <-cleaner.retention)
	})

	t.Run("propagates errors", func(t *testing.T) {
		boom := errors.New("db locked")
		err := CleanupAuditEventsProcessor(&fakeCleaner{err: boom}, nil)(ctx, CleanupAuditEventsTask{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("missing cleaner", func(t *testing.T) {
		err := CleanupAuditEventsProcessor(nil, nil)(ctx, CleanupAuditEventsTask{})
		assert.ErrorIs(t, err, ErrCleanerNotConfigured)
	})
}

func TestEnqueueAuditCleanup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer client.Close()

	cleaner := &fakeCleaner{retention: make(chan time.Duration, 1)}
	client.Register(NewCleanupAuditEventsQueue(cleaner, zaptest.NewLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.EnqueueAuditCleanup(ctx, 14)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case got := <-cleaner.retention:
		assert.Equal(t, 14*24*time.Hour, got)
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not executed within timeout")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}
