package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/database"
	"github.com/mrlokans/hanzi/internal/database/vocabulary"
	"github.com/mrlokans/hanzi/internal/importers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	helloEntry  = `{"word":"你好","pinyin":"nǐ hǎo","meaning":{"primary":"hello"},"grammar":{"level":"HSK1"}}`
	thanksEntry = `{"word":"谢谢","pinyin":"xiè xie","meaning":{"primary":"thanks"},"grammar":{"level":"beginner"}}`
	blankEntry  = `{"word":"","pinyin":"nǐ hǎo","meaning":{"primary":"hello"}}`
)

type recordedImport struct {
	userID uint
	log    importers.ImportLog
	err    error
}

type recordingAudit struct {
	mu      sync.Mutex
	imports []recordedImport
	deletes []string
	auths   []bool
}

func (r *recordingAudit) LogImport(userID uint, _ string, log importers.ImportLog, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append(r.imports, recordedImport{userID: userID, log: log, err: err})
}

func (r *recordingAudit) LogDelete(_ uint, entityType string, _ uint, entityName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, entityType+":"+entityName)
}

func (r *recordingAudit) LogAuth(_ uint, _ string, _ string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auths = append(r.auths, success)
}

type testEnv struct {
	router  *gin.Engine
	repo    *vocabulary.Repository
	audit   *recordingAudit
	limiter *auth.UploadLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := vocabulary.NewRepository(db.DB)
	validator, err := importers.NewValidator(repo)
	require.NoError(t, err)

	limiter := auth.NewUploadLimiter(auth.UploadLimitConfig{MaxUploads: 2, Window: time.Minute})
	t.Cleanup(limiter.Stop)

	rec := &recordingAudit{}
	router := NewRouter(RouterConfig{
		Importer:        importers.NewImporter(repo, zaptest.NewLogger(t)),
		Validator:       validator,
		VocabularyStore: repo,
		Database:        db,
		AuditLogger:     rec,
		UploadLimiter:   limiter,
		Upload:          config.Upload{MaxFileSize: 1024, MaxFiles: 2},
		Logger:          zaptest.NewLogger(t),
	})

	return &testEnv{router: router, repo: repo, audit: rec, limiter: limiter}
}

type upload struct {
	name    string
	content string
}

func multipartRequest(t *testing.T, path, field string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.RemoteAddr = "192.0.2.10:5555"
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type stubImporter struct{}

func (stubImporter) Import(_ context.Context, data []byte) (importers.ImportResult, error) {
	entries, err := importers.ParseEntries(data)
	if err != nil {
		return importers.ImportResult{}, err
	}
	return importers.ImportResult{Total: len(entries), Errors: []importers.ItemError{}, Successes: []importers.ItemSuccess{}}, nil
}

func (stubImporter) RunFiles(_ context.Context, files []importers.File) (importers.MultiFileResult, error) {
	if len(files) == 0 {
		return importers.MultiFileResult{}, importers.ErrNoFiles
	}
	return importers.MultiFileResult{TotalFiles: len(files)}, nil
}
