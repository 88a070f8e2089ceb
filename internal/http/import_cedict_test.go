package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/hanzi/internal/entities"
	"github.com/mrlokans/hanzi/internal/importers"
)

const singlePath = "/api/vocabulary/import/cedict"

func TestImportSingle(t *testing.T) {
	env := newTestEnv(t)
	doc := "[" + helloEntry + "," + blankEntry + "," + thanksEntry + "]"

	w := serve(env.router, multipartRequest(t, singlePath, "file", upload{"hsk.json", doc}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SingleImportResponse](t, w)
	assert.Equal(t, "Imported 2 of 3 entries: 2 succeeded, 1 failed", resp.Summary)
	assert.Equal(t, 3, resp.Details.Total)
	assert.Equal(t, 2, resp.Details.Success)
	assert.Equal(t, 1, resp.Details.Failed)
	assert.Zero(t, resp.Details.Skipped)
	require.Len(t, resp.Details.Errors, 1)
	assert.Equal(t, importers.ItemError{Index: 1, Word: importers.UnknownWord, Error: importers.InvalidEntryMessage}, resp.Details.Errors[0])
	require.Len(t, resp.Details.Successes, 2)
	assert.Equal(t, entities.UpsertCreated, resp.Details.Successes[0].Action)

	thanks, err := env.repo.GetByHeadword(context.Background(), "谢谢")
	require.NoError(t, err)
	require.NotNil(t, thanks.HSKLevel)
	assert.Equal(t, 1, *thanks.HSKLevel)
	assert.Equal(t, entities.CategoryHSK1, thanks.Category)

	require.Len(t, env.audit.imports, 1)
	logged := env.audit.imports[0]
	assert.NoError(t, logged.err)
	assert.Equal(t, importers.ImportKindSingle, logged.log.Kind)
	assert.Equal(t, "hsk.json", logged.log.Files[0].Name)
	assert.Equal(t, 1, logged.log.Failed)
}

func TestImportSingle_ReimportReportsUpdated(t *testing.T) {
	env := newTestEnv(t)
	doc := "[" + helloEntry + "," + thanksEntry + "]"

	first := serve(env.router, multipartRequest(t, singlePath, "file", upload{"a.json", doc}))
	require.Equal(t, http.StatusOK, first.Code)
	second := serve(env.router, multipartRequest(t, singlePath, "file", upload{"a.json", doc}))
	require.Equal(t, http.StatusOK, second.Code)

	resp := decode[SingleImportResponse](t, second)
	assert.Equal(t, 2, resp.Details.Success)
	assert.Zero(t, resp.Details.Skipped)
	for _, s := range resp.Details.Successes {
		assert.Equal(t, entities.UpsertUpdated, s.Action)
	}

	count, err := env.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestImportSingle_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		code    string
		audited bool
	}{
		{
			name: "missing file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, singlePath, "other", upload{"a.json", "[]"})
			},
			code: codeMissingFile,
		},
		{
			name: "file too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, singlePath, "file", upload{"big.json", "[" + strings.Repeat(" ", 2048) + "]"})
			},
			code: codeFileTooLarge,
		},
		{
			name: "malformed json",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, singlePath, "file", upload{"bad.json", `[{"word":`})
			},
			code:    codeInvalidJSON,
			audited: true,
		},
		{
			name: "not an array",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, singlePath, "file", upload{"obj.json", helloEntry})
			},
			code:    codeNotArray,
			audited: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := serve(env.router, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)

			if tt.audited {
				require.Len(t, env.audit.imports, 1)
				assert.Error(t, env.audit.imports[0].err)
			} else {
				assert.Empty(t, env.audit.imports)
			}

			count, err := env.repo.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestImportMultiple(t *testing.T) {
	env := newTestEnv(t)

	w := serve(env.router, multipartRequest(t, singlePath+"/multiple", "files",
		upload{"a.json", "[" + helloEntry + "," + thanksEntry + "]"},
		upload{"b.json", `{"broken":`},
	))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[MultiImportResponse](t, w)
	assert.Equal(t, 2, resp.TotalFiles)
	assert.Equal(t, 2, resp.TotalItems)
	assert.Equal(t, 2, resp.TotalSuccess)
	assert.Equal(t, 1, resp.TotalFailed)
	assert.Equal(t, "Processed 2 files with 2 entries: 2 succeeded, 1 failed, 0 skipped", resp.Summary)

	require.Len(t, resp.FilesResults, 2)
	assert.Equal(t, "a.json", resp.FilesResults[0].FileName)
	assert.Equal(t, importers.FileStatusSuccess, resp.FilesResults[0].Status)
	require.NotNil(t, resp.FilesResults[0].Results)
	assert.Equal(t, 2, resp.FilesResults[0].Results.Success)
	assert.Equal(t, importers.FileStatusError, resp.FilesResults[1].Status)
	assert.NotEmpty(t, resp.FilesResults[1].Error)
	assert.Nil(t, resp.FilesResults[1].Results)

	require.Len(t, env.audit.imports, 1)
	assert.Equal(t, importers.ImportKindMulti, env.audit.imports[0].log.Kind)
	assert.Len(t, env.audit.imports[0].log.Files, 2)
}

func TestImportMultiple_Rejections(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no files", func(t *testing.T) {
		w := serve(env.router, multipartRequest(t, singlePath+"/multiple", "files"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, codeMissingFile, decode[ErrorResponse](t, w).Code)
	})

	t.Run("too many files", func(t *testing.T) {
		env.limiter.Reset("192.0.2.10")
		w := serve(env.router, multipartRequest(t, singlePath+"/multiple", "files",
			upload{"a.json", "[]"}, upload{"b.json", "[]"}, upload{"c.json", "[]"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, codeTooManyFiles, decode[ErrorResponse](t, w).Code)
	})

	assert.Empty(t, env.audit.imports)
}

func TestImport_UploadLimiterLifecycle(t *testing.T) {
	env := newTestEnv(t)
	multi := func() int {
		return serve(env.router, multipartRequest(t, singlePath+"/multiple", "files", upload{"a.json", "[]"})).Code
	}
	single := func() int {
		return serve(env.router, multipartRequest(t, singlePath, "file", upload{"a.json", "[]"})).Code
	}

	// single-file imports clear the count, so they never hit the limit
	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, single())
	}

	assert.Equal(t, http.StatusOK, multi())
	assert.Equal(t, http.StatusOK, multi())
	assert.Equal(t, http.StatusTooManyRequests, multi())
	assert.Equal(t, http.StatusTooManyRequests, single())
}

func TestValidateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, serve(env.router, multipartRequest(t, singlePath, "file", upload{"a.json", "[" + helloEntry + "]"})).Code)

	w := serve(env.router, multipartRequest(t, singlePath+"/validate", "file",
		upload{"check.json", "[" + helloEntry + "," + thanksEntry + "," + blankEntry + "]"}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SingleImportResponse](t, w)
	assert.Equal(t, 3, resp.Details.Total)
	assert.Equal(t, 1, resp.Details.Success)
	assert.Equal(t, 1, resp.Details.Skipped)
	assert.Equal(t, 1, resp.Details.Failed)

	count, err := env.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "validation must not write")
	assert.Len(t, env.audit.imports, 1)
}
