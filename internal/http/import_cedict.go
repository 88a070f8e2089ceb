package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/hanzi/internal/auth"
	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/importers"
)

const (
	codeMissingFile  = "missing_file"
	codeFileTooLarge = "file_too_large"
	codeTooManyFiles = "too_many_files"
	codeInvalidJSON  = "invalid_json"
	codeNotArray     = "not_an_array"
)

var errFileTooLarge = errors.New("file exceeds the maximum upload size")

// SingleImportResponse is returned by the single-file import and validation endpoints.
type SingleImportResponse struct {
	Summary string                 `json:"summary"`
	Details importers.ImportResult `json:"details"`
}

// MultiImportResponse is returned by the multi-file import endpoint.
type MultiImportResponse struct {
	Summary string `json:"summary"`
	importers.MultiFileResult
}

// CedictImportController handles CC-CEDICT JSON uploads.
type CedictImportController struct {
	importer    VocabularyImporter
	validator   BatchValidator
	audit       AuditLogger
	limiter     UploadCounter
	maxFileSize int64
	maxFiles    int
	logger      *zap.Logger
}

// NewCedictImportController creates the controller. audit and limiter may be nil.
func NewCedictImportController(importer VocabularyImporter, validator BatchValidator, audit AuditLogger, limiter UploadCounter, cfg config.Upload, logger *zap.Logger) *CedictImportController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CedictImportController{
		importer:    importer,
		validator:   validator,
		audit:       audit,
		limiter:     limiter,
		maxFileSize: cfg.MaxFileSize,
		maxFiles:    cfg.MaxFiles,
		logger:      logger.Named("cedict_import"),
	}
}

// ImportSingle handles POST /api/vocabulary/import/cedict
//
// The client's upload count is cleared when a single-file import starts;
// multi-file imports never clear it.
func (ctl *CedictImportController) ImportSingle(c *gin.Context) {
	if ctl.limiter != nil {
		ctl.limiter.Reset(auth.ClientKey(c))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		respondBadRequestCode(c, codeMissingFile, "no file uploaded, expected form field 'file'")
		return
	}

	data, err := ctl.readUpload(fh)
	if err != nil {
		ctl.respondUploadError(c, fh, err)
		return
	}

	started := time.Now()
	// A started batch runs to completion even if the client goes away.
	res, err := ctl.importer.Import(context.WithoutCancel(c.Request.Context()), data)
	file := importers.LoggedFile{Name: fh.Filename, Size: fh.Size}
	if err != nil {
		ctl.logImport(c, importers.NewSingleImportLog(file, importers.ImportResult{}, started, time.Since(started)), err)
		ctl.respondImportError(c, err)
		return
	}

	ctl.logImport(c, importers.NewSingleImportLog(file, res, started, time.Since(started)), nil)
	ctl.logger.Info("single-file import finished",
		zap.String("file", fh.Filename),
		zap.Int("total", res.Total),
		zap.Int("success", res.Success),
		zap.Int("failed", res.Failed))

	c.JSON(http.StatusOK, SingleImportResponse{Summary: res.Summary(), Details: res})
}

// ImportMultiple handles POST /api/vocabulary/import/cedict/multiple
func (ctl *CedictImportController) ImportMultiple(c *gin.Context) {
	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File["files"]
	}

	if len(headers) == 0 {
		respondBadRequestCode(c, codeMissingFile, "no files uploaded, expected form field 'files'")
		return
	}
	if ctl.maxFiles > 0 && len(headers) > ctl.maxFiles {
		respondBadRequestCode(c, codeTooManyFiles, fmt.Sprintf("at most %d files may be uploaded at once", ctl.maxFiles))
		return
	}

	files := make([]importers.File, 0, len(headers))
	for _, fh := range headers {
		data, err := ctl.readUpload(fh)
		if err != nil {
			ctl.respondUploadError(c, fh, err)
			return
		}
		files = append(files, importers.File{Name: fh.Filename, Size: fh.Size, Content: data})
	}

	started := time.Now()
	res, err := ctl.importer.RunFiles(context.WithoutCancel(c.Request.Context()), files)
	if err != nil {
		if errors.Is(err, importers.ErrNoFiles) {
			respondBadRequestCode(c, codeMissingFile, err.Error())
			return
		}
		respondInternalError(c, err, "multi-file import")
		return
	}

	ctl.logImport(c, importers.NewMultiImportLog(res, started, time.Since(started)), nil)
	ctl.logger.Info("multi-file import finished",
		zap.Int("files", res.TotalFiles),
		zap.Int("items", res.TotalItems),
		zap.Int("success", res.TotalSuccess),
		zap.Int("failed", res.TotalFailed))

	c.JSON(http.StatusOK, MultiImportResponse{Summary: res.Summary(), MultiFileResult: res})
}

// Validate handles POST /api/vocabulary/import/cedict/validate
// Nothing is written; entries already in the store are reported as skipped.
func (ctl *CedictImportController) Validate(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondBadRequestCode(c, codeMissingFile, "no file uploaded, expected form field 'file'")
		return
	}

	data, err := ctl.readUpload(fh)
	if err != nil {
		ctl.respondUploadError(c, fh, err)
		return
	}

	res, err := ctl.validator.ValidateBatch(c.Request.Context(), data)
	if err != nil {
		ctl.respondImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, SingleImportResponse{Summary: res.Summary(), Details: res})
}

func (ctl *CedictImportController) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if ctl.maxFileSize > 0 && fh.Size > ctl.maxFileSize {
		return nil, errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	limit := fh.Size
	if ctl.maxFileSize > 0 {
		limit = ctl.maxFileSize
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if ctl.maxFileSize > 0 && int64(len(data)) > ctl.maxFileSize {
		return nil, errFileTooLarge
	}
	return data, nil
}

func (ctl *CedictImportController) respondUploadError(c *gin.Context, fh *multipart.FileHeader, err error) {
	if errors.Is(err, errFileTooLarge) {
		respondBadRequestCode(c, codeFileTooLarge,
			fmt.Sprintf("%s exceeds the maximum upload size of %d bytes", fh.Filename, ctl.maxFileSize))
		return
	}
	respondInternalError(c, err, "read upload")
}

func (ctl *CedictImportController) respondImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, importers.ErrMalformedJSON):
		respondBadRequestCode(c, codeInvalidJSON, err.Error())
	case errors.Is(err, importers.ErrNotArray):
		respondBadRequestCode(c, codeNotArray, err.Error())
	default:
		respondInternalError(c, err, "cedict import")
	}
}

func (ctl *CedictImportController) logImport(c *gin.Context, log importers.ImportLog, err error) {
	if ctl.audit == nil {
		return
	}
	ctl.audit.LogImport(GetUserID(c), c.ClientIP(), log, err)
}
