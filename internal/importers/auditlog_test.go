package importers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithErrors(total, failed int) ImportResult {
	r := newImportResult(total)
	for i := 0; i < failed; i++ {
		r.addError(i, "w", InvalidEntryMessage)
	}
	return r
}

func TestNewSingleImportLog_TruncatesSamples(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	res := resultWithErrors(8, 8)

	log := NewSingleImportLog(LoggedFile{Name: "hsk.json", Size: 42}, res, started, 1500*time.Millisecond)

	assert.Equal(t, ImportKindSingle, log.Kind)
	require.Len(t, log.Files, 1)
	assert.Equal(t, FileStatusSuccess, log.Files[0].Status)
	assert.Equal(t, 8, log.Failed)
	assert.Len(t, log.Errors, LogSampleSize)
	assert.Equal(t, 4, log.Errors[4].Index)
	assert.NotNil(t, log.Successes)
	assert.Equal(t, int64(1500), log.DurationMs)
	assert.Equal(t, started, log.StartedAt)

	// aggregate result keeps every error
	assert.Len(t, res.Errors, 8)
}

func TestNewMultiImportLog_SamplesAcrossFiles(t *testing.T) {
	a := resultWithErrors(3, 3)
	b := resultWithErrors(4, 4)
	res := MultiFileResult{
		TotalFiles:  3,
		TotalItems:  7,
		TotalFailed: 8,
		FilesResults: []FileResult{
			{FileName: "a.json", Status: FileStatusSuccess, Results: &a},
			{FileName: "bad.json", Status: FileStatusError, Error: "malformed JSON"},
			{FileName: "b.json", Status: FileStatusSuccess, Results: &b},
		},
	}

	log := NewMultiImportLog(res, time.Now(), time.Second)

	assert.Equal(t, ImportKindMulti, log.Kind)
	assert.Len(t, log.Files, 3)
	assert.Equal(t, "malformed JSON", log.Files[1].Error)
	assert.Len(t, log.Errors, LogSampleSize)
	assert.Equal(t, 7, log.Total)
	assert.Equal(t, 8, log.Failed)
}
