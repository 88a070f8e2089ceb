package importers

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoFiles is returned by RunFiles when no file was supplied.
var ErrNoFiles = errors.New("no files supplied")

// File is one uploaded document.
type File struct {
	Name    string
	Size    int64
	Content []byte
}

// RunFiles imports files one after another in the given order. A file that
// cannot be parsed is recorded with status error and counts as a single
// failed unit; its siblings are still processed.
func (i *Importer) RunFiles(ctx context.Context, files []File) (MultiFileResult, error) {
	if len(files) == 0 {
		return MultiFileResult{}, ErrNoFiles
	}

	agg := MultiFileResult{
		TotalFiles:   len(files),
		FilesResults: make([]FileResult, 0, len(files)),
	}

	for _, f := range files {
		fr := FileResult{FileName: f.Name, FileSize: f.Size}

		entries, err := ParseEntries(f.Content)
		if err != nil {
			i.logger.Warn("skipping unreadable file", zap.String("file", f.Name), zap.Error(err))
			fr.Status = FileStatusError
			fr.Error = err.Error()
			agg.TotalFailed++
			agg.FilesResults = append(agg.FilesResults, fr)
			continue
		}

		res := i.RunBatch(ctx, entries)
		fr.Status = FileStatusSuccess
		fr.Results = &res

		agg.TotalItems += res.Total
		agg.TotalSuccess += res.Success
		agg.TotalFailed += res.Failed
		agg.TotalSkipped += res.Skipped
		agg.FilesResults = append(agg.FilesResults, fr)
	}

	return agg, nil
}
