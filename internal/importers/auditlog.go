package importers

import "time"

// LogSampleSize bounds the errors and successes copied into an import log.
const LogSampleSize = 5

type ImportKind string

const (
	ImportKindSingle ImportKind = "single"
	ImportKindMulti  ImportKind = "multiple"
)

type LoggedFile struct {
	Name   string     `json:"name"`
	Size   int64      `json:"size"`
	Status FileStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// ImportLog is the audit record of one completed import request.
type ImportLog struct {
	Kind       ImportKind    `json:"kind"`
	Files      []LoggedFile  `json:"files"`
	Total      int           `json:"total"`
	Success    int           `json:"success"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Errors     []ItemError   `json:"errors"`
	Successes  []ItemSuccess `json:"successes"`
	StartedAt  time.Time     `json:"startedAt"`
	DurationMs int64         `json:"durationMs"`
}

func NewSingleImportLog(file LoggedFile, res ImportResult, startedAt time.Time, duration time.Duration) ImportLog {
	file.Status = FileStatusSuccess
	return ImportLog{
		Kind:       ImportKindSingle,
		Files:      []LoggedFile{file},
		Total:      res.Total,
		Success:    res.Success,
		Failed:     res.Failed,
		Skipped:    res.Skipped,
		Errors:     sample(res.Errors),
		Successes:  sample(res.Successes),
		StartedAt:  startedAt,
		DurationMs: duration.Milliseconds(),
	}
}

// NewMultiImportLog samples across files in file order, so the first five
// errors of the request are kept regardless of which file they came from.
func NewMultiImportLog(res MultiFileResult, startedAt time.Time, duration time.Duration) ImportLog {
	log := ImportLog{
		Kind:       ImportKindMulti,
		Files:      make([]LoggedFile, 0, len(res.FilesResults)),
		Total:      res.TotalItems,
		Success:    res.TotalSuccess,
		Failed:     res.TotalFailed,
		Skipped:    res.TotalSkipped,
		Errors:     make([]ItemError, 0),
		Successes:  make([]ItemSuccess, 0),
		StartedAt:  startedAt,
		DurationMs: duration.Milliseconds(),
	}

	for _, fr := range res.FilesResults {
		log.Files = append(log.Files, LoggedFile{Name: fr.FileName, Size: fr.FileSize, Status: fr.Status, Error: fr.Error})
		if fr.Results == nil {
			continue
		}
		log.Errors = sample(append(log.Errors, fr.Results.Errors...))
		log.Successes = sample(append(log.Successes, fr.Results.Successes...))
	}
	return log
}

func sample[T any](items []T) []T {
	n := min(len(items), LogSampleSize)
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
