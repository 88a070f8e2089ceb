package importers

import (
	"fmt"

	"github.com/mrlokans/hanzi/internal/entities"
)

// ItemError describes one failed entry. Index is the entry's position in the
// uploaded array.
type ItemError struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
	Error string `json:"error"`
}

type ItemSuccess struct {
	Index  int                   `json:"index"`
	Word   string                `json:"word"`
	Action entities.UpsertAction `json:"action"`
	ID     uint                  `json:"id,omitempty"`
}

// ImportResult is the outcome of one batch. Errors and Successes are ordered
// by entry index.
type ImportResult struct {
	Total     int           `json:"total"`
	Success   int           `json:"success"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Errors    []ItemError   `json:"errors"`
	Successes []ItemSuccess `json:"successes"`
}

func newImportResult(total int) ImportResult {
	return ImportResult{
		Total:     total,
		Errors:    make([]ItemError, 0),
		Successes: make([]ItemSuccess, 0),
	}
}

func (r *ImportResult) addError(index int, word string, err string) {
	r.Failed++
	r.Errors = append(r.Errors, ItemError{Index: index, Word: word, Error: err})
}

func (r *ImportResult) addSuccess(index int, word string, res entities.UpsertResult) {
	r.Success++
	r.Successes = append(r.Successes, ItemSuccess{Index: index, Word: word, Action: res.Action, ID: res.ID})
}

// Summary formats the counters for display.
func (r ImportResult) Summary() string {
	s := fmt.Sprintf("Imported %d of %d entries: %d succeeded, %d failed", r.Success, r.Total, r.Success, r.Failed)
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	return s
}

type FileStatus string

const (
	FileStatusSuccess FileStatus = "success"
	FileStatusError   FileStatus = "error"
)

// FileResult is one file's entry in a multi-file import. Results is set when
// the file was processed, Error when it could not be parsed.
type FileResult struct {
	FileName string        `json:"fileName"`
	FileSize int64         `json:"fileSize"`
	Status   FileStatus    `json:"status"`
	Results  *ImportResult `json:"results,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type MultiFileResult struct {
	TotalFiles   int          `json:"totalFiles"`
	TotalItems   int          `json:"totalItems"`
	TotalSuccess int          `json:"totalSuccess"`
	TotalFailed  int          `json:"totalFailed"`
	TotalSkipped int          `json:"totalSkipped"`
	FilesResults []FileResult `json:"filesResults"`
}

// Summary formats the aggregate counters for display.
func (r MultiFileResult) Summary() string {
	return fmt.Sprintf("Processed %d files with %d entries: %d succeeded, %d failed, %d skipped",
		r.TotalFiles, r.TotalItems, r.TotalSuccess, r.TotalFailed, r.TotalSkipped)
}
