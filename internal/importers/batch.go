package importers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/hanzi/internal/entities"
)

var (
	// ErrMalformedJSON is returned when an uploaded document is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON")
	// ErrNotArray is returned when an uploaded document is valid JSON but not an array.
	ErrNotArray = errors.New("expected a JSON array of entries")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store writes a normalized record, creating it or overwriting the record
// with the same headword.
type Store interface {
	Upsert(ctx context.Context, v *entities.Vocabulary) (entities.UpsertResult, error)
}

// Importer runs dictionary batches against a Store. It holds no per-run state
// and is safe to share between requests.
type Importer struct {
	store  Store
	logger *zap.Logger
}

func NewImporter(store Store, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: store, logger: logger}
}

// ParseEntries splits an uploaded document into its array elements without
// decoding them. It fails with ErrMalformedJSON or ErrNotArray.
func ParseEntries(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !json.Valid(data) {
		return nil, ErrMalformedJSON
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if entries == nil {
		entries = make([]json.RawMessage, 0)
	}
	return entries, nil
}

// Import parses one document and runs it as a batch.
func (i *Importer) Import(ctx context.Context, data []byte) (ImportResult, error) {
	entries, err := ParseEntries(data)
	if err != nil {
		return ImportResult{}, err
	}
	return i.RunBatch(ctx, entries), nil
}

// RunBatch processes entries one at a time in input order. Item problems are
// recorded in the result and never stop the batch.
func (i *Importer) RunBatch(ctx context.Context, entries []json.RawMessage) ImportResult {
	result := newImportResult(len(entries))

	for index, msg := range entries {
		raw, err := DecodeEntry(msg)
		if err != nil {
			result.addError(index, UnknownWord, InvalidEntryMessage)
			continue
		}

		word := EntryLabel(raw)
		record := Normalize(raw)
		if record == nil {
			result.addError(index, word, InvalidEntryMessage)
			continue
		}

		res, err := i.store.Upsert(ctx, record)
		if err != nil {
			i.logger.Debug("vocabulary upsert failed",
				zap.Int("index", index),
				zap.String("headword", record.Headword),
				zap.Error(err))
			result.addError(index, word, err.Error())
			continue
		}
		result.addSuccess(index, record.Headword, res)
	}

	i.logger.Info("cedict batch processed",
		zap.Int("total", result.Total),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed))

	return result
}
