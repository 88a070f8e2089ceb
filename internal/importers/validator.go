package importers

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mrlokans/hanzi/internal/entities"
)

//go:embed schema/raw_entry.schema.json
var rawEntrySchema []byte

// ExistenceChecker reports whether a headword is already stored.
type ExistenceChecker interface {
	Exists(ctx context.Context, headword string) (bool, error)
}

// Validator performs a dry run of an import. It is stricter than the import
// itself: wrongly typed optional fields fail here instead of being defaulted.
type Validator struct {
	schema  *gojsonschema.Schema
	checker ExistenceChecker
}

func NewValidator(checker ExistenceChecker) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(rawEntrySchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load entry schema: %w", err)
	}
	return &Validator{schema: schema, checker: checker}, nil
}

// ValidateBatch checks every entry without writing anything. Valid entries
// that are new count as success with action created; valid entries whose
// headword is already stored count as skipped and are listed with action
// updated, which is what an import would do to them.
func (v *Validator) ValidateBatch(ctx context.Context, data []byte) (ImportResult, error) {
	entries, err := ParseEntries(data)
	if err != nil {
		return ImportResult{}, err
	}

	result := newImportResult(len(entries))
	for index, msg := range entries {
		raw, decodeErr := DecodeEntry(msg)
		word := UnknownWord
		if decodeErr == nil {
			word = EntryLabel(raw)
		}

		if problem := v.schemaErrors(msg); problem != "" {
			result.addError(index, word, problem)
			continue
		}

		record := Normalize(raw)
		if record == nil {
			result.addError(index, word, InvalidEntryMessage)
			continue
		}
		if err := record.Validate(); err != nil {
			result.addError(index, word, err.Error())
			continue
		}

		exists := false
		if v.checker != nil {
			exists, err = v.checker.Exists(ctx, record.Headword)
			if err != nil {
				result.addError(index, word, err.Error())
				continue
			}
		}

		if exists {
			result.Skipped++
			result.Successes = append(result.Successes, ItemSuccess{Index: index, Word: record.Headword, Action: entities.UpsertUpdated})
			continue
		}
		result.addSuccess(index, record.Headword, entities.UpsertResult{Action: entities.UpsertCreated})
	}

	return result, nil
}

func (v *Validator) schemaErrors(msg json.RawMessage) string {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(msg))
	if err != nil {
		return err.Error()
	}
	if res.Valid() {
		return ""
	}

	parts := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		parts = append(parts, field+": "+desc.Description())
	}
	return strings.Join(parts, "; ")
}
