// Package importers turns uploaded CC-CEDICT JSON documents into vocabulary records.
//
// # Architecture
//
// Each document is processed with a simple sequential flow:
//
//	[]byte → ParseEntries → DecodeEntry → Normalize (→ MapLevel) → Store.Upsert → ImportResult
//
// ParseEntries is the only step that can fail a whole document (malformed JSON
// or a top-level value that is not an array). Every later step fails a single
// entry, which is recorded in ImportResult.Errors with its array index while the
// batch continues.
//
// RunFiles repeats the flow for several documents in upload order. A document
// that cannot be parsed is reported with status "error" and the remaining
// documents are still imported.
//
// # Dry runs
//
// Validator.ValidateBatch checks a document against an embedded JSON Schema and
// the normalizer without writing anything. Entries whose headword already exists
// are reported as skipped.
//
// # Example Usage
//
//	importer := importers.NewImporter(vocabularyRepo, logger)
//
//	// One document
//	result, err := importer.Import(ctx, data)
//
//	// Several documents
//	multi, err := importer.RunFiles(ctx, []importers.File{{Name: "hsk1.json", Content: data}})
package importers
