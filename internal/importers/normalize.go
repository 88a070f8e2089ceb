package importers

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mrlokans/hanzi/internal/entities"
)

// InvalidEntryMessage is reported for entries rejected by Normalize.
const InvalidEntryMessage = "invalid or missing required data"

// UnknownWord labels a failed entry whose headword could not be read.
const UnknownWord = "Unknown"

// Normalize maps a decoded entry to a store-ready record. It returns nil when
// the headword, pinyin or primary meaning is blank after trimming; every other
// field is defaulted instead of rejected.
func Normalize(raw RawEntry) *entities.Vocabulary {
	headword := cleanText(raw.Word)
	pinyin := cleanText(raw.Pinyin)
	primary := cleanText(raw.Meaning.Primary)
	if headword == "" || pinyin == "" || primary == "" {
		return nil
	}

	formality := entities.Formality(strings.TrimSpace(raw.Grammar.Formality))
	if formality == "" {
		formality = entities.FormalityNeutral
	}

	level := MapLevel(raw.Grammar.Level)

	return &entities.Vocabulary{
		Headword:          headword,
		Pinyin:            pinyin,
		VietnameseReading: cleanText(raw.VietnameseReading),
		Meaning: entities.Meaning{
			Primary:      primary,
			Secondary:    cleanList(raw.Meaning.Secondary),
			PartOfSpeech: cleanText(raw.Meaning.PartOfSpeech),
		},
		Grammar: entities.Grammar{
			Level:     cleanText(raw.Grammar.Level),
			Frequency: raw.Grammar.Frequency,
			Formality: formality,
		},
		Examples: cleanExamples(raw.Examples),
		Related: entities.Related{
			Synonyms:  cleanSet(raw.Related.Synonyms),
			Antonyms:  cleanSet(raw.Related.Antonyms),
			Compounds: cleanSet(raw.Related.Compounds),
		},
		HSKLevel: level.HSKLevel,
		Category: level.Category,
	}
}

// EntryLabel is the best-effort word used to identify an entry in reports.
func EntryLabel(raw RawEntry) string {
	if word := cleanText(raw.Word); word != "" {
		return word
	}
	return UnknownWord
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := cleanText(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// cleanSet is cleanList with duplicates removed, keeping first occurrence order.
func cleanSet(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, v := range cleanList(items) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func cleanExamples(items []RawExample) []entities.Example {
	out := make([]entities.Example, 0, len(items))
	for _, ex := range items {
		chinese := cleanText(ex.Chinese)
		if chinese == "" {
			continue
		}
		out = append(out, entities.Example{
			Chinese:    chinese,
			Pinyin:     cleanText(ex.Pinyin),
			Vietnamese: cleanText(ex.Vietnamese),
		})
	}
	return out
}
