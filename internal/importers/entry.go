package importers

import (
	"encoding/json"
	"errors"
)

// ErrEntryNotObject is returned by DecodeEntry when an array element is not a JSON object.
var ErrEntryNotObject = errors.New("entry is not a JSON object")

// RawEntry is one element of an uploaded dictionary document after the boundary
// decode. Every field has a usable Go shape no matter what the document held:
// wrongly typed values decode to their zero value and non-array lists decode
// to empty. Text is not trimmed yet; that is Normalize's job.
type RawEntry struct {
	Word              string
	Pinyin            string
	VietnameseReading string
	Meaning           RawMeaning
	Grammar           RawGrammar
	Examples          []RawExample
	Related           RawRelated
}

type RawMeaning struct {
	Primary      string
	Secondary    []string
	PartOfSpeech string
}

type RawGrammar struct {
	Level     string
	Frequency float64
	Formality string
}

type RawRelated struct {
	Synonyms  []string
	Antonyms  []string
	Compounds []string
}

type RawExample struct {
	Chinese    string
	Pinyin     string
	Vietnamese string
}

// lenient decodes a JSON value into T and silently keeps the zero value
// when the value has a different type.
type lenient[T any] struct {
	value T
}

func (l *lenient[T]) UnmarshalJSON(b []byte) error {
	var v T
	if err := json.Unmarshal(b, &v); err == nil {
		l.value = v
	}
	return nil
}

type lenientText = lenient[string]

// lenientList is a list of strings where non-string items decode as empty.
type lenientList struct {
	lenient[[]lenientText]
}

func (l lenientList) strings() []string {
	out := make([]string, 0, len(l.value))
	for _, item := range l.value {
		out = append(out, item.value)
	}
	return out
}

type entryDoc struct {
	Word              lenientText `json:"word"`
	Pinyin            lenientText `json:"pinyin"`
	VietnameseReading lenientText `json:"vietnameseReading"`
	Meaning           lenient[struct {
		Primary      lenientText `json:"primary"`
		Secondary    lenientList `json:"secondary"`
		PartOfSpeech lenientText `json:"partOfSpeech"`
	}] `json:"meaning"`
	Grammar lenient[struct {
		Level     lenientText      `json:"level"`
		Frequency lenient[float64] `json:"frequency"`
		Formality lenientText      `json:"formality"`
	}] `json:"grammar"`
	Examples lenient[[]lenient[struct {
		Chinese    lenientText `json:"chinese"`
		Pinyin     lenientText `json:"pinyin"`
		Vietnamese lenientText `json:"vietnamese"`
	}]] `json:"examples"`
	Related lenient[struct {
		Synonyms  lenientList `json:"synonyms"`
		Antonyms  lenientList `json:"antonyms"`
		Compounds lenientList `json:"compounds"`
	}] `json:"related"`
}

// DecodeEntry turns one raw array element into a RawEntry. The only failure
// is an element that is not a JSON object at all.
func DecodeEntry(msg json.RawMessage) (RawEntry, error) {
	if isNull(msg) {
		return RawEntry{}, ErrEntryNotObject
	}
	var doc entryDoc
	if err := json.Unmarshal(msg, &doc); err != nil {
		return RawEntry{}, ErrEntryNotObject
	}

	meaning := doc.Meaning.value
	grammar := doc.Grammar.value
	related := doc.Related.value

	examples := make([]RawExample, 0, len(doc.Examples.value))
	for _, ex := range doc.Examples.value {
		examples = append(examples, RawExample{
			Chinese:    ex.value.Chinese.value,
			Pinyin:     ex.value.Pinyin.value,
			Vietnamese: ex.value.Vietnamese.value,
		})
	}

	return RawEntry{
		Word:              doc.Word.value,
		Pinyin:            doc.Pinyin.value,
		VietnameseReading: doc.VietnameseReading.value,
		Meaning: RawMeaning{
			Primary:      meaning.Primary.value,
			Secondary:    meaning.Secondary.strings(),
			PartOfSpeech: meaning.PartOfSpeech.value,
		},
		Grammar: RawGrammar{
			Level:     grammar.Level.value,
			Frequency: grammar.Frequency.value,
			Formality: grammar.Formality.value,
		},
		Examples: examples,
		Related: RawRelated{
			Synonyms:  related.Synonyms.strings(),
			Antonyms:  related.Antonyms.strings(),
			Compounds: related.Compounds.strings(),
		},
	}, nil
}

func isNull(msg json.RawMessage) bool {
	for _, b := range msg {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 'n':
			return true
		default:
			return false
		}
	}
	return true
}
