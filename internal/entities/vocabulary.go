package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrInvalidVocabulary is returned when a record fails schema validation on write.
var ErrInvalidVocabulary = errors.New("invalid vocabulary record")

type Category string

const (
	CategoryHSK1      Category = "HSK1"
	CategoryHSK2      Category = "HSK2"
	CategoryHSK3      Category = "HSK3"
	CategoryHSK4      Category = "HSK4"
	CategoryHSK5      Category = "HSK5"
	CategoryHSK6      Category = "HSK6"
	CategoryAdvanced  Category = "Advanced"
	CategoryLiterary  Category = "Literary"
	CategoryTechnical Category = "Technical"
	CategoryInformal  Category = "Informal"
	CategoryCommon    Category = "Common"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHSK1, CategoryHSK2, CategoryHSK3, CategoryHSK4, CategoryHSK5, CategoryHSK6,
	CategoryAdvanced, CategoryLiterary, CategoryTechnical, CategoryInformal, CategoryCommon,
}

// HSKCategory returns the category paired with an HSK level (1-6).
func HSKCategory(level int) Category {
	return Category("HSK" + strconv.Itoa(level))
}

// IsHSK reports whether the category is one of HSK1..HSK6.
func (c Category) IsHSK() bool {
	if !strings.HasPrefix(string(c), "HSK") || len(c) != 4 {
		return false
	}
	return c[3] >= '1' && c[3] <= '6'
}

type Formality string

const (
	FormalityFormal   Formality = "formal"
	FormalityNeutral  Formality = "neutral"
	FormalityInformal Formality = "informal"
	FormalityLiterary Formality = "literary"
)

// Example is a usage sentence attached to a vocabulary entry.
type Example struct {
	Chinese    string `json:"chinese"`
	Pinyin     string `json:"pinyin"`
	Vietnamese string `json:"vietnamese"`
}

type Meaning struct {
	Primary      string                      `gorm:"type:text;not null" json:"primary" validate:"required"`
	Secondary    datatypes.JSONSlice[string] `gorm:"type:text" json:"secondary"`
	PartOfSpeech string                      `gorm:"size:50" json:"partOfSpeech"`
}

type Grammar struct {
	Level     string    `gorm:"size:50" json:"level"`
	Frequency float64   `json:"frequency" validate:"gte=0"`
	Formality Formality `gorm:"size:20;default:'neutral'" json:"formality" validate:"oneof=formal neutral informal literary"`
}

type Related struct {
	Synonyms  datatypes.JSONSlice[string] `gorm:"type:text" json:"synonyms"`
	Antonyms  datatypes.JSONSlice[string] `gorm:"type:text" json:"antonyms"`
	Compounds datatypes.JSONSlice[string] `gorm:"type:text" json:"compounds"`
}

// Vocabulary is a curated dictionary entry keyed by its headword.
// HSKLevel and Category are always derived together from Grammar.Level.
type Vocabulary struct {
	ID                uint                         `gorm:"primaryKey" json:"id"`
	Headword          string                       `gorm:"uniqueIndex;size:100;not null" json:"headword" validate:"required,max=100"`
	Pinyin            string                       `gorm:"size:255;not null" json:"pinyin" validate:"required"`
	VietnameseReading string                       `gorm:"size:255" json:"vietnameseReading"`
	Meaning           Meaning                      `gorm:"embedded;embeddedPrefix:meaning_" json:"meaning"`
	Grammar           Grammar                      `gorm:"embedded;embeddedPrefix:grammar_" json:"grammar"`
	Examples          datatypes.JSONSlice[Example] `gorm:"type:text" json:"examples"`
	Related           Related                      `gorm:"embedded;embeddedPrefix:related_" json:"related"`
	HSKLevel          *int                         `gorm:"index" json:"hskLevel" validate:"omitempty,min=1,max=6"`
	Category          Category                     `gorm:"index;size:20;not null" json:"category" validate:"oneof=HSK1 HSK2 HSK3 HSK4 HSK5 HSK6 Advanced Literary Technical Informal Common"`
	CreatedAt         time.Time                    `json:"createdAt"`
	UpdatedAt         time.Time                    `json:"updatedAt"`
}

func (Vocabulary) TableName() string {
	return "vocabulary"
}

var validate = validator.New()

// Validate enforces the stored schema: required fields, enum membership,
// numeric ranges and the HSK level/category pairing.
func (v *Vocabulary) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVocabulary, err)
	}

	if v.HSKLevel != nil && v.Category != HSKCategory(*v.HSKLevel) {
		return fmt.Errorf("%w: category %q does not match hsk level %d", ErrInvalidVocabulary, v.Category, *v.HSKLevel)
	}
	if v.HSKLevel == nil && v.Category.IsHSK() {
		return fmt.Errorf("%w: category %q requires an hsk level", ErrInvalidVocabulary, v.Category)
	}
	return nil
}

// BeforeSave runs schema validation for both creates and updates.
func (v *Vocabulary) BeforeSave(tx *gorm.DB) error {
	return v.Validate()
}

// UpsertAction tells whether an upsert inserted a new row or overwrote an existing one.
type UpsertAction string

const (
	UpsertCreated UpsertAction = "created"
	UpsertUpdated UpsertAction = "updated"
)

// UpsertResult is the outcome of writing one record keyed by headword.
type UpsertResult struct {
	Action UpsertAction
	ID     uint
}
