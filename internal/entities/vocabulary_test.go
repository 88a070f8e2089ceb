package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validVocabulary() *Vocabulary {
	return &Vocabulary{
		Headword: "你好",
		Pinyin:   "nǐ hǎo",
		Meaning:  Meaning{Primary: "hello"},
		Grammar:  Grammar{Formality: FormalityNeutral},
		HSKLevel: intPtr(1),
		Category: CategoryHSK1,
	}
}

func TestVocabulary_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *Vocabulary)
		wantErr bool
	}{
		{name: "valid hsk record", mutate: func(v *Vocabulary) {}},
		{name: "valid common record", mutate: func(v *Vocabulary) { v.HSKLevel = nil; v.Category = CategoryCommon }},
		{name: "missing headword", mutate: func(v *Vocabulary) { v.Headword = "" }, wantErr: true},
		{name: "missing pinyin", mutate: func(v *Vocabulary) { v.Pinyin = "" }, wantErr: true},
		{name: "missing primary meaning", mutate: func(v *Vocabulary) { v.Meaning.Primary = "" }, wantErr: true},
		{name: "unknown category", mutate: func(v *Vocabulary) { v.HSKLevel = nil; v.Category = "Slang" }, wantErr: true},
		{name: "hsk level out of range", mutate: func(v *Vocabulary) { v.HSKLevel = intPtr(7); v.Category = "HSK7" }, wantErr: true},
		{name: "unknown formality", mutate: func(v *Vocabulary) { v.Grammar.Formality = "casual" }, wantErr: true},
		{name: "negative frequency", mutate: func(v *Vocabulary) { v.Grammar.Frequency = -1 }, wantErr: true},
		{name: "level without matching category", mutate: func(v *Vocabulary) { v.Category = CategoryHSK2 }, wantErr: true},
		{name: "hsk category without level", mutate: func(v *Vocabulary) { v.HSKLevel = nil }, wantErr: true},
		{name: "level with non hsk category", mutate: func(v *Vocabulary) { v.Category = CategoryAdvanced }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVocabulary()
			tt.mutate(v)

			err := v.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidVocabulary)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCategory_IsHSK(t *testing.T) {
	for level := 1; level <= 6; level++ {
		assert.True(t, HSKCategory(level).IsHSK(), "level %d", level)
	}
	assert.False(t, Category("HSK0").IsHSK())
	assert.False(t, Category("HSK7").IsHSK())
	assert.False(t, Category("HSK10").IsHSK())
	assert.False(t, CategoryCommon.IsHSK())
	assert.False(t, CategoryAdvanced.IsHSK())
}

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, UserRoleAdmin.IsValid())
	assert.True(t, UserRoleUser.IsValid())
	assert.False(t, UserRole("root").IsValid())
}
