package importers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrlokans/hanzi/internal/entities"
)

// LevelMapping is the derived pair stored on every vocabulary record.
// HSKLevel is set only for HSK1..HSK6 categories.
type LevelMapping struct {
	HSKLevel *int
	Category entities.Category
}

var hskPattern = regexp.MustCompile(`(?i)^hsk([1-6])$`)

type levelRule struct {
	level    int
	category entities.Category
}

var levelTable = map[string]levelRule{
	"beginner":     {level: 1, category: entities.CategoryHSK1},
	"elementary":   {level: 2, category: entities.CategoryHSK2},
	"intermediate": {level: 3, category: entities.CategoryHSK3},
	"literary":     {category: entities.CategoryLiterary},
	"technical":    {category: entities.CategoryTechnical},
	"informal":     {category: entities.CategoryInformal},
}

// MapLevel derives the HSK level and category from a free-text grammar level.
// Rules are tried in order: HSK1-6, "advanced", the fixed lookup table, and
// finally the Common default. It never fails.
func MapLevel(levelText string) LevelMapping {
	text := strings.TrimSpace(levelText)
	if text == "" {
		return LevelMapping{Category: entities.CategoryCommon}
	}

	if m := hskPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return LevelMapping{HSKLevel: &n, Category: entities.HSKCategory(n)}
	}

	lower := strings.ToLower(text)
	if lower == "advanced" {
		return LevelMapping{Category: entities.CategoryAdvanced}
	}

	if rule, ok := levelTable[lower]; ok {
		if rule.level == 0 {
			return LevelMapping{Category: rule.category}
		}
		n := rule.level
		return LevelMapping{HSKLevel: &n, Category: rule.category}
	}

	return LevelMapping{Category: entities.CategoryCommon}
}
