// Package vocabulary provides database operations for the curated dictionary.
//
// Records are keyed by headword. Upsert is the single write path used by the
// CC-CEDICT importer; the read methods back the HTTP vocabulary endpoints.
//
// # Interface Implementation
//
//	var _ importers.Store = (*Repository)(nil)
//	var _ importers.ExistenceChecker = (*Repository)(nil)
//	var _ http.VocabularyStore = (*Repository)(nil)
//
// # Usage
//
//	repo := vocabulary.NewRepository(db)
//	res, err := repo.Upsert(ctx, record)
package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/hanzi/internal/entities"
)

var (
	// ErrDuplicateHeadword is returned when a concurrent writer created the same
	// headword between lookup and insert.
	ErrDuplicateHeadword = errors.New("headword already exists")
	ErrNotFound          = errors.New("vocabulary entry not found")
)

// Repository handles all vocabulary database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new vocabulary repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows List. Zero values mean no filter.
type ListFilter struct {
	Category entities.Category
	HSKLevel int
}

type CategoryCount struct {
	Category entities.Category `json:"category"`
	Count    int64             `json:"count"`
}

// Upsert creates the record or overwrites every field of the record with the
// same headword, keeping its ID and creation time. Lookup and write share one
// transaction; a unique index violation from a racing writer is returned as
// ErrDuplicateHeadword.
func (r *Repository) Upsert(ctx context.Context, v *entities.Vocabulary) (entities.UpsertResult, error) {
	var result entities.UpsertResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Vocabulary
		err := tx.Select("id", "created_at").Where("headword = ?", v.Headword).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			v.ID = 0
			if err := tx.Create(v).Error; err != nil {
				return err
			}
			result = entities.UpsertResult{Action: entities.UpsertCreated, ID: v.ID}
			return nil
		case err != nil:
			return err
		}

		v.ID = existing.ID
		v.CreatedAt = existing.CreatedAt
		if err := tx.Save(v).Error; err != nil {
			return err
		}
		result = entities.UpsertResult{Action: entities.UpsertUpdated, ID: v.ID}
		return nil
	})
	if err != nil {
		return entities.UpsertResult{}, translateError(err, v.Headword)
	}
	return result, nil
}

// Exists reports whether a record with the headword is stored.
func (r *Repository) Exists(ctx context.Context, headword string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Vocabulary{}).Where("headword = ?", headword).Count(&count).Error
	return count > 0, err
}

// GetByID retrieves one record.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Vocabulary, error) {
	var v entities.Vocabulary
	err := r.db.WithContext(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByHeadword retrieves one record by its natural key.
func (r *Repository) GetByHeadword(ctx context.Context, headword string) (*entities.Vocabulary, error) {
	var v entities.Vocabulary
	err := r.db.WithContext(ctx).Where("headword = ?", headword).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns records ordered by HSK level then headword, with the total
// number of matching records.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]entities.Vocabulary, int64, error) {
	var records []entities.Vocabulary
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Vocabulary{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.HSKLevel > 0 {
		query = query.Where("hsk_level = ?", filter.HSKLevel)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("hsk_level IS NULL, hsk_level ASC, headword ASC").Limit(limit).Offset(offset).Find(&records).Error
	return records, total, err
}

// Search matches the query against headword, pinyin and primary meaning.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]entities.Vocabulary, error) {
	var records []entities.Vocabulary

	query = strings.TrimSpace(query)
	if query == "" {
		return records, nil
	}
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Where("headword LIKE ? ESCAPE '\\' OR pinyin LIKE ? ESCAPE '\\' OR meaning_primary LIKE ? ESCAPE '\\'", pattern, pattern, pattern).
		Order("length(headword) ASC, headword ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountByCategory returns the number of records per category, in category
// display order, omitting empty categories.
func (r *Repository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&entities.Vocabulary{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byCategory := make(map[entities.Category]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Count
	}

	counts := make([]CategoryCount, 0, len(rows))
	for _, c := range entities.Categories {
		if n, ok := byCategory[c]; ok {
			counts = append(counts, CategoryCount{Category: c, Count: n})
		}
	}
	return counts, nil
}

// Count returns the number of stored records.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Vocabulary{}).Count(&total).Error
	return total, err
}

// Delete removes a record. It returns ErrNotFound when nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Vocabulary{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translateError(err error, headword string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", ErrDuplicateHeadword, headword)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
