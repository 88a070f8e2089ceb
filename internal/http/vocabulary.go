package http

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/hanzi/internal/database/vocabulary"
	"github.com/mrlokans/hanzi/internal/entities"
)

const maxSearchResults = 50

// VocabularyController serves the imported dictionary.
type VocabularyController struct {
	store VocabularyStore
	audit AuditLogger
}

func NewVocabularyController(store VocabularyStore, audit AuditLogger) *VocabularyController {
	return &VocabularyController{store: store, audit: audit}
}

// List handles GET /api/vocabulary?category=HSK1&hsk=1&limit=25&offset=0
func (vc *VocabularyController) List(c *gin.Context) {
	var filter vocabulary.ListFilter

	if raw := c.Query("category"); raw != "" {
		category := entities.Category(raw)
		if !slices.Contains(entities.Categories, category) {
			respondBadRequest(c, "invalid category")
			return
		}
		filter.Category = category
	}

	if raw := c.Query("hsk"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil || level < 1 || level > 6 {
			respondBadRequest(c, "hsk must be between 1 and 6")
			return
		}
		filter.HSKLevel = level
	}

	limit, offset := parsePagination(c)
	records, total, err := vc.store.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list vocabulary")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(records, total, limit, offset))
}

// Search handles GET /api/vocabulary/search?q=
func (vc *VocabularyController) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		respondBadRequest(c, "q is required")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > maxSearchResults {
		limit = 20
	}

	records, err := vc.store.Search(c.Request.Context(), q, limit)
	if err != nil {
		respondInternalError(c, err, "search vocabulary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": q, "results": records})
}

// Stats handles GET /api/vocabulary/stats
func (vc *VocabularyController) Stats(c *gin.Context) {
	counts, err := vc.store.CountByCategory(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "vocabulary stats")
		return
	}

	var total int64
	for _, cc := range counts {
		total += cc.Count
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "categories": counts})
}

// Get handles GET /api/vocabulary/:id
func (vc *VocabularyController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := vc.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, vocabulary.ErrNotFound) {
		respondNotFound(c, "vocabulary entry")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get vocabulary")
		return
	}

	c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /api/vocabulary/:id
func (vc *VocabularyController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := vc.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, vocabulary.ErrNotFound) {
		respondNotFound(c, "vocabulary entry")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get vocabulary")
		return
	}

	if err := vc.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, vocabulary.ErrNotFound) {
			respondNotFound(c, "vocabulary entry")
			return
		}
		respondInternalError(c, err, "delete vocabulary")
		return
	}

	if vc.audit != nil {
		vc.audit.LogDelete(GetUserID(c), "vocabulary", id, record.Headword)
	}

	respondSuccess(c, "vocabulary entry deleted")
}
