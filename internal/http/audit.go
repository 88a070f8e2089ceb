package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/hanzi/internal/database/audit"
	"github.com/mrlokans/hanzi/internal/entities"
)

type AuditController struct {
	events AuditReader
}

func NewAuditController(events AuditReader) *AuditController {
	return &AuditController{events: events}
}

// ListImports returns paginated import audit events, newest first
// GET /api/audit/imports?status=partial&limit=25&offset=0
func (ac *AuditController) ListImports(c *gin.Context) {
	filter := audit.EventFilter{EventType: entities.AuditEventImport}

	switch status := entities.AuditStatus(c.Query("status")); status {
	case "":
	case entities.AuditStatusSuccess, entities.AuditStatusPartial, entities.AuditStatusFailed:
		filter.Status = status
	default:
		respondBadRequest(c, "invalid status")
		return
	}

	limit, offset := parsePagination(c)
	events, total, err := ac.events.ListEvents(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}
