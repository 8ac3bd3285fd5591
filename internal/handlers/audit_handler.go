package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcastellanos/prestamos-api/internal/repository"
	"github.com/jcastellanos/prestamos-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of audit log entries
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user"
// @Param entity query string false "Filter by entity type"
// @Param action query string false "Filter by action"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if userID := c.Query("user_id"); userID != "" {
		query.Filters["user_id"] = userID
	}
	if entity := c.Query("entity"); entity != "" {
		query.Filters["entity"] = entity
	}
	if action := c.Query("action"); action != "" {
		query.Filters["action"] = action
	}
	if start := c.Query("start_date"); start != "" {
		query.Filters["start_date"] = start
	}
	if end := c.Query("end_date"); end != "" {
		query.Filters["end_date"] = end
	}

	logs, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for i := range logs {
		responses = append(responses, logs[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}
