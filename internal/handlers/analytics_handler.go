package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcastellanos/prestamos-api/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	exportService    *services.ExportService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, exportService *services.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, exportService: exportService}
}

// @Summary Portfolio Overview
// @Description Get the headline figures of the loan portfolio
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.PortfolioOverview
// @Security BearerAuth
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.GetOverview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary Status Distribution
// @Description Get loan counts and amounts grouped by status
// @Tags Analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /analytics/status-distribution [get]
func (h *AnalyticsHandler) StatusDistribution(c *gin.Context) {
	dist, err := h.analyticsService.GetStatusDistribution(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"distribution": dist})
}

// @Summary Top Clients
// @Description Get the clients ranked by total borrowed amount
// @Tags Analytics
// @Produce json
// @Param limit query int false "Number of clients" default(10)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /analytics/top-clients [get]
func (h *AnalyticsHandler) TopClients(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	clients, err := h.analyticsService.GetTopClients(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// @Summary Monthly Trends
// @Description Get loan issuance and collection activity per month
// @Tags Analytics
// @Produce json
// @Param months query int false "Number of months" default(12)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /analytics/monthly-trends [get]
func (h *AnalyticsHandler) MonthlyTrends(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	trends, err := h.analyticsService.GetMonthlyTrends(c.Request.Context(), months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// @Summary Export Dashboard
// @Description Download the portfolio dashboard as CSV, XLSX or PDF
// @Tags Analytics
// @Produce octet-stream
// @Param format query string false "Export format (csv, xlsx, pdf)" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	overview, err := h.analyticsService.GetOverview(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dist, err := h.analyticsService.GetStatusDistribution(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var data []byte
	var filename, contentType string

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(ctx, overview, dist)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(ctx, overview, dist)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(ctx, overview, dist)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato no soportado, usa csv, xlsx o pdf"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
