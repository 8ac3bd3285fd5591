package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jcastellanos/prestamos-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary Loans CSV Report
// @Description Download the full loan book as CSV, optionally filtered by status
// @Tags Reports
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/loans [get]
func (h *ReportHandler) LoansCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateLoansCSV(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("prestamos_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Payments CSV Report
// @Description Download the payments in a date range as CSV
// @Tags Reports
// @Produce text/csv
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/payments [get]
func (h *ReportHandler) PaymentsCSV(c *gin.Context) {
	buf, err := h.reportService.GeneratePaymentsCSV(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("pagos_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Overdue Loans CSV Report
// @Description Download the overdue loans with client contact data for collection work
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/overdue [get]
func (h *ReportHandler) OverdueCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateOverdueLoansCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("prestamos_vencidos_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Loan Statement PDF
// @Description Download a PDF statement of a loan with its payment history
// @Tags Reports
// @Produce application/pdf
// @Param id path int true "Loan ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /reports/loans/{id}/statement [get]
func (h *ReportHandler) LoanStatementPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	buf, err := h.reportService.GenerateLoanStatementPDF(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
		return
	}

	filename := fmt.Sprintf("estado_prestamo_%d.pdf", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Client Statement PDF
// @Description Download a PDF statement covering every loan of a client
// @Tags Reports
// @Produce application/pdf
// @Param id path int true "Client ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /reports/clients/{id}/statement [get]
func (h *ReportHandler) ClientStatementPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	buf, err := h.reportService.GenerateClientStatementPDF(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	filename := fmt.Sprintf("estado_cliente_%d.pdf", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
