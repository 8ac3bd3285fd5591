package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcastellanos/prestamos-api/internal/middleware"
	"github.com/jcastellanos/prestamos-api/internal/repository"
	"github.com/jcastellanos/prestamos-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description Get a paginated list of payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param loan_id query int false "Filter by loan"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	if loanID := c.Query("loan_id"); loanID != "" {
		query.Filters["loan_id"] = loanID
	}
	if start := c.Query("start_date"); start != "" {
		query.Filters["start_date"] = start
	}
	if end := c.Query("end_date"); end != "" {
		query.Filters["end_date"] = end
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Payment
// @Description Get a payment by ID
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	payment, err := h.paymentService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary List Loan Payments
// @Description Get the payment history of a loan in chronological order
// @Tags Payments
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{id}/payments [get]
func (h *PaymentHandler) LoanPayments(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	payments, err := h.paymentService.ListByLoan(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
		return
	}

	var responses []interface{}
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses})
}

// @Summary Register Payment
// @Description Record a payment against a loan; the loan status is recomputed
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body services.RegisterPaymentInput true "Payment Data"
// @Success 201 {object} models.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var input services.RegisterPaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de pago inválidos"})
		return
	}

	payment, err := h.paymentService.Register(c.Request.Context(), input, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
			return
		}
		if errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": "El préstamo ya está pagado"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

// @Summary Delete Payment
// @Description Delete a payment; the loan status is recomputed and may reopen
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	err := h.paymentService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pago eliminado exitosamente"})
}
