package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcastellanos/prestamos-api/internal/finance"
	"github.com/jcastellanos/prestamos-api/internal/middleware"
	"github.com/jcastellanos/prestamos-api/internal/repository"
	"github.com/jcastellanos/prestamos-api/internal/services"
)

type LoanHandler struct {
	loanService     *services.LoanService
	scheduleService *services.ScheduleService
}

func NewLoanHandler(loanService *services.LoanService, scheduleService *services.ScheduleService) *LoanHandler {
	return &LoanHandler{loanService: loanService, scheduleService: scheduleService}
}

// @Summary List Loans
// @Description Get a paginated list of loans
// @Tags Loans
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /loans [get]
func (h *LoanHandler) Index(c *gin.Context) {
	query := &repository.LoanQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	if clientID, err := strconv.ParseUint(c.Query("client_id"), 10, 32); err == nil {
		query.ClientID = uint(clientID)
	}
	if statusIn := c.Query("status_in"); statusIn != "" {
		query.Filters["status_in"] = statusIn
	}
	if from := c.Query("issued_from"); from != "" {
		query.Filters["issued_from"] = from
	}
	if to := c.Query("issued_to"); to != "" {
		query.Filters["issued_to"] = to
	}

	loans, total, err := h.loanService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for i := range loans {
		responses = append(responses, loans[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"loans": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Loan
// @Description Get a loan by ID with client and payment history
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} models.LoanResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *LoanHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	loan, err := h.loanService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan.ToResponse()})
}

// @Summary Create Loan
// @Description Grant a new loan to a client
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan body services.CreateLoanInput true "Loan Data"
// @Success 201 {object} models.LoanResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	var input services.CreateLoanInput
	if err := BindNestedOrFlat(c, "loan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de préstamo inválidos"})
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), input, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"loan": loan.ToResponse()})
}

// @Summary Update Loan
// @Description Update a loan's terms; status is recomputed afterwards
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param loan body services.UpdateLoanInput true "Loan Data"
// @Success 200 {object} models.LoanResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{id} [put]
func (h *LoanHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var input services.UpdateLoanInput
	if err := BindNestedOrFlat(c, "loan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de préstamo inválidos"})
		return
	}

	loan, err := h.loanService.Update(c.Request.Context(), uint(id), input, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
			return
		}
		if errors.Is(err, finance.ErrDataUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudieron consultar los pagos del préstamo"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": loan.ToResponse()})
}

// @Summary Delete Loan
// @Description Delete a loan with its payment history
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	err := h.loanService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Préstamo eliminado exitosamente"})
}

// @Summary Simulate Schedule
// @Description Project an amortization schedule without creating a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Param simulation body services.SimulateInput true "Simulation Parameters"
// @Success 200 {object} services.SimulateResult
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /loans/simulate [post]
func (h *LoanHandler) Simulate(c *gin.Context) {
	var input services.SimulateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parámetros de simulación inválidos"})
		return
	}

	result, err := h.scheduleService.Simulate(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Refresh Loan Statuses
// @Description Recompute the status of every unpaid loan
// @Tags Loans
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /loans/refresh-statuses [post]
func (h *LoanHandler) RefreshStatuses(c *gin.Context) {
	updated, err := h.loanService.RefreshStatuses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Estados actualizados", "updated": updated})
}
