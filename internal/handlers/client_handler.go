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

type ClientHandler struct {
	clientService *services.ClientService
	loanService   *services.LoanService
}

func NewClientHandler(clientService *services.ClientService, loanService *services.LoanService) *ClientHandler {
	return &ClientHandler{clientService: clientService, loanService: loanService}
}

// @Summary List Clients
// @Description Get a paginated list of clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")

	clients, total, err := h.clientService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for i := range clients {
		responses = append(responses, clients[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Client
// @Description Get a client by ID
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	client, err := h.clientService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

// @Summary List Client Loans
// @Description Get every loan of a client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id}/loans [get]
func (h *ClientHandler) Loans(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	loans, err := h.loanService.ListByClient(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	var responses []interface{}
	for i := range loans {
		responses = append(responses, loans[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"loans": responses})
}

// @Summary Create Client
// @Description Register a new client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body services.CreateClientInput true "Client Data"
// @Success 201 {object} models.ClientResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var input services.CreateClientInput
	if err := BindNestedOrFlat(c, "client", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cliente inválidos"})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), input, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Ya existe un cliente con este documento de identidad"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client.ToResponse()})
}

// @Summary Update Client
// @Description Update an existing client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param client body services.CreateClientInput true "Client Data"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var input services.CreateClientInput
	if err := BindNestedOrFlat(c, "client", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cliente inválidos"})
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), uint(id), input, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
			return
		}
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Ya existe un cliente con este documento de identidad"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

// @Summary Delete Client
// @Description Delete a client without loans
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	err := h.clientService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
			return
		}
		if errors.Is(err, services.ErrHasLoans) {
			c.JSON(http.StatusConflict, gin.H{"error": "El cliente tiene préstamos registrados, elimínalos primero"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado exitosamente"})
}
