package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcastellanos/prestamos-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// @Summary Job Status
// @Description Get background worker pool statistics
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}
