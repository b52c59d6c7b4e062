package handler

import (
	"net/http"

	"fleet-campus-admin/internal/jobs"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes operational state of the background jobs.
type AdminHandler struct {
	scheduler *jobs.Scheduler
}

func NewAdminHandler(scheduler *jobs.Scheduler) *AdminHandler {
	return &AdminHandler{scheduler: scheduler}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/jobs", h.JobMetrics)
	router.POST("/jobs/:name/run", h.RunJob)
}

func (h *AdminHandler) JobMetrics(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Job metrics", h.scheduler.Metrics().Snapshot())
}

func (h *AdminHandler) RunJob(c *gin.Context) {
	m, err := h.scheduler.Trigger(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job executed", m)
}
