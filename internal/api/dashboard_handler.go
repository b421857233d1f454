package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	logg             *logger.Logger
}

func NewDashboardHandler(dashboardService service.DashboardService, logg *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logg: logg}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
