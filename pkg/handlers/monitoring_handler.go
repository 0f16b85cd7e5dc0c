package handlers

import (
	"net/http"

	"dalal-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler serves the request dashboard.
type MonitoringHandler struct {
	service *services.MonitoringService
}

func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{service: service}
}

// GetLogs aggregates recorded requests over ?period= (1h, 24h or 7d).
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetDashboardData(periodHours(c.DefaultQuery("period", "24h"))))
}

func periodHours(period string) int {
	switch period {
	case "1h":
		return 1
	case "7d":
		return 24 * 7
	default:
		return 24
	}
}
