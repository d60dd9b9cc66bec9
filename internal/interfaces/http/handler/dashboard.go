package handler

import (
	"github.com/facturo/backend/internal/application/dashboard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler exposes the read-side dashboard over HTTP
type DashboardHandler struct {
	BaseHandler
	service *dashboard.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *dashboard.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers the dashboard route on the API group
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Overview)
}

// Overview handles GET /dashboard. from/to accept date-only or RFC3339
// values; a date-only "to" covers the whole day.
func (h *DashboardHandler) Overview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	from := c.Query("from")
	to := c.Query("to")

	resp, err := h.service.Overview(c.Request.Context(), actor, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
