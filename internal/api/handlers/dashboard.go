package handlers

import (
	"net/http"

	"adspark/internal/campaign"
	"adspark/internal/logger"
	"adspark/internal/performance"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	provider performance.Provider
	registry *campaign.Registry
	logger   *logger.Logger
}

func NewDashboardHandler(provider performance.Provider, registry *campaign.Registry, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		provider: provider,
		registry: registry,
		logger:   log,
	}
}

// Get returns the stats cards, the live performance variants and the
// campaign currently being worked on.
// GET /api/v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := performance.LoadDashboard(c.Request.Context(), h.provider)
	if err != nil {
		h.logger.Error("Failed to load dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load performance data"})
		return
	}

	data := gin.H{
		"summary":           dashboard.Summary,
		"deployed_variants": dashboard.Deployed,
		"current_campaign":  nil,
	}
	if current, ok := h.registry.Current(); ok {
		data["current_campaign"] = current
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
