package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"adspark/internal/ai"
	"adspark/internal/logger"
	"adspark/internal/performance"

	"github.com/gin-gonic/gin"
)

type Suggester interface {
	GenerateOptimizationSuggestions(ctx context.Context, performanceData interface{}) ([]ai.Suggestion, error)
}

// OptimizerHandler handles AI optimization requests
type OptimizerHandler struct {
	suggester Suggester
	provider  performance.Provider
	logger    *logger.Logger
}

// NewOptimizerHandler creates a new optimizer handler
func NewOptimizerHandler(suggester Suggester, provider performance.Provider, log *logger.Logger) *OptimizerHandler {
	return &OptimizerHandler{
		suggester: suggester,
		provider:  provider,
		logger:    log,
	}
}

// Suggestions asks the model for optimization ideas. The body is any JSON
// performance data; an empty body analyzes the deployed variants.
// POST /api/v1/optimizer/suggestions
func (h *OptimizerHandler) Suggestions(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var data interface{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
			return
		}
	} else {
		variants, err := h.provider.DeployedVariants(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to load deployed variants: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load performance data"})
			return
		}
		data = variants
	}

	suggestions, err := h.suggester.GenerateOptimizationSuggestions(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Suggestions unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}
