package handlers

import (
	"errors"
	"net/http"

	"adspark/internal/campaign"
	"adspark/internal/chat"
	"adspark/internal/logger"
	"adspark/internal/models"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	transcript *chat.Transcript
	registry   *campaign.Registry
	logger     *logger.Logger
}

func NewChatHandler(transcript *chat.Transcript, registry *campaign.Registry, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		transcript: transcript,
		registry:   registry,
		logger:     log,
	}
}

// GET /api/v1/chat
func (h *ChatHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"messages":    h.transcript.Messages(),
		"suggestions": h.transcript.Suggestions(),
	}})
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// POST /api/v1/chat/messages
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	var campaignData *models.Campaign
	if current, ok := h.registry.Current(); ok {
		campaignData = &current
	}

	reply, err := h.transcript.Send(c.Request.Context(), req.Content, campaignData)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
			return
		}
		h.logger.Error("Chat response failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Agent is unavailable"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": reply})
}
