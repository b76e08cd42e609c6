package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"adspark/internal/campaign"
	"adspark/internal/logger"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	registry       *campaign.Registry
	logger         *logger.Logger
	maxUploadBytes int64
}

func NewCampaignHandler(registry *campaign.Registry, log *logger.Logger, maxUploadBytes int64) *CampaignHandler {
	return &CampaignHandler{
		registry:       registry,
		logger:         log,
		maxUploadBytes: maxUploadBytes,
	}
}

type uploadRequest struct {
	FileName string `json:"file_name" binding:"required"`
	DataURL  string `json:"data_url" binding:"required"`
}

// Create starts a campaign from an uploaded product image.
// POST /api/v1/campaigns (multipart "file" or JSON {file_name, data_url})
func (h *CampaignHandler) Create(c *gin.Context) {
	var (
		ctrl *campaign.Controller
		err  error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		ctrl, err = h.createFromMultipart(c)
	} else {
		if h.maxUploadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONUploadBody(h.maxUploadBytes))
		}
		var req uploadRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				h.writeError(c, campaign.ErrUploadTooLarge)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": bindErr.Error()})
			return
		}
		ctrl, err = h.registry.UploadDataURL(req.FileName, req.DataURL)
	}

	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": ctrl.Campaign()})
}

// jsonUploadOverhead covers the data URL prefix, the file name and the
// JSON framing around the base64 payload.
const jsonUploadOverhead = 4 << 10

// maxJSONUploadBody is the largest JSON body that can carry an image of
// maxBytes once base64 encoded.
func maxJSONUploadBody(maxBytes int64) int64 {
	return int64(base64.StdEncoding.EncodedLen(int(maxBytes))) + jsonUploadOverhead
}

func (h *CampaignHandler) createFromMultipart(c *gin.Context) (*campaign.Controller, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, campaign.ErrEmptyUpload
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, campaign.ErrUploadTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return h.registry.Upload(header.Filename, data)
}

// List returns every campaign in this process, newest first.
// GET /api/v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns := h.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"data":  campaigns,
		"total": len(campaigns),
	})
}

// GET /api/v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	ctrl, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ctrl.Campaign()})
}

// DELETE /api/v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.registry.Discard(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Generate requests AI variants and waits for them. The response always
// carries three variants unless the transition itself is invalid.
// POST /api/v1/campaigns/:id/generate
func (h *CampaignHandler) Generate(c *gin.Context) {
	ctrl, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := ctrl.Generate(c.Request.Context())
	if err != nil {
		h.logger.Info("Rejected generation for campaign %s: %v", result.ID, err)
		c.JSON(http.StatusConflict, gin.H{"error": "Campaign cannot generate variants in its current state", "data": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Deploy acknowledges a deploy request without changing the campaign.
// POST /api/v1/campaigns/:id/variants/:variantId/deploy
func (h *CampaignHandler) Deploy(c *gin.Context) {
	ctrl, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	variantID := c.Param("variantId")
	msg, err := ctrl.Deploy(c.Request.Context(), variantID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    msg,
		"variant_id": variantID,
	})
}

func (h *CampaignHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, campaign.ErrCampaignNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
	case errors.Is(err, campaign.ErrVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
	case errors.Is(err, campaign.ErrNotAnImage), errors.Is(err, campaign.ErrEmptyUpload), errors.Is(err, campaign.ErrEmptyFileName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload an image file", "details": err.Error()})
	case errors.Is(err, campaign.ErrUploadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Uploaded file is too large"})
	default:
		h.logger.Error("Campaign request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
