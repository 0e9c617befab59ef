package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/services"
)

// maxWebhookBody bounds how much callback body is read.
const maxWebhookBody = 1 << 20

// WebhookHandler receives the external reviewer's verdict callbacks
type WebhookHandler struct {
	reviewService services.ReviewService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(reviewService services.ReviewService) *WebhookHandler {
	return &WebhookHandler{
		reviewService: reviewService,
	}
}

// ReceiveVerdict handles POST /n8n/webhook. The body is passed through raw
// because the signature covers the exact bytes on the wire.
func (h *WebhookHandler) ReceiveVerdict(c *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	signature := c.GetHeader("x-signature")

	if _, err := h.reviewService.ReceiveVerdict(c.Request.Context(), rawBody, signature); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
