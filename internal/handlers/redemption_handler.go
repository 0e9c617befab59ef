package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionHandler handles redemption-related HTTP requests
type RedemptionHandler struct {
	redemptionService services.RedemptionService
	userService       services.UserService
}

// NewRedemptionHandler creates a new RedemptionHandler
func NewRedemptionHandler(redemptionService services.RedemptionService, userService services.UserService) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionService: redemptionService,
		userService:       userService,
	}
}

// CreateRedemption handles POST /redemptions
func (h *RedemptionHandler) CreateRedemption(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	var request struct {
		Method models.RedemptionMethod `json:"method" binding:"required"`
		Points int                     `json:"points" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	redemption, err := h.redemptionService.Request(c.Request.Context(), user.ID, request.Method, request.Points)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, redemption)
}

// ListRedemptions handles GET /redemptions
func (h *RedemptionHandler) ListRedemptions(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	redemptions, err := h.redemptionService.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, redemptions)
}

// UpdateRedemptionStatus handles PUT /admin/redemptions/:id/status
func (h *RedemptionHandler) UpdateRedemptionStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request struct {
		Status    models.RedemptionStatus `json:"status" binding:"required"`
		PayoutRef string                  `json:"payoutRef"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	redemption, err := h.redemptionService.UpdateStatus(c.Request.Context(), id, request.Status, request.PayoutRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, redemption)
}
