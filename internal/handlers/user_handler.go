package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/services"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateExpertise handles PUT /user/expertise
func (h *UserHandler) UpdateExpertise(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	var request struct {
		Expertise string `json:"expertise" binding:"required"`
		Bio       string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expertise is required"})
		return
	}

	updated, err := h.userService.UpdateExpertise(c.Request.Context(), user.ID, request.Expertise, request.Bio)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "expertise": updated.Profile.Expertise})
}
