// Package handlers translates HTTP requests into service calls and service
// errors back into status codes. Business rules live in internal/services;
// nothing here touches storage directly.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/middleware"
	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/services"
	"github.com/picquest/rewards-backend/internal/validation"
)

// respondError maps the service error taxonomy onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, services.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient points"})
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
	case errors.Is(err, services.ErrVerdictConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflicting verdict"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUser resolves the verified identity on the request to a User,
// creating the record on first contact.
func currentUser(c *gin.Context, users services.UserService) (*models.User, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	user, err := users.FindOrCreate(c.Request.Context(), identity.Email, identity.Name, identity.Image)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return user, true
}
