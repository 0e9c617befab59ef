package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/services"
)

// BankHandler handles payout destination HTTP requests
type BankHandler struct {
	bankService services.BankService
	userService services.UserService
}

// NewBankHandler creates a new BankHandler
func NewBankHandler(bankService services.BankService, userService services.UserService) *BankHandler {
	return &BankHandler{
		bankService: bankService,
		userService: userService,
	}
}

// GetBankDetails handles GET /bank. The account number is always masked.
func (h *BankHandler) GetBankDetails(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	view, err := h.bankService.Get(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateBankDetails handles PUT /bank
func (h *BankHandler) UpdateBankDetails(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	var input services.UpdateBankDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bankService.Update(c.Request.Context(), user.ID, &input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
