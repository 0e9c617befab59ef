package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/services"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService services.WalletService
	userService   services.UserService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletService, userService services.UserService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		userService:   userService,
	}
}

// GetMyWallet handles GET /wallet/me
func (h *WalletHandler) GetMyWallet(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	overview, err := h.walletService.GetOverview(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
