package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zobamart/marketplace-backend/internal/dto"
	"github.com/zobamart/marketplace-backend/internal/http/handlers/common"
	"github.com/zobamart/marketplace-backend/internal/service"
)

// AuthHandler is the HTTP layer for login.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, result)
}
