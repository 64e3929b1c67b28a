package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/service"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// AuthHandlers serves the authentication endpoints
type AuthHandlers struct {
	authService service.AuthService
	logger      Logger
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(authService service.AuthService, logger Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

// LoginRequest is the payload for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the account profile
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Info("Login rejected", "username", req.Username)
		respondServiceError(c, err)
		return
	}

	respondOK(c, LoginResponse{Token: token, User: user})
}
