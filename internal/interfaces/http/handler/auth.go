package handler

import (
	"errors"
	"net/http"
	"time"

	appdirectory "github.com/facturo/backend/internal/application/directory"
	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/auth"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler issues access tokens for seller credentials
type AuthHandler struct {
	BaseHandler
	sellerService *appdirectory.SellerService
	jwtService    *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sellerService *appdirectory.SellerService, jwtService *auth.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   NewBaseHandler(logger),
		sellerService: sellerService,
		jwtService:    jwtService,
	}
}

// RegisterRoutes registers auth routes on the API group
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// loginRequest binds the login body
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// loginResponse carries the issued token and the seller it belongs to
type loginResponse struct {
	AccessToken string                      `json:"access_token"`
	TokenType   string                      `json:"token_type"`
	ExpiresAt   time.Time                   `json:"expires_at"`
	Seller      appdirectory.SellerResponse `json:"seller"`
}

// Login handles POST /auth/login. Invalid credentials and inactive sellers
// both answer 401 without distinguishing the cause.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Email and password are required")
		return
	}

	seller, err := h.sellerService.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidToken, "Invalid credentials", middleware.GetRequestID(c)))
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	issued, err := h.jwtService.GenerateToken(auth.GenerateTokenInput{
		ActorID: seller.ID,
		Role:    directory.RoleSeller,
		Email:   seller.Email,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, loginResponse{
		AccessToken: issued.AccessToken,
		TokenType:   issued.TokenType,
		ExpiresAt:   issued.ExpiresAt,
		Seller:      *seller,
	})
}
