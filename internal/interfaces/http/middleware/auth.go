package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/infrastructure/auth"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the actor auth middleware
const (
	ActorKey      = "actor"
	ActorIDKey    = "actor_id"
	ActorRoleKey  = "actor_role"
	ClaimsKey     = "jwt_claims"
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the actor auth middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	// SkipPaths bypass authentication entirely
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultAuthConfig returns the default auth middleware configuration
func DefaultAuthConfig(jwtService *auth.JWTService) AuthConfig {
	return AuthConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/login",
		},
	}
}

// ActorAuth validates the bearer token and materializes the acting identity
// into the sealed actor type. Handlers downstream read it with GetActor.
func ActorAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return ActorAuthWithConfig(DefaultAuthConfig(jwtService))
}

// ActorAuthWithConfig creates the actor auth middleware with custom config
func ActorAuthWithConfig(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(authHeaderKey)
		if header == "" {
			abortUnauthenticated(c, cfg, nil, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthenticated(c, cfg, nil, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(header, bearerPrefix)
		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthenticated(c, cfg, err, "Token validation failed")
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			abortUnauthenticated(c, cfg, err, "Claims do not form a valid actor")
			return
		}

		c.Set(ActorKey, actor)
		c.Set(ActorIDKey, claims.ActorID)
		c.Set(ActorRoleKey, claims.Role)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, cfg AuthConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := dto.ErrCodeInvalidToken
	if errors.Is(err, auth.ErrExpiredToken) {
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetActor returns the authenticated actor from the gin context
func GetActor(c *gin.Context) (directory.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(directory.Actor)
	return actor, ok
}

// GetClaims returns the validated JWT claims from the gin context
func GetClaims(c *gin.Context) *auth.Claims {
	if value, exists := c.Get(ClaimsKey); exists {
		if claims, ok := value.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
