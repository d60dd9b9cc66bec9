// Package handler contains the gin HTTP handlers for the invoicing API.
package handler

import (
	"errors"
	"net/http"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides shared response and error helpers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler with the given logger
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success sends a 200 response with the standard envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 validation failure
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeValidationFailed, message, middleware.GetRequestID(c)))
}

// HandleDomainError converts a domain error to its HTTP response. Ownership
// failures are logged at Warn with the acting identity so cross-tenant
// attempts leave a trace.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == dto.ErrCodeUnauthorized && h.logger != nil {
			h.logger.Warn("Cross-tenant access denied",
				zap.String("actor_id", c.GetString(middleware.ActorIDKey)),
				zap.String("actor_role", c.GetString(middleware.ActorRoleKey)),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestID),
			)
		}
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	if h.logger != nil {
		h.logger.Error("Unhandled error in HTTP handler",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestID),
		)
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

// actor returns the authenticated actor or writes a 401 and reports false
func (h *BaseHandler) actor(c *gin.Context) (directory.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidToken, "Authentication required", middleware.GetRequestID(c)))
		return nil, false
	}
	return actor, true
}

// parseID binds and parses the :id path parameter
func (h *BaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
