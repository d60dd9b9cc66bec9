package handler

import (
	"github.com/facturo/backend/internal/application/directory"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SellerHandler exposes the admin seller roster over HTTP
type SellerHandler struct {
	BaseHandler
	service *directory.SellerService
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(service *directory.SellerService, logger *zap.Logger) *SellerHandler {
	return &SellerHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers the admin seller routes on the API group.
// Authorization is enforced in the service via the actor, not by a
// route-level role check.
func (h *SellerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sellers := rg.Group("/admin/sellers")
	{
		sellers.POST("", h.Provision)
		sellers.GET("", h.List)
		sellers.GET("/:id", h.Get)
		sellers.PATCH("/:id/active", h.SetActive)
	}
}

// setActiveRequest binds the active-flag toggle body
type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Provision handles POST /admin/sellers
func (h *SellerHandler) Provision(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req directory.ProvisionSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Provision(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get handles GET /admin/sellers/:id
func (h *SellerHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /admin/sellers
func (h *SellerHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	query.Normalize()

	filter := directory.SellerListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
	}

	sellers, total, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, sellers, total, filter.Page, filter.PageSize)
}

// SetActive handles PATCH /admin/sellers/:id/active
func (h *SellerHandler) SetActive(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Request must carry an active flag")
		return
	}

	resp, err := h.service.SetActive(c.Request.Context(), actor, id, *req.Active)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
