package handler

import (
	"context"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChannelAdminService manages channels and their exceptions
type ChannelAdminService interface {
	CreateEbayChannel(ctx context.Context, req integration.CreateEbayChannelRequest) (*integration.ChannelResponse, error)
	GetChannel(ctx context.Context, id uuid.UUID) (*integration.ChannelResponse, error)
	ListExceptions(ctx context.Context, channelID uuid.UUID, resolved *bool) ([]integration.ExceptionResponse, error)
	ResolveException(ctx context.Context, id uuid.UUID) (*integration.ExceptionResponse, error)
}

// ChannelHandler handles channel and channel exception endpoints
type ChannelHandler struct {
	BaseHandler
	channels ChannelAdminService
}

// NewChannelHandler creates a ChannelHandler
func NewChannelHandler(channels ChannelAdminService) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

// RegisterRoutes registers the channel routes under rg
func (h *ChannelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/channels", h.CreateChannel)
	rg.GET("/channels/:channel_id", h.GetChannel)
	rg.GET("/channels/:channel_id/exceptions", h.ListExceptions)
	rg.POST("/channel-exceptions/:id/resolve", h.ResolveException)
}

// CreateChannel registers an eBay account as a sales channel
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req integration.CreateEbayChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ch, err := h.channels.CreateEbayChannel(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ch)
}

// GetChannel returns one channel without its credentials
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "channel_id")
	if !ok {
		return
	}
	ch, err := h.channels.GetChannel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ch)
}

// ListExceptions lists a channel's exceptions, optionally filtered with
// ?resolved=true|false
func (h *ChannelHandler) ListExceptions(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "channel_id")
	if !ok {
		return
	}
	var q dto.ExceptionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	exceptions, err := h.channels.ListExceptions(c.Request.Context(), id, q.Resolved)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exceptions)
}

// ResolveException marks a channel exception as handled
func (h *ChannelHandler) ResolveException(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	exc, err := h.channels.ResolveException(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exc)
}
