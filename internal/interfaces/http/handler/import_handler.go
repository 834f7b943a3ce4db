package handler

import (
	"context"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderImportService is the part of the order importer the API drives
type OrderImportService interface {
	FindOrCreateUsingEbayID(ctx context.Context, orderID string) (*integration.ImportResult, error)
}

// SaleQueryService looks up imported sales
type SaleQueryService interface {
	GetSaleByEbayOrderID(ctx context.Context, orderID string) (*integration.SaleResponse, error)
}

// ImportHandler exposes eBay order import over HTTP
type ImportHandler struct {
	BaseHandler
	importer OrderImportService
	sales    SaleQueryService
}

// NewImportHandler creates an ImportHandler
func NewImportHandler(importer OrderImportService, sales SaleQueryService) *ImportHandler {
	return &ImportHandler{importer: importer, sales: sales}
}

// RegisterRoutes registers the import routes under rg
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/channels/:channel_id/ebay/orders/:order_id/import", h.ImportOrder)
	rg.GET("/sales/ebay/:order_id", h.GetSaleByEbayOrderID)
}

// ImportOrder finds or imports the sale of an eBay order within a channel.
// It answers 201 when the sale was created and 200 when it already existed.
func (h *ImportHandler) ImportOrder(c *gin.Context) {
	var req dto.ImportOrderRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := channel.WithCurrentChannel(c.Request.Context(), uuid.MustParse(req.ChannelID))
	result, err := h.importer.FindOrCreateUsingEbayID(ctx, req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := integration.ToImportResponse(result)
	if result.Created() {
		h.Created(c, resp)
		return
	}
	h.Success(c, resp)
}

// GetSaleByEbayOrderID returns the sale imported for an eBay order
func (h *ImportHandler) GetSaleByEbayOrderID(c *gin.Context) {
	orderID := c.Param("order_id")
	sale, err := h.sales.GetSaleByEbayOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}
