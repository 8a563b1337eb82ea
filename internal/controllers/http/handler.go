package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"salesorder-service/internal/domain"
	"salesorder-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderService interface {
	Ingest(ctx context.Context, content []byte, originalName string) (*services.IngestResult, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id uint64) (*services.OrderDetail, error)
	UpdateMatch(ctx context.Context, orderID, lineItemID uint64, catalogItemID string) (*domain.LineItem, error)
	UpdateLineItem(ctx context.Context, orderID, lineItemID uint64, fields services.LineItemFields) (*domain.LineItem, error)
	Export(ctx context.Context, orderID uint64) ([]byte, error)
	ListCatalog(ctx context.Context) ([]domain.CatalogItem, error)
	FilePath(name string) (string, error)
}

var _ OrderService = (*services.OrderService)(nil)

type Handler struct {
	service OrderService
	logger  *zap.Logger
}

func NewHandler(s OrderService, logger *zap.Logger) *Handler {
	return &Handler{service: s, logger: logger.Named("http")}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.POST("/upload", h.Upload)

	orders := r.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/:id/match", h.UpdateMatch)
	orders.PUT("/:id/line-items/:line_item_id", h.UpdateLineItem)
	orders.GET("/:id/export", h.Export)

	r.GET("/catalog", h.ListCatalog)
	r.GET("/files/:filename", h.GetFile)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		h.writeError(c, err)
		return
	}

	res, err := h.service.Ingest(c.Request.Context(), content, fh.Filename)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) UpdateMatch(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var q UpdateMatchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if _, err := h.service.UpdateMatch(c.Request.Context(), id, q.LineItemID, q.CatalogItemID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Match updated successfully"})
}

func (h *Handler) UpdateLineItem(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	lineItemID, ok := uintParam(c, "line_item_id")
	if !ok {
		return
	}
	var req UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	li, err := h.service.UpdateLineItem(c.Request.Context(), id, lineItemID, services.LineItemFields{
		Description: *req.Description,
		Quantity:    *req.Quantity,
		UnitPrice:   *req.UnitPrice,
		TotalPrice:  *req.TotalPrice,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, li)
}

func (h *Handler) Export(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	data, err := h.service.Export(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=order_%d.csv", id))
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *Handler) ListCatalog(c *gin.Context) {
	items, err := h.service.ListCatalog(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetFile(c *gin.Context) {
	path, err := h.service.FilePath(c.Param("filename"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.File(path)
}

func uintParam(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return v, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrInvalidFileType), errors.Is(err, domain.ErrNoValidItems):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &upstream) && upstream.StatusCode >= 400:
		return upstream.StatusCode
	case errors.Is(err, domain.ErrExtractionFailed), errors.Is(err, domain.ErrMatchingFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
