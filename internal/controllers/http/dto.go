package http

import "github.com/shopspring/decimal"

// UpdateLineItemRequest requires every field; the line item is overwritten wholesale.
type UpdateLineItemRequest struct {
	Description *string          `json:"description" binding:"required"`
	Quantity    *int             `json:"quantity" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"unit_price" binding:"required"`
	TotalPrice  *decimal.Decimal `json:"total_price" binding:"required"`
}

type UpdateMatchQuery struct {
	LineItemID    uint64 `form:"line_item_id" binding:"required"`
	CatalogItemID string `form:"catalog_item_id" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
