package services

import (
	"time"

	"salesorder-service/internal/domain"

	"github.com/shopspring/decimal"
)

func CreateMockOrder(id uint64, filename string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:               id,
		Filename:         filename,
		OriginalFilename: "order.pdf",
		Status:           status,
		CreatedAt:        time.Now(),
	}
}

func CreateMockLineItem(id, orderID uint64, description string, qty int, unitPrice string, match *domain.CatalogMatch) *domain.LineItem {
	price := decimal.RequireFromString(unitPrice)
	li := &domain.LineItem{
		ID:           id,
		SalesOrderID: orderID,
		Description:  description,
		Quantity:     qty,
		UnitPrice:    price,
		TotalPrice:   price.Mul(decimal.NewFromInt(int64(qty))),
		Status:       domain.LineItemPending,
	}
	if match != nil {
		li.SetMatch(match.ID, *match)
	}
	return li
}

const (
	TestOrderID     = uint64(1)
	TestLineItemID  = uint64(10)
	TestFilename    = "20240102_030405_0a1b2c3d_order.pdf"
	TestCatalogID   = "Bolt_Steel_M6_20mm_Zinc_Coarse"
	TestCatalogName = "Bolt Steel M6 20mm Zinc Coarse"
)
