package domain

import "time"

const (
	EventOrderCreated     = "order.created"
	EventOrderExported    = "order.exported"
	EventLineItemVerified = "line_item.verified"
	EventLineItemUpdated  = "line_item.updated"
)

type OrderCreatedEvent struct {
	OrderID          uint64    `json:"orderId"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	LineItemCount    int       `json:"lineItemCount"`
	MatchedCount     int       `json:"matchedCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

type OrderExportedEvent struct {
	OrderID       uint64    `json:"orderId"`
	LineItemCount int       `json:"lineItemCount"`
	ExportedAt    time.Time `json:"exportedAt"`
}

type LineItemEvent struct {
	OrderID        uint64         `json:"orderId"`
	LineItemID     uint64         `json:"lineItemId"`
	CatalogMatchID *string        `json:"catalogMatchId,omitempty"`
	Status         LineItemStatus `json:"status"`
	OccurredAt     time.Time      `json:"occurredAt"`
}
