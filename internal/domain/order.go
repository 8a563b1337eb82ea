package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusProcessed OrderStatus = "processed"
	StatusExported  OrderStatus = "exported"
)

type LineItemStatus string

const (
	LineItemPending  LineItemStatus = "pending"
	LineItemVerified LineItemStatus = "verified"
	LineItemRejected LineItemStatus = "rejected"
)

type Order struct {
	ID               uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Filename         string      `json:"filename" gorm:"size:255;not null;uniqueIndex"`
	OriginalFilename string      `json:"original_filename" gorm:"size:255"`
	PageCount        int         `json:"page_count" gorm:"not null;default:0"`
	Status           OrderStatus `json:"status" gorm:"size:16;not null;default:'pending'"`
	CreatedAt        time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

func (Order) TableName() string {
	return "sales_orders"
}

// CatalogMatch is the catalog metadata snapshot stored with a matched line item.
type CatalogMatch struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LineItem struct {
	ID               uint64                            `json:"id" gorm:"primaryKey;autoIncrement"`
	SalesOrderID     uint64                            `json:"sales_order_id" gorm:"not null;index"`
	SalesOrder       *Order                            `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Description      string                            `json:"description" gorm:"type:text"`
	Quantity         int                               `json:"quantity"`
	UnitPrice        decimal.Decimal                   `json:"unit_price" gorm:"type:decimal(20,4);not null"`
	TotalPrice       decimal.Decimal                   `json:"total_price" gorm:"type:decimal(20,4);not null"`
	CatalogMatchID   *string                           `json:"catalog_match_id" gorm:"size:255"`
	CatalogMatchData *datatypes.JSONType[CatalogMatch] `json:"catalog_match_data"`
	ConfidenceScore  *float64                          `json:"confidence_score"`
	Status           LineItemStatus                    `json:"status" gorm:"size:16;not null;default:'pending'"`
}

func (LineItem) TableName() string {
	return "line_items"
}

func (li *LineItem) SetMatch(id string, data CatalogMatch) {
	li.CatalogMatchID = &id
	jt := datatypes.NewJSONType(data)
	li.CatalogMatchData = &jt
}

// ExtractedItem is a normalized extraction row.
type ExtractedItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// CatalogItem is a row of the catalog file projected for matching and display.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c CatalogItem) Match() CatalogMatch {
	return CatalogMatch{ID: c.ID, Name: c.Name, Description: c.Description}
}
