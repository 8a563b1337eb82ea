package repository

import (
	"context"

	"salesorder-service/internal/domain"
)

// OrderRepository persists orders and their line items. Find methods return nil, nil
// when nothing matches.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	FindOrderByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) error

	SaveLineItems(ctx context.Context, items []*domain.LineItem) error
	ListLineItems(ctx context.Context, orderID uint64) ([]domain.LineItem, error)
	FindLineItem(ctx context.Context, orderID, lineItemID uint64) (*domain.LineItem, error)
	UpdateLineItem(ctx context.Context, item *domain.LineItem) error
}
