package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"salesorder-service/internal/domain"
	"salesorder-service/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lineItemBatchSize = 100

type orderRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	return &orderRepo{db: db, logger: logger.Named("order_repo")}
}

func (r *orderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		r.logger.Error("order save failed", zap.Error(result.Error))
		return result.Error
	}

	if order.ID == 0 {
		r.logger.Warn("order saved without id", zap.Int64("rows_affected", result.RowsAffected))
		return errors.New("failed to assign order ID")
	}

	r.logger.Debug("order saved", zap.Uint64("order_id", order.ID))
	return nil
}

func (r *orderRepo) FindOrderByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("FindOrderByID failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		r.logger.Error("ListOrders failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		r.logger.Error("UpdateOrderStatus failed", zap.Uint64("order_id", id), zap.Error(err))
	}
	return err
}

// SaveLineItems inserts all items in one transaction, in chunks.
func (r *orderRepo) SaveLineItems(ctx context.Context, items []*domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(items, lineItemBatchSize).Error; err != nil {
			return err
		}
		for _, item := range items {
			if item.ID == 0 {
				return errors.New("batch insert failed to assign IDs")
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("line item batch save failed", zap.Int("count", len(items)), zap.Error(err))
		return fmt.Errorf("save line items: %w", err)
	}

	r.logger.Debug("line items saved", zap.Int("count", len(items)))
	return nil
}

func (r *orderRepo) ListLineItems(ctx context.Context, orderID uint64) ([]domain.LineItem, error) {
	out := []domain.LineItem{}
	err := r.db.WithContext(ctx).
		Where("sales_order_id = ?", orderID).
		Order("id").
		Find(&out).Error
	if err != nil {
		r.logger.Error("ListLineItems failed", zap.Uint64("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindLineItem(ctx context.Context, orderID, lineItemID uint64) (*domain.LineItem, error) {
	var li domain.LineItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND sales_order_id = ?", lineItemID, orderID).
		First(&li).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("FindLineItem failed",
			zap.Uint64("order_id", orderID), zap.Uint64("line_item_id", lineItemID), zap.Error(err))
		return nil, err
	}
	return &li, nil
}

func (r *orderRepo) UpdateLineItem(ctx context.Context, item *domain.LineItem) error {
	if err := r.db.WithContext(ctx).Omit("SalesOrder").Save(item).Error; err != nil {
		r.logger.Error("UpdateLineItem failed", zap.Uint64("line_item_id", item.ID), zap.Error(err))
		return err
	}
	return nil
}
