package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"salesorder-service/internal/domain"

	"go.uber.org/zap"
)

const noMatchLabel = "No match"

var exportHeader = []string{"Description", "Quantity", "Unit Price", "Total Price", "Catalog Match"}

// Export renders the order's line items as CSV and marks the order exported.
// The status change happens before the caller delivers the bytes.
func (u *OrderService) Export(ctx context.Context, orderID uint64) ([]byte, error) {
	o, err := u.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}

	items, err := u.repo.ListLineItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	data, err := renderCSV(items)
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	if err := u.markExported(ctx, orderID); err != nil {
		return nil, err
	}
	u.logger.Info("order exported", zap.Uint64("order_id", orderID), zap.Int("line_items", len(items)))

	go u.publish(domain.EventOrderExported, domain.OrderExportedEvent{
		OrderID:       orderID,
		LineItemCount: len(items),
		ExportedAt:    u.now(),
	})
	return data, nil
}

func renderCSV(items []domain.LineItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, item := range items {
		match := noMatchLabel
		if item.CatalogMatchData != nil {
			match = item.CatalogMatchData.Data().Name
		}
		record := []string{
			item.Description,
			strconv.Itoa(item.Quantity),
			item.UnitPrice.String(),
			item.TotalPrice.String(),
			match,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
