package catalog

import (
	"context"

	"salesorder-service/internal/domain"
)

type ReaderInterface interface {
	List(ctx context.Context) ([]domain.CatalogItem, error)
	FindByName(ctx context.Context, name string) (*domain.CatalogItem, error)
	FindByID(ctx context.Context, id string) (*domain.CatalogItem, error)
}

var _ ReaderInterface = (*Reader)(nil)
