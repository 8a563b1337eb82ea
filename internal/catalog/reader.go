// Package catalog reads the fastener catalog file. The file is the source of truth and is
// re-read on every call.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"salesorder-service/internal/domain"
)

var keyColumns = []string{"Type", "Material", "Size", "Length", "Coating", "Thread Type"}

const descriptionColumn = "Description"

type Reader struct {
	path string
}

func NewReader(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) List(ctx context.Context) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	err := r.scan(ctx, func(item domain.CatalogItem) bool {
		items = append(items, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByName returns the first item whose display name equals name, or nil.
func (r *Reader) FindByName(ctx context.Context, name string) (*domain.CatalogItem, error) {
	return r.find(ctx, func(item domain.CatalogItem) bool { return item.Name == name })
}

// FindByID returns the first item whose composite id equals id, or nil.
func (r *Reader) FindByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	return r.find(ctx, func(item domain.CatalogItem) bool { return item.ID == id })
}

func (r *Reader) find(ctx context.Context, match func(domain.CatalogItem) bool) (*domain.CatalogItem, error) {
	var found *domain.CatalogItem
	err := r.scan(ctx, func(item domain.CatalogItem) bool {
		if match(item) {
			found = &item
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// scan streams catalog rows to fn until it returns false.
func (r *Reader) scan(ctx context.Context, fn func(domain.CatalogItem) bool) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%w: read header: %v", domain.ErrCatalogUnavailable, err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		if !fn(toItem(record, index)) {
			return nil
		}
	}
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[name] = i
	}
	for _, col := range append(keyColumns, descriptionColumn) {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrCatalogUnavailable, col)
		}
	}
	return index, nil
}

func toItem(record []string, index map[string]int) domain.CatalogItem {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		parts[i] = field(col)
	}
	return domain.CatalogItem{
		ID:          strings.Join(parts, "_"),
		Name:        strings.Join(parts, " "),
		Description: field(descriptionColumn),
	}
}
