// Package normalize maps provider-specific extraction rows onto the canonical line item shape.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"salesorder-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Aliases lists, per canonical field, the extracted column names that can carry it.
// Earlier names win when a row contains several of them.
var Aliases = map[string][]string{
	"description": {"Request Item", "Item Description", "Description", "Product", "Part Description"},
	"quantity":    {"Quantity", "Amount", "Qty", "Order Qty"},
	"unit_price":  {"Unit Price", "Price", "Unit Cost", "Price/Unit"},
	"total_price": {"Total", "Total Price", "Extended Price", "Line Total"},
}

// Normalizer converts raw rows. The zero value applies the lenient fallbacks:
// unparseable numbers silently become zero (or quantity × unit price for totals).
// Strict rejects rows whose numeric columns are present but unparseable.
type Normalizer struct {
	Strict bool
}

func findColumn(row map[string]any, field string) (string, bool) {
	for _, name := range Aliases[field] {
		if _, ok := row[name]; ok {
			return name, true
		}
	}
	return "", false
}

func (n Normalizer) Normalize(row map[string]any) (domain.ExtractedItem, error) {
	var item domain.ExtractedItem

	descKey, ok := findColumn(row, "description")
	if !ok {
		return item, fmt.Errorf("%w: description", domain.ErrMissingField)
	}
	item.Description = toText(row[descKey])

	if key, ok := findColumn(row, "quantity"); ok {
		qty, err := toInt(row[key])
		if err != nil && n.Strict {
			return item, fmt.Errorf("%w: quantity %q: %v", domain.ErrInvalidField, key, err)
		}
		item.Quantity = qty
	}

	item.UnitPrice = decimal.Zero
	if key, ok := findColumn(row, "unit_price"); ok && row[key] != nil {
		price, err := toDecimal(row[key])
		if err != nil && n.Strict {
			return item, fmt.Errorf("%w: unit price %q: %v", domain.ErrInvalidField, key, err)
		}
		item.UnitPrice = price
	}

	item.TotalPrice = decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice)
	if key, ok := findColumn(row, "total_price"); ok && row[key] != nil {
		total, err := toDecimal(row[key])
		switch {
		case err == nil:
			item.TotalPrice = total
		case n.Strict:
			return item, fmt.Errorf("%w: total price %q: %v", domain.ErrInvalidField, key, err)
		}
	}

	return item, nil
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// toInt follows integer-conversion semantics: whole-number strings parse, floats truncate.
func toInt(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("null value")
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("not a number: %s", t)
		}
		return int(f), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("not a finite number")
		}
		return int(t), nil
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero, err
		}
		return d, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero, err
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", v)
	}
}
