package normalize

import (
	"encoding/json"
	"testing"

	"salesorder-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		row      map[string]any
		expected domain.ExtractedItem
	}{
		{
			name: "string values with total fallback",
			row:  map[string]any{"Item Description": "Bolt M6", "Qty": "5", "Price/Unit": "0.20"},
			expected: domain.ExtractedItem{
				Description: "Bolt M6", Quantity: 5, UnitPrice: dec("0.20"), TotalPrice: dec("1.00"),
			},
		},
		{
			name: "numeric values and explicit total",
			row: map[string]any{
				"Description": "Nut M8", "Quantity": json.Number("10"), "Unit Price": json.Number("0.5"), "Line Total": json.Number("4.75"),
			},
			expected: domain.ExtractedItem{
				Description: "Nut M8", Quantity: 10, UnitPrice: dec("0.5"), TotalPrice: dec("4.75"),
			},
		},
		{
			name: "earlier alias wins",
			row:  map[string]any{"Product": "second", "Request Item": "first", "Amount": "3", "Quantity": "2"},
			expected: domain.ExtractedItem{
				Description: "first", Quantity: 2, UnitPrice: decimal.Zero, TotalPrice: decimal.Zero,
			},
		},
		{
			name: "missing quantity defaults to zero",
			row:  map[string]any{"Part Description": "Washer", "Price": "1.25"},
			expected: domain.ExtractedItem{
				Description: "Washer", Quantity: 0, UnitPrice: dec("1.25"), TotalPrice: decimal.Zero,
			},
		},
		{
			name: "unparseable numbers fall back",
			row:  map[string]any{"Description": "Screw", "Qty": "five", "Unit Cost": "n/a", "Total": "?"},
			expected: domain.ExtractedItem{
				Description: "Screw", Quantity: 0, UnitPrice: decimal.Zero, TotalPrice: decimal.Zero,
			},
		},
		{
			name: "null prices fall back",
			row:  map[string]any{"Description": "Rivet", "Qty": json.Number("4"), "Unit Price": json.Number("2.5"), "Total Price": nil},
			expected: domain.ExtractedItem{
				Description: "Rivet", Quantity: 4, UnitPrice: dec("2.5"), TotalPrice: dec("10"),
			},
		},
		{
			name: "fractional quantity truncates",
			row:  map[string]any{"Description": "Pin", "Qty": json.Number("2.7"), "Price": json.Number("1")},
			expected: domain.ExtractedItem{
				Description: "Pin", Quantity: 2, UnitPrice: dec("1"), TotalPrice: dec("2"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalizer{}.Normalize(tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Description, got.Description)
			assert.Equal(t, tt.expected.Quantity, got.Quantity)
			assert.True(t, tt.expected.UnitPrice.Equal(got.UnitPrice), "unit price %s", got.UnitPrice)
			assert.True(t, tt.expected.TotalPrice.Equal(got.TotalPrice), "total price %s", got.TotalPrice)
		})
	}
}

func TestNormalizer_MissingDescription(t *testing.T) {
	rows := []map[string]any{
		{},
		{"Qty": "1", "Price": "2"},
		{"description": "lowercase alias is not recognised"},
	}
	for _, row := range rows {
		_, err := Normalizer{}.Normalize(row)
		assert.ErrorIs(t, err, domain.ErrMissingField)
	}
}

func TestNormalizer_Strict(t *testing.T) {
	n := Normalizer{Strict: true}

	_, err := n.Normalize(map[string]any{"Description": "Bolt", "Qty": "many"})
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	_, err = n.Normalize(map[string]any{"Description": "Bolt", "Qty": "1", "Price": "cheap"})
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	_, err = n.Normalize(map[string]any{"Description": "Bolt", "Qty": "1", "Price": "1", "Total": "lots"})
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	got, err := n.Normalize(map[string]any{"Description": "Bolt", "Qty": "3", "Price": "1.5"})
	require.NoError(t, err)
	assert.True(t, dec("4.5").Equal(got.TotalPrice))
}
