package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func TestNormalizeTaxRate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"0.16", "0.16"},
		{"16", "0.16"},
		{"0.16666", "0.1667"},
		{"16.666", "0.1667"},
		{"0", "0"},
		{"1", "1"},
	}
	for _, tc := range cases {
		got := entity.NormalizeTaxRate(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got.String(), tc.in)
	}
}

func TestSale_CalculateTotalsConTasaPersistible(t *testing.T) {
	s := &entity.Sale{
		TaxRate: entity.NormalizeTaxRate(decimal.RequireFromString("0.16666")),
		Items: []entity.SaleItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}
	s.CalculateTotals()

	// Recalcular con la tasa que se guarda (4 decimales) da el mismo total.
	stored := s.TaxRate.Round(entity.TaxRatePlaces)
	assert.True(t, s.Total.Equal(s.Subtotal.Add(s.Subtotal.Mul(stored).Round(entity.CurrencyPlaces))))
	assert.Equal(t, "25", s.Subtotal.String())
	assert.Equal(t, "29.17", s.Total.StringFixed(2))
}
