package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/report"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0,00",
		"25":       "25,00",
		"1234.5":   "1.234,50",
		"1000000":  "1.000.000,00",
		"-1234.56": "-1.234,56",
		"0.005":    "0,01",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderReceipt(t *testing.T) {
	doc := report.ReceiptDocument{
		Reference:   "V-0123456789AB",
		Date:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		ClientName:  "Ana Pérez",
		ClientEmail: "ana@example.com",
		Lines: []report.ReceiptLine{
			{ProductID: 1, ProductName: "Teclado", Quantity: 2, UnitPrice: decimal.RequireFromString("25"), Subtotal: decimal.RequireFromString("50")},
		},
		Subtotal:      decimal.RequireFromString("50"),
		TaxRate:       decimal.RequireFromString("0.16"),
		Tax:           decimal.RequireFromString("8"),
		Total:         decimal.RequireFromString("58"),
		PaymentMethod: "efectivo",
	}
	out, err := NewMarotoRenderer("Ventas").RenderReceipt(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestRenderReports(t *testing.T) {
	r := NewMarotoRenderer("Ventas")
	now := time.Now()

	products, err := r.RenderProductReport(context.Background(), report.ProductReport{
		GeneratedAt: now,
		Rows: []report.ProductRow{
			{ID: 1, Name: "Teclado", UnitPrice: decimal.RequireFromString("25"), Stock: 10, InventoryValue: decimal.RequireFromString("250")},
		},
		TotalStock: 10,
		TotalValue: decimal.RequireFromString("250"),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(products, []byte("%PDF")))

	clients, err := r.RenderClientReport(context.Background(), report.ClientReport{GeneratedAt: now})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(clients, []byte("%PDF")), "un reporte vacío también se genera")
}

func TestRender_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoRenderer("Ventas").RenderClientReport(ctx, report.ClientReport{})
	assert.ErrorIs(t, err, context.Canceled)
}
