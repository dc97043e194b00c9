// Package report arma los documentos planos de comprobantes y reportes
// y los entrega a los renderizadores externos (PDF, XML).
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ReceiptLine línea del comprobante.
type ReceiptLine struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptDocument comprobante de venta listo para renderizar.
type ReceiptDocument struct {
	Reference     string
	Date          time.Time
	ClientName    string
	ClientEmail   string
	Lines         []ReceiptLine
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	IsPaid        bool
	Notes         string
}

// ProductRow fila del reporte de productos.
type ProductRow struct {
	ID             int64
	SKU            string
	Name           string
	UnitPrice      decimal.Decimal
	Stock          int
	InventoryValue decimal.Decimal
}

// ProductReport reporte de inventario valorizado.
type ProductReport struct {
	GeneratedAt time.Time
	Rows        []ProductRow
	TotalStock  int
	TotalValue  decimal.Decimal
}

// ClientRow fila del reporte de clientes.
type ClientRow struct {
	ID       int64
	FullName string
	Email    string
	Phone    string
	Age      int
}

// ClientReport listado de clientes.
type ClientReport struct {
	GeneratedAt time.Time
	Rows        []ClientRow
	Count       int
}

// FormatSaleReceipt arma el comprobante. Los subtotales de línea se recalculan
// (cantidad × precio) y los totales se toman de la venta.
// Un producto sin nombre resuelto aparece como "Producto #<id>".
func FormatSaleReceipt(sale *entity.Sale, client *entity.Client, productNames map[int64]string) ReceiptDocument {
	doc := ReceiptDocument{
		Reference:     sale.Reference,
		Date:          sale.Date,
		Lines:         make([]ReceiptLine, 0, len(sale.Items)),
		Subtotal:      sale.Subtotal,
		TaxRate:       sale.TaxRate,
		Tax:           sale.Tax,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		IsPaid:        sale.IsPaid,
		Notes:         sale.Notes,
	}
	if client != nil {
		doc.ClientName = client.FullName()
		doc.ClientEmail = client.Email
	}
	for _, it := range sale.Items {
		name, ok := productNames[it.ProductID]
		if !ok || name == "" {
			name = fmt.Sprintf("Producto #%d", it.ProductID)
		}
		doc.Lines = append(doc.Lines, ReceiptLine{
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.LineSubtotal(),
		})
	}
	return doc
}

// FormatProductReport valoriza el inventario a precio de venta.
func FormatProductReport(products []*entity.Product, now time.Time) ProductReport {
	r := ProductReport{GeneratedAt: now, Rows: make([]ProductRow, 0, len(products)), TotalValue: decimal.Zero}
	for _, p := range products {
		value := p.InventoryValue()
		r.Rows = append(r.Rows, ProductRow{
			ID:             p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			UnitPrice:      p.UnitPrice,
			Stock:          p.Stock,
			InventoryValue: value,
		})
		r.TotalStock += p.Stock
		r.TotalValue = r.TotalValue.Add(value)
	}
	return r
}

// FormatClientReport listado de clientes con edad a la fecha now.
func FormatClientReport(clients []*entity.Client, now time.Time) ClientReport {
	r := ClientReport{GeneratedAt: now, Rows: make([]ClientRow, 0, len(clients))}
	for _, c := range clients {
		r.Rows = append(r.Rows, ClientRow{
			ID:       c.ID,
			FullName: c.FullName(),
			Email:    c.Email,
			Phone:    c.Phone,
			Age:      c.Age(now),
		})
	}
	r.Count = len(r.Rows)
	return r
}
