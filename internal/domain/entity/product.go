package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock se descuenta al registrar ventas y nunca puede quedar negativo.
type Product struct {
	ID          int64
	SKU         string // opcional; si existe es la clave natural en importaciones
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Stock       int
	CategoryID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InventoryValue valor del stock a precio de venta.
func (p Product) InventoryValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Stock)))
}
