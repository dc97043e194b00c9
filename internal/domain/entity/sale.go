package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// CurrencyPlaces decimales de la moneda (unidad mínima).
const CurrencyPlaces = 2

// TaxRatePlaces decimales con los que se guarda la tasa (NUMERIC(6,4)).
const TaxRatePlaces = 4

var hundred = decimal.NewFromInt(100)

// Sale cabecera de venta con sus líneas. Las líneas no existen fuera de una venta.
type Sale struct {
	ID            int64
	Reference     string // clave natural: V-XXXXXXXXXXXX en ventas del API, libre en importaciones
	Date          time.Time
	ClientID      int64
	Items         []SaleItem
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal // fracción: 0.16 = 16%
	Tax           decimal.Decimal
	Total         decimal.Decimal
	IsPaid        bool
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
}

// SaleItem línea de venta. UnitPrice es una copia del precio al momento de la venta.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// LineSubtotal cantidad × precio unitario.
func (i SaleItem) LineSubtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotals recalcula subtotales de línea, impuesto y total.
// Subtotal = Σ(cantidad × precio); Tax = round(Subtotal × TaxRate, 2); Total = Subtotal + Tax.
func (s *Sale) CalculateTotals() {
	subtotal := decimal.Zero
	for i := range s.Items {
		s.Items[i].Subtotal = s.Items[i].LineSubtotal()
		subtotal = subtotal.Add(s.Items[i].Subtotal)
	}
	s.Subtotal = subtotal
	s.Tax = subtotal.Mul(s.TaxRate).Round(CurrencyPlaces)
	s.Total = s.Subtotal.Add(s.Tax)
}

// NormalizeTaxRate interpreta valores > 1 como porcentaje (16 → 0.16) y redondea a
// TaxRatePlaces: el impuesto se calcula con la misma tasa que queda persistida.
func NormalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		rate = rate.Div(hundred)
	}
	return rate.Round(TaxRatePlaces)
}

// ValidTaxRate tasa normalizada dentro de [0, 1].
func ValidTaxRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(1))
}

// NormalizePaymentMethod minúsculas y sin espacios extremos.
func NormalizePaymentMethod(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}

// ValidPaymentMethod indica si m es un método de pago aceptado (sin distinguir mayúsculas).
func ValidPaymentMethod(m string) bool {
	switch NormalizePaymentMethod(m) {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}
