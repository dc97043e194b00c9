package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleItemRequest línea solicitada: el precio se toma del producto al registrar.
type SaleItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// RegisterSaleRequest entrada de /sales/register-sale. TaxRate ausente = tasa por defecto.
type RegisterSaleRequest struct {
	ClientID      int64             `json:"client_id" validate:"required,gt=0"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxRate       *decimal.Decimal  `json:"tax_rate"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
	Notes         string            `json:"notes" validate:"omitempty,max=500"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con líneas y totales.
type SaleResponse struct {
	ID            int64              `json:"id"`
	Reference     string             `json:"reference"`
	Date          time.Time          `json:"date"`
	ClientID      int64              `json:"client_id"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	IsPaid        bool               `json:"is_paid"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// RegisterSaleResponse respuesta del registro: PDF es el nombre del comprobante para /sales/download.
type RegisterSaleResponse struct {
	Message string       `json:"message"`
	PDF     string       `json:"pdf"`
	Sale    SaleResponse `json:"sale"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// NewSaleResponse mapea una venta de dominio a su salida.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return SaleResponse{
		ID:            s.ID,
		Reference:     s.Reference,
		Date:          s.Date,
		ClientID:      s.ClientID,
		Items:         items,
		Subtotal:      s.Subtotal,
		TaxRate:       s.TaxRate,
		Tax:           s.Tax,
		Total:         s.Total,
		IsPaid:        s.IsPaid,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
}
