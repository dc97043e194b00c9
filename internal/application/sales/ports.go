package sales

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// SalesTxRunner ejecuta fn en una transacción con aislamiento al menos READ COMMITTED.
// Si fn devuelve error se hace rollback de cabecera, líneas y descuentos de stock.
type SalesTxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptIssuer genera y guarda el comprobante PDF de una venta; devuelve el nombre del archivo.
type ReceiptIssuer interface {
	IssueReceipt(ctx context.Context, sale *entity.Sale) (string, error)
}
