package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// Create persiste la cabecera y asigna sale.ID (las líneas se guardan con CreateItem).
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	UpdateItem(ctx context.Context, item *entity.SaleItem) error
	// UpdateHeader actualiza fecha, cliente, tasa, totales, pago y notas.
	UpdateHeader(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetByReference(ctx context.Context, reference string) (*entity.Sale, error)
	// GetItems devuelve las líneas ordenadas por ID.
	GetItems(ctx context.Context, saleID int64) ([]entity.SaleItem, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
}
