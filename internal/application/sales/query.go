package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// QueryUseCase consultas de ventas para el back-office.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo}
}

// GetSale venta con sus líneas; domain.ErrSaleNotFound si no existe.
func (uc *QueryUseCase) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sales: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	if sale.Items, err = uc.saleRepo.GetItems(ctx, id); err != nil {
		return nil, fmt.Errorf("sales: obtener líneas: %w", err)
	}
	return sale, nil
}

// ListSales cabeceras paginadas, más recientes primero.
func (uc *QueryUseCase) ListSales(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.List(ctx, limit, offset)
}
