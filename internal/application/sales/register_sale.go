// Package sales registra ventas: agrega líneas, valida stock y descuenta inventario de forma atómica.
package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// RegisterSaleUseCase registro de ventas del punto de venta.
type RegisterSaleUseCase struct {
	txRunner       SalesTxRunner
	clientRepo     repository.ClientRepository
	saleRepo       repository.SaleRepository
	receipts       ReceiptIssuer
	defaultTaxRate decimal.Decimal
	log            *logger.Logger
	now            func() time.Time
	newReference   func() string
}

// NewRegisterSaleUseCase construye el caso de uso. receipts puede ser nil (sin comprobante).
func NewRegisterSaleUseCase(
	txRunner SalesTxRunner,
	clientRepo repository.ClientRepository,
	saleRepo repository.SaleRepository,
	receipts ReceiptIssuer,
	defaultTaxRate decimal.Decimal,
	log *logger.Logger,
) *RegisterSaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterSaleUseCase{
		txRunner:       txRunner,
		clientRepo:     clientRepo,
		saleRepo:       saleRepo,
		receipts:       receipts,
		defaultTaxRate: entity.NormalizeTaxRate(defaultTaxRate),
		log:            log.Named("sales"),
		now:            time.Now,
		newReference:   NewReference,
	}
}

// NewReference referencia de venta: "V-" + 12 hex en mayúsculas.
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "V-" + strings.ToUpper(id[:12])
}

// RegisterSale valida la solicitud y registra la venta en una sola transacción:
// bloquea los productos, verifica stock, captura precios, guarda cabecera y líneas
// y descuenta el stock. Todo o nada.
func (uc *RegisterSaleUseCase) RegisterSale(ctx context.Context, in dto.RegisterSaleRequest) (*entity.Sale, error) {
	rate, method, err := uc.validate(in)
	if err != nil {
		return nil, err
	}

	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("sales: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	// Cantidad total pedida por producto; los bloqueos se toman en orden ascendente de ID.
	requested := make(map[int64]int, len(in.Items))
	for _, it := range in.Items {
		requested[it.ProductID] += it.Quantity
	}
	ids := make([]int64, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	now := uc.now()
	sale := &entity.Sale{
		Reference:     uc.newReference(),
		Date:          now,
		ClientID:      client.ID,
		TaxRate:       rate,
		IsPaid:        false,
		PaymentMethod: method,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
	}

	err = uc.txRunner.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		products := make(map[int64]*entity.Product, len(ids))
		for _, id := range ids {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("bloquear producto %d: %w", id, err)
			}
			if p == nil {
				return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
			}
			if requested[id] > p.Stock {
				return fmt.Errorf("%w: %s (disponible %d, solicitado %d)",
					domain.ErrInsufficientStock, p.Name, p.Stock, requested[id])
			}
			products[id] = p
		}

		sale.Items = make([]entity.SaleItem, 0, len(in.Items))
		for _, it := range in.Items {
			sale.Items = append(sale.Items, entity.SaleItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: products[it.ProductID].UnitPrice,
			})
		}
		sale.CalculateTotals()

		if err := saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}
		for i := range sale.Items {
			sale.Items[i].SaleID = sale.ID
			if err := saleRepo.CreateItem(ctx, &sale.Items[i]); err != nil {
				return fmt.Errorf("guardar línea: %w", err)
			}
		}
		// Descuento condicionado (stock >= qty): revalida justo antes de escribir.
		for _, id := range ids {
			if err := productRepo.DecrementStock(ctx, id, requested[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("sale_id", sale.ID).
		Str("reference", sale.Reference).
		Int64("client_id", sale.ClientID).
		Str("total", sale.Total.StringFixed(entity.CurrencyPlaces)).
		Msg("venta registrada")
	return sale, nil
}

// RegisterWithReceipt registra la venta y genera su comprobante PDF.
// Si el comprobante falla la venta queda registrada y PDF va vacío.
func (uc *RegisterSaleUseCase) RegisterWithReceipt(ctx context.Context, in dto.RegisterSaleRequest) (*dto.RegisterSaleResponse, error) {
	sale, err := uc.RegisterSale(ctx, in)
	if err != nil {
		return nil, err
	}
	out := &dto.RegisterSaleResponse{
		Message: "Venta registrada correctamente",
		Sale:    dto.NewSaleResponse(sale),
	}
	if uc.receipts == nil {
		return out, nil
	}
	file, err := uc.receipts.IssueReceipt(ctx, sale)
	if err != nil {
		uc.log.Warn().Err(err).Str("reference", sale.Reference).Msg("no se pudo generar el comprobante")
		out.Message = "Venta registrada; el comprobante no pudo generarse"
		return out, nil
	}
	out.PDF = file
	return out, nil
}

// validate pre-validación sin persistencia. Devuelve tasa normalizada y método de pago.
func (uc *RegisterSaleUseCase) validate(in dto.RegisterSaleRequest) (decimal.Decimal, string, error) {
	if in.ClientID <= 0 {
		return decimal.Zero, "", fmt.Errorf("%w: client_id requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return decimal.Zero, "", domain.ErrEmptySale
	}
	for i, it := range in.Items {
		if it.ProductID <= 0 {
			return decimal.Zero, "", fmt.Errorf("%w: items[%d].product_id inválido", domain.ErrInvalidInput, i)
		}
		if it.Quantity < 1 {
			return decimal.Zero, "", fmt.Errorf("%w: items[%d].quantity debe ser al menos 1", domain.ErrInvalidInput, i)
		}
	}
	method := entity.NormalizePaymentMethod(in.PaymentMethod)
	if !entity.ValidPaymentMethod(method) {
		return decimal.Zero, "", fmt.Errorf("%w: método de pago %q no soportado", domain.ErrInvalidInput, in.PaymentMethod)
	}
	rate := uc.defaultTaxRate
	if in.TaxRate != nil {
		rate = entity.NormalizeTaxRate(*in.TaxRate)
	}
	if !entity.ValidTaxRate(rate) {
		return decimal.Zero, "", fmt.Errorf("%w: tax_rate fuera de rango", domain.ErrInvalidInput)
	}
	return rate, method, nil
}
