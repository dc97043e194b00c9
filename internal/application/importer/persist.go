package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	dimporter "github.com/jhoicas/Ventas-api/internal/domain/importer"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// persist guarda una fila ya validada en su propia transacción.
// Devuelve true si insertó y false si actualizó un registro existente (clave natural).
func (s *Service) persist(ctx context.Context, row dimporter.ClassifiedRow) (bool, error) {
	var created bool
	err := s.txRunner.RunImport(ctx, func(
		clientRepo repository.ClientRepository,
		productRepo repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
		saleRepo repository.SaleRepository,
	) error {
		var err error
		switch row.EntityType {
		case dimporter.Client:
			created, err = s.upsertClient(ctx, clientRepo, row)
		case dimporter.Product:
			created, err = s.upsertProduct(ctx, productRepo, categoryRepo, row)
		case dimporter.Sale:
			created, err = s.upsertSale(ctx, clientRepo, saleRepo, row)
		case dimporter.SaleItem:
			created, err = s.upsertSaleItem(ctx, productRepo, saleRepo, row)
		default:
			err = rejectField(dimporter.FieldEntity, domain.ErrInvalidInput, "fila no reconocida")
		}
		return err
	})
	return created, err
}

// ── Client: clave natural email ──────────────────────────────────────────────

func (s *Service) upsertClient(ctx context.Context, repo repository.ClientRepository, row dimporter.ClassifiedRow) (bool, error) {
	email := entity.NormalizeEmail(row.Get(dimporter.FieldEmail))
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	now := s.now()

	c := existing
	if c == nil {
		c = &entity.Client{CreatedAt: now}
	}
	c.FirstName = row.Get(dimporter.FieldFirstName)
	c.LastName = row.Get(dimporter.FieldLastName)
	c.Email = email
	if v := row.Get(dimporter.FieldPhone); v != "" {
		c.Phone = v
	}
	if v := row.Get(dimporter.FieldAddress); v != "" {
		c.Address = v
	}
	if v := row.Get(dimporter.FieldBirthDate); v != "" {
		d, _ := dimporter.ParseDate(v)
		c.BirthDate = &d
	}
	c.UpdatedAt = now

	if existing != nil {
		return false, repo.Update(ctx, c)
	}
	return true, repo.Create(ctx, c)
}

// ── Product: clave natural SKU, si no nombre ─────────────────────────────────

func (s *Service) upsertProduct(
	ctx context.Context,
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	row dimporter.ClassifiedRow,
) (bool, error) {
	var categoryID *int64
	if v := row.Get(dimporter.FieldCategoryID); v != "" {
		id, _ := dimporter.ParseInt(v)
		cat, err := categoryRepo.GetByID(ctx, id)
		if err != nil {
			return false, err
		}
		if cat == nil {
			return false, rejectField(dimporter.FieldCategoryID, domain.ErrCategoryNotFound, "la categoría %d no existe", id)
		}
		categoryID = &id
	}

	sku := row.Get(dimporter.FieldSKU)
	name := row.Get(dimporter.FieldName)
	var (
		existing *entity.Product
		err      error
	)
	if sku != "" {
		existing, err = repo.GetBySKU(ctx, sku)
	} else {
		existing, err = repo.GetByName(ctx, name)
	}
	if err != nil {
		return false, err
	}

	price, _ := dimporter.ParseDecimal(row.Get(dimporter.FieldUnitPrice))
	stock, _ := dimporter.ParseInt(row.Get(dimporter.FieldStock))
	now := s.now()

	p := existing
	if p == nil {
		p = &entity.Product{CreatedAt: now}
	}
	if sku != "" {
		p.SKU = sku
	}
	p.Name = name
	if v := row.Get(dimporter.FieldDescription); v != "" {
		p.Description = v
	}
	p.UnitPrice = price.Round(entity.CurrencyPlaces)
	p.Stock = int(stock)
	if categoryID != nil {
		p.CategoryID = categoryID
	}
	p.UpdatedAt = now

	if existing != nil {
		return false, repo.Update(ctx, p)
	}
	return true, repo.Create(ctx, p)
}

// ── Sale: clave natural referencia. Registro histórico: no descuenta stock ──

func (s *Service) upsertSale(
	ctx context.Context,
	clientRepo repository.ClientRepository,
	saleRepo repository.SaleRepository,
	row dimporter.ClassifiedRow,
) (bool, error) {
	clientID, _ := dimporter.ParseInt(row.Get(dimporter.FieldClientID))
	client, err := clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return false, err
	}
	if client == nil {
		return false, rejectField(dimporter.FieldClientID, domain.ErrClientNotFound, "el cliente %d no existe", clientID)
	}

	ref := row.Get(dimporter.FieldReference)
	existing, err := saleRepo.GetByReference(ctx, ref)
	if err != nil {
		return false, err
	}
	date, _ := dimporter.ParseDate(row.Get(dimporter.FieldDate))

	sale := existing
	if sale == nil {
		sale = &entity.Sale{
			Reference:     ref,
			TaxRate:       s.cfg.DefaultTaxRate,
			PaymentMethod: entity.PaymentCash,
			CreatedAt:     s.now(),
		}
	}
	sale.Date = date
	sale.ClientID = clientID
	if v := row.Get(dimporter.FieldTaxRate); v != "" {
		rate, _ := dimporter.ParseDecimal(v)
		sale.TaxRate = entity.NormalizeTaxRate(rate)
	}
	if v := row.Get(dimporter.FieldPaymentMethod); v != "" {
		sale.PaymentMethod = entity.NormalizePaymentMethod(v)
	}
	if v := row.Get(dimporter.FieldIsPaid); v != "" {
		sale.IsPaid, _ = dimporter.ParseBool(v)
	}
	if v := row.Get(dimporter.FieldNotes); v != "" {
		sale.Notes = v
	}

	if existing == nil {
		sale.Subtotal, sale.Tax, sale.Total = decimal.Zero, decimal.Zero, decimal.Zero
		return true, saleRepo.Create(ctx, sale)
	}
	// La tasa pudo cambiar: los totales se recalculan desde las líneas guardadas.
	if sale.Items, err = saleRepo.GetItems(ctx, sale.ID); err != nil {
		return false, err
	}
	sale.CalculateTotals()
	return false, saleRepo.UpdateHeader(ctx, sale)
}

// ── SaleItem: clave natural (referencia de venta, producto) ─────────────────

func (s *Service) upsertSaleItem(
	ctx context.Context,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	row dimporter.ClassifiedRow,
) (bool, error) {
	ref := row.Get(dimporter.FieldReference)
	sale, err := saleRepo.GetByReference(ctx, ref)
	if err != nil {
		return false, err
	}
	if sale == nil {
		return false, rejectField(dimporter.FieldReference, domain.ErrSaleNotFound, "la venta %q no existe", ref)
	}

	productID, _ := dimporter.ParseInt(row.Get(dimporter.FieldProductID))
	product, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, rejectField(dimporter.FieldProductID, domain.ErrProductNotFound, "el producto %d no existe", productID)
	}

	qty, _ := dimporter.ParseInt(row.Get(dimporter.FieldQuantity))
	price := product.UnitPrice
	if v := row.Get(dimporter.FieldUnitPrice); v != "" {
		price, _ = dimporter.ParseDecimal(v)
		price = price.Round(entity.CurrencyPlaces)
	}

	items, err := saleRepo.GetItems(ctx, sale.ID)
	if err != nil {
		return false, err
	}

	created := true
	idx := -1
	for i := range items {
		if items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		created = false
		items[idx].Quantity = int(qty)
		items[idx].UnitPrice = price
		items[idx].Subtotal = items[idx].LineSubtotal()
		if err := saleRepo.UpdateItem(ctx, &items[idx]); err != nil {
			return false, err
		}
	} else {
		item := entity.SaleItem{SaleID: sale.ID, ProductID: productID, Quantity: int(qty), UnitPrice: price}
		item.Subtotal = item.LineSubtotal()
		if err := saleRepo.CreateItem(ctx, &item); err != nil {
			return false, err
		}
		items = append(items, item)
	}

	sale.Items = items
	sale.CalculateTotals()
	if err := saleRepo.UpdateHeader(ctx, sale); err != nil {
		return false, fmt.Errorf("recalcular totales de %s: %w", strings.TrimSpace(ref), err)
	}
	return created, nil
}

