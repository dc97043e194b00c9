package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo cabeceras (sales) y líneas (sale_items) de venta.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, reference, sale_date, client_id, subtotal, tax_rate, tax, total, is_paid, payment_method, notes, created_at`

// Create inserta la cabecera y asigna sale.ID.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (reference, sale_date, client_id, subtotal, tax_rate, tax, total, is_paid, payment_method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.Reference, s.Date, s.ClientID, s.Subtotal, s.TaxRate, s.Tax, s.Total, s.IsPaid, s.PaymentMethod, s.Notes, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, s.Reference)
		case isForeignKeyViolation(err):
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem inserta una línea; sale_id y product_id deben existir.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
	).Scan(&it.ID)
	if err != nil {
		return itemWriteError("insert sale item", err)
	}
	return nil
}

// UpdateItem reemplaza cantidad, precio y subtotal de una línea existente.
func (r *SaleRepo) UpdateItem(ctx context.Context, it *entity.SaleItem) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sale_items SET product_id = $2, quantity = $3, unit_price = $4, subtotal = $5 WHERE id = $1`,
		it.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		return itemWriteError("update sale item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func itemWriteError(op string, err error) error {
	if isForeignKeyViolation(err) {
		if strings.Contains(constraintName(err), "product") {
			return domain.ErrProductNotFound
		}
		return domain.ErrSaleNotFound
	}
	if isCheckViolation(err) {
		return fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// UpdateHeader actualiza fecha, cliente, tasa, totales, pago y notas. La referencia no cambia.
func (r *SaleRepo) UpdateHeader(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET sale_date = $2, client_id = $3, tax_rate = $4, subtotal = $5, tax = $6, total = $7,
			is_paid = $8, payment_method = $9, notes = $10
		WHERE id = $1`,
		s.ID, s.Date, s.ClientID, s.TaxRate, s.Subtotal, s.Tax, s.Total, s.IsPaid, s.PaymentMethod, s.Notes,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// GetByID cabecera sin líneas (ver GetItems).
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByReference cabecera por su referencia.
func (r *SaleRepo) GetByReference(ctx context.Context, ref string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE reference = trim($1)`, ref)
}

func (r *SaleRepo) getOne(ctx context.Context, query string, arg any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetItems líneas de la venta ordenadas por ID.
func (r *SaleRepo) GetItems(ctx context.Context, saleID int64) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	items := []entity.SaleItem{}
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List ventas más recientes primero. limit 0 = todas.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY id DESC LIMIT $1 OFFSET $2`, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.Reference, &s.Date, &s.ClientID, &s.Subtotal, &s.TaxRate, &s.Tax, &s.Total,
		&s.IsPaid, &s.PaymentMethod, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
