package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ── clients ─────────────────────────────────────────────────────────────────

type clientRepo struct{ access }

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.with(func(d *dataset) error {
		c.Email = entity.NormalizeEmail(c.Email)
		for _, other := range d.clients {
			if other.Email == c.Email {
				return fmt.Errorf("%w: email %s", domain.ErrDuplicate, c.Email)
			}
		}
		d.nextClient++
		c.ID = d.nextClient
		d.clients[c.ID] = copyClient(*c)
		return nil
	})
}

func (r *clientRepo) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	var out *entity.Client
	err := r.with(func(d *dataset) error {
		if c, ok := d.clients[id]; ok {
			cp := copyClient(c)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *clientRepo) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	email = entity.NormalizeEmail(email)
	var out *entity.Client
	err := r.with(func(d *dataset) error {
		for _, c := range d.clients {
			if c.Email == email {
				cp := copyClient(c)
				out = &cp
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *clientRepo) Update(_ context.Context, c *entity.Client) error {
	return r.with(func(d *dataset) error {
		if _, ok := d.clients[c.ID]; !ok {
			return domain.ErrClientNotFound
		}
		c.Email = entity.NormalizeEmail(c.Email)
		for id, other := range d.clients {
			if id != c.ID && other.Email == c.Email {
				return fmt.Errorf("%w: email %s", domain.ErrDuplicate, c.Email)
			}
		}
		d.clients[c.ID] = copyClient(*c)
		return nil
	})
}

func (r *clientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	err := r.with(func(d *dataset) error {
		ids := sortedKeys(d.clients)
		for _, id := range page(ids, limit, offset) {
			c := copyClient(d.clients[id])
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *clientRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(d *dataset) error {
		if _, ok := d.clients[id]; !ok {
			return domain.ErrClientNotFound
		}
		for _, s := range d.sales {
			if s.ClientID == id {
				return fmt.Errorf("%w: el cliente %d tiene ventas", domain.ErrInUse, id)
			}
		}
		delete(d.clients, id)
		return nil
	})
}

func copyClient(c entity.Client) entity.Client {
	if c.BirthDate != nil {
		b := *c.BirthDate
		c.BirthDate = &b
	}
	return c
}

// ── products ────────────────────────────────────────────────────────────────

type productRepo struct{ access }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.with(func(d *dataset) error {
		if err := checkProduct(d, p); err != nil {
			return err
		}
		d.nextProduct++
		p.ID = d.nextProduct
		d.products[p.ID] = copyProduct(*p)
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			cp := copyProduct(p)
			out = &cp
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria el lock del Store ya serializa la transacción.
func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return p.SKU != "" && strings.EqualFold(p.SKU, strings.TrimSpace(sku)) })
}

func (r *productRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return strings.EqualFold(p.Name, strings.TrimSpace(name)) })
}

func (r *productRepo) find(match func(entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(func(d *dataset) error {
		for _, id := range sortedKeys(d.products) {
			if p := d.products[id]; match(p) {
				cp := copyProduct(p)
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.with(func(d *dataset) error {
		if _, ok := d.products[p.ID]; !ok {
			return domain.ErrProductNotFound
		}
		if err := checkProduct(d, p); err != nil {
			return err
		}
		d.products[p.ID] = copyProduct(*p)
		return nil
	})
}

func (r *productRepo) DecrementStock(_ context.Context, id int64, qty int) error {
	return r.with(func(d *dataset) error {
		p, ok := d.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		if p.Stock < qty {
			return fmt.Errorf("%w: producto %d", domain.ErrInsufficientStock, id)
		}
		p.Stock -= qty
		p.UpdatedAt = time.Now()
		d.products[id] = p
		return nil
	})
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.with(func(d *dataset) error {
		for _, id := range page(sortedKeys(d.products), limit, offset) {
			p := copyProduct(d.products[id])
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(d *dataset) error {
		if _, ok := d.products[id]; !ok {
			return domain.ErrProductNotFound
		}
		for _, it := range d.items {
			if it.ProductID == id {
				return fmt.Errorf("%w: el producto %d tiene ventas", domain.ErrInUse, id)
			}
		}
		delete(d.products, id)
		return nil
	})
}

// checkProduct reproduce las restricciones de la tabla products.
func checkProduct(d *dataset, p *entity.Product) error {
	if p.Stock < 0 || p.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: precio y stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	if p.CategoryID != nil {
		if _, ok := d.categories[*p.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}
	if p.SKU == "" {
		return nil
	}
	for id, other := range d.products {
		if id != p.ID && strings.EqualFold(other.SKU, p.SKU) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
	}
	return nil
}

func copyProduct(p entity.Product) entity.Product {
	if p.CategoryID != nil {
		c := *p.CategoryID
		p.CategoryID = &c
	}
	return p
}

// ── categories ──────────────────────────────────────────────────────────────

type categoryRepo struct{ access }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.with(func(d *dataset) error {
		for _, other := range d.categories {
			if strings.EqualFold(other.Name, c.Name) {
				return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, c.Name)
			}
		}
		d.nextCategory++
		c.ID = d.nextCategory
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.with(func(d *dataset) error {
		if c, ok := d.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.with(func(d *dataset) error {
		for _, id := range sortedKeys(d.categories) {
			c := d.categories[id]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// ── sales ───────────────────────────────────────────────────────────────────

type saleRepo struct{ access }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.with(func(d *dataset) error {
		if _, ok := d.clients[s.ClientID]; !ok {
			return domain.ErrClientNotFound
		}
		for _, other := range d.sales {
			if other.Reference == s.Reference {
				return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, s.Reference)
			}
		}
		d.nextSale++
		s.ID = d.nextSale
		h := *s
		h.Items = nil
		d.sales[s.ID] = h
		return nil
	})
}

func (r *saleRepo) CreateItem(_ context.Context, it *entity.SaleItem) error {
	return r.with(func(d *dataset) error {
		if _, ok := d.sales[it.SaleID]; !ok {
			return domain.ErrSaleNotFound
		}
		if _, ok := d.products[it.ProductID]; !ok {
			return domain.ErrProductNotFound
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		d.nextItem++
		it.ID = d.nextItem
		d.items[it.ID] = *it
		return nil
	})
}

func (r *saleRepo) UpdateItem(_ context.Context, it *entity.SaleItem) error {
	return r.with(func(d *dataset) error {
		if _, ok := d.items[it.ID]; !ok {
			return domain.ErrNotFound
		}
		d.items[it.ID] = *it
		return nil
	})
}

func (r *saleRepo) UpdateHeader(_ context.Context, s *entity.Sale) error {
	return r.with(func(d *dataset) error {
		cur, ok := d.sales[s.ID]
		if !ok {
			return domain.ErrSaleNotFound
		}
		if _, ok := d.clients[s.ClientID]; !ok {
			return domain.ErrClientNotFound
		}
		cur.Date = s.Date
		cur.ClientID = s.ClientID
		cur.TaxRate = s.TaxRate
		cur.Subtotal, cur.Tax, cur.Total = s.Subtotal, s.Tax, s.Total
		cur.IsPaid = s.IsPaid
		cur.PaymentMethod = s.PaymentMethod
		cur.Notes = s.Notes
		d.sales[s.ID] = cur
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.with(func(d *dataset) error {
		if s, ok := d.sales[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetByReference(_ context.Context, ref string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.with(func(d *dataset) error {
		for _, s := range d.sales {
			if s.Reference == strings.TrimSpace(ref) {
				s := s
				out = &s
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetItems(_ context.Context, saleID int64) ([]entity.SaleItem, error) {
	out := []entity.SaleItem{}
	err := r.with(func(d *dataset) error {
		for _, id := range sortedKeys(d.items) {
			if it := d.items[id]; it.SaleID == saleID {
				out = append(out, it)
			}
		}
		return nil
	})
	return out, err
}

// List ventas más recientes primero.
func (r *saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.with(func(d *dataset) error {
		ids := sortedKeys(d.sales)
		sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
		for _, id := range page(ids, limit, offset) {
			s := d.sales[id]
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

// ── users ───────────────────────────────────────────────────────────────────

type userRepo struct{ access }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.with(func(d *dataset) error {
		u.Email = entity.NormalizeEmail(u.Email)
		for _, other := range d.users {
			if other.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		d.nextUser++
		u.ID = d.nextUser
		d.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	var out *entity.User
	err := r.with(func(d *dataset) error {
		for _, u := range d.users {
			if u.Email == email {
				u := u
				out = &u
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.with(func(d *dataset) error {
		n = len(d.users)
		return nil
	})
	return n, err
}

func sortedKeys[T any](m map[int64]T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
