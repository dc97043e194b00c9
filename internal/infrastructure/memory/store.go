// Package memory implementa los puertos de persistencia en memoria.
// Las transacciones toman el lock del Store y restauran una copia del estado si fallan.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

type dataset struct {
	clients    map[int64]entity.Client
	products   map[int64]entity.Product
	categories map[int64]entity.Category
	sales      map[int64]entity.Sale
	items      map[int64]entity.SaleItem
	users      map[int64]entity.User

	nextClient, nextProduct, nextCategory, nextSale, nextItem, nextUser int64
}

func newDataset() *dataset {
	return &dataset{
		clients:    make(map[int64]entity.Client),
		products:   make(map[int64]entity.Product),
		categories: make(map[int64]entity.Category),
		sales:      make(map[int64]entity.Sale),
		items:      make(map[int64]entity.SaleItem),
		users:      make(map[int64]entity.User),
	}
}

// clone copia superficial por mapa; las entidades se guardan por valor y sus punteros
// se reemplazan (nunca se mutan) al actualizar.
func (d *dataset) clone() *dataset {
	c := *d
	c.clients = cloneMap(d.clients)
	c.products = cloneMap(d.products)
	c.categories = cloneMap(d.categories)
	c.sales = cloneMap(d.sales)
	c.items = cloneMap(d.items)
	c.users = cloneMap(d.users)
	return &c
}

func cloneMap[T any](m map[int64]T) map[int64]T {
	out := make(map[int64]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// access da a los repositorios acceso al dataset; dentro de una tx el lock ya está tomado.
type access struct {
	st     *Store
	locked bool
}

func (a access) with(fn func(d *dataset) error) error {
	if !a.locked {
		a.st.mu.Lock()
		defer a.st.mu.Unlock()
	}
	return fn(a.st.data)
}

// runTx ejecuta fn con el lock tomado; si fn falla se restaura el estado previo.
func (s *Store) runTx(ctx context.Context, fn func(a access) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(access{st: s, locked: true}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repositorios fuera de transacción.

func (s *Store) Clients() repository.ClientRepository { return &clientRepo{access{st: s}} }
func (s *Store) Products() repository.ProductRepository { return &productRepo{access{st: s}} }
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{access{st: s}} }
func (s *Store) Sales() repository.SaleRepository { return &saleRepo{access{st: s}} }
func (s *Store) Users() repository.UserRepository { return &userRepo{access{st: s}} }

// RunSale ejecuta fn en una transacción con repos de productos y ventas.
func (s *Store) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.runTx(ctx, func(a access) error {
		return fn(&productRepo{a}, &saleRepo{a})
	})
}

// RunImport ejecuta fn en una transacción con los repos que usa la importación.
func (s *Store) RunImport(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.runTx(ctx, func(a access) error {
		return fn(&clientRepo{a}, &productRepo{a}, &categoryRepo{a}, &saleRepo{a})
	})
}

// page aplica limit/offset sobre una lista ya ordenada; limit <= 0 = sin límite.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
