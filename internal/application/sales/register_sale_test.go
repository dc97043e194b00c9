package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: cliente + dos productos (10.00 x5 y 5.00 x3)
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	client   *entity.Client
	teclado  *entity.Product
	mouse    *entity.Product
	receipts *fakeReceipts
	uc       *sales.RegisterSaleUseCase
}

type fakeReceipts struct {
	err   error
	calls int
}

func (f *fakeReceipts) IssueReceipt(_ context.Context, s *entity.Sale) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return s.Reference + ".pdf", nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()

	c := &entity.Client{Person: entity.Person{FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com"}}
	require.NoError(t, st.Clients().Create(ctx, c))
	p1 := &entity.Product{Name: "Teclado", UnitPrice: decimal.RequireFromString("10.00"), Stock: 5}
	p2 := &entity.Product{Name: "Mouse", UnitPrice: decimal.RequireFromString("5.00"), Stock: 3}
	require.NoError(t, st.Products().Create(ctx, p1))
	require.NoError(t, st.Products().Create(ctx, p2))

	rec := &fakeReceipts{}
	uc := sales.NewRegisterSaleUseCase(st, st.Clients(), st.Sales(), rec, decimal.RequireFromString("0.16"), nil)
	return &fixture{store: st, client: c, teclado: p1, mouse: p2, receipts: rec, uc: uc}
}

func (f *fixture) stockOf(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos felices
// ──────────────────────────────────────────────────────────────────────────────

// Carrito [{1, 2 x 10.00}, {2, 1 x 5.00}] con 16% → subtotal 25.00, total 29.00.
func TestRegisterSale_TotalesYDescuentoDeStock(t *testing.T) {
	f := newFixture(t)

	sale, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		ClientID: f.client.ID,
		Items: []dto.SaleItemRequest{
			{ProductID: f.teclado.ID, Quantity: 2},
			{ProductID: f.mouse.ID, Quantity: 1},
		},
		PaymentMethod: "Efectivo",
	})
	require.NoError(t, err)

	assert.Equal(t, "25", sale.Subtotal.String())
	assert.Equal(t, "4", sale.Tax.String())
	assert.Equal(t, "29.00", sale.Total.StringFixed(2))
	assert.True(t, sale.Total.Equal(sale.Subtotal.Add(sale.Subtotal.Mul(sale.TaxRate)).Round(2)),
		"total == subtotal + subtotal*tasa a dos decimales")
	assert.False(t, sale.IsPaid, "la venta nace sin pagar")
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod)
	assert.Regexp(t, `^V-[0-9A-F]{12}$`, sale.Reference)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "20", sale.Items[0].Subtotal.String())

	assert.Equal(t, 3, f.stockOf(t, f.teclado.ID))
	assert.Equal(t, 2, f.stockOf(t, f.mouse.ID))

	items, err := f.store.Sales().GetItems(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2, "las líneas se guardan con la cabecera")
}

func TestRegisterSale_TasaComoPorcentaje(t *testing.T) {
	f := newFixture(t)
	rate := decimal.NewFromInt(16)

	sale, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		ClientID:      f.client.ID,
		Items:         []dto.SaleItemRequest{{ProductID: f.mouse.ID, Quantity: 1}},
		TaxRate:       &rate,
		PaymentMethod: entity.PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.16", sale.TaxRate.String())
	assert.Equal(t, "5.80", sale.Total.StringFixed(2))
}

// La tasa se redondea a 4 decimales antes de calcular: lo guardado cuadra con el total.
func TestRegisterSale_TasaRedondeadaAntesDelCalculo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caro := &entity.Product{Name: "Servidor", UnitPrice: decimal.RequireFromString("1000000.00"), Stock: 1}
	require.NoError(t, f.store.Products().Create(ctx, caro))
	rate := decimal.RequireFromString("0.16666")

	sale, err := f.uc.RegisterSale(ctx, dto.RegisterSaleRequest{
		ClientID:      f.client.ID,
		Items:         []dto.SaleItemRequest{{ProductID: caro.ID, Quantity: 1}},
		TaxRate:       &rate,
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.1667", sale.TaxRate.String())
	assert.Equal(t, "166700.00", sale.Tax.StringFixed(2))
	assert.True(t, sale.Total.Equal(sale.Subtotal.Add(sale.Subtotal.Mul(sale.TaxRate)).Round(2)))
}

func TestRegisterWithReceipt_ComprobanteFallidoNoAnulaVenta(t *testing.T) {
	f := newFixture(t)
	f.receipts.err = errors.New("disco lleno")

	out, err := f.uc.RegisterWithReceipt(context.Background(), dto.RegisterSaleRequest{
		ClientID:      f.client.ID,
		Items:         []dto.SaleItemRequest{{ProductID: f.mouse.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentTransfer,
	})
	require.NoError(t, err)
	assert.Empty(t, out.PDF)
	assert.Equal(t, 1, f.receipts.calls)

	sale, err := f.store.Sales().GetByReference(context.Background(), out.Sale.Reference)
	require.NoError(t, err)
	assert.NotNil(t, sale, "la venta queda registrada")
}

func TestRegisterWithReceipt_DevuelveNombreDelPDF(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.RegisterWithReceipt(context.Background(), dto.RegisterSaleRequest{
		ClientID:      f.client.ID,
		Items:         []dto.SaleItemRequest{{ProductID: f.mouse.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, out.Sale.Reference+".pdf", out.PDF)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos: todo o nada
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterSale_StockInsuficienteNoDescuentaNada(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		ClientID: f.client.ID,
		Items: []dto.SaleItemRequest{
			{ProductID: f.teclado.ID, Quantity: 1},
			{ProductID: f.mouse.ID, Quantity: 4},
		},
		PaymentMethod: entity.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 5, f.stockOf(t, f.teclado.ID), "ningún producto se descuenta")
	assert.Equal(t, 3, f.stockOf(t, f.mouse.ID))
	list, _ := f.store.Sales().List(context.Background(), 0, 0)
	assert.Empty(t, list, "no queda cabecera de venta")
}

func TestRegisterSale_LineasRepetidasSeSumanContraElStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		ClientID: f.client.ID,
		Items: []dto.SaleItemRequest{
			{ProductID: f.mouse.ID, Quantity: 2},
			{ProductID: f.mouse.ID, Quantity: 2},
		},
		PaymentMethod: entity.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, f.stockOf(t, f.mouse.ID))
}

func TestRegisterSale_ProductoDesconocido(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		ClientID: f.client.ID,
		Items: []dto.SaleItemRequest{
			{ProductID: f.teclado.ID, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		},
		PaymentMethod: entity.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, 5, f.stockOf(t, f.teclado.ID))
}

func TestRegisterSale_ClienteDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		ClientID:      42,
		Items:         []dto.SaleItemRequest{{ProductID: f.teclado.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestRegisterSale_PreValidacion(t *testing.T) {
	f := newFixture(t)
	bad := decimal.NewFromInt(-1)
	tests := []struct {
		name string
		in   dto.RegisterSaleRequest
		want error
	}{
		{"sin líneas", dto.RegisterSaleRequest{ClientID: f.client.ID, PaymentMethod: "efectivo"}, domain.ErrEmptySale},
		{"cantidad cero", dto.RegisterSaleRequest{ClientID: f.client.ID, PaymentMethod: "efectivo",
			Items: []dto.SaleItemRequest{{ProductID: f.mouse.ID, Quantity: 0}}}, domain.ErrInvalidInput},
		{"método de pago", dto.RegisterSaleRequest{ClientID: f.client.ID, PaymentMethod: "cheque",
			Items: []dto.SaleItemRequest{{ProductID: f.mouse.ID, Quantity: 1}}}, domain.ErrInvalidInput},
		{"tasa negativa", dto.RegisterSaleRequest{ClientID: f.client.ID, PaymentMethod: "efectivo", TaxRate: &bad,
			Items: []dto.SaleItemRequest{{ProductID: f.mouse.ID, Quantity: 1}}}, domain.ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RegisterSale(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 3, f.stockOf(t, f.mouse.ID))
}

// Diez cajas compran a la vez 2 teclados de un stock de 5: solo dos ventas entran.
func TestRegisterSale_ConcurrenciaSinSobreventa(t *testing.T) {
	f := newFixture(t)
	const buyers = 10

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
		other    []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
				ClientID:      f.client.ID,
				Items:         []dto.SaleItemRequest{{ProductID: f.teclado.ID, Quantity: 2}},
				PaymentMethod: entity.PaymentCash,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 5/2, ok, "exactamente stock/cantidad ventas")
	assert.Equal(t, buyers-5/2, rejected)
	assert.Equal(t, 1, f.stockOf(t, f.teclado.ID), "el stock nunca queda negativo")
	list, err := f.store.Sales().List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 5/2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestQueryUseCase_GetSaleConLineas(t *testing.T) {
	f := newFixture(t)
	sale, err := f.uc.RegisterSale(context.Background(), dto.RegisterSaleRequest{
		ClientID:      f.client.ID,
		Items:         []dto.SaleItemRequest{{ProductID: f.teclado.ID, Quantity: 1}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)

	q := sales.NewQueryUseCase(f.store.Sales())
	got, err := q.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = q.GetSale(context.Background(), 777)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}
