package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func TestRunSale_RollbackRestauraEstado(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	p := &entity.Product{Name: "Teclado", UnitPrice: decimal.NewFromInt(10), Stock: 5}
	require.NoError(t, st.Products().Create(ctx, p))

	boom := errors.New("falla simulada")
	err := st.RunSale(ctx, func(productRepo repository.ProductRepository, _ repository.SaleRepository) error {
		require.NoError(t, productRepo.DecrementStock(ctx, p.ID, 3))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "el rollback debe restaurar el stock")
}

func TestDecrementStock_Insuficiente(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	p := &entity.Product{Name: "Mouse", UnitPrice: decimal.NewFromInt(5), Stock: 1}
	require.NoError(t, st.Products().Create(ctx, p))

	err := st.Products().DecrementStock(ctx, p.ID, 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestClients_EmailUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	require.NoError(t, st.Clients().Create(ctx, &entity.Client{Person: entity.Person{FirstName: "Ana", Email: "Ana@Example.com "}}))

	got, err := st.Clients().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ana@example.com", got.Email)

	err = st.Clients().Create(ctx, &entity.Client{Person: entity.Person{FirstName: "Otra", Email: "ANA@example.com"}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestClients_NoSeBorraConVentas(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	c := &entity.Client{Person: entity.Person{FirstName: "Ana", Email: "ana@example.com"}}
	require.NoError(t, st.Clients().Create(ctx, c))
	require.NoError(t, st.Sales().Create(ctx, &entity.Sale{Reference: "V-1", ClientID: c.ID}))

	assert.ErrorIs(t, st.Clients().Delete(ctx, c.ID), domain.ErrInUse)
}

func TestSales_ListMasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	c := &entity.Client{Person: entity.Person{FirstName: "Ana", Email: "ana@example.com"}}
	require.NoError(t, st.Clients().Create(ctx, c))
	for _, ref := range []string{"V-1", "V-2", "V-3"} {
		require.NoError(t, st.Sales().Create(ctx, &entity.Sale{Reference: ref, ClientID: c.ID}))
	}

	list, err := st.Sales().List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "V-3", list[0].Reference)
	assert.Equal(t, "V-2", list[1].Reference)
}
