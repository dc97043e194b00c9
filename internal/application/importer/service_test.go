package importer_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/importer"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	dimporter "github.com/jhoicas/Ventas-api/internal/domain/importer"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Lector de filas en memoria
// ──────────────────────────────────────────────────────────────────────────────

type sliceReader struct {
	rows []importer.RawRow
	err  error // error devuelto al agotar las filas (nil = io.EOF)
	pos  int
}

func (r *sliceReader) Next() (importer.RawRow, error) {
	if r.pos >= len(r.rows) {
		if r.err != nil {
			return importer.RawRow{}, r.err
		}
		return importer.RawRow{}, io.EOF
	}
	r.pos++
	return r.rows[r.pos-1], nil
}

func (r *sliceReader) Close() error { return nil }

type sliceFactory struct {
	reader  *sliceReader
	openErr error
}

func (f *sliceFactory) Open(io.Reader, string) (importer.RowReader, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.reader.pos = 0
	return f.reader, nil
}

func rows(sheet string, cells ...map[string]string) []importer.RawRow {
	out := make([]importer.RawRow, 0, len(cells))
	for i, c := range cells {
		out = append(out, importer.RawRow{Sheet: sheet, Number: i + 2, Cells: c})
	}
	return out
}

func newService(st *memory.Store, f importer.RowReaderFactory) *importer.Service {
	return importer.NewService(st, f, nil, nil, importer.Config{DefaultTaxRate: decimal.RequireFromString("0.16")}, nil)
}

func assertCounters(t *testing.T, res *dimporter.ImportResult) {
	t.Helper()
	assert.Equal(t, res.TotalRows, res.Inserted+res.Updated+res.Errors, "TotalRows == Inserted + Updated + Errors")
}

// brokenClients falla al crear el cliente con el email indicado.
type brokenClients struct {
	repository.ClientRepository
	email string
}

func (b brokenClients) Create(ctx context.Context, c *entity.Client) error {
	if c.Email == b.email {
		return errors.New("conexión perdida")
	}
	return b.ClientRepository.Create(ctx, c)
}

// brokenStore transacciones de memory.Store con el repositorio de clientes averiado.
type brokenStore struct {
	st    *memory.Store
	email string
}

func (b brokenStore) RunImport(ctx context.Context, fn func(
	repository.ClientRepository,
	repository.ProductRepository,
	repository.CategoryRepository,
	repository.SaleRepository,
) error) error {
	return b.st.RunImport(ctx, func(
		clients repository.ClientRepository,
		products repository.ProductRepository,
		categories repository.CategoryRepository,
		sales repository.SaleRepository,
	) error {
		return fn(brokenClients{ClientRepository: clients, email: b.email}, products, categories, sales)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_ClienteDosVecesInsertaYLuegoActualiza(t *testing.T) {
	st := memory.NewStore()
	f := &sliceFactory{reader: &sliceReader{rows: rows("Clientes",
		map[string]string{"Nombre": "Ana", "Apellido": "Pérez", "Email": "ana@example.com"},
	)}}
	svc := newService(st, f)

	first, err := svc.Import(context.Background(), nil, "clientes.csv", importer.KindMixed)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)
	assert.Equal(t, 0, first.Updated)
	assert.True(t, first.Success())

	second, err := svc.Import(context.Background(), nil, "clientes.csv", importer.KindMixed)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Updated, "la segunda vez se actualiza por email")
	assertCounters(t, second)
}

func TestImport_FilaInvalidaNoSePersiste(t *testing.T) {
	st := memory.NewStore()
	f := &sliceFactory{reader: &sliceReader{rows: rows("Clientes",
		map[string]string{"Nombre": "Ana", "Apellido": "Pérez", "Email": ""},
		map[string]string{"Nombre": "Luis", "Apellido": "Gómez", "Email": "luis@example.com"},
		map[string]string{"Nombre": "", "Apellido": "", "Email": ""},
	)}}

	res, err := newService(st, f).Import(context.Background(), nil, "c.xlsx", "")
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalRows, "las filas en blanco no cuentan")
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.ErrorList, 1, "un error por regla violada")
	assert.Equal(t, dimporter.ImportError{Row: 2, Sheet: "Clientes", Field: "email", Message: "campo requerido"}, res.ErrorList[0])
	assertCounters(t, res)

	c, err := st.Clients().GetByEmail(context.Background(), "luis@example.com")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestImport_FalloDePersistenciaNoDetieneElLote(t *testing.T) {
	st := memory.NewStore()
	f := &sliceFactory{reader: &sliceReader{rows: rows("Clientes",
		map[string]string{"Nombre": "Ana", "Apellido": "Pérez", "Email": "ana@example.com"},
		map[string]string{"Nombre": "Luis", "Apellido": "Gómez", "Email": "luis@example.com"},
		map[string]string{"Nombre": "Eva", "Apellido": "Ruiz", "Email": "eva@example.com"},
	)}}
	svc := importer.NewService(brokenStore{st: st, email: "luis@example.com"}, f, nil, nil,
		importer.Config{DefaultTaxRate: decimal.RequireFromString("0.16")}, nil)

	res, err := svc.Import(context.Background(), nil, "c.csv", importer.KindMixed)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 2, res.Inserted, "las filas posteriores al fallo se procesan")
	assert.Equal(t, 1, res.Errors)
	assertCounters(t, res)
	require.Len(t, res.ErrorList, 1)
	assert.Equal(t, 3, res.ErrorList[0].Row)
	assert.Equal(t, dimporter.FieldPersistence, res.ErrorList[0].Field)
	assert.Contains(t, res.ErrorList[0].Message, "conexión perdida")

	for email, want := range map[string]bool{"ana@example.com": true, "luis@example.com": false, "eva@example.com": true} {
		c, err := st.Clients().GetByEmail(context.Background(), email)
		require.NoError(t, err)
		assert.Equal(t, want, c != nil, email)
	}
}

func TestImport_MixtoVentaConDetalleRecalculaTotales(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	f := &sliceFactory{reader: &sliceReader{rows: []importer.RawRow{
		{Sheet: "Datos", Number: 2, Cells: map[string]string{"Nombre": "Ana", "Apellido": "Pérez", "Email": "ana@example.com"}},
		{Sheet: "Datos", Number: 3, Cells: map[string]string{"Nombre": "Teclado", "Precio": "10", "Stock": "5"}},
		{Sheet: "Datos", Number: 4, Cells: map[string]string{"Referencia": "H-1", "Cliente ID": "1", "Fecha": "2024-05-01", "IVA": "16"}},
		{Sheet: "Datos", Number: 5, Cells: map[string]string{"Referencia": "H-1", "Producto ID": "1", "Cantidad": "2"}},
		{Sheet: "Datos", Number: 6, Cells: map[string]string{"Referencia": "H-1", "Producto ID": "1", "Cantidad": "3", "Precio Unitario": "9.50"}},
	}}}

	res, err := newService(st, f).Import(ctx, nil, "mixto.xlsx", importer.KindMixed)
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalRows)
	assert.Equal(t, 4, res.Inserted)
	assert.Equal(t, 1, res.Updated, "el segundo detalle del mismo producto actualiza la línea")
	assert.Empty(t, res.ErrorList)

	sale, err := st.Sales().GetByReference(ctx, "H-1")
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, "28.50", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "4.56", sale.Tax.StringFixed(2))
	assert.Equal(t, "33.06", sale.Total.StringFixed(2))

	p, err := st.Products().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock, "las ventas importadas no descuentan stock")
}

func TestImport_ReferenciasInexistentesSeReportanEnSuCampo(t *testing.T) {
	st := memory.NewStore()
	f := &sliceFactory{reader: &sliceReader{rows: rows("Ventas",
		map[string]string{"Referencia": "H-9", "Cliente ID": "77", "Fecha": "2024-05-01"},
		map[string]string{"Referencia": "H-404", "Producto ID": "1", "Cantidad": "1"},
		map[string]string{"Nombre": "Teclado", "Precio": "10", "Stock": "1", "Categoría": "3"},
	)}}

	res, err := newService(st, f).Import(context.Background(), nil, "v.xlsx", importer.KindMixed)
	require.NoError(t, err)
	require.Len(t, res.ErrorList, 3)
	assert.Equal(t, "clientid", res.ErrorList[0].Field)
	assert.Equal(t, "reference", res.ErrorList[1].Field)
	assert.Equal(t, "categoryid", res.ErrorList[2].Field)
	assert.Equal(t, 3, res.Errors)
	assertCounters(t, res)
}

func TestImport_FilaNoReconocida(t *testing.T) {
	st := memory.NewStore()
	f := &sliceFactory{reader: &sliceReader{rows: rows("Hoja1", map[string]string{"foo": "bar"})}}

	res, err := newService(st, f).Import(context.Background(), nil, "x.csv", importer.KindMixed)
	require.NoError(t, err)
	require.Len(t, res.ErrorList, 1)
	assert.Equal(t, dimporter.FieldEntity, res.ErrorList[0].Field)
	assert.False(t, res.Success())
}

func TestImport_TipoFijoNoClasifica(t *testing.T) {
	st := memory.NewStore()
	// Sin columna Stock la fila no tiene firma de producto, pero el tipo fijo la etiqueta igual.
	f := &sliceFactory{reader: &sliceReader{rows: rows("P", map[string]string{"Nombre": "Teclado", "Precio": "10"})}}

	res, err := newService(st, f).Import(context.Background(), nil, "p.csv", "product")
	require.NoError(t, err)
	require.Len(t, res.ErrorList, 1)
	assert.Equal(t, "stock", res.ErrorList[0].Field)
}

func TestImport_TipoDesconocido(t *testing.T) {
	_, err := newService(memory.NewStore(), &sliceFactory{reader: &sliceReader{}}).
		Import(context.Background(), nil, "p.csv", "proveedores")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_ArchivoIlegibleSinResultadoParcial(t *testing.T) {
	st := memory.NewStore()
	f := &sliceFactory{reader: &sliceReader{
		rows: rows("Clientes", map[string]string{"Nombre": "Ana", "Apellido": "Pérez", "Email": "ana@example.com"}),
		err:  errors.New("xml: unexpected EOF"),
	}}

	res, err := newService(st, f).Import(context.Background(), nil, "roto.xlsx", importer.KindMixed)
	require.ErrorIs(t, err, domain.ErrUnreadableStream)
	assert.Nil(t, res)

	// Lo confirmado antes del fallo se conserva.
	c, _ := st.Clients().GetByEmail(context.Background(), "ana@example.com")
	assert.NotNil(t, c)
}

func TestImport_FormatoNoSoportado(t *testing.T) {
	f := &sliceFactory{openErr: domain.ErrUnsupportedFormat}
	_, err := newService(memory.NewStore(), f).Import(context.Background(), nil, "a.pdf", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestImport_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &sliceFactory{reader: &sliceReader{rows: rows("C", map[string]string{"Nombre": "Ana"})}}

	_, err := newService(memory.NewStore(), f).Import(ctx, nil, "c.csv", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImport_ProductoPorSKUActualiza(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	require.NoError(t, st.Products().Create(ctx, &entity.Product{SKU: "TEC-1", Name: "Teclado viejo", UnitPrice: decimal.NewFromInt(1), Stock: 1}))
	f := &sliceFactory{reader: &sliceReader{rows: rows("Productos",
		map[string]string{"SKU": "TEC-1", "Nombre": "Teclado", "Precio": "12,50", "Stock": "8"},
	)}}

	res, err := newService(st, f).Import(ctx, nil, "p.xlsx", importer.KindMixed)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	p, err := st.Products().GetBySKU(ctx, "TEC-1")
	require.NoError(t, err)
	assert.Equal(t, "Teclado", p.Name)
	assert.Equal(t, "12.50", p.UnitPrice.StringFixed(2))
	assert.Equal(t, 8, p.Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Plantilla
// ──────────────────────────────────────────────────────────────────────────────

type recordingWriter struct{ sheets []importer.TemplateSheet }

func (w *recordingWriter) WriteTemplate(out io.Writer, sheets []importer.TemplateSheet) error {
	w.sheets = sheets
	_, err := out.Write([]byte("xlsx"))
	return err
}

func TestTemplate_EncabezadosClasificables(t *testing.T) {
	w := &recordingWriter{}
	svc := importer.NewService(memory.NewStore(), &sliceFactory{}, w, nil, importer.Config{}, nil)

	data, err := svc.Template()
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte("xlsx"), data))
	require.Len(t, w.sheets, 4)

	want := []dimporter.EntityType{dimporter.Client, dimporter.Product, dimporter.Sale, dimporter.SaleItem}
	for i, sheet := range w.sheets {
		cells := map[string]string{}
		for j, col := range sheet.Columns {
			cells[col.Header] = sheet.Example[j]
		}
		row := dimporter.Classify(2, cells)
		assert.Equal(t, want[i], row.EntityType, "la hoja %s debe clasificarse sola", sheet.Name)
		assert.Empty(t, dimporter.Validate(row), "el ejemplo de %s debe ser válido", sheet.Name)
	}
}
