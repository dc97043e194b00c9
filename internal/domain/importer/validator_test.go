package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain/importer"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func row(t importer.EntityType, fields map[string]string) importer.ClassifiedRow {
	return importer.ClassifiedRow{RowNumber: 2, Sheet: "Hoja1", EntityType: t, Fields: fields}
}

func fieldsOf(errs []importer.ImportError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Client
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_ClienteValido(t *testing.T) {
	errs := importer.ValidateAt(row(importer.Client, map[string]string{
		"firstname": "Ana", "lastname": "Pérez", "email": "ana@example.com", "birthdate": "1990-02-01",
	}), fixedNow)
	assert.Empty(t, errs)
}

func TestValidate_ClienteSinEmail(t *testing.T) {
	errs := importer.ValidateAt(row(importer.Client, map[string]string{
		"firstname": "Ana", "lastname": "Pérez", "email": "",
	}), fixedNow)

	require.Len(t, errs, 1, "un requerido vacío produce exactamente un error")
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, 2, errs[0].Row)
	assert.Equal(t, "Hoja1", errs[0].Sheet)
}

func TestValidate_ClienteAcumulaErrores(t *testing.T) {
	errs := importer.ValidateAt(row(importer.Client, map[string]string{
		"firstname": "", "lastname": "", "email": "no-es-email", "birthdate": "2030-01-01",
	}), fixedNow)

	assert.ElementsMatch(t, []string{"firstname", "lastname", "email", "birthdate"}, fieldsOf(errs))
}

func TestValidate_ClienteFechaSerialExcel(t *testing.T) {
	errs := importer.ValidateAt(row(importer.Client, map[string]string{
		"firstname": "Ana", "lastname": "Pérez", "email": "ana@example.com", "birthdate": "32874",
	}), fixedNow)
	assert.Empty(t, errs, "un número de serie de Excel es una fecha válida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Product
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_Producto(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   []string
	}{
		{"válido", map[string]string{"name": "Teclado", "unitprice": "25.00", "stock": "10"}, nil},
		{"precio cero", map[string]string{"name": "Teclado", "unitprice": "0", "stock": "10"}, []string{"unitprice"}},
		{"precio no numérico", map[string]string{"name": "Teclado", "unitprice": "abc", "stock": "10"}, []string{"unitprice"}},
		{"stock negativo", map[string]string{"name": "Teclado", "unitprice": "1", "stock": "-1"}, []string{"stock"}},
		{"stock decimal", map[string]string{"name": "Teclado", "unitprice": "1", "stock": "1.5"}, []string{"stock"}},
		{"categoría inválida", map[string]string{"name": "Teclado", "unitprice": "1", "stock": "0", "categoryid": "x"}, []string{"categoryid"}},
		{"todo vacío", map[string]string{"name": "", "unitprice": "", "stock": ""}, []string{"name", "unitprice", "stock"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := importer.ValidateAt(row(importer.Product, tc.fields), fixedNow)
			if tc.want == nil {
				assert.Empty(t, errs)
				return
			}
			assert.ElementsMatch(t, tc.want, fieldsOf(errs))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sale / SaleItem / Unknown
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_Venta(t *testing.T) {
	assert.Empty(t, importer.ValidateAt(row(importer.Sale, map[string]string{
		"reference": "V-1", "clientid": "3", "date": "01/05/2024", "taxrate": "16", "ispaid": "sí",
	}), fixedNow))

	errs := importer.ValidateAt(row(importer.Sale, map[string]string{
		"reference": "V-1", "clientid": "0", "date": "ayer", "taxrate": "150", "ispaid": "quizá",
	}), fixedNow)
	assert.ElementsMatch(t, []string{"clientid", "date", "taxrate", "ispaid"}, fieldsOf(errs))
}

func TestValidate_DetalleVenta(t *testing.T) {
	assert.Empty(t, importer.ValidateAt(row(importer.SaleItem, map[string]string{
		"reference": "V-1", "productid": "2", "quantity": "3",
	}), fixedNow), "el precio unitario es opcional")

	errs := importer.ValidateAt(row(importer.SaleItem, map[string]string{
		"reference": "", "productid": "2", "quantity": "0", "unitprice": "-1",
	}), fixedNow)
	assert.ElementsMatch(t, []string{"reference", "quantity", "unitprice"}, fieldsOf(errs))
}

func TestValidate_Desconocida(t *testing.T) {
	errs := importer.ValidateAt(row(importer.Unknown, map[string]string{"foo": "bar"}), fixedNow)
	require.Len(t, errs, 1)
	assert.Equal(t, importer.FieldEntity, errs[0].Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Parsers
// ──────────────────────────────────────────────────────────────────────────────

func TestParseDecimal_Formatos(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1234.5", "1234.5"},
		{"1.234,50", "1234.5"},
		{"1,234.50", "1234.5"},
		{"$ 25", "25"},
		{"25,5", "25.5"},
		{"1,000", "1000"},
		{"1.000", "1000"},
		{"12,500", "12500"},
		{"1.234.567", "1234567"},
		{"-1,000", "-1000"},
		{"0,125", "0.125"},
		{"0.16", "0.16"},
		{"2.125", "2.125"},
		{"1.6E-2", "0.016"},
	}
	for _, tc := range cases {
		d, err := importer.ParseDecimal(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, d.String(), tc.in)
	}

	for _, in := range []string{"", "abc", "1,2,3", "1.2.3", "1.234,5,6"} {
		_, err := importer.ParseDecimal(in)
		assert.Error(t, err, in)
	}
}

func TestParseInt_SeparadoresDeMiles(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1000", 1000},
		{"1,000", 1000},
		{"1.000", 1000},
		{"1.234.567", 1234567},
		{"3.0", 3},
		{"-2", -2},
	}
	for _, tc := range cases {
		n, err := importer.ParseInt(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, n, tc.in)
	}

	for _, in := range []string{"1.5", "25,5", "1,2,3", "dos"} {
		_, err := importer.ParseInt(in)
		assert.Error(t, err, in)
	}
}

// Stock "1.000" es mil unidades, nunca una.
func TestValidate_ProductoConMiles(t *testing.T) {
	r := row(importer.Product, map[string]string{"name": "Cable", "unitprice": "1.234,50", "stock": "1.000"})
	assert.Empty(t, importer.ValidateAt(r, fixedNow))
	n, err := importer.ParseInt(r.Get("stock"))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)
}

func TestParseDate_SerialExcel(t *testing.T) {
	d, err := importer.ParseDate("45413")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", d.Format("2006-01-02"))
}

func TestImportResult_Success(t *testing.T) {
	assert.True(t, importer.ImportResult{TotalRows: 2, Inserted: 2}.Success())
	assert.False(t, importer.ImportResult{TotalRows: 2, Inserted: 1, Errors: 1}.Success())
}

// Los largos coinciden con las columnas: lo que pasa la validación entra en PostgreSQL.
func TestValidate_LargosDelEsquema(t *testing.T) {
	long := func(n int) string { return strings.Repeat("x", n) }

	errs := importer.ValidateAt(row(importer.Client, map[string]string{
		"firstname": long(101), "lastname": long(100), "email": long(251) + "@b.co",
	}), fixedNow)
	assert.ElementsMatch(t, []string{"firstname", "email"}, fieldsOf(errs))

	errs = importer.ValidateAt(row(importer.Product, map[string]string{
		"name": "Cable", "unitprice": "1", "stock": "3000000000", "sku": long(65),
	}), fixedNow)
	assert.ElementsMatch(t, []string{"stock", "sku"}, fieldsOf(errs))

	assert.Empty(t, importer.ValidateAt(row(importer.Product, map[string]string{
		"name": long(200), "unitprice": "1", "stock": "1", "sku": long(64),
	}), fixedNow))

	errs = importer.ValidateAt(row(importer.SaleItem, map[string]string{
		"reference": long(65), "productid": "1", "quantity": "1",
	}), fixedNow)
	assert.Equal(t, []string{"reference"}, fieldsOf(errs))
}
