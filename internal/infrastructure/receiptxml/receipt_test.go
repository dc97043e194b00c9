package receiptxml_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/receiptxml"
)

func sampleDoc() report.ReceiptDocument {
	return report.ReceiptDocument{
		Reference:   "V-0123456789AB",
		Date:        time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		ClientName:  "Ana Pérez & Hijos",
		ClientEmail: "ana@example.com",
		Lines: []report.ReceiptLine{
			{ProductID: 1, ProductName: "Teclado", Quantity: 2, UnitPrice: decimal.RequireFromString("25"), Subtotal: decimal.RequireFromString("50")},
			{ProductID: 7, ProductName: "Producto #7", Quantity: 1, UnitPrice: decimal.RequireFromString("4"), Subtotal: decimal.RequireFromString("4")},
		},
		Subtotal:      decimal.RequireFromString("54"),
		TaxRate:       decimal.RequireFromString("0.16"),
		Tax:           decimal.RequireFromString("8.64"),
		Total:         decimal.RequireFromString("62.64"),
		PaymentMethod: "tarjeta",
	}
}

func TestRenderReceiptXML_Estructura(t *testing.T) {
	out, err := receiptxml.NewBuilder().RenderReceiptXML(sampleDoc())
	require.NoError(t, err)

	x := etree.NewDocument()
	require.NoError(t, x.ReadFromBytes(out))
	root := x.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Comprobante", root.Tag)
	assert.Equal(t, "V-0123456789AB", root.SelectAttrValue("Referencia", ""))
	assert.Len(t, root.FindElements("./Lineas/Linea"), 2)
	assert.Equal(t, "62.64", root.FindElement("./Totales/Total").Text())
	assert.Equal(t, "0.16", root.FindElement("./Totales/Impuesto").SelectAttrValue("Tasa", ""))
	assert.Equal(t, "false", root.SelectElement("Pago").SelectAttrValue("Pagado", ""))
	assert.Nil(t, root.SelectElement("Notas"), "sin notas no se emite el elemento")
	assert.NotEmpty(t, root.SelectElement("Digest").Text())
}

func TestVerify(t *testing.T) {
	out, err := receiptxml.NewBuilder().RenderReceiptXML(sampleDoc())
	require.NoError(t, err)

	ok, err := receiptxml.Verify(out)
	require.NoError(t, err)
	assert.True(t, ok, "el digest del documento recién generado debe validar")

	tampered := strings.Replace(string(out), "<Total>62.64</Total>", "<Total>1.00</Total>", 1)
	require.NotEqual(t, string(out), tampered)
	ok, err = receiptxml.Verify([]byte(tampered))
	require.NoError(t, err)
	assert.False(t, ok, "cualquier cambio invalida el digest")
}

func TestDigest_EsDeterministico(t *testing.T) {
	a, err := receiptxml.NewBuilder().RenderReceiptXML(sampleDoc())
	require.NoError(t, err)
	b, err := receiptxml.NewBuilder().RenderReceiptXML(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Atributos en otro orden producen la misma forma canónica.
	d1, err := receiptxml.Digest([]byte(`<a x="1" y="2"></a>`))
	require.NoError(t, err)
	d2, err := receiptxml.Digest([]byte(`<a y="2" x="1"/>`))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestVerify_SinDigest(t *testing.T) {
	_, err := receiptxml.Verify([]byte(`<Comprobante/>`))
	assert.Error(t, err)
}
