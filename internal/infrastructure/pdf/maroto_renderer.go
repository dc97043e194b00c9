// Package pdf renderiza comprobantes de venta y reportes con Maroto v2.
//
// Layout del comprobante (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: COMPROBANTE DE VENTA  │  Referencia + Fecha         │
//	│  CLIENTE: Nombre + Email                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto (tasa) / TOTAL                 │
//	│  FOOTER: QR con la referencia + método y estado de pago      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/report"
)

var _ report.Renderer = (*MarotoRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa report.Renderer usando Maroto v2.
type MarotoRenderer struct {
	company string
}

// NewMarotoRenderer construye el renderer. company aparece como autor y encabezado.
func NewMarotoRenderer(company string) *MarotoRenderer {
	return &MarotoRenderer{company: company}
}

func (g *MarotoRenderer) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.company, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderReceipt comprobante de una venta.
func (g *MarotoRenderer) RenderReceipt(ctx context.Context, doc report.ReceiptDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := g.newDocument("Comprobante " + doc.Reference)

	m.AddRows(receiptHeaderRow(g.company, doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow([]column{
		{"Cant.", 1, align.Center},
		{"Producto", 6, align.Left},
		{"Precio Unit.", 2, align.Right},
		{"Subtotal", 3, align.Right},
	}))
	for _, l := range doc.Lines {
		m.AddRows(row.New(7).Add(
			cell(strconv.Itoa(l.Quantity), 1, align.Center),
			cell(l.ProductName, 6, align.Left),
			cell("$"+formatMoney(l.UnitPrice), 2, align.Right),
			cell("$"+formatMoney(l.Subtotal), 3, align.Right),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))
	m.AddRows(line.NewRow(3))
	m.AddRows(receiptFooterRow(doc))

	return generate(m)
}

// RenderProductReport inventario valorizado.
func (g *MarotoRenderer) RenderProductReport(ctx context.Context, r report.ProductReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := g.newDocument("Reporte de productos")
	m.AddRows(reportTitleRow(g.company, "REPORTE DE PRODUCTOS", r.GeneratedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow([]column{
		{"ID", 1, align.Center},
		{"SKU", 2, align.Left},
		{"Nombre", 4, align.Left},
		{"Precio", 2, align.Right},
		{"Stock", 1, align.Center},
		{"Valor", 2, align.Right},
	}))
	for _, p := range r.Rows {
		m.AddRows(row.New(7).Add(
			cell(strconv.FormatInt(p.ID, 10), 1, align.Center),
			cell(nonEmpty(p.SKU, "—"), 2, align.Left),
			cell(p.Name, 4, align.Left),
			cell("$"+formatMoney(p.UnitPrice), 2, align.Right),
			cell(strconv.Itoa(p.Stock), 1, align.Center),
			cell("$"+formatMoney(p.InventoryValue), 2, align.Right),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(
		fmt.Sprintf("Productos: %d   |   Unidades en stock: %d", len(r.Rows), r.TotalStock),
		"Valor total: $"+formatMoney(r.TotalValue),
	))
	return generate(m)
}

// RenderClientReport listado de clientes con edad.
func (g *MarotoRenderer) RenderClientReport(ctx context.Context, r report.ClientReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := g.newDocument("Reporte de clientes")
	m.AddRows(reportTitleRow(g.company, "REPORTE DE CLIENTES", r.GeneratedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow([]column{
		{"ID", 1, align.Center},
		{"Nombre", 4, align.Left},
		{"Email", 4, align.Left},
		{"Teléfono", 2, align.Left},
		{"Edad", 1, align.Center},
	}))
	for _, c := range r.Rows {
		age := "—"
		if c.Age > 0 {
			age = strconv.Itoa(c.Age)
		}
		m.AddRows(row.New(7).Add(
			cell(strconv.FormatInt(c.ID, 10), 1, align.Center),
			cell(c.FullName, 4, align.Left),
			cell(c.Email, 4, align.Left),
			cell(nonEmpty(c.Phone, "—"), 2, align.Left),
			cell(age, 1, align.Center),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(fmt.Sprintf("Clientes: %d", r.Count), ""))
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// receiptHeaderRow: empresa (izq) y referencia + fecha (der).
func receiptHeaderRow(company string, doc report.ReceiptDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func clientRow(doc report.ReceiptDocument) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.ClientName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Email: "+nonEmpty(doc.ClientEmail, "—"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func reportTitleRow(company, title, generatedAt string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

type column struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla en blanco sobre el color primario.
func tableHeaderRow(cols []column) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(out...)
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(doc report.ReceiptDocument) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
		})
	}
	rate := doc.TaxRate.Mul(decimal.NewFromInt(100)).Round(2).String()

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			text.New("Impuesto ("+rate+"%):", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			grand("TOTAL:", 11),
		),
		col.New(3).Add(
			text.New("$"+formatMoney(doc.Subtotal), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New("$"+formatMoney(doc.Tax), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			grand("$"+formatMoney(doc.Total), 11),
		),
	)
}

// receiptFooterRow: QR con la referencia, pago y notas.
func receiptFooterRow(doc report.ReceiptDocument) core.Row {
	status := "PENDIENTE DE PAGO"
	if doc.IsPaid {
		status = "PAGADO"
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(doc.Reference, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Método de pago: "+nonEmpty(doc.PaymentMethod, "—"), props.Text{Size: 9, Top: 4, Left: 3}),
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 10, Top: 11, Left: 3, Color: colorPrimary}),
			text.New(nonEmpty(doc.Notes, ""), props.Text{Size: 8, Top: 19, Left: 3, Color: colorGray}),
		),
	)
}

func summaryRow(left, right string) core.Row {
	return row.New(10).Add(
		col.New(7).Add(text.New(left, props.Text{Size: 9, Top: 2})),
		col.New(5).Add(text.New(right, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney dos decimales con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", -1234.5 → "-1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
