// Package receiptxml serializa comprobantes de venta como XML con un digest
// SHA-256 calculado sobre la forma canónica (C14N) del documento.
package receiptxml

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/Ventas-api/internal/application/report"
)

const (
	// Namespace del comprobante.
	Namespace = "urn:ventas:comprobante:1"
	// AlgSHA256 identificador del algoritmo de digest.
	AlgSHA256 = "http://www.w3.org/2001/04/xmlenc#sha256"
	// AlgC14N canonicalización aplicada antes del digest.
	AlgC14N = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
)

var _ report.ReceiptXMLRenderer = (*Builder)(nil)

// Builder arma el XML del comprobante.
type Builder struct{}

// NewBuilder construye el serializador.
func NewBuilder() *Builder { return &Builder{} }

// RenderReceiptXML genera el documento y agrega <Digest> como último hijo de la raíz.
// El digest cubre el documento sin el propio elemento Digest.
func (b *Builder) RenderReceiptXML(doc report.ReceiptDocument) ([]byte, error) {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := x.CreateElement("Comprobante")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("Referencia", doc.Reference)

	root.CreateElement("Fecha").SetText(doc.Date.UTC().Format("2006-01-02T15:04:05Z"))
	cli := root.CreateElement("Cliente")
	cli.CreateElement("Nombre").SetText(doc.ClientName)
	cli.CreateElement("Email").SetText(doc.ClientEmail)

	lines := root.CreateElement("Lineas")
	for i, l := range doc.Lines {
		ln := lines.CreateElement("Linea")
		ln.CreateAttr("Numero", strconv.Itoa(i+1))
		ln.CreateElement("ProductoID").SetText(strconv.FormatInt(l.ProductID, 10))
		ln.CreateElement("Producto").SetText(l.ProductName)
		ln.CreateElement("Cantidad").SetText(strconv.Itoa(l.Quantity))
		ln.CreateElement("PrecioUnitario").SetText(l.UnitPrice.StringFixed(2))
		ln.CreateElement("Subtotal").SetText(l.Subtotal.StringFixed(2))
	}

	tot := root.CreateElement("Totales")
	tot.CreateElement("Subtotal").SetText(doc.Subtotal.StringFixed(2))
	tasa := tot.CreateElement("Impuesto")
	tasa.CreateAttr("Tasa", doc.TaxRate.String())
	tasa.SetText(doc.Tax.StringFixed(2))
	tot.CreateElement("Total").SetText(doc.Total.StringFixed(2))

	pago := root.CreateElement("Pago")
	pago.CreateAttr("Metodo", doc.PaymentMethod)
	pago.CreateAttr("Pagado", strconv.FormatBool(doc.IsPaid))
	if doc.Notes != "" {
		root.CreateElement("Notas").SetText(doc.Notes)
	}

	digest, err := rootDigest(root)
	if err != nil {
		return nil, err
	}

	d := root.CreateElement("Digest")
	d.CreateAttr("Algorithm", AlgSHA256)
	d.CreateAttr("Canonicalization", AlgC14N)
	d.SetText(digest)

	x.Indent(2)
	return x.WriteToBytes()
}

// Digest SHA-256 (base64) de la forma canónica de data.
func Digest(data []byte) (string, error) {
	canonical, err := canonicalize(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// Verify recalcula el digest sin el elemento <Digest> y lo compara con el declarado.
func Verify(data []byte) (bool, error) {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return false, fmt.Errorf("receiptxml: parsear: %w", err)
	}
	root := x.Root()
	if root == nil {
		return false, fmt.Errorf("receiptxml: documento sin raíz")
	}
	d := root.SelectElement("Digest")
	if d == nil {
		return false, fmt.Errorf("receiptxml: falta Digest")
	}
	got, err := rootDigest(root)
	if err != nil {
		return false, err
	}
	return got == d.Text(), nil
}

// rootDigest digest de la raíz sin declaración XML, sin <Digest> y sin la indentación.
func rootDigest(root *etree.Element) (string, error) {
	tmp := etree.NewDocument()
	tmp.SetRoot(root.Copy())
	if d := tmp.Root().SelectElement("Digest"); d != nil {
		tmp.Root().RemoveChild(d)
	}
	stripIndent(tmp.Root())
	raw, err := tmp.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("receiptxml: serializar: %w", err)
	}
	return Digest(raw)
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("receiptxml: canonicalizar: %w", err)
	}
	return out, nil
}

// stripIndent elimina el texto de solo espacios entre elementos que agregó Indent.
func stripIndent(e *etree.Element) {
	for _, tok := range append([]etree.Token(nil), e.Child...) {
		switch t := tok.(type) {
		case *etree.CharData:
			if t.IsWhitespace() && len(e.ChildElements()) > 0 {
				e.RemoveChild(t)
			}
		case *etree.Element:
			stripIndent(t)
		}
	}
}
