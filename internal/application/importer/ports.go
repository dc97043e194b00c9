package importer

import (
	"context"
	"io"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// RawRow fila de datos tal como se leyó: celdas indexadas por el encabezado original.
type RawRow struct {
	Sheet  string
	Number int // número de fila en la hoja (1 = encabezado)
	Cells  map[string]string
}

// RowReader recorre las filas de datos de un archivo. Next devuelve io.EOF al terminar.
type RowReader interface {
	Next() (RawRow, error)
	Close() error
}

// RowReaderFactory abre un lector según la extensión de filename.
// Devuelve domain.ErrUnsupportedFormat o domain.ErrUnreadableStream (envueltos) si no puede.
type RowReaderFactory interface {
	Open(r io.Reader, filename string) (RowReader, error)
}

// TemplateColumn columna de la plantilla; Required se marca con "*".
type TemplateColumn struct {
	Header   string
	Required bool
}

// TemplateSheet hoja de la plantilla con una fila de ejemplo.
type TemplateSheet struct {
	Name    string
	Columns []TemplateColumn
	Example []string
}

// TemplateWriter escribe la plantilla .xlsx.
type TemplateWriter interface {
	WriteTemplate(w io.Writer, sheets []TemplateSheet) error
}

// ImportTxRunner ejecuta la persistencia de una fila dentro de su propia transacción.
type ImportTxRunner interface {
	RunImport(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		productRepo repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
