// Package spreadsheet lee archivos .xlsx y .csv fila a fila y escribe la plantilla de importación.
package spreadsheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/application/importer"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// ReaderFactory elige el lector por extensión del archivo.
type ReaderFactory struct{}

// NewReaderFactory construye la fábrica de lectores.
func NewReaderFactory() *ReaderFactory {
	return &ReaderFactory{}
}

// Open abre r como .xlsx/.xlsm o .csv según la extensión de filename.
func (ReaderFactory) Open(r io.Reader, filename string) (importer.RowReader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return newExcelReader(r)
	case ".csv":
		return newCSVReader(r)
	default:
		return nil, fmt.Errorf("%w: %q (use .xlsx o .csv)", domain.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// headerRow arma el índice de columnas; encabezados vacíos o repetidos se ignoran.
type headerRow []string

func newHeaderRow(cells []string) headerRow {
	seen := make(map[string]bool, len(cells))
	h := make(headerRow, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		h[i] = c
	}
	return h
}

// cells asocia cada valor a su encabezado. Columnas faltantes quedan vacías.
func (h headerRow) cells(values []string) map[string]string {
	out := make(map[string]string, len(h))
	for i, name := range h {
		if name == "" {
			continue
		}
		if i < len(values) {
			out[name] = values[i]
		} else {
			out[name] = ""
		}
	}
	return out
}

func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func unreadable(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrUnreadableStream}, args...)...)
}
