package spreadsheet

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Ventas-api/internal/application/importer"
)

// Valor guardado en la celda, sin formato de número: fechas como número de serie,
// 1000 con formato #,##0 como "1000".
var rawValues = excelize.Options{RawCellValue: true}

// excelReader recorre todas las hojas con el iterador de filas de excelize (streaming).
// La primera fila no vacía de cada hoja es su encabezado. La hoja de instrucciones
// de la plantilla no se lee.
type excelReader struct {
	file   *excelize.File
	sheets []string
	idx    int
	rows   *excelize.Rows
	rowNum int
	header headerRow
}

func newExcelReader(r io.Reader) (*excelReader, error) {
	f, err := excelize.OpenReader(r, rawValues)
	if err != nil {
		return nil, unreadable("abrir libro: %v", err)
	}
	sheets := make([]string, 0, len(f.GetSheetList()))
	for _, name := range f.GetSheetList() {
		if name != InstructionsSheet {
			sheets = append(sheets, name)
		}
	}
	return &excelReader{file: f, sheets: sheets, idx: -1}, nil
}

func (e *excelReader) Next() (importer.RawRow, error) {
	for {
		if e.rows == nil {
			if err := e.nextSheet(); err != nil {
				return importer.RawRow{}, err
			}
		}
		if !e.rows.Next() {
			if err := e.rows.Error(); err != nil {
				return importer.RawRow{}, unreadable("hoja %q: %v", e.sheets[e.idx], err)
			}
			_ = e.rows.Close()
			e.rows = nil
			continue
		}
		e.rowNum++
		values, err := e.rows.Columns(rawValues)
		if err != nil {
			return importer.RawRow{}, unreadable("hoja %q fila %d: %v", e.sheets[e.idx], e.rowNum, err)
		}
		if e.header == nil {
			if !blank(values) {
				e.header = newHeaderRow(values)
			}
			continue
		}
		return importer.RawRow{Sheet: e.sheets[e.idx], Number: e.rowNum, Cells: e.header.cells(values)}, nil
	}
}

func (e *excelReader) nextSheet() error {
	e.idx++
	if e.idx >= len(e.sheets) {
		return io.EOF
	}
	rows, err := e.file.Rows(e.sheets[e.idx])
	if err != nil {
		return unreadable("hoja %q: %v", e.sheets[e.idx], err)
	}
	e.rows = rows
	e.rowNum = 0
	e.header = nil
	return nil
}

func (e *excelReader) Close() error {
	if e.rows != nil {
		_ = e.rows.Close()
	}
	return e.file.Close()
}
