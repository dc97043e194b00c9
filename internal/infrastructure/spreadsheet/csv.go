package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/jhoicas/Ventas-api/internal/application/importer"
)

// csvReader lee un CSV con encabezado en la primera línea.
// El separador (coma o punto y coma) se detecta en la línea de encabezado.
type csvReader struct {
	r      *csv.Reader
	header headerRow
}

func newCSVReader(src io.Reader) (*csvReader, error) {
	br := bufio.NewReader(src)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, unreadable("leer encabezado: %v", err)
	}
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		r.Comma = ';'
	}

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &csvReader{r: r}, nil
	}
	if err != nil {
		return nil, unreadable("leer encabezado: %v", err)
	}
	return &csvReader{r: r, header: newHeaderRow(head)}, nil
}

func (c *csvReader) Next() (importer.RawRow, error) {
	if c.header == nil {
		return importer.RawRow{}, io.EOF
	}
	record, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		return importer.RawRow{}, io.EOF
	}
	if err != nil {
		return importer.RawRow{}, unreadable("csv: %v", err)
	}
	line, _ := c.r.FieldPos(0)
	return importer.RawRow{Number: line, Cells: c.header.cells(record)}, nil
}

func (c *csvReader) Close() error { return nil }
