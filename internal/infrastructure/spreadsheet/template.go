package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Ventas-api/internal/application/importer"
)

// InstructionsSheet hoja de ayuda de la plantilla; el lector de .xlsx la omite.
const InstructionsSheet = "Instrucciones"

// TemplateWriter escribe la plantilla de importación con excelize.
type TemplateWriter struct{}

// NewTemplateWriter construye el escritor de plantillas.
func NewTemplateWriter() *TemplateWriter {
	return &TemplateWriter{}
}

// WriteTemplate una hoja por entidad: encabezados con estilo (obligatorios en naranja y con "*")
// y una fila de ejemplo; al final una hoja de instrucciones.
func (TemplateWriter) WriteTemplate(w io.Writer, sheets []importer.TemplateSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}
		for j, col := range sheet.Columns {
			cell, _ := excelize.CoordinatesToCellName(j+1, 1)
			header, style := col.Header, headerStyle
			if col.Required {
				header, style = col.Header+" *", requiredStyle
			}
			if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, style); err != nil {
				return err
			}
			colName, _ := excelize.ColumnNumberToName(j + 1)
			_ = f.SetColWidth(sheet.Name, colName, colName, 20)
		}
		for j, v := range sheet.Example {
			cell, _ := excelize.CoordinatesToCellName(j+1, 2)
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return err
			}
		}
	}

	const help = InstructionsSheet
	if _, err := f.NewSheet(help); err != nil {
		return err
	}
	lines := []string{
		"Importación masiva de ventas",
		"",
		"Las columnas marcadas con * son obligatorias.",
		"Cada hoja se reconoce por sus encabezados; también puede mezclar filas en una sola hoja.",
		"Orden recomendado: Clientes, Productos, Ventas y por último DetalleVentas.",
		"Fechas en formato AAAA-MM-DD o DD/MM/AAAA. Tasa de impuesto como 0.16 o 16.",
		"Los clientes se actualizan por email, los productos por SKU (o nombre) y las ventas por referencia.",
	}
	for i, l := range lines {
		_ = f.SetCellValue(help, fmt.Sprintf("A%d", i+1), l)
	}
	_ = f.SetColWidth(help, "A", "A", 100)

	_, err = f.WriteTo(w)
	return err
}
