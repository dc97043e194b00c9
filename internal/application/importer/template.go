package importer

import (
	"bytes"
	"fmt"
)

// TemplateFilename nombre sugerido para la descarga de la plantilla.
const TemplateFilename = "plantilla_importacion.xlsx"

// templateSheets una hoja por entidad; los encabezados coinciden con los alias del clasificador.
var templateSheets = []TemplateSheet{
	{
		Name: "Clientes",
		Columns: []TemplateColumn{
			{"Nombre", true}, {"Apellido", true}, {"Email", true},
			{"Teléfono", false}, {"Fecha Nacimiento", false}, {"Dirección", false},
		},
		Example: []string{"Ana", "Pérez", "ana@example.com", "555-0101", "1990-02-01", "Av. Siempre Viva 742"},
	},
	{
		Name: "Productos",
		Columns: []TemplateColumn{
			{"SKU", false}, {"Nombre", true}, {"Descripción", false},
			{"Precio", true}, {"Stock", true}, {"Categoría ID", false},
		},
		Example: []string{"TEC-001", "Teclado", "Teclado mecánico", "25.00", "10", ""},
	},
	{
		Name: "Ventas",
		Columns: []TemplateColumn{
			{"Referencia", true}, {"Cliente ID", true}, {"Fecha", true},
			{"Tasa Impuesto", false}, {"Método Pago", false}, {"Pagado", false}, {"Notas", false},
		},
		Example: []string{"H-0001", "1", "2024-05-01", "0.16", "efectivo", "si", ""},
	},
	{
		Name: "DetalleVentas",
		Columns: []TemplateColumn{
			{"Referencia", true}, {"Producto ID", true}, {"Cantidad", true}, {"Precio Unitario", false},
		},
		Example: []string{"H-0001", "1", "2", "25.00"},
	},
}

// Template genera la plantilla .xlsx con una hoja por tipo de entidad.
func (s *Service) Template() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.WriteTemplate(&buf, templateSheets); err != nil {
		return nil, fmt.Errorf("importer: plantilla: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateSheets hojas de la plantilla (para escritores y pruebas).
func TemplateSheets() []TemplateSheet {
	out := make([]TemplateSheet, len(templateSheets))
	copy(out, templateSheets)
	return out
}
