// Package importer contiene las reglas puras de la importación masiva:
// clasificación de filas por encabezados y validación de campos por tipo de entidad.
package importer

// EntityType tipo de entidad que representa una fila de la hoja de cálculo.
type EntityType string

const (
	Unknown  EntityType = "unknown"
	Client   EntityType = "client"
	Product  EntityType = "product"
	Sale     EntityType = "sale"
	SaleItem EntityType = "saleitem"
)

// ParseEntityType convierte "client", "producto", etc. en un EntityType conocido.
func ParseEntityType(s string) (EntityType, bool) {
	switch NormalizeHeader(s) {
	case "client", "clients", "cliente", "clientes":
		return Client, true
	case "product", "products", "producto", "productos":
		return Product, true
	case "sale", "sales", "venta", "ventas":
		return Sale, true
	case "saleitem", "saleitems", "detalleventa", "detalleventas", "detalle":
		return SaleItem, true
	}
	return Unknown, false
}

// Campos canónicos (encabezados normalizados tras aplicar alias).
const (
	FieldFirstName     = "firstname"
	FieldLastName      = "lastname"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldBirthDate     = "birthdate"
	FieldAddress       = "address"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldSKU           = "sku"
	FieldUnitPrice     = "unitprice"
	FieldStock         = "stock"
	FieldCategoryID    = "categoryid"
	FieldReference     = "reference"
	FieldClientID      = "clientid"
	FieldDate          = "date"
	FieldTaxRate       = "taxrate"
	FieldPaymentMethod = "paymentmethod"
	FieldIsPaid        = "ispaid"
	FieldNotes         = "notes"
	FieldProductID     = "productid"
	FieldQuantity      = "quantity"

	// Campos sintéticos para errores que no pertenecen a una columna.
	FieldEntity      = "__entity__"
	FieldPersistence = "__persistence__"
	FieldRow         = "__row__"
)

// ClassifiedRow fila clasificada: campos indexados por nombre canónico, valores sin espacios extremos.
type ClassifiedRow struct {
	RowNumber  int
	Sheet      string
	EntityType EntityType
	Fields     map[string]string
}

// Get devuelve el valor del campo canónico (vacío si no existe).
func (r ClassifiedRow) Get(field string) string {
	return r.Fields[field]
}

// ImportError error de una fila: número de fila de la hoja, campo y mensaje.
type ImportError struct {
	Row     int    `json:"row"`
	Sheet   string `json:"sheet,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult contadores agregados de una importación.
// Invariante: TotalRows == Inserted + Updated + Errors (Errors cuenta filas, ErrorList cada regla violada).
type ImportResult struct {
	TotalRows int           `json:"total_rows"`
	Inserted  int           `json:"inserted"`
	Updated   int           `json:"updated"`
	Errors    int           `json:"errors"`
	ErrorList []ImportError `json:"error_details"`
}

// Success verdadero cuando ninguna fila falló.
func (r ImportResult) Success() bool {
	return r.Errors == 0
}
