package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var minPrice = decimal.NewFromFloat(0.01)

// Largos máximos de las columnas VARCHAR del esquema.
const (
	maxPersonName = 100
	maxEmail      = 255
	maxPhone      = 30
	maxProduct    = 200
	maxSKU        = 64
	maxReference  = 64
)

// Columnas INTEGER (stock, cantidad).
const maxInt32 = 1<<31 - 1

// Validate devuelve un ImportError por cada regla violada; vacío si la fila es válida.
// Se evalúan todas las reglas; un campo requerido vacío genera un único error "requerido".
func Validate(row ClassifiedRow) []ImportError {
	return ValidateAt(row, time.Now())
}

// ValidateAt igual que Validate, con "ahora" explícito para las reglas de fechas futuras.
func ValidateAt(row ClassifiedRow, now time.Time) []ImportError {
	v := &rowValidator{row: row, now: now}
	switch row.EntityType {
	case Client:
		v.validateClient()
	case Product:
		v.validateProduct()
	case Sale:
		v.validateSale()
	case SaleItem:
		v.validateSaleItem()
	default:
		v.fail(FieldEntity, "fila no reconocida: los encabezados no coinciden con ninguna entidad")
	}
	return v.errs
}

type rowValidator struct {
	row  ClassifiedRow
	now  time.Time
	errs []ImportError
}

func (v *rowValidator) validateClient() {
	if v.required(FieldFirstName) {
		v.maxLen(FieldFirstName, maxPersonName)
	}
	if v.required(FieldLastName) {
		v.maxLen(FieldLastName, maxPersonName)
	}
	if v.required(FieldEmail) {
		if !emailPattern.MatchString(v.row.Get(FieldEmail)) {
			v.fail(FieldEmail, "formato de email inválido")
		} else {
			v.maxLen(FieldEmail, maxEmail)
		}
	}
	if s := v.row.Get(FieldBirthDate); s != "" {
		if t, err := ParseDate(s); err != nil {
			v.fail(FieldBirthDate, "fecha de nacimiento inválida")
		} else if t.After(v.now) {
			v.fail(FieldBirthDate, "la fecha de nacimiento no puede ser futura")
		}
	}
	v.maxLen(FieldPhone, maxPhone)
}

func (v *rowValidator) validateProduct() {
	if v.required(FieldName) {
		v.maxLen(FieldName, maxProduct)
	}
	v.decimalAtLeast(FieldUnitPrice, minPrice, true)
	v.intAtLeast(FieldStock, 0, true)
	v.positiveID(FieldCategoryID, false)
	v.maxLen(FieldSKU, maxSKU)
}

func (v *rowValidator) validateSale() {
	if v.required(FieldReference) {
		v.maxLen(FieldReference, maxReference)
	}
	v.positiveID(FieldClientID, true)
	if v.required(FieldDate) {
		if _, err := ParseDate(v.row.Get(FieldDate)); err != nil {
			v.fail(FieldDate, "fecha inválida")
		}
	}
	if s := v.row.Get(FieldTaxRate); s != "" {
		d, err := ParseDecimal(s)
		if err != nil {
			v.fail(FieldTaxRate, "debe ser un número")
		} else if !entity.ValidTaxRate(entity.NormalizeTaxRate(d)) {
			v.fail(FieldTaxRate, "debe estar entre 0 y 1 (o entre 0 y 100 como porcentaje)")
		}
	}
	if s := v.row.Get(FieldIsPaid); s != "" {
		if _, err := ParseBool(s); err != nil {
			v.fail(FieldIsPaid, "debe ser si/no, true/false o 1/0")
		}
	}
	if s := v.row.Get(FieldPaymentMethod); s != "" && !entity.ValidPaymentMethod(s) {
		v.fail(FieldPaymentMethod, "método de pago no soportado")
	}
}

func (v *rowValidator) validateSaleItem() {
	if v.required(FieldReference) {
		v.maxLen(FieldReference, maxReference)
	}
	v.positiveID(FieldProductID, true)
	v.intAtLeast(FieldQuantity, 1, true)
	v.decimalAtLeast(FieldUnitPrice, minPrice, false)
}

// required registra el error y devuelve false si el campo está vacío.
func (v *rowValidator) required(field string) bool {
	if v.row.Get(field) == "" {
		v.fail(field, "campo requerido")
		return false
	}
	return true
}

func (v *rowValidator) maxLen(field string, n int) {
	if utf8.RuneCountInString(v.row.Get(field)) > n {
		v.fail(field, fmt.Sprintf("máximo %d caracteres", n))
	}
}

func (v *rowValidator) decimalAtLeast(field string, min decimal.Decimal, req bool) {
	s := v.row.Get(field)
	if s == "" {
		if req {
			v.fail(field, "campo requerido")
		}
		return
	}
	d, err := ParseDecimal(s)
	if err != nil {
		v.fail(field, "debe ser un número")
		return
	}
	if d.LessThan(min) {
		v.fail(field, "debe ser mayor o igual a "+min.StringFixed(2))
	}
}

func (v *rowValidator) intAtLeast(field string, min int64, req bool) {
	s := v.row.Get(field)
	if s == "" {
		if req {
			v.fail(field, "campo requerido")
		}
		return
	}
	n, err := ParseInt(s)
	if err != nil {
		v.fail(field, "debe ser un número entero")
		return
	}
	switch {
	case n < min:
		v.fail(field, fmt.Sprintf("debe ser mayor o igual a %d", min))
	case n > maxInt32:
		v.fail(field, fmt.Sprintf("debe ser menor o igual a %d", maxInt32))
	}
}

func (v *rowValidator) positiveID(field string, req bool) {
	s := v.row.Get(field)
	if s == "" {
		if req {
			v.fail(field, "campo requerido")
		}
		return
	}
	n, err := ParseInt(s)
	if err != nil || n <= 0 {
		v.fail(field, "debe ser un identificador entero positivo")
	}
}

func (v *rowValidator) fail(field, msg string) {
	v.errs = append(v.errs, ImportError{
		Row:     v.row.RowNumber,
		Sheet:   v.row.Sheet,
		Field:   field,
		Message: strings.TrimSpace(msg),
	})
}
